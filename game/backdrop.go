package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/backdrop/anim"
	"github.com/pthm-cable/backdrop/config"
	"github.com/pthm-cable/backdrop/systems"
	"github.com/pthm-cable/backdrop/telemetry"
	"github.com/pthm-cable/backdrop/theme"
)

// Options holds runtime options for a backdrop.
type Options struct {
	Seed        int64
	LogStats    bool                // Log window and perf stats via slog
	OutputDir   string              // CSV/config output; empty disables
	SnapshotDir string              // Where SaveSnapshot writes
	Restore     *telemetry.Snapshot // Pool for the first mount, if set
}

// paletteSetter is implemented by surfaces whose background and blend mode
// follow the theme.
type paletteSetter interface {
	SetPalette(theme.Palette)
}

// finisher is implemented by surfaces that hold state open between Clear
// and the end of the frame.
type finisher interface {
	Finish()
}

// Backdrop is the view that owns the particle field. It regenerates the
// pool on every mount and remounts when the theme changes.
type Backdrop struct {
	cfg     *config.Config
	opts    Options
	rng     *rand.Rand
	params  systems.FieldParams
	theme   *theme.State
	sched   anim.Scheduler
	surface systems.Surface

	unsubscribe func()

	// Per-mount state
	field   *systems.Field
	palette theme.Palette
	handle  *anim.Handle

	frame     uint64
	lastStats systems.FrameStats
	restore   []systems.Particle

	perf      *telemetry.PerfCollector
	collector *telemetry.Collector
	bookmarks *telemetry.BookmarkDetector
	output    *telemetry.OutputManager
}

// New creates a backdrop bound to a theme state, a frame scheduler and a
// drawing surface. A nil surface is allowed: the backdrop then never draws.
func New(cfg *config.Config, st *theme.State, sched anim.Scheduler, surface systems.Surface, opts Options) (*Backdrop, error) {
	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	b := &Backdrop{
		cfg:       cfg,
		opts:      opts,
		rng:       rand.New(rand.NewSource(opts.Seed)),
		params:    systems.ParamsFromConfig(cfg.Field),
		theme:     st,
		sched:     sched,
		surface:   surface,
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		collector: telemetry.NewCollector(cfg.Derived.StatsFrames),
		bookmarks: telemetry.NewBookmarkDetector(10),
		output:    output,
	}
	if opts.Restore != nil {
		b.restore = opts.Restore.ToParticles()
	}
	b.unsubscribe = st.Subscribe(b.onThemeChange)
	return b, nil
}

// Mount builds a fresh pool sized to the surface and starts the frame task.
// Mounting an already mounted backdrop is a no-op.
func (b *Backdrop) Mount() {
	if b.handle != nil {
		return
	}
	if b.surface == nil {
		slog.Debug("no drawing surface, backdrop disabled")
		return
	}

	b.palette = b.theme.Palette()
	if ps, ok := b.surface.(paletteSetter); ok {
		ps.SetPalette(b.palette)
	}

	w, h := b.surface.Size()
	if b.restore != nil {
		b.field = systems.NewFieldFrom(b.restore, b.params, w, h)
		b.restore = nil
	} else {
		b.field = systems.NewField(b.rng, b.params, w, h)
	}

	b.handle = anim.Start(b.sched, b.step)
	slog.Debug("backdrop mounted", "particles", b.field.Len(), "width", w, "height", h, "dark", b.palette.Dark)
}

// Unmount stops the frame task. The pool is dropped; the next Mount builds
// a new one. Safe to call when not mounted.
func (b *Backdrop) Unmount() {
	if b.handle == nil {
		return
	}
	b.handle.Stop()
	b.handle = nil
	b.field = nil
}

// Mounted reports whether the frame task is running.
func (b *Backdrop) Mounted() bool {
	return b.handle != nil
}

// onThemeChange tears the effect down and starts it again with the new
// palette and a fresh pool.
func (b *Backdrop) onThemeChange(dark bool) {
	if b.handle == nil {
		return
	}
	b.Unmount()
	b.Mount()
	b.collector.RecordRemount()
	slog.Info("theme changed", "dark", dark)
}

// Resize updates the field bounds. The pool is kept as is; particles left
// outside the new bounds wrap back on their next frame.
func (b *Backdrop) Resize(width, height float32) {
	if b.field == nil {
		return
	}
	b.field.Resize(width, height)
	b.collector.RecordResize()
	slog.Debug("backdrop resized", "width", width, "height", height)
}

// step is the recurring frame callback.
func (b *Backdrop) step() {
	b.perf.StartPhase(telemetry.PhaseSimulate)
	b.lastStats = systems.RenderFrame(b.field, b.surface, b.palette)
	if f, ok := b.surface.(finisher); ok {
		f.Finish()
	}
}

// BeginFrame marks the start of a host frame for timing.
func (b *Backdrop) BeginFrame() {
	b.perf.StartFrame()
}

// Phase marks the start of a named timing phase within the frame.
func (b *Backdrop) Phase(name string) {
	b.perf.StartPhase(name)
}

// EndFrame closes the host frame, records it and flushes telemetry when a
// window is complete.
func (b *Backdrop) EndFrame() {
	work := b.perf.EndFrame()
	b.frame++
	b.collector.RecordFrame(work, b.lastStats.Links)
	b.lastStats = systems.FrameStats{}

	if b.collector.ShouldFlush(b.frame) {
		b.flushStats()
	}
}

func (b *Backdrop) flushStats() {
	state := telemetry.FieldState{Dark: b.palette.Dark}
	if b.field != nil {
		state.Particles = b.field.Len()
		state.Width, state.Height = b.field.Bounds()
	}
	window := b.collector.Flush(b.frame, state)
	perf := b.perf.Stats()
	marks := b.bookmarks.Check(window)

	if b.opts.LogStats {
		slog.Info("window", "stats", window)
		slog.Info("perf", "stats", perf)
		for _, bm := range marks {
			bm.LogBookmark()
		}
	}
	if err := b.output.WriteFrames(window); err != nil {
		slog.Error("failed to write frame stats", "error", err)
	}
	if err := b.output.WritePerf(perf, b.frame); err != nil {
		slog.Error("failed to write perf stats", "error", err)
	}
}

// RunFrame runs one host frame on q with timing around it. Headless runs
// use it as their ticker callback.
func (b *Backdrop) RunFrame(q *anim.FrameQueue) {
	b.BeginFrame()
	q.RunFrame()
	b.EndFrame()
}

// Field returns the current pool, or nil when unmounted.
func (b *Backdrop) Field() *systems.Field {
	return b.field
}

// Frame returns the number of host frames completed.
func (b *Backdrop) Frame() uint64 {
	return b.frame
}

// FrameStats returns what the current host frame has drawn so far.
func (b *Backdrop) FrameStats() systems.FrameStats {
	return b.lastStats
}

// Palette returns the palette of the current mount.
func (b *Backdrop) Palette() theme.Palette {
	return b.palette
}

// PerfStats returns the rolling frame timing statistics.
func (b *Backdrop) PerfStats() telemetry.PerfStats {
	return b.perf.Stats()
}

// SaveSnapshot writes the current pool to the snapshot directory.
func (b *Backdrop) SaveSnapshot() (string, error) {
	if b.field == nil {
		return "", fmt.Errorf("backdrop is not mounted")
	}
	if b.opts.SnapshotDir == "" {
		return "", fmt.Errorf("no snapshot directory configured")
	}
	snap := telemetry.CaptureField(b.field, b.opts.Seed, b.palette.Dark, b.frame)
	return telemetry.SaveSnapshot(snap, b.opts.SnapshotDir)
}

// Close unmounts, drops the theme subscription and closes output files.
func (b *Backdrop) Close() error {
	b.Unmount()
	if b.unsubscribe != nil {
		b.unsubscribe()
		b.unsubscribe = nil
	}
	start := time.Now()
	err := b.output.Close()
	slog.Debug("backdrop closed", "frames", b.frame, "close_ms", time.Since(start).Milliseconds())
	return err
}
