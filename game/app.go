package game

import (
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/backdrop/anim"
	"github.com/pthm-cable/backdrop/config"
	"github.com/pthm-cable/backdrop/renderer"
	"github.com/pthm-cable/backdrop/telemetry"
	"github.com/pthm-cable/backdrop/theme"
	"github.com/pthm-cable/backdrop/ui"
)

// App hosts a backdrop in a raylib window: it owns the frame queue, the
// theme toggle and the diagnostic overlays. The window must be open before
// NewApp is called.
type App struct {
	cfg      *config.Config
	theme    *theme.State
	queue    *anim.FrameQueue
	backdrop *Backdrop

	toggle   *ui.ThemeToggle
	hud      *ui.HUD
	overlays *ui.OverlayRegistry

	screenWidth  int32
	screenHeight int32

	unsubscribe func()
}

// NewApp creates the backdrop for the open window and mounts it.
func NewApp(cfg *config.Config, st *theme.State, opts Options) (*App, error) {
	q := anim.NewFrameQueue()
	surface := renderer.AcquireSurface(st.Palette())

	b, err := New(cfg, st, q, surface, opts)
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:          cfg,
		theme:        st,
		queue:        q,
		backdrop:     b,
		toggle:       ui.NewThemeToggle(),
		hud:          ui.NewHUD(),
		overlays:     ui.NewOverlayRegistry(),
		screenWidth:  int32(rl.GetScreenWidth()),
		screenHeight: int32(rl.GetScreenHeight()),
	}
	a.hud.SetTheme(ui.ThemeFor(st.Palette()))
	a.unsubscribe = st.Subscribe(func(bool) {
		a.hud.SetTheme(ui.ThemeFor(st.Palette()))
	})

	b.Mount()
	return a, nil
}

// Run draws frames until the window is closed or maxFrames is reached
// (0 = unlimited).
func (a *App) Run(maxFrames uint64) {
	for !rl.WindowShouldClose() {
		a.Frame()
		if maxFrames > 0 && a.backdrop.Frame() >= maxFrames {
			slog.Info("max frames reached", "frame", a.backdrop.Frame())
			return
		}
	}
}

// Frame runs one host frame.
func (a *App) Frame() {
	b := a.backdrop
	b.BeginFrame()

	a.handleInput()

	rl.BeginDrawing()
	if !b.Mounted() {
		// No surface: keep the page colour so the UI stays readable.
		rl.ClearBackground(a.theme.Palette().Background)
	}
	a.queue.RunFrame()

	b.Phase(telemetry.PhaseUI)
	a.drawUI()

	b.Phase(telemetry.PhasePresent)
	rl.EndDrawing()

	b.EndFrame()
}

func (a *App) drawUI() {
	if a.toggle.Draw(a.theme.Dark(), a.screenWidth, a.screenHeight) {
		a.toggleTheme()
	}

	if a.overlays.IsEnabled(ui.OverlayHUD) {
		data := ui.HUDData{
			FPS:   rl.GetFPS(),
			Frame: a.backdrop.Frame(),
			Links: a.backdrop.FrameStats().Links,
			Dark:  a.theme.Dark(),
		}
		if f := a.backdrop.Field(); f != nil {
			data.Particles = f.Len()
			data.Width, data.Height = f.Bounds()
		}
		a.hud.Draw(data)
	}
	if a.overlays.IsEnabled(ui.OverlayPerf) {
		a.hud.DrawPerf(a.backdrop.PerfStats(), a.screenWidth)
	}
	if a.overlays.IsEnabled(ui.OverlayHelp) {
		a.hud.DrawHelp(a.overlays, a.screenHeight)
	}
}

func (a *App) toggleTheme() {
	dark, err := a.theme.Toggle()
	if err != nil {
		slog.Warn("failed to persist theme", "dark", dark, "error", err)
	}
}

func (a *App) saveSnapshot() {
	path, err := a.backdrop.SaveSnapshot()
	if err != nil {
		slog.Warn("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "frame", a.backdrop.Frame())
}

// Close releases the backdrop. The caller closes the window.
func (a *App) Close() error {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	if err := a.backdrop.Close(); err != nil {
		return fmt.Errorf("closing backdrop: %w", err)
	}
	return nil
}
