package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/backdrop/anim"
	"github.com/pthm-cable/backdrop/config"
	"github.com/pthm-cable/backdrop/game"
	"github.com/pthm-cable/backdrop/renderer"
	"github.com/pthm-cable/backdrop/telemetry"
	"github.com/pthm-cable/backdrop/theme"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshot files")
	loadSnapshot := flag.String("load-snapshot", "", "Start from a saved particle pool")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	stateFile := flag.String("state-file", "", "Theme state file (empty = config, then user config dir)")
	dark := flag.Bool("dark", false, "Start in dark mode when no theme is persisted")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxFrames := flag.Uint64("max-frames", 0, "Stop after N frames (0 = unlimited)")
	toggleEvery := flag.Uint64("toggle-every", 0, "Headless: flip the theme every N frames (0 = never)")
	fast := flag.Bool("fast", false, "Headless: run frames back to back instead of at target_fps")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if isFlagSet("dark") {
		cfg.Theme.Dark = *dark
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	st, err := restoreTheme(cfg, *stateFile)
	if err != nil {
		slog.Warn("failed to read theme state, using default", "error", err)
	}

	opts := game.Options{
		Seed:        rngSeed,
		LogStats:    *logStats,
		OutputDir:   *outputDir,
		SnapshotDir: *snapshotDir,
	}
	if *loadSnapshot != "" {
		snap, err := telemetry.LoadSnapshot(*loadSnapshot)
		if err != nil {
			slog.Error("failed to load snapshot", "error", err)
			os.Exit(1)
		}
		opts.Restore = snap
	}

	if *headless {
		if err := runHeadless(cfg, st, opts, *maxFrames, *toggleEvery, *fast); err != nil {
			slog.Error("headless run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	// Graphical mode
	if cfg.Screen.Resizable {
		rl.SetConfigFlags(rl.FlagWindowResizable)
	}
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	app, err := game.NewApp(cfg, st, opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		return
	}
	defer func() {
		if err := app.Close(); err != nil {
			slog.Error("failed to close", "error", err)
		}
	}()

	slog.Info("starting backdrop", "seed", rngSeed, "dark", st.Dark())
	app.Run(*maxFrames)
}

func runHeadless(cfg *config.Config, st *theme.State, opts game.Options, maxFrames, toggleEvery uint64, fast bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	q := anim.NewFrameQueue()
	surface := renderer.NewCountingSurface(cfg.Derived.ScreenW32, cfg.Derived.ScreenH32)
	b, err := game.New(cfg, st, q, surface, opts)
	if err != nil {
		return err
	}
	defer b.Close()

	interval := time.Duration(cfg.Derived.FrameInterval * float64(time.Second))
	if fast {
		interval = 0
	}

	slog.Info("starting headless backdrop",
		"seed", opts.Seed,
		"dark", st.Dark(),
		"max_frames", maxFrames,
		"interval", interval,
	)

	b.Mount()
	err = game.RunHeadless(ctx, b, q, game.HeadlessOptions{
		Interval:    interval,
		MaxFrames:   maxFrames,
		ToggleEvery: toggleEvery,
	})
	if errors.Is(err, context.Canceled) {
		slog.Info("interrupted", "frame", b.Frame())
		return nil
	}
	if err == nil {
		slog.Info("headless run finished",
			"frames", b.Frame(),
			"clears", surface.Clears,
			"circles", surface.Circles,
			"lines", surface.Lines,
		)
	}
	return err
}

// restoreTheme loads the persisted theme flag, falling back to the
// configured default. The returned state is usable even with an error.
func restoreTheme(cfg *config.Config, flagPath string) (*theme.State, error) {
	path := flagPath
	if path == "" {
		path = cfg.Theme.StateFile
	}
	if path == "" {
		p, err := theme.DefaultStatePath()
		if err != nil {
			slog.Warn("no user config dir, theme will not persist", "error", err)
			return theme.NewState(cfg.Theme.Dark, nil), nil
		}
		path = p
	}
	return theme.Restore(theme.NewStore(path), cfg.Theme.Dark)
}

func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
