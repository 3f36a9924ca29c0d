package game

import (
	"context"
	"log/slog"
	"time"

	"github.com/pthm-cable/backdrop/anim"
)

// HeadlessOptions controls a run without a window.
type HeadlessOptions struct {
	Interval    time.Duration // Frame spacing; zero runs frames back to back
	MaxFrames   uint64        // Stop after this many frames (0 = until ctx is done)
	ToggleEvery uint64        // Flip the theme every N frames (0 = never)
}

// RunHeadless drives the backdrop's frames from q until ctx is done or
// MaxFrames is reached. Reaching MaxFrames returns nil; otherwise the
// context error is returned.
func RunHeadless(ctx context.Context, b *Backdrop, q *anim.FrameQueue, opts HeadlessOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := false
	frame := func() {
		if done {
			return
		}
		b.RunFrame(q)
		if opts.ToggleEvery > 0 && b.Frame()%opts.ToggleEvery == 0 {
			if _, err := b.theme.Toggle(); err != nil {
				slog.Warn("failed to persist theme", "error", err)
			}
		}
		if opts.MaxFrames > 0 && b.Frame() >= opts.MaxFrames {
			slog.Info("max frames reached", "frame", b.Frame())
			done = true
			cancel()
		}
	}

	var err error
	if opts.Interval > 0 {
		err = anim.RunTicker(ctx, opts.Interval, frame)
	} else {
		for ctx.Err() == nil {
			frame()
		}
		err = ctx.Err()
	}
	if done {
		return nil
	}
	return err
}
