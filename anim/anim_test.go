package anim

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestFrameQueueRunsOnlyPendingCallbacks(t *testing.T) {
	q := NewFrameQueue()

	var order []string
	q.RequestFrame(func() {
		order = append(order, "a")
		// Requested mid-frame: runs next frame
		q.RequestFrame(func() { order = append(order, "c") })
	})
	q.RequestFrame(func() { order = append(order, "b") })

	q.RunFrame()
	if got := len(order); got != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("first frame ran %v, want [a b]", order)
	}
	if q.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1", q.Pending())
	}

	q.RunFrame()
	if len(order) != 3 || order[2] != "c" {
		t.Fatalf("second frame ran %v, want trailing c", order)
	}
	if q.Frames() != 2 {
		t.Errorf("Frames() = %d, want 2", q.Frames())
	}
}

func TestFrameQueueCancel(t *testing.T) {
	q := NewFrameQueue()
	ran := false
	id := q.RequestFrame(func() { ran = true })
	q.CancelFrame(id)
	q.CancelFrame(id) // unknown ids are ignored
	q.RunFrame()

	if ran {
		t.Error("cancelled callback ran")
	}
	if q.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", q.Pending())
	}
}

func TestHandleRunsEveryFrameUntilStopped(t *testing.T) {
	q := NewFrameQueue()
	calls := 0
	h := Start(q, func() { calls++ })

	if calls != 0 {
		t.Fatal("step must not run before the first frame")
	}
	for i := 0; i < 5; i++ {
		q.RunFrame()
	}
	if calls != 5 {
		t.Fatalf("calls = %d after 5 frames, want 5", calls)
	}

	h.Stop()
	h.Stop()
	for i := 0; i < 5; i++ {
		q.RunFrame()
	}
	if calls != 5 {
		t.Errorf("calls = %d after Stop, want 5", calls)
	}
	if q.Pending() != 0 {
		t.Errorf("Pending() = %d after Stop, want 0 (no orphaned callbacks)", q.Pending())
	}
	if !h.Stopped() {
		t.Error("Stopped() = false after Stop")
	}
}

func TestHandleStopFromInsideStep(t *testing.T) {
	q := NewFrameQueue()
	calls := 0
	var h *Handle
	h = Start(q, func() {
		calls++
		if calls == 3 {
			h.Stop()
		}
	})

	for i := 0; i < 10; i++ {
		q.RunFrame()
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if q.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", q.Pending())
	}
}

func TestRestartDoesNotAccumulateCallbacks(t *testing.T) {
	q := NewFrameQueue()
	var calls int
	var h *Handle
	for i := 0; i < 10; i++ {
		if h != nil {
			h.Stop()
		}
		h = Start(q, func() { calls++ })
	}

	q.RunFrame()
	if calls != 1 {
		t.Errorf("calls = %d after restarts, want 1", calls)
	}
	if q.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", q.Pending())
	}
	h.Stop()
}

func TestRunTickerStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	q := NewFrameQueue()
	var calls atomic.Int64
	h := Start(q, func() { calls.Add(1) })
	defer h.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- RunTicker(ctx, time.Millisecond, q.RunFrame) }()

	deadline := time.After(2 * time.Second)
	for calls.Load() < 3 {
		select {
		case <-deadline:
			t.Fatal("ticker did not drive frames")
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("RunTicker error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("RunTicker did not return after cancel")
	}
}
