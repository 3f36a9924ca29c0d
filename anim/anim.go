// Package anim schedules per-frame callbacks and wraps the recurring
// animation callback in a handle that can be stopped.
package anim

import (
	"context"
	"sync"
	"time"
)

// FrameID identifies a pending frame callback.
type FrameID uint64

// FrameQueue holds callbacks to run on the next frame. A callback requested
// while a frame is running runs on the following frame.
type FrameQueue struct {
	mu      sync.Mutex
	nextID  FrameID
	pending map[FrameID]func()
	order   []FrameID
	frames  uint64
}

// NewFrameQueue creates an empty queue.
func NewFrameQueue() *FrameQueue {
	return &FrameQueue{pending: make(map[FrameID]func())}
}

// RequestFrame schedules fn for the next frame.
func (q *FrameQueue) RequestFrame(fn func()) FrameID {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.nextID++
	id := q.nextID
	q.pending[id] = fn
	q.order = append(q.order, id)
	return id
}

// CancelFrame drops a pending callback. Unknown or already-run ids are
// ignored.
func (q *FrameQueue) CancelFrame(id FrameID) {
	q.mu.Lock()
	delete(q.pending, id)
	q.mu.Unlock()
}

// Pending reports how many callbacks are waiting.
func (q *FrameQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Frames returns the number of frames run so far.
func (q *FrameQueue) Frames() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.frames
}

// RunFrame runs the callbacks that were pending when it was called, in
// request order. A callback cancelled by an earlier one in the same frame
// does not run.
func (q *FrameQueue) RunFrame() {
	q.mu.Lock()
	batch := q.order
	q.order = nil
	q.frames++
	q.mu.Unlock()

	for _, id := range batch {
		q.mu.Lock()
		fn, ok := q.pending[id]
		delete(q.pending, id)
		q.mu.Unlock()
		if ok {
			fn()
		}
	}
}

// Scheduler is the per-frame callback primitive a Handle runs on.
type Scheduler interface {
	RequestFrame(fn func()) FrameID
	CancelFrame(id FrameID)
}

// Handle is a running recurring frame task.
type Handle struct {
	mu      sync.Mutex
	sched   Scheduler
	step    func()
	id      FrameID
	stopped bool
}

// Start runs step once per frame on sched until the returned handle is
// stopped. The first call happens on the next frame.
func Start(sched Scheduler, step func()) *Handle {
	h := &Handle{sched: sched, step: step}
	h.mu.Lock()
	h.id = sched.RequestFrame(h.tick)
	h.mu.Unlock()
	return h
}

func (h *Handle) tick() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.mu.Unlock()

	h.step()

	h.mu.Lock()
	defer h.mu.Unlock()
	// step may have stopped us
	if !h.stopped {
		h.id = h.sched.RequestFrame(h.tick)
	}
}

// Stop cancels the pending frame so step is never called again. A step
// already running (Stop called from inside step, or from another goroutine
// mid-frame) finishes, and nothing further is scheduled. Stop is idempotent.
func (h *Handle) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return
	}
	h.stopped = true
	h.sched.CancelFrame(h.id)
}

// Stopped reports whether Stop has been called.
func (h *Handle) Stopped() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stopped
}

// RunTicker calls frame at the given interval until ctx is done. It returns
// ctx.Err(). Headless runs pass a function that runs a FrameQueue.
func RunTicker(ctx context.Context, interval time.Duration, frame func()) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			frame()
		}
	}
}
