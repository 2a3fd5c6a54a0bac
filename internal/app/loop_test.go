package app

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"dutybot/pkg/logx"
)

func TestLoopRunsJobsInOrder(t *testing.T) {
	t.Parallel()

	loop := NewLoop(16, logx.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = loop.Run(ctx)
	}()

	var order []int
	finished := make(chan struct{})
	for i := 1; i <= 3; i++ {
		i := i
		if !loop.Submit(func(context.Context) { order = append(order, i) }) {
			t.Fatalf("submit %d rejected", i)
		}
	}
	loop.Submit(func(context.Context) { close(finished) })

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not drain")
	}
	// order written only from the loop goroutine, read after the barrier
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("order = %v", order)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop on cancel")
	}
}

func TestLoopDropsWhenFull(t *testing.T) {
	t.Parallel()

	// Not running: the queue fills up and further submits are rejected.
	loop := NewLoop(2, logx.Nop())
	if !loop.Submit(func(context.Context) {}) || !loop.Submit(func(context.Context) {}) {
		t.Fatal("queue should accept up to its capacity")
	}
	if loop.Submit(func(context.Context) {}) {
		t.Fatal("full queue must reject")
	}
	if loop.Dropped() != 1 {
		t.Fatalf("dropped = %d, want 1", loop.Dropped())
	}
}

func TestLoopSurvivesPanic(t *testing.T) {
	t.Parallel()

	loop := NewLoop(16, logx.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = loop.Run(ctx) }()

	loop.Submit(func(context.Context) { panic("boom") })

	var ran atomic.Bool
	finished := make(chan struct{})
	loop.Submit(func(context.Context) { ran.Store(true); close(finished) })

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("loop died after panic")
	}
	if !ran.Load() {
		t.Fatal("job after panic did not run")
	}
}

func TestSubmitNil(t *testing.T) {
	t.Parallel()
	loop := NewLoop(4, logx.Nop())
	if loop.Submit(nil) {
		t.Fatal("nil job must be rejected")
	}
}
