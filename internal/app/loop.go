package app

import (
	"context"
	"sync/atomic"
	"time"

	"dutybot/pkg/logx"
)

// Loop is the single-writer dispatch queue. Chat updates and reminder jobs
// all run here one at a time, so the schedule, roster and admin session
// state need no locks.
type Loop struct {
	log     logx.Logger
	queue   chan func(context.Context)
	dropped atomic.Int64
}

func NewLoop(size int, log logx.Logger) *Loop {
	if size <= 0 {
		size = 256
	}
	return &Loop{
		log:   log,
		queue: make(chan func(context.Context), size),
	}
}

// Submit enqueues fn for serialized execution. Returns false (and counts
// the drop) when the queue is full; callers decide whether that is fatal.
func (l *Loop) Submit(fn func(ctx context.Context)) bool {
	if fn == nil {
		return false
	}
	select {
	case l.queue <- fn:
		return true
	default:
		l.dropped.Add(1)
		return false
	}
}

// Run drains the queue until ctx is canceled. A panicking job is logged
// and the loop keeps going.
func (l *Loop) Run(ctx context.Context) error {
	report := time.NewTicker(5 * time.Second)
	defer report.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-l.queue:
			l.runOne(ctx, fn)
		case <-report.C:
			if n := l.dropped.Swap(0); n > 0 {
				l.log.Warn("event loop overloaded, jobs dropped",
					logx.Int64("dropped", n),
					logx.Int("queue_cap", cap(l.queue)))
			}
		}
	}
}

func (l *Loop) runOne(ctx context.Context, fn func(ctx context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("panic in event loop job", logx.Any("panic", r))
		}
	}()
	fn(ctx)
}

// Dropped returns the drops since the last overload report.
func (l *Loop) Dropped() int64 { return l.dropped.Load() }
