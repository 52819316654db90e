package queue

import (
	"context"
	"sync"
	"time"
)

// windowLimiter admits at most max executions per fixed window. The counter
// resets at the window boundary, so no window ever sees more than max
// executions regardless of how they cluster inside it.
type windowLimiter struct {
	max    int
	window time.Duration
	now    func() time.Time

	mu          sync.Mutex
	windowStart time.Time
	count       int
}

func newWindowLimiter(max int, window time.Duration) *windowLimiter {
	return &windowLimiter{
		max:    max,
		window: window,
		now:    time.Now,
	}
}

// reserve claims a slot in the current window. When the window is full it
// reports how long until the window boundary.
func (l *windowLimiter) reserve() (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.windowStart) >= l.window {
		l.windowStart = now
		l.count = 0
	}
	if l.count < l.max {
		l.count++
		return true, 0
	}
	return false, l.window - now.Sub(l.windowStart)
}

// Wait blocks until the current window has capacity or the context is
// cancelled.
func (l *windowLimiter) Wait(ctx context.Context) error {
	for {
		ok, wait := l.reserve()
		if ok {
			return nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
