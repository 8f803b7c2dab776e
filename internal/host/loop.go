package host

import (
	"context"
	"time"
)

// Drive flushes q frames times with synthetic timestamps spaced by interval,
// starting at start. It stops early once nothing is pending and returns the
// number of flushes that ran a callback.
func Drive(q *Queue, frames int, start time.Time, interval time.Duration) int {
	n := 0
	now := start
	for i := 0; i < frames; i++ {
		if q.Pending() == 0 {
			break
		}
		if q.Flush(now) > 0 {
			n++
		}
		now = now.Add(interval)
	}
	return n
}

// Run flushes q at fps on the calling goroutine until ctx is done. Resize
// events posted through resize are applied between frames, so the field
// never sees a resize and a frame at the same time.
func Run(ctx context.Context, q *Queue, fps int, resize <-chan func()) error {
	if fps <= 0 {
		fps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn, ok := <-resize:
			if !ok {
				resize = nil
				continue
			}
			fn()
		case now := <-ticker.C:
			q.Flush(now)
		}
	}
}
