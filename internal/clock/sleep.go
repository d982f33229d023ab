// Package clock holds the waiting primitives the retry loops share.
package clock

import (
	"context"
	"time"
)

// SleepWithContext blocks for d unless ctx ends first, in which case ctx.Err() is returned.
// A non-positive d only reports whether ctx is still alive.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
