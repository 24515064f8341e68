// Package clock holds context-aware waiting helpers.
package clock

import (
	"context"
	"time"
)

// SleepWithContext blocks for d or until ctx is done. A non-positive d only
// reports whether ctx is already done.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PollUntil calls check every interval until it reports done, returns an
// error, or ctx is canceled. The first check runs immediately.
func PollUntil(ctx context.Context, interval time.Duration, check func(context.Context) (bool, error)) error {
	for {
		done, err := check(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if err := SleepWithContext(ctx, interval); err != nil {
			return err
		}
	}
}
