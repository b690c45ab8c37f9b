package updater

import (
	"context"
	"time"
)

// Watch invokes the gated update once per day at the given wall-clock time
// until ctx is cancelled. Cycle errors are recorded in the audit log and
// do not stop the loop.
func (u *Updater) Watch(ctx context.Context, hour, minute int) error {
	for {
		next := nextRunAt(u.now(), hour, minute)
		timer := time.NewTimer(next.Sub(u.now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		if _, _, err := u.RunMaybe(ctx); err != nil {
			u.log("watch", "error", 0, err.Error())
		}
	}
}

// nextRunAt returns the next occurrence of hour:minute strictly after now,
// in now's location.
func nextRunAt(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
