package meta

import "time"

// SetClock swaps the commit clock and returns a restore func.
func SetClock(f func() time.Time) func() {
	orig := now
	now = f
	return func() { now = orig }
}
