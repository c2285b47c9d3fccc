package staking

import "time"

// Clock supplies the current time to every operation that needs it, so lock
// periods and yield accrual stay deterministic under test.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to the Clock interface.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
func SystemClock() Clock {
	return ClockFunc(time.Now)
}
