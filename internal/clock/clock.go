// Package clock provides an injectable time source so that hold-expiry
// logic can be tested against a fixed instant.
package clock

import "time"

// Clock yields the current time.  All timestamps in this project are UTC.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// NewSystem returns a clock backed by time.Now in UTC.
func NewSystem() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

type fixedClock struct {
	now time.Time
}

// NewFixed returns a clock frozen at the given instant.  Tests use it to
// place bookings exactly at, before or after the hold window boundary.
func NewFixed(t time.Time) Clock {
	return fixedClock{now: t.UTC()}
}

func (f fixedClock) Now() time.Time {
	return f.now
}
