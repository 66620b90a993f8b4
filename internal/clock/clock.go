package clock

import "time"

// Clock returns the current time. Tests inject a Fixed clock.
type Clock interface {
	Now() time.Time
}

// Real implements Clock using the system time.
type Real struct{}

func (Real) Now() time.Time {
	return time.Now()
}

// Fixed implements Clock by always returning the same instant.
type Fixed struct {
	At time.Time
}

func (f Fixed) Now() time.Time {
	return f.At
}
