// Package clock abstracts wall-clock reads so timeouts can be tested.
package clock

import "time"

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// Real implements Clock using the system time.
type Real struct{}

// Now returns the current time.
func (c *Real) Now() time.Time {
	return time.Now()
}

// New returns the system clock.
func New() Clock {
	return &Real{}
}
