// Package clock provides a time source that can be faked in tests.
package clock

import "time"

// Clock abstracts time.Now.
type Clock interface {
	Now() time.Time
}

// System is the real clock.
type System struct{}

// Now returns the current UTC time.
func (System) Now() time.Time {
	return time.Now().UTC()
}
