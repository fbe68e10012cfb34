// Package clock provides time abstractions for production and testing
package clock

import "time"

// Clock tells the current time
type Clock interface {
	Now() time.Time
}

// SystemClock provides production time implementation using the standard library
type SystemClock struct{}

// Now returns the current time
func (SystemClock) Now() time.Time {
	return time.Now()
}
