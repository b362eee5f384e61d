package domain

import "github.com/jonboulle/clockwork"

// clock stamps created_at and default recorded_at values. Tests freeze it via SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source for constructors. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
