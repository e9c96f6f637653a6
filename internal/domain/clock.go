package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock is a package-level time source so tests can freeze the scrape instant via SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// ScrapeInstant returns the current UTC time truncated to whole seconds, the
// resolution of the run stamp embedded in object keys.
func ScrapeInstant() time.Time {
	return clock.Now().UTC().Truncate(time.Second)
}
