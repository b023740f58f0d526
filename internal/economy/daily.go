package economy

import (
	"time"

	"tapearn_webapp/internal/clock"
)

// ShouldReset reports whether a daily counter whose last reset happened on
// lastReset's UTC date must be zeroed at `now`. A zero lastReset means the
// counter has never been stamped and always resets. Each category is checked
// on its own; an ads reset never depends on a taps reset.
func ShouldReset(lastReset, now time.Time) bool {
	if lastReset.IsZero() {
		return true
	}
	return clock.DateOf(now).After(clock.DateOf(lastReset))
}
