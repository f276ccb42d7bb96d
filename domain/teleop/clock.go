package teleop

import "time"

// Clock abstracts wall-clock reads so throttle timing and command stamps are
// testable with a synthetic clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the production clock.
var SystemClock Clock = systemClock{}
