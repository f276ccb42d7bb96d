package teleop

import (
	"math"
	"time"

	"github.com/open-teleop/cockpit/pkg/easing"
	customlog "github.com/open-teleop/cockpit/pkg/log"
)

// neutralThreshold is the eased magnitude below which a touch sample is
// treated as noise and not forwarded.
const neutralThreshold = 0.01

// TouchSample is one raw virtual-joystick reading. Axes are in [-100, 100];
// a nil axis means the pointer left the active area.
type TouchSample struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

// TouchSource consumes pointer samples from the virtual joystick widget,
// applies easing and a discrete throttle, and emits velocity pairs to the
// publisher. HandleMove and HandleRelease must be called from a single
// goroutine (the widget's event stream); the throttle state is owned
// exclusively by this source.
type TouchSource struct {
	publisher   *CommandPublisher
	status      *StatusReporter
	multipliers *Multipliers
	ease        easing.Func
	clock       Clock
	throttle    time.Duration
	lastEmit    time.Time
	logger      customlog.Logger
}

// NewTouchSource creates the virtual joystick input source.
func NewTouchSource(
	publisher *CommandPublisher,
	status *StatusReporter,
	multipliers *Multipliers,
	throttle time.Duration,
	clock Clock,
	logger customlog.Logger,
) *TouchSource {
	if clock == nil {
		clock = SystemClock
	}
	return &TouchSource{
		publisher:   publisher,
		status:      status,
		multipliers: multipliers,
		ease:        easing.Quadratic,
		clock:       clock,
		throttle:    throttle,
		logger:      logger.WithField("component", "touch"),
	}
}

// HandleMove processes one pointer-move sample. Samples with an absent axis
// are dropped without touching the throttle state; samples arriving before
// the throttle interval has elapsed are rejected without resetting the
// timer. Accepted samples whose eased output is near-neutral on both axes
// are dropped as noise after consuming the throttle slot.
func (s *TouchSource) HandleMove(sample TouchSample) {
	if sample.X == nil || sample.Y == nil {
		return
	}

	now := s.clock.Now()
	if !s.lastEmit.IsZero() && now.Sub(s.lastEmit) < s.throttle {
		return
	}
	s.lastEmit = now

	linearMul, angularMul := s.multipliers.Snapshot()
	linear := s.ease(*sample.Y) * linearMul
	// x is inverted so pushing right yields a clockwise (negative) turn.
	angular := -s.ease(*sample.X) * angularMul

	if math.Abs(linear) <= neutralThreshold && math.Abs(angular) <= neutralThreshold {
		return
	}

	s.publisher.Publish(linear, angular)
	s.status.SetActive("touch")
}

// HandleRelease processes a pointer-release event: an unconditional zero
// command, bypassing both the throttle and the magnitude gate, so a released
// joystick reliably stops the robot.
func (s *TouchSource) HandleRelease() {
	s.publisher.Publish(0, 0)
	s.status.SetIdle("touch")
}
