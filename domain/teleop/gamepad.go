package teleop

import (
	"math"
	"sync"

	customlog "github.com/open-teleop/cockpit/pkg/log"
)

// AxisReader reads the current axis state of a host gamepad device.
type AxisReader interface {
	// ReadAxes returns the device's axes normalized to [-1, 1] and whether
	// the device was present at this poll.
	ReadAxes(deviceIndex int) (axes []float64, present bool)
}

// FrameScheduler delivers the host's per-frame timing signal. The gamepad
// polling loop runs once per frame rather than on a fixed wall-clock timer.
type FrameScheduler interface {
	Frames() <-chan struct{}
}

// noDevice marks the session as having no tracked device.
const noDevice = -1

// GamepadSession owns the physical gamepad input source: a self-rescheduling
// polling loop synchronized to the frame scheduler. Start begins tracking a
// device; Stop clears the tracked index, and the loop observes the cleared
// state at the top of its next tick and exits. No zero command is sent on
// disconnect; the robot keeps its last command until another source speaks.
type GamepadSession struct {
	publisher   *CommandPublisher
	status      *StatusReporter
	multipliers *Multipliers
	axes        AxisReader
	frames      FrameScheduler
	deadzone    float64
	logger      customlog.Logger

	mu          sync.Mutex
	deviceIndex int
	loopActive  bool
}

// NewGamepadSession creates the gamepad input source. The session is
// dormant until a device connect event calls Start.
func NewGamepadSession(
	publisher *CommandPublisher,
	status *StatusReporter,
	multipliers *Multipliers,
	axes AxisReader,
	frames FrameScheduler,
	deadzone float64,
	logger customlog.Logger,
) *GamepadSession {
	return &GamepadSession{
		publisher:   publisher,
		status:      status,
		multipliers: multipliers,
		axes:        axes,
		frames:      frames,
		deadzone:    deadzone,
		logger:      logger.WithField("component", "gamepad"),
		deviceIndex: noDevice,
	}
}

// Start begins (or re-targets) the polling loop for the given device. A
// reconnect replaces the tracked index; at most one loop is active.
func (s *GamepadSession) Start(deviceIndex int, name string) {
	s.mu.Lock()
	s.deviceIndex = deviceIndex
	alreadyRunning := s.loopActive
	if !alreadyRunning {
		s.loopActive = true
	}
	s.mu.Unlock()

	s.logger.Infof("Gamepad connected: %s (index %d)", name, deviceIndex)
	if alreadyRunning {
		return
	}
	go s.pollLoop()
}

// Stop clears the tracked device index. The loop is not interrupted here;
// it observes the cleared index on its next frame and stops emitting.
func (s *GamepadSession) Stop() {
	s.mu.Lock()
	s.deviceIndex = noDevice
	s.mu.Unlock()
	s.logger.Infof("Gamepad disconnected, polling loop will stop")
}

// Tracking reports whether a device is currently tracked.
func (s *GamepadSession) Tracking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deviceIndex != noDevice
}

func (s *GamepadSession) pollLoop() {
	for range s.frames.Frames() {
		if s.tick() {
			continue
		}
		s.mu.Lock()
		// A reconnect may have landed between the tick and here.
		if s.deviceIndex != noDevice {
			s.mu.Unlock()
			continue
		}
		s.loopActive = false
		s.mu.Unlock()
		return
	}

	// Frame scheduler shut down.
	s.mu.Lock()
	s.loopActive = false
	s.mu.Unlock()
}

// tick runs one poll. It returns false when no device is tracked and the
// loop should stop rescheduling itself.
func (s *GamepadSession) tick() bool {
	s.mu.Lock()
	deviceIndex := s.deviceIndex
	s.mu.Unlock()
	if deviceIndex == noDevice {
		return false
	}

	axes, present := s.axes.ReadAxes(deviceIndex)
	if !present || len(axes) < 2 {
		// Missed tick: device vanished without a disconnect event. Keep
		// polling; only an explicit Stop ends the loop.
		return true
	}

	x, y := axes[0], axes[1]
	linearMul, angularMul := s.multipliers.Snapshot()

	// Deadzone, then linear scaling. No easing: gamepad axes are assumed
	// pre-scaled by hardware.
	linear, angular := 0.0, 0.0
	if math.Abs(y) > s.deadzone {
		linear = -y * linearMul
	}
	if math.Abs(x) > s.deadzone {
		angular = -x * angularMul
	}

	// Published every frame regardless of magnitude: frame-synchronized
	// polling is already rate-limited to the display refresh rate.
	s.publisher.Publish(linear, angular)

	if linear != 0 || angular != 0 {
		s.status.SetActive("gamepad")
	} else {
		s.status.SetIdle("gamepad")
	}
	return true
}
