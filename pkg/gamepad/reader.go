// Package gamepad integrates host gamepad devices: axis reads through the OS
// joystick interface, hotplug detection, and the frame timing signal driving
// the polling loop.
package gamepad

import (
	"sync"

	"github.com/0xcafed00d/joystick"

	customlog "github.com/open-teleop/cockpit/pkg/log"
)

// axisScale converts the OS driver's raw axis range to [-1, 1].
const axisScale = 32767.0

// Reader reads host gamepad axis state. It implements teleop.AxisReader.
// Device handles are opened lazily and dropped on read failure, so a device
// that vanishes mid-session reads as absent until it returns.
type Reader struct {
	mu      sync.Mutex
	devices map[int]joystick.Joystick
	logger  customlog.Logger
}

// NewReader creates an empty reader.
func NewReader(logger customlog.Logger) *Reader {
	return &Reader{
		devices: make(map[int]joystick.Joystick),
		logger:  logger.WithField("component", "gamepad-reader"),
	}
}

// ReadAxes returns the device's axes normalized to [-1, 1] and whether the
// device was present at this poll.
func (r *Reader) ReadAxes(deviceIndex int) ([]float64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	js, ok := r.devices[deviceIndex]
	if !ok {
		opened, err := joystick.Open(deviceIndex)
		if err != nil {
			return nil, false
		}
		r.logger.Debugf("Opened device %d: %s (%d axes)", deviceIndex, opened.Name(), opened.AxisCount())
		r.devices[deviceIndex] = opened
		js = opened
	}

	state, err := js.Read()
	if err != nil {
		r.logger.Debugf("Read failed on device %d, dropping handle: %v", deviceIndex, err)
		js.Close()
		delete(r.devices, deviceIndex)
		return nil, false
	}

	axes := make([]float64, len(state.AxisData))
	for i, raw := range state.AxisData {
		v := float64(raw) / axisScale
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		axes[i] = v
	}
	return axes, true
}

// Close releases all open device handles.
func (r *Reader) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for index, js := range r.devices {
		js.Close()
		delete(r.devices, index)
	}
}
