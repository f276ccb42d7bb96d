// Package teleop implements the operator command pipeline: two competing
// input sources (virtual joystick, physical gamepad) converge on a single
// rate-limited velocity command stream published to the robot's motion
// channel, with a status state machine reflecting stream activity.
package teleop

import (
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Vector3 defines a standard 3D vector.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Stamp is the wall-clock capture time of a command.
type Stamp struct {
	Sec     int64 `json:"sec"`
	Nanosec int64 `json:"nanosec"`
}

// Header carries the reference frame and capture time.
type Header struct {
	FrameID string `json:"frame_id"`
	Stamp   Stamp  `json:"stamp"`
}

// Twist holds the commanded velocities, matching geometry_msgs/Twist. Only
// linear.x and angular.z are driven; the remaining components stay zero.
type Twist struct {
	Linear  Vector3 `json:"linear"`
	Angular Vector3 `json:"angular"`
}

// Command is the unit the pipeline produces. Immutable once constructed;
// every publish creates a fresh instance.
type Command struct {
	Header Header `json:"header"`
	Twist  Twist  `json:"twist"`
}

// FrameID stamped on every outbound command.
const FrameID = "base_link"

// NewCommand builds a stamped command for the given velocity pair.
func NewCommand(linear, angular float64, now time.Time) Command {
	return Command{
		Header: Header{
			FrameID: FrameID,
			Stamp: Stamp{
				Sec:     now.Unix(),
				Nanosec: int64(now.Nanosecond()),
			},
		},
		Twist: Twist{
			Linear:  Vector3{X: linear},
			Angular: Vector3{Z: angular},
		},
	}
}

// Marshal serializes the command to its wire JSON shape.
func (c Command) Marshal() ([]byte, error) {
	return json.Marshal(c)
}
