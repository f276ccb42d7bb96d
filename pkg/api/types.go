package api

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/open-teleop/cockpit/domain/teleop"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Control message types sent by the operator UI over /ws/control.
const (
	MsgTypeMove                = "move"
	MsgTypeRelease             = "release"
	MsgTypeGamepadConnected    = "gamepad_connected"
	MsgTypeGamepadDisconnected = "gamepad_disconnected"
)

// ControlMessage is one frame from the operator UI. Move frames carry the
// virtual joystick axes in [-100, 100]; a missing axis means the pointer
// left the active area. Gamepad frames carry the browser-observed device
// identity for sessions driven from the UI side.
type ControlMessage struct {
	Type        string   `json:"type"`
	X           *float64 `json:"x,omitempty"`
	Y           *float64 `json:"y,omitempty"`
	DeviceIndex *int     `json:"device_index,omitempty"`
	DeviceID    string   `json:"device_id,omitempty"`
}

// Push message types sent to the UI over /ws/status.
const (
	MsgTypeStatus    = "status"
	MsgTypeTelemetry = "telemetry"
)

// StatusPush carries both status values to the UI.
type StatusPush struct {
	Type     string        `json:"type"`
	Link     teleop.Status `json:"link"`
	Activity teleop.Status `json:"activity"`
}

// TelemetryPush relays one sensor frame to the UI.
type TelemetryPush struct {
	Type  string                `json:"type"`
	Frame teleop.TelemetryFrame `json:"frame"`
}

// MultipliersBody is the request/response shape for the multipliers API.
type MultipliersBody struct {
	Linear     float64 `json:"linear"`
	Angular    float64 `json:"angular"`
	LinearMax  float64 `json:"linear_max,omitempty"`
	AngularMax float64 `json:"angular_max,omitempty"`
}
