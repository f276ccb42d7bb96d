package teleop

import (
	"testing"

	customlog "github.com/open-teleop/cockpit/pkg/log"
	"github.com/open-teleop/cockpit/pkg/wire"
)

func TestTelemetryRelayFanOut(t *testing.T) {
	relay := NewTelemetryRelay(customlog.NewNopLogger())

	var first, second []TelemetryFrame
	relay.AddSink(func(f TelemetryFrame) { first = append(first, f) })
	relay.AddSink(func(f TelemetryFrame) { second = append(second, f) })

	payload := []byte(`{"soil_moisture":0.42}`)
	relay.HandleFrame(&wire.Frame{
		Channel:     "teleop.sensor.soil",
		TimestampNs: 42,
		Payload:     payload,
	})

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("Expected both sinks to receive the frame, got %d/%d", len(first), len(second))
	}
	if first[0].Channel != "teleop.sensor.soil" || first[0].TimestampNs != 42 {
		t.Errorf("Unexpected frame metadata: %+v", first[0])
	}
	if string(first[0].Payload) != string(payload) {
		t.Errorf("Unexpected payload: %s", first[0].Payload)
	}

	// The relayed payload must not alias the receive buffer.
	payload[2] = 'X'
	if string(first[0].Payload) == string(payload) {
		t.Error("Expected payload copied, not aliased")
	}
}
