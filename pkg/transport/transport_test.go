package transport

import (
	"testing"

	zmq "github.com/pebbe/zmq4"
)

func TestLifecycleEventMapping(t *testing.T) {
	tests := []struct {
		name     string
		zmqEvent zmq.Event
		want     EventType
		mapped   bool
	}{
		{"connected", zmq.EVENT_CONNECTED, EventConnected, true},
		{"disconnected maps to error", zmq.EVENT_DISCONNECTED, EventError, true},
		{"closed", zmq.EVENT_CLOSED, EventClosed, true},
		{"monitor stopped maps to closed", zmq.EVENT_MONITOR_STOPPED, EventClosed, true},
		{"retry noise dropped", zmq.EVENT_CONNECT_RETRIED, 0, false},
		{"delay noise dropped", zmq.EVENT_CONNECT_DELAYED, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, ok := lifecycleEvent(tt.zmqEvent, "tcp://robot:5555")
			if ok != tt.mapped {
				t.Fatalf("lifecycleEvent mapped=%v, want %v", ok, tt.mapped)
			}
			if ok && event.Type != tt.want {
				t.Errorf("lifecycleEvent type=%v, want %v", event.Type, tt.want)
			}
		})
	}
}

func TestEventTypeString(t *testing.T) {
	if EventConnected.String() != "connected" {
		t.Errorf("Unexpected string for EventConnected: %s", EventConnected)
	}
	if EventError.String() != "error" {
		t.Errorf("Unexpected string for EventError: %s", EventError)
	}
	if EventClosed.String() != "closed" {
		t.Errorf("Unexpected string for EventClosed: %s", EventClosed)
	}
}
