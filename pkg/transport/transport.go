// Package transport maintains the publish/subscribe link to the robot
// gateway and surfaces its lifecycle as a small closed set of events.
package transport

import (
	"errors"

	zmq "github.com/pebbe/zmq4"

	wirefb "github.com/open-teleop/cockpit/pkg/flatbuffers/cockpit/wire"
	"github.com/open-teleop/cockpit/pkg/wire"
)

// Common errors
var (
	ErrClosed       = errors.New("transport is closed")
	ErrNotConnected = errors.New("transport is not connected")
	ErrRunning      = errors.New("transport already started")
)

// EventType identifies a link lifecycle transition.
type EventType int

const (
	EventConnected EventType = iota
	EventError
	EventClosed
)

func (t EventType) String() string {
	switch t {
	case EventConnected:
		return "connected"
	case EventError:
		return "error"
	case EventClosed:
		return "closed"
	}
	return "unknown"
}

// Event is a link lifecycle notification delivered asynchronously.
type Event struct {
	Type   EventType
	Detail string
}

// Handler processes an inbound frame for a subscribed channel. The frame's
// payload is only valid for the duration of the call.
type Handler func(frame *wire.Frame)

// Publisher is the outbound half consumed by the command pipeline.
type Publisher interface {
	// Publish frames payload in a wire envelope and sends it on channel.
	// Fire-and-forget: no acknowledgment, no retry.
	Publish(channel string, contentType wirefb.ContentType, payload []byte) error

	// Connected reports whether the link is currently up.
	Connected() bool
}

// lifecycleEvent translates a zmq socket monitor event into the transport's
// lifecycle vocabulary. Events outside the closed set are dropped.
func lifecycleEvent(zmqEvent zmq.Event, addr string) (Event, bool) {
	switch zmqEvent {
	case zmq.EVENT_CONNECTED:
		return Event{Type: EventConnected, Detail: addr}, true
	case zmq.EVENT_DISCONNECTED:
		return Event{Type: EventError, Detail: "peer disconnected: " + addr}, true
	case zmq.EVENT_CLOSED, zmq.EVENT_MONITOR_STOPPED:
		return Event{Type: EventClosed, Detail: addr}, true
	}
	return Event{}, false
}
