package transport

import (
	"fmt"
	"sync"
	"time"

	zmq "github.com/pebbe/zmq4"

	"github.com/open-teleop/cockpit/pkg/config"
	wirefb "github.com/open-teleop/cockpit/pkg/flatbuffers/cockpit/wire"
	customlog "github.com/open-teleop/cockpit/pkg/log"
	"github.com/open-teleop/cockpit/pkg/wire"
)

const (
	pubMonitorAddr = "inproc://cockpit-pub-monitor"
	pollInterval   = 500 * time.Millisecond
)

// ZMQTransport is the ZeroMQ-backed transport: a connecting PUB socket for
// outbound commands, an optional SUB socket for telemetry, and a socket
// monitor that feeds the lifecycle event channel.
type ZMQTransport struct {
	cfg    *config.ZeroMQConfig
	ctx    *zmq.Context
	pub    *zmq.Socket
	sub    *zmq.Socket
	mon    *zmq.Socket
	logger customlog.Logger

	events chan Event

	// handlers is fixed once Start is called; the receive loop reads it
	// without locking.
	handlers map[string][]Handler

	sendMu    sync.Mutex
	stateMu   sync.Mutex
	connected bool
	running   bool
	wg        sync.WaitGroup
}

var _ Publisher = (*ZMQTransport)(nil)

// NewZMQTransport creates the transport sockets and wires the PUB socket
// monitor. Call Subscribe for each telemetry channel, then Start.
func NewZMQTransport(cfg *config.ZeroMQConfig, logger customlog.Logger) (*ZMQTransport, error) {
	ctx, err := zmq.NewContext()
	if err != nil {
		return nil, fmt.Errorf("failed to create ZMQ context: %w", err)
	}

	pub, err := ctx.NewSocket(zmq.PUB)
	if err != nil {
		ctx.Term()
		return nil, fmt.Errorf("failed to create PUB socket: %w", err)
	}
	if err := pub.SetLinger(0); err != nil {
		pub.Close()
		ctx.Term()
		return nil, fmt.Errorf("failed to set linger option: %w", err)
	}

	// Monitor must be registered before the connect so the initial
	// EVENT_CONNECTED is not missed.
	monEvents := zmq.EVENT_CONNECTED | zmq.EVENT_DISCONNECTED | zmq.EVENT_CLOSED | zmq.EVENT_MONITOR_STOPPED
	if err := pub.Monitor(pubMonitorAddr, monEvents); err != nil {
		pub.Close()
		ctx.Term()
		return nil, fmt.Errorf("failed to register socket monitor: %w", err)
	}

	mon, err := ctx.NewSocket(zmq.PAIR)
	if err != nil {
		pub.Close()
		ctx.Term()
		return nil, fmt.Errorf("failed to create monitor socket: %w", err)
	}
	if err := mon.SetRcvtimeo(pollInterval); err != nil {
		mon.Close()
		pub.Close()
		ctx.Term()
		return nil, fmt.Errorf("failed to set monitor receive timeout: %w", err)
	}
	if err := mon.Connect(pubMonitorAddr); err != nil {
		mon.Close()
		pub.Close()
		ctx.Term()
		return nil, fmt.Errorf("failed to connect monitor socket: %w", err)
	}

	t := &ZMQTransport{
		cfg:      cfg,
		ctx:      ctx,
		pub:      pub,
		mon:      mon,
		logger:   logger,
		events:   make(chan Event, 16),
		handlers: make(map[string][]Handler),
	}

	if cfg.TelemetryConnectAddress != "" {
		sub, err := ctx.NewSocket(zmq.SUB)
		if err != nil {
			t.closeSockets()
			return nil, fmt.Errorf("failed to create SUB socket: %w", err)
		}
		if err := sub.SetRcvtimeo(pollInterval); err != nil {
			sub.Close()
			t.closeSockets()
			return nil, fmt.Errorf("failed to set receive timeout: %w", err)
		}
		t.sub = sub
	}

	return t, nil
}

// Events returns the lifecycle event channel. Slow consumers lose events
// rather than stalling the monitor loop.
func (t *ZMQTransport) Events() <-chan Event {
	return t.events
}

// Connected reports whether the PUB socket currently has a live peer.
func (t *ZMQTransport) Connected() bool {
	t.stateMu.Lock()
	defer t.stateMu.Unlock()
	return t.connected
}

// Subscribe registers a handler for a telemetry channel. Must be called
// before Start; the receive loop reads the handler table without locking.
func (t *ZMQTransport) Subscribe(channel string, handler Handler) error {
	t.stateMu.Lock()
	defer t.stateMu.Unlock()

	if t.running {
		return ErrRunning
	}
	if t.sub == nil {
		return fmt.Errorf("no telemetry address configured")
	}
	if err := t.sub.SetSubscribe(channel); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}
	t.handlers[channel] = append(t.handlers[channel], handler)
	t.logger.Infof("Subscribed to telemetry channel: %s", channel)
	return nil
}

// Start connects the sockets and launches the monitor and receive loops.
func (t *ZMQTransport) Start() error {
	t.stateMu.Lock()
	defer t.stateMu.Unlock()

	if t.running {
		return nil
	}

	if err := t.pub.Connect(t.cfg.CommandConnectAddress); err != nil {
		return fmt.Errorf("failed to connect to %s: %w", t.cfg.CommandConnectAddress, err)
	}
	t.logger.Infof("Command publisher connecting to %s", t.cfg.CommandConnectAddress)

	if t.sub != nil {
		if err := t.sub.Connect(t.cfg.TelemetryConnectAddress); err != nil {
			return fmt.Errorf("failed to connect to %s: %w", t.cfg.TelemetryConnectAddress, err)
		}
		t.logger.Infof("Telemetry subscriber connecting to %s", t.cfg.TelemetryConnectAddress)
	}

	t.running = true

	t.wg.Add(1)
	go t.monitorLoop()

	if t.sub != nil {
		t.wg.Add(1)
		go t.receiveLoop()
	}

	return nil
}

// Publish frames payload in a wire envelope and sends it as a two-part
// message (channel, envelope), matching the gateway's framing.
func (t *ZMQTransport) Publish(channel string, contentType wirefb.ContentType, payload []byte) error {
	t.sendMu.Lock()
	defer t.sendMu.Unlock()

	t.stateMu.Lock()
	running := t.running
	t.stateMu.Unlock()
	if !running {
		return ErrClosed
	}

	data := wire.Encode(channel, contentType, time.Now().UnixNano(), payload)

	if _, err := t.pub.Send(channel, zmq.SNDMORE); err != nil {
		return fmt.Errorf("failed to send channel frame: %w", err)
	}
	if _, err := t.pub.SendBytes(data, 0); err != nil {
		return fmt.Errorf("failed to send envelope: %w", err)
	}
	return nil
}

// monitorLoop translates socket monitor events into lifecycle events.
func (t *ZMQTransport) monitorLoop() {
	defer t.wg.Done()

	for {
		t.stateMu.Lock()
		running := t.running
		t.stateMu.Unlock()
		if !running {
			return
		}

		zmqEvent, addr, _, err := t.mon.RecvEvent(0)
		if err != nil {
			// Receive timeout; loop so shutdown is observed.
			continue
		}

		event, ok := lifecycleEvent(zmqEvent, addr)
		if !ok {
			continue
		}

		t.stateMu.Lock()
		t.connected = event.Type == EventConnected
		t.stateMu.Unlock()

		t.logger.Infof("Transport lifecycle: %s (%s)", event.Type, event.Detail)
		t.emit(event)

		if event.Type == EventClosed {
			return
		}
	}
}

// receiveLoop reads telemetry frames and dispatches them to handlers.
func (t *ZMQTransport) receiveLoop() {
	defer t.wg.Done()

	for {
		t.stateMu.Lock()
		running := t.running
		t.stateMu.Unlock()
		if !running {
			return
		}

		parts, err := t.sub.RecvMessageBytes(0)
		if err != nil {
			// Receive timeout; loop so shutdown is observed.
			continue
		}
		if len(parts) != 2 {
			t.logger.Warnf("Dropping telemetry message with %d parts", len(parts))
			continue
		}

		frame, err := wire.Decode(parts[1])
		if err != nil {
			t.logger.Warnf("Dropping undecodable telemetry frame: %v", err)
			continue
		}

		for _, handler := range t.handlers[frame.Channel] {
			handler(frame)
		}
	}
}

func (t *ZMQTransport) emit(event Event) {
	select {
	case t.events <- event:
	default:
		t.logger.Warnf("Lifecycle event channel full, dropping %s event", event.Type)
	}
}

// Close shuts down the loops and releases the sockets.
func (t *ZMQTransport) Close() {
	t.stateMu.Lock()
	if !t.running {
		t.stateMu.Unlock()
		t.closeSockets()
		return
	}
	t.running = false
	t.connected = false
	t.stateMu.Unlock()

	t.logger.Infof("Stopping transport")
	t.wg.Wait()

	t.emit(Event{Type: EventClosed, Detail: "transport closed"})
	close(t.events)

	t.closeSockets()
	t.logger.Infof("Transport stopped")
}

func (t *ZMQTransport) closeSockets() {
	if t.sub != nil {
		t.sub.Close()
		t.sub = nil
	}
	if t.mon != nil {
		t.mon.Close()
		t.mon = nil
	}
	if t.pub != nil {
		t.pub.Close()
		t.pub = nil
	}
	if t.ctx != nil {
		t.ctx.Term()
		t.ctx = nil
	}
}
