package teleop

import (
	"sync"

	jsoniter "github.com/json-iterator/go"

	customlog "github.com/open-teleop/cockpit/pkg/log"
	"github.com/open-teleop/cockpit/pkg/wire"
)

// TelemetryFrame is one relayed sensor reading, forwarded to the UI as-is.
// Payload is the sensor's JSON document, embedded without re-encoding.
type TelemetryFrame struct {
	Channel     string              `json:"channel"`
	TimestampNs int64               `json:"timestamp_ns"`
	Payload     jsoniter.RawMessage `json:"payload"`
}

// TelemetrySink receives relayed frames. Sinks must not block.
type TelemetrySink func(frame TelemetryFrame)

// TelemetryRelay fans sensor frames received from the transport out to UI
// sinks. The command pipeline itself never consumes telemetry; this exists
// for the auxiliary displays around it.
type TelemetryRelay struct {
	mu     sync.RWMutex
	sinks  []TelemetrySink
	logger customlog.Logger
}

// NewTelemetryRelay creates an empty relay.
func NewTelemetryRelay(logger customlog.Logger) *TelemetryRelay {
	return &TelemetryRelay{logger: logger.WithField("component", "telemetry")}
}

// AddSink registers a telemetry consumer.
func (r *TelemetryRelay) AddSink(sink TelemetrySink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sinks = append(r.sinks, sink)
}

// HandleFrame is the transport handler for subscribed sensor channels. The
// incoming payload aliases the receive buffer, so it is copied before
// fan-out.
func (r *TelemetryRelay) HandleFrame(frame *wire.Frame) {
	payload := make([]byte, len(frame.Payload))
	copy(payload, frame.Payload)

	out := TelemetryFrame{
		Channel:     frame.Channel,
		TimestampNs: frame.TimestampNs,
		Payload:     payload,
	}

	r.mu.RLock()
	sinks := r.sinks
	r.mu.RUnlock()

	for _, sink := range sinks {
		sink(out)
	}
}
