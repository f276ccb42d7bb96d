// Package wire frames messages exchanged with the robot gateway in the
// FlatBuffers envelope defined by schemas/envelope.fbs.
package wire

import (
	"fmt"

	flatbuffers "github.com/google/flatbuffers/go"

	wirefb "github.com/open-teleop/cockpit/pkg/flatbuffers/cockpit/wire"
)

// Re-exported so callers don't import the generated package directly.
const (
	ContentJSONCommand   = wirefb.ContentTypeJSON_COMMAND
	ContentJSONTelemetry = wirefb.ContentTypeJSON_TELEMETRY
)

// Frame holds a decoded envelope. Payload aliases the receive buffer and
// must not be retained past the handler invocation that delivered it.
type Frame struct {
	Channel     string
	TimestampNs int64
	ContentType wirefb.ContentType
	Payload     []byte
}

// Encode wraps payload in an Envelope flatbuffer for the given channel.
func Encode(channel string, contentType wirefb.ContentType, timestampNs int64, payload []byte) []byte {
	builder := flatbuffers.NewBuilder(len(payload) + 128)
	channelOffset := builder.CreateString(channel)
	payloadOffset := builder.CreateByteVector(payload)

	wirefb.EnvelopeStart(builder)
	wirefb.EnvelopeAddChannel(builder, channelOffset)
	wirefb.EnvelopeAddTimestampNs(builder, timestampNs)
	wirefb.EnvelopeAddContentType(builder, contentType)
	wirefb.EnvelopeAddPayload(builder, payloadOffset)
	builder.Finish(wirefb.EnvelopeEnd(builder))

	return builder.FinishedBytes()
}

// Decode parses an Envelope flatbuffer received from the gateway.
func Decode(data []byte) (*Frame, error) {
	if len(data) < flatbuffers.SizeUOffsetT {
		return nil, fmt.Errorf("envelope too short: %d bytes", len(data))
	}

	env := wirefb.GetRootAsEnvelope(data, 0)
	channel := env.Channel()
	if len(channel) == 0 {
		return nil, fmt.Errorf("envelope missing channel")
	}

	return &Frame{
		Channel:     string(channel),
		TimestampNs: env.TimestampNs(),
		ContentType: env.ContentType(),
		Payload:     env.PayloadBytes(),
	}, nil
}
