package teleop

import (
	customlog "github.com/open-teleop/cockpit/pkg/log"
	"github.com/open-teleop/cockpit/pkg/transport"
	"github.com/open-teleop/cockpit/pkg/wire"
)

// CommandPublisher builds stamped commands and forwards them to the
// transport. It owns no state about which input source is in control:
// whichever source calls Publish last determines the outbound command. The
// system assumes a human operator uses one input modality at a time.
type CommandPublisher struct {
	transport transport.Publisher
	channel   string
	clock     Clock
	logger    customlog.Logger
}

// NewCommandPublisher creates the publisher for the configured velocity
// command channel.
func NewCommandPublisher(t transport.Publisher, channel string, clock Clock, logger customlog.Logger) *CommandPublisher {
	if clock == nil {
		clock = SystemClock
	}
	return &CommandPublisher{
		transport: t,
		channel:   channel,
		clock:     clock,
		logger:    logger.WithField("component", "publisher"),
	}
}

// Publish stamps a fresh command and sends exactly one outbound message.
// A call while the transport is down is a silent no-op: a stale command
// delivered late is worse than a dropped one for a live control surface.
func (p *CommandPublisher) Publish(linear, angular float64) {
	if p.transport == nil || !p.transport.Connected() {
		return
	}

	cmd := NewCommand(linear, angular, p.clock.Now())
	payload, err := cmd.Marshal()
	if err != nil {
		p.logger.Errorf("Failed to marshal command: %v", err)
		return
	}

	if err := p.transport.Publish(p.channel, wire.ContentJSONCommand, payload); err != nil {
		p.logger.Debugf("Command publish failed: %v", err)
	}
}
