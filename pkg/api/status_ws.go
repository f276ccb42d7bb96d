package api

import (
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"

	"github.com/open-teleop/cockpit/domain/teleop"
	customlog "github.com/open-teleop/cockpit/pkg/log"
)

// StatusHub fans status and telemetry pushes out to every connected UI
// client. Writes are serialized per hub; a client that fails to accept a
// write is dropped.
type StatusHub struct {
	mu      sync.Mutex
	clients map[string]*websocket.Conn
	logger  customlog.Logger
}

// NewStatusHub creates an empty hub.
func NewStatusHub(logger customlog.Logger) *StatusHub {
	return &StatusHub{
		clients: make(map[string]*websocket.Conn),
		logger:  logger.WithField("component", "status-hub"),
	}
}

// BroadcastStatus pushes both status values to all clients.
func (h *StatusHub) BroadcastStatus(link, activity teleop.Status) {
	h.broadcast(StatusPush{Type: MsgTypeStatus, Link: link, Activity: activity})
}

// BroadcastTelemetry relays one sensor frame to all clients. It satisfies
// teleop.TelemetrySink.
func (h *StatusHub) BroadcastTelemetry(frame teleop.TelemetryFrame) {
	h.broadcast(TelemetryPush{Type: MsgTypeTelemetry, Frame: frame})
}

func (h *StatusHub) broadcast(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Errorf("Failed to marshal push message: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Infof("Dropping status client %s: %v", id, err)
			conn.Close()
			delete(h.clients, id)
		}
	}
}

func (h *StatusHub) register(conn *websocket.Conn) string {
	id := uuid.NewString()[:8]
	h.mu.Lock()
	h.clients[id] = conn
	h.mu.Unlock()
	return id
}

func (h *StatusHub) unregister(id string) {
	h.mu.Lock()
	delete(h.clients, id)
	h.mu.Unlock()
}

// StatusWebSocketHandler registers a UI client for status and telemetry
// pushes. It sends the current snapshot immediately so a late-joining UI
// does not wait for the next transition.
func StatusWebSocketHandler(conn *websocket.Conn, hub *StatusHub, reporter *teleop.StatusReporter, logger customlog.Logger) {
	id := hub.register(conn)
	logger.Infof("Status WebSocket connected: %s (client %s)", conn.RemoteAddr(), id)

	link, activity := reporter.Snapshot()
	snapshot, err := json.Marshal(StatusPush{Type: MsgTypeStatus, Link: link, Activity: activity})
	if err == nil {
		hub.mu.Lock()
		if err := conn.WriteMessage(websocket.TextMessage, snapshot); err != nil {
			logger.Infof("Failed to send initial snapshot to %s: %v", id, err)
		}
		hub.mu.Unlock()
	}

	// Drain reads so the close handshake is observed; the UI never sends
	// meaningful data on this socket.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	hub.unregister(id)
	logger.Infof("Status WebSocket disconnected (client %s)", id)
}
