package api

import (
	"errors"
	"syscall"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"

	"github.com/open-teleop/cockpit/domain/teleop"
	customlog "github.com/open-teleop/cockpit/pkg/log"
)

// ControlWebSocketHandler consumes the operator UI's input stream: virtual
// joystick samples and browser-side gamepad session events. Messages are
// dispatched in arrival order on this connection's read goroutine, which is
// the single goroutine driving the touch source.
func ControlWebSocketHandler(
	conn *websocket.Conn,
	touch *teleop.TouchSource,
	session *teleop.GamepadSession,
	logger customlog.Logger,
) {
	clientID := uuid.NewString()[:8]
	logger = logger.WithField("client", clientID)
	logger.Infof("Control WebSocket connected: %s", conn.RemoteAddr())

	for {
		mt, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Errorf("Control WS read error: %v", err)
			} else if err != websocket.ErrCloseSent && !errors.Is(err, syscall.EPIPE) && !errors.Is(err, syscall.ECONNRESET) {
				logger.Infof("Control WS connection closed: %v", err)
			} else {
				logger.Infof("Control WS connection closed normally.")
			}
			break
		}

		if mt != websocket.TextMessage {
			logger.Infof("Ignoring non-text control message type: %d", mt)
			continue
		}

		var ctrl ControlMessage
		if err := json.Unmarshal(msg, &ctrl); err != nil {
			logger.Warnf("Failed to unmarshal control message: %v. Message: %s", err, string(msg))
			continue
		}

		dispatchControl(ctrl, touch, session, logger)
	}

	// The input surface vanished mid-stream: treat it as a release so the
	// robot is not left running on the last touch command.
	touch.HandleRelease()
	logger.Infof("Control WebSocket disconnected: %s", conn.RemoteAddr())
}

func dispatchControl(msg ControlMessage, touch *teleop.TouchSource, session *teleop.GamepadSession, logger customlog.Logger) {
	switch msg.Type {
	case MsgTypeMove:
		touch.HandleMove(teleop.TouchSample{X: msg.X, Y: msg.Y})
	case MsgTypeRelease:
		touch.HandleRelease()
	case MsgTypeGamepadConnected:
		if msg.DeviceIndex == nil {
			logger.Warnf("gamepad_connected message missing device_index")
			return
		}
		session.Start(*msg.DeviceIndex, msg.DeviceID)
	case MsgTypeGamepadDisconnected:
		session.Stop()
	default:
		logger.Warnf("Unknown control message type: %s", msg.Type)
	}
}
