package handler

import (
	"context"
	"encoding/json"

	"docchat-client/internal/pkg/logger"
	"docchat-client/internal/service"
	internalWS "docchat-client/internal/websocket"
	"docchat-client/pkg/events"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

const stateFrame = "state"

// StateStreamHandler pushes the full state view to renderers over a
// websocket, once on connect and again after every transition.
type StateStreamHandler struct {
	states service.IStateService
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewStateStreamHandler(states service.IStateService, hub *internalWS.Hub, log logger.ILogger) *StateStreamHandler {
	return &StateStreamHandler{
		states: states,
		hub:    hub,
		logger: log,
	}
}

func (h *StateStreamHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/ws", h.ServeWs)
}

// ServeWs upgrades the request and streams state frames.
func (h *StateStreamHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	initial, err := json.Marshal(internalWS.Frame{Type: stateFrame, Data: h.states.View()})
	if err != nil {
		return err
	}

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("StateStream", "Starting WebSocket session", map[string]interface{}{"remote": conn.RemoteAddr().String()})
		internalWS.ServeWs(h.hub, conn, initial)
		h.logger.Info("StateStream", "WebSocket session ended", nil)
	})(c)
}

// OnStateChanged is the bus handler that re-broadcasts the current view.
func (h *StateStreamHandler) OnStateChanged(ctx context.Context, event events.Event) error {
	if event.EventType() != events.StateChanged {
		return nil
	}
	return h.hub.Broadcast(stateFrame, h.states.View())
}
