package websocket

import (
	"encoding/json"
	"sync"

	"docchat-client/internal/pkg/logger"
)

// Hub fans snapshot frames out to every connected renderer. The client is
// single-user, so there is no per-user routing.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	logger logger.ILogger
}

// Frame is the envelope of every message pushed to a renderer.
type Frame struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func NewHub(log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		logger:     log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"clients": count})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client unregistered", map[string]interface{}{"clients": count})
		}
	}
}

// Broadcast serializes a frame once and queues it on every client.
// Clients whose buffer is full are dropped.
func (h *Hub) Broadcast(frameType string, data interface{}) error {
	payload, err := json.Marshal(Frame{Type: frameType, Data: data})
	if err != nil {
		return err
	}

	var slow []*Client
	h.mu.RLock()
	for client := range h.clients {
		select {
		case client.Send <- payload:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.logger.Warn("Hub", "Client Send buffer full, dropping client", nil)
		h.unregister <- client
	}
	return nil
}

func (h *Hub) Register(c *Client) {
	h.register <- c
}

func (h *Hub) Unregister(c *Client) {
	h.unregister <- c
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
