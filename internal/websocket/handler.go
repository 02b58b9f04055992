package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs registers the connection, queues the initial frame when given and
// pumps until the peer goes away.
func ServeWs(hub *Hub, c *websocket.Conn, initial []byte) {
	client := NewClient(hub, c)
	if initial != nil {
		client.Send <- initial
	}
	hub.Register(client)

	go client.writePump()
	client.readPump()
}
