package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs attaches a preview watcher to sessionID. initial, when set, is the
// first message the client receives. It blocks until the connection closes.
func ServeWs(hub *Hub, c *websocket.Conn, sessionID, userID string, initial []byte) {
	client := &Client{Hub: hub, Conn: c, SessionID: sessionID, UserID: userID, Send: make(chan []byte, sendBuffer)}
	if initial != nil {
		client.Send <- initial
	}
	client.Hub.register <- client

	go client.writePump()
	client.readPump()
}
