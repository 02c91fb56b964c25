package handlers

import (
	"log"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"pairchat/internal/models"
	"pairchat/internal/services"
	"pairchat/internal/session"
)

// wsConn serializes writes to one websocket connection. Fiber's websocket
// conn is not safe for concurrent writes, and broadcasts arrive from other
// connections' read loops.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// WSUpgradeMiddleware rejects plain HTTP requests on the websocket route.
func WSUpgradeMiddleware(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// WebSocketHandler runs the read loop for one client connection. Operations
// from a single connection are handled in the order received; the session
// manager prunes all of the connection's memberships when the loop exits.
func WebSocketHandler(chatService *services.ChatService, sessions *session.Manager) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		connID := uuid.New().String()
		sink := &wsConn{conn: conn}

		defer func() {
			sessions.Disconnect(connID)
			conn.Close()
			log.Printf("User disconnected: %s", connID)
		}()

		log.Printf("User connected: %s", connID)
		send(sink, models.ConnectedEvent{Event: "connected", Message: "Welcome to the chat server"})

		for {
			msgType, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("error: %v", err)
				}
				break
			}
			HandleMessage(sink, msgType, msg, chatService, connID)
		}
	})
}
