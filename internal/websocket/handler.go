package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// HTTP upgrade handler to WebSocket connections

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// allow all origins for development purpose; can restrict later
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler upgrades the request and registers the connection under the
// authenticated user's id. The route must sit behind the auth middleware:
// identity comes from the validated token, never from the client payload.
func WSHandler(registry *Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the HTTP error response
			return
		}

		client := NewClient(userID.(string), conn, registry)
		registry.Register(client.UserID, client)

		go client.WritePump()
		go client.ReadPump()
	}
}
