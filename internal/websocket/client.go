package websocket

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const ( // ping pong (2-way heartbeat) to keep connection alive
	WriteWait      = 10 * time.Second    // max time to write a message to the peer
	PongWait       = 60 * time.Second    // max time to wait for pong from peer => no pong = no connection
	PingPeriod     = (PongWait * 9) / 10 // send ping before pong wait expires, 10% slack for network jitter
	MaxMessageSize = 512                 // maximum inbound frame size allowed from peer
	SendBufferSize = 256                 // outbound frames buffered per connection
)

// Client is one live connection for one user. The channel is server-push
// only: inbound frames beyond the keep-alive handshake are discarded.
type Client struct {
	UserID      string
	Conn        *websocket.Conn
	SendChannel chan []byte
	registry    *Registry

	done      chan struct{}
	closeOnce sync.Once
}

func NewClient(userID string, conn *websocket.Conn, registry *Registry) *Client {
	return &Client{
		UserID:      userID,
		Conn:        conn,
		SendChannel: make(chan []byte, SendBufferSize),
		registry:    registry,
		done:        make(chan struct{}),
	}
}

// trySend enqueues without blocking. False means the client is gone or its
// buffer is full; the caller decides whether that disconnects the client.
func (c *Client) trySend(data []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.SendChannel <- data:
		return true
	default:
		return false
	}
}

// Close is idempotent and safe from any goroutine.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.Conn != nil {
			c.Conn.Close()
		}
	})
}

// ReadPump drains the connection so close frames and pongs are processed.
// It exits on any read error and tears the client down.
func (c *Client) ReadPump() {
	defer func() {
		c.registry.Unregister(c.UserID, c)
		c.Close()
	}()

	c.Conn.SetReadLimit(MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(PongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(PongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Debug("websocket read error", "user_id", c.UserID, "error", err)
			}
			return
		}
		// inbound frames are ignored; the socket only pushes server events
	}
}

// WritePump pumps queued envelopes to the connection and keeps the
// heartbeat going. Every write is bounded by WriteWait so one stalled
// client never blocks a sender.
func (c *Client) WritePump() {
	ticker := time.NewTicker(PingPeriod)
	defer func() {
		ticker.Stop()
		c.registry.Unregister(c.UserID, c)
		c.Close()
	}()

	for {
		select {
		case <-c.done:
			return

		case message := <-c.SendChannel:
			c.Conn.SetWriteDeadline(time.Now().Add(WriteWait))
			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// flush anything already queued in the same frame write
			n := len(c.SendChannel)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.SendChannel)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
