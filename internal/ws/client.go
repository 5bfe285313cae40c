package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096

	sendBufferSize = 256
)

// Client is one live websocket session. It owns its room-membership set;
// the hub releases it exactly once on disconnect.
type Client struct {
	UserID    uuid.UUID
	FirstName string
	LastName  string
	PhotoURL  string

	conn *websocket.Conn
	send chan []byte

	// Guarded by the hub mutex.
	rooms  map[string]struct{}
	closed bool
}

// NewClient wraps an upgraded connection with the authenticated identity
func NewClient(conn *websocket.Conn, userID uuid.UUID, firstName, lastName, photoURL string) *Client {
	return &Client{
		UserID:    userID,
		FirstName: firstName,
		LastName:  lastName,
		PhotoURL:  photoURL,
		conn:      conn,
		send:      make(chan []byte, sendBufferSize),
		rooms:     make(map[string]struct{}),
	}
}

// Emit queues an event for this client only
func (c *Client) Emit(eventType string, payload interface{}) {
	data, err := json.Marshal(Event{Type: eventType, Payload: payload})
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// ReadPump reads inbound frames and hands them to the gateway. It exits on
// any read error and releases the session.
func (c *Client) ReadPump(g *Gateway) {
	defer func() {
		g.hub.RemoveClient(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				g.logger.Debug("websocket read error",
					zap.String("user_id", c.UserID.String()), zap.Error(err))
			}
			break
		}
		g.Dispatch(c, raw)
	}
}

// WritePump flushes queued events to the connection and keeps it alive
// with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(data)

			// Flush anything else already queued.
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
