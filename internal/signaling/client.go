package signaling

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. 64 KB covers SDP bodies
	// with room to spare.
	maxMessageSize = 64 * 1024

	// Outbound buffer size per connection. A full buffer means the
	// client has stopped reading; messages to it are dropped.
	sendBufferSize = 256
)

// Client wraps a single websocket connection. The hub assigns its id at
// registration; the room it belongs to is tracked by the registry, not
// here.
type Client struct {
	id   ConnID
	hub  *Hub
	conn *websocket.Conn

	// send is the buffered channel of outbound frames. The hub and
	// router write to it; WritePump drains it onto the socket. The hub
	// closes it at unregister to stop the pump.
	send chan []byte
}

// NewClient wraps an accepted websocket connection for the given hub.
// The connection id is assigned here, before the pumps start, so the
// read pump never observes a half-registered client.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		id:   hub.registry.NewID(),
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
}

// trySend queues an outbound frame without blocking. Reports false when
// the buffer is full and the frame was dropped.
func (c *Client) trySend(msg []byte) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// ReadPump pumps messages from the websocket connection to the hub.
//
// The application runs ReadPump in a per-connection goroutine. The
// application ensures that there is at most one reader on a connection by
// executing all reads from this goroutine.
func (c *Client) ReadPump() {
	// When this function exits (connection closed or read error),
	// unregister the client. This is the prompt-cleanup path: the peer
	// gets its peer-left before this function returns.
	defer func() {
		c.hub.Unregister <- c
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
				slog.Warn("read error", "conn", c.id, "err", err)
			}
			break
		}

		env, err := ParseEnvelope(raw)
		if err != nil {
			// Malformed frames are dropped and reported back to the
			// sender; the connection itself stays open.
			c.trySend(errorNotification("", err.Error()))
			continue
		}

		c.hub.inbound <- inboundMessage{client: c, env: env, raw: raw}
	}
}

// WritePump pumps messages from the hub to the websocket connection.
//
// A goroutine running WritePump is started for each connection. The
// application ensures that there is at most one writer to a connection by
// executing all writes from this goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				// A failed write means the peer is going away; closing
				// the connection funnels it into the read pump's
				// unregister path.
				slog.Warn("write error", "conn", c.id, "err", err)
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
