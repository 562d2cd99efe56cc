// Package client is a Go client for the signaling relay, used by the
// end-to-end tests and by operator tooling that needs to talk to a relay.
package client

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jeevansetu/callrelay/internal/signaling"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// Message is one frame received from the relay: the decoded envelope
// header plus the frame exactly as it arrived, since relayed negotiation
// payloads carry fields the envelope does not model.
type Message struct {
	Envelope signaling.Envelope
	Raw      []byte
}

// Client manages a websocket connection to the relay.
type Client struct {
	conn      *websocket.Conn
	serverURL string
	incoming  chan Message
	outgoing  chan []byte
	done      chan struct{}
	closed    bool
}

// New creates a client for the relay at serverURL (a ws:// or wss:// URL).
func New(serverURL string) *Client {
	return &Client{
		serverURL: serverURL,
		incoming:  make(chan Message, 16),
		outgoing:  make(chan []byte, 16),
		done:      make(chan struct{}),
	}
}

// Connect establishes the websocket connection and starts the pumps.
func (c *Client) Connect() error {
	u, err := url.Parse(c.serverURL)
	if err != nil {
		return fmt.Errorf("invalid server URL: %w", err)
	}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	c.conn = conn
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	go c.readPump()
	go c.writePump()

	return nil
}

// Join asks the relay to add this connection to the named room.
func (c *Client) Join(roomID string) error {
	b, err := json.Marshal(signaling.Envelope{Type: signaling.KindJoin, RoomID: roomID})
	if err != nil {
		return err
	}
	return c.Send(b)
}

// Leave asks the relay to remove this connection from its room.
func (c *Client) Leave() error {
	b, err := json.Marshal(signaling.Envelope{Type: signaling.KindLeave})
	if err != nil {
		return err
	}
	return c.Send(b)
}

// Send queues one raw frame for the relay.
func (c *Client) Send(raw []byte) error {
	select {
	case c.outgoing <- raw:
		return nil
	case <-c.done:
		return fmt.Errorf("client closed")
	}
}

// Incoming returns the channel of frames received from the relay. It is
// closed when the connection drops.
func (c *Client) Incoming() <-chan Message {
	return c.incoming
}

// Close shuts the connection down.
func (c *Client) Close() {
	if c.closed {
		return
	}
	c.closed = true
	close(c.done)
}

func (c *Client) readPump() {
	defer func() {
		c.conn.Close()
		close(c.incoming)
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var env signaling.Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			continue
		}

		c.incoming <- Message{Envelope: env, Raw: raw}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case raw := <-c.outgoing:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
