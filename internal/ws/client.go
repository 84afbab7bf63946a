// SecureGuardian - Personal Security Monitoring and Alerting
// Copyright 2026 SecureGuardian contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/secureguardian/guardian

package ws

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/secureguardian/guardian/internal/logging"
)

const (
	// writeWait is the allowed duration of one write to the peer.
	writeWait = 10 * time.Second

	// pongWait is how long the peer has to answer a ping.
	pongWait = 60 * time.Second

	// pingPeriod must be shorter than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize bounds inbound messages from the peer.
	maxMessageSize = 64 * 1024

	// sendBuffer is the per-client outbound queue. Clients that fall
	// further behind are disconnected.
	sendBuffer = 64
)

var clientIDCounter atomic.Uint64

// InboundMessage is the envelope clients send to the server.
type InboundMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// EventHandler processes inbound client messages. Implementations must
// be safe for concurrent use across clients.
type EventHandler interface {
	HandleEvent(ctx context.Context, c *Client, msg InboundMessage)
}

// Client is one websocket connection.
type Client struct {
	id      uint64
	userID  string
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	handler EventHandler
}

// NewClient wraps an upgraded connection. userID comes from the request
// identity and scopes which topics the client may join.
func NewClient(hub *Hub, conn *websocket.Conn, userID string, handler EventHandler) *Client {
	return &Client{
		id:      clientIDCounter.Add(1),
		userID:  userID,
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		handler: handler,
	}
}

// UserID returns the identity bound to this connection.
func (c *Client) UserID() string {
	return c.userID
}

// Send queues an event envelope for delivery to this client only.
func (c *Client) Send(event string, payload interface{}) {
	data, err := json.Marshal(map[string]interface{}{
		"event":     event,
		"payload":   payload,
		"timestamp": time.Now().UTC(),
	})
	if err != nil {
		logging.Err(err).Str("event", event).Msg("encoding websocket event")
		return
	}
	if !c.hub.deliver(c, data) {
		logging.Warn().Uint64("client_id", c.id).Msg("dropping slow websocket client")
		c.hub.Unregister(c)
	}
}

// Serve registers the client and runs its pumps until the connection or
// the context ends.
func (c *Client) Serve(ctx context.Context) {
	c.hub.Register(c)
	go c.writePump()
	c.readPump(ctx)
}

func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Debug().Err(err).Uint64("client_id", c.id).Msg("websocket read failed")
			}
			return
		}

		var msg InboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.Send("error", map[string]string{"message": "invalid message format"})
			continue
		}
		if c.handler != nil {
			c.handler.HandleEvent(ctx, c, msg)
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
