// SecureGuardian - Personal Security Monitoring and Alerting
// Copyright 2026 SecureGuardian contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/secureguardian/guardian

// Package ws carries realtime alerts to connected clients over
// websockets. The hub tracks clients and topic membership; the bridge
// feeds it from the pub/sub topics, keeping the alert transport
// independent of the websocket carrier.
package ws

import (
	"context"
	"sync"

	"github.com/secureguardian/guardian/internal/logging"
	"github.com/secureguardian/guardian/internal/metrics"
)

// Hub fans published payloads out to the clients joined to a topic.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
	topics  map[string]map[*Client]bool

	// joinHook runs on the first join of each topic. The bridge uses it
	// to subscribe lazily to per-user pub/sub topics.
	joinHook func(topic string)

	metrics *metrics.Metrics
}

// NewHub creates an empty hub. m may be nil.
func NewHub(m *metrics.Metrics) *Hub {
	return &Hub{
		clients: make(map[*Client]bool),
		topics:  make(map[string]map[*Client]bool),
		metrics: m,
	}
}

// SetJoinHook installs the first-join callback. Must be called before
// clients connect.
func (h *Hub) SetJoinHook(hook func(topic string)) {
	h.joinHook = hook
}

// Register adds a connected client.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	count := len(h.clients)
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.WSClients.Set(float64(count))
	}
	logging.Debug().Uint64("client_id", c.id).Int("clients", count).Msg("websocket client connected")
}

// Unregister removes a client and its topic memberships, and closes its
// send channel. The close happens under the write lock; every send runs
// under the read lock, so a send can never hit a closed channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if !h.clients[c] {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	for topic, members := range h.topics {
		delete(members, c)
		if len(members) == 0 {
			delete(h.topics, topic)
		}
	}
	close(c.send)
	count := len(h.clients)
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.WSClients.Set(float64(count))
	}
	logging.Debug().Uint64("client_id", c.id).Int("clients", count).Msg("websocket client disconnected")
}

// Join adds a client to a topic. Joining twice is a no-op.
func (h *Hub) Join(c *Client, topic string) {
	h.mu.Lock()
	members, ok := h.topics[topic]
	if !ok {
		members = make(map[*Client]bool)
		h.topics[topic] = members
	}
	first := !ok
	already := members[c]
	members[c] = true
	h.mu.Unlock()

	if first && h.joinHook != nil {
		h.joinHook(topic)
	}
	if !already {
		logging.Debug().Uint64("client_id", c.id).Str("topic", topic).Msg("client joined topic")
	}
}

// PublishToTopic delivers payload to every member of topic. Clients
// whose send buffers are full are dropped rather than blocking delivery
// to the others.
func (h *Hub) PublishToTopic(topic string, payload []byte) {
	h.mu.RLock()
	var slow []*Client
	for c := range h.topics[topic] {
		select {
		case c.send <- payload:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		logging.Warn().Uint64("client_id", c.id).Str("topic", topic).Msg("dropping slow websocket client")
		h.Unregister(c)
	}
}

// deliver queues payload for a single registered client. It reports
// false only when the client is still registered and its buffer is full.
func (h *Hub) deliver(c *Client, payload []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.clients[c] {
		return true
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// TopicMembers returns the member count of a topic.
func (h *Hub) TopicMembers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Run keeps the hub alive until the context ends, then disconnects all
// clients. It satisfies the supervision tree's service shape.
func (h *Hub) Run(ctx context.Context) error {
	<-ctx.Done()

	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.Unregister(c)
	}
	return ctx.Err()
}
