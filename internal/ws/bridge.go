// SecureGuardian - Personal Security Monitoring and Alerting
// Copyright 2026 SecureGuardian contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/secureguardian/guardian

package ws

import (
	"context"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/secureguardian/guardian/internal/alert"
	"github.com/secureguardian/guardian/internal/logging"
)

// Bridge subscribes to pub/sub alert topics and forwards every envelope
// to the hub members of the same topic. The global topic is subscribed
// at startup; user and emergency topics lazily on first join.
type Bridge struct {
	subscriber message.Subscriber
	hub        *Hub

	mu     sync.Mutex
	ctx    context.Context
	topics map[string]bool
}

// NewBridge creates the bridge and installs itself as the hub's
// first-join hook.
func NewBridge(subscriber message.Subscriber, hub *Hub) *Bridge {
	b := &Bridge{
		subscriber: subscriber,
		hub:        hub,
		topics:     make(map[string]bool),
	}
	hub.SetJoinHook(func(topic string) {
		b.EnsureTopic(topic)
	})
	return b
}

// Run subscribes the global topic and blocks until the context ends.
// Lazy per-user subscriptions share the same lifetime.
func (b *Bridge) Run(ctx context.Context) error {
	b.mu.Lock()
	b.ctx = ctx
	b.mu.Unlock()

	b.EnsureTopic(alert.TopicGlobal)
	<-ctx.Done()
	return ctx.Err()
}

// EnsureTopic subscribes the bridge to a topic once. Calls before Run
// or after shutdown are ignored.
func (b *Bridge) EnsureTopic(topic string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ctx == nil || b.topics[topic] {
		return
	}

	messages, err := b.subscriber.Subscribe(b.ctx, topic)
	if err != nil {
		logging.Err(err).Str("topic", topic).Msg("topic subscription failed")
		return
	}
	b.topics[topic] = true

	go b.forward(topic, messages)
	logging.Debug().Str("topic", topic).Msg("bridge subscribed to topic")
}

func (b *Bridge) forward(topic string, messages <-chan *message.Message) {
	for msg := range messages {
		b.hub.PublishToTopic(topic, msg.Payload)
		msg.Ack()
	}
}
