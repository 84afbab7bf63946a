// SecureGuardian - Personal Security Monitoring and Alerting
// Copyright 2026 SecureGuardian contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/secureguardian/guardian

package ws

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/secureguardian/guardian/internal/alert"
)

func newHubClient(h *Hub, buffer int) *Client {
	return &Client{
		id:   clientIDCounter.Add(1),
		hub:  h,
		send: make(chan []byte, buffer),
	}
}

func TestHubJoinIsIdempotent(t *testing.T) {
	h := NewHub(nil)
	c := newHubClient(h, 1)
	h.Register(c)

	h.Join(c, "topic-a")
	h.Join(c, "topic-a")
	h.Join(c, "topic-a")

	if got := h.TopicMembers("topic-a"); got != 1 {
		t.Errorf("members = %d, want 1", got)
	}
}

func TestHubJoinHookFiresOncePerTopic(t *testing.T) {
	h := NewHub(nil)
	hooked := make(map[string]int)
	h.SetJoinHook(func(topic string) { hooked[topic]++ })

	a := newHubClient(h, 1)
	b := newHubClient(h, 1)
	h.Register(a)
	h.Register(b)

	h.Join(a, "topic-a")
	h.Join(b, "topic-a")
	h.Join(a, "topic-b")

	if hooked["topic-a"] != 1 || hooked["topic-b"] != 1 {
		t.Errorf("hook counts = %v, want one per topic", hooked)
	}
}

func TestHubPublishToTopic(t *testing.T) {
	h := NewHub(nil)
	member := newHubClient(h, 1)
	outsider := newHubClient(h, 1)
	h.Register(member)
	h.Register(outsider)
	h.Join(member, "topic-a")

	h.PublishToTopic("topic-a", []byte("hello"))

	select {
	case payload := <-member.send:
		if string(payload) != "hello" {
			t.Errorf("payload = %q", payload)
		}
	default:
		t.Fatal("member did not receive the payload")
	}
	select {
	case payload := <-outsider.send:
		t.Errorf("outsider received %q", payload)
	default:
	}
}

func TestHubDropsSlowClients(t *testing.T) {
	h := NewHub(nil)
	slow := newHubClient(h, 0)
	fast := newHubClient(h, 1)
	h.Register(slow)
	h.Register(fast)
	h.Join(slow, "topic-a")
	h.Join(fast, "topic-a")

	h.PublishToTopic("topic-a", []byte("x"))

	if h.ClientCount() != 1 {
		t.Errorf("clients = %d, want slow client dropped", h.ClientCount())
	}
	if h.TopicMembers("topic-a") != 1 {
		t.Errorf("members = %d, want 1", h.TopicMembers("topic-a"))
	}
	// The dropped client's channel is closed.
	if _, open := <-slow.send; open {
		t.Error("slow client send channel should be closed")
	}
}

func TestHubPublishDuringUnregister(t *testing.T) {
	h := NewHub(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		c := newHubClient(h, 1)
		h.Register(c)
		h.Join(c, "topic-a")

		wg.Add(2)
		go func() {
			defer wg.Done()
			h.Unregister(c)
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				h.PublishToTopic("topic-a", []byte("x"))
			}
		}()
	}
	wg.Wait()

	if got := h.ClientCount(); got != 0 {
		t.Errorf("clients = %d, want 0", got)
	}
}

func TestHubDeliverToUnregisteredClient(t *testing.T) {
	h := NewHub(nil)
	c := newHubClient(h, 1)
	h.Register(c)
	h.Unregister(c)

	// Delivery after disconnect is a no-op, not a panic.
	if !h.deliver(c, []byte("x")) {
		t.Error("deliver to a gone client should report success")
	}
}

func TestHubUnregisterCleansMembership(t *testing.T) {
	h := NewHub(nil)
	c := newHubClient(h, 1)
	h.Register(c)
	h.Join(c, "topic-a")
	h.Join(c, "topic-b")

	h.Unregister(c)
	h.Unregister(c) // repeat is a no-op

	if h.ClientCount() != 0 {
		t.Errorf("clients = %d, want 0", h.ClientCount())
	}
	if h.TopicMembers("topic-a") != 0 || h.TopicMembers("topic-b") != 0 {
		t.Error("memberships should be removed on unregister")
	}
}

func TestBridgeForwardsGlobalTopic(t *testing.T) {
	pubsub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubsub.Close()

	h := NewHub(nil)
	b := NewBridge(pubsub, h)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = b.Run(ctx) }()

	// Wait for the global subscription before joining and publishing.
	waitForTopics(t, b, 1)

	c := newHubClient(h, 4)
	h.Register(c)
	h.Join(c, alert.TopicGlobal)

	msg := message.NewMessage(watermill.NewUUID(), []byte(`{"event":"threat-alert"}`))
	if err := pubsub.Publish(alert.TopicGlobal, msg); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case payload := <-c.send:
		if string(payload) != `{"event":"threat-alert"}` {
			t.Errorf("payload = %s", payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("envelope was not forwarded to the client")
	}
}

func TestBridgeLazyUserTopic(t *testing.T) {
	pubsub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubsub.Close()

	h := NewHub(nil)
	b := NewBridge(pubsub, h)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = b.Run(ctx) }()
	waitForTopics(t, b, 1)

	c := newHubClient(h, 4)
	h.Register(c)
	h.Join(c, alert.UserTopic("user-1"))
	waitForTopics(t, b, 2)

	msg := message.NewMessage(watermill.NewUUID(), []byte(`{"event":"personal-threat-alert"}`))
	if err := pubsub.Publish(alert.UserTopic("user-1"), msg); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case payload := <-c.send:
		if string(payload) != `{"event":"personal-threat-alert"}` {
			t.Errorf("payload = %s", payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("user topic envelope was not forwarded")
	}
}

func waitForTopics(t *testing.T, b *Bridge, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		b.mu.Lock()
		got := len(b.topics)
		b.mu.Unlock()
		if got >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("bridge never reached %d topic subscriptions", want)
}
