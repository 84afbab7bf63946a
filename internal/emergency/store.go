// SecureGuardian - Personal Security Monitoring and Alerting
// Copyright 2026 SecureGuardian contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/secureguardian/guardian

package emergency

import (
	"context"
	"sync"
)

// Store persists emergency alerts. Update applies fn to the stored alert
// atomically; the mutation is discarded when fn errors.
type Store interface {
	Save(ctx context.Context, alert *Alert) error
	Get(ctx context.Context, id string) (*Alert, error)
	Update(ctx context.Context, id string, fn func(*Alert) error) (*Alert, error)
	ActiveCount(ctx context.Context) (int, error)
	Close() error
}

// MemoryStore is the in-process Store used by default and in tests.
type MemoryStore struct {
	mu     sync.RWMutex
	alerts map[string]*Alert
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{alerts: make(map[string]*Alert)}
}

// Save stores a copy of the alert.
func (s *MemoryStore) Save(_ context.Context, alert *Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts[alert.ID] = alert.clone()
	return nil
}

// Get returns a copy of the alert or ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, id string) (*Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	alert, ok := s.alerts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return alert.clone(), nil
}

// Update applies fn to the stored alert under the write lock.
func (s *MemoryStore) Update(_ context.Context, id string, fn func(*Alert) error) (*Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	alert, ok := s.alerts[id]
	if !ok {
		return nil, ErrNotFound
	}

	updated := alert.clone()
	if err := fn(updated); err != nil {
		return nil, err
	}
	s.alerts[id] = updated
	return updated.clone(), nil
}

// ActiveCount returns the number of alerts in ACTIVE status.
func (s *MemoryStore) ActiveCount(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, alert := range s.alerts {
		if alert.Status == StatusActive {
			count++
		}
	}
	return count, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }
