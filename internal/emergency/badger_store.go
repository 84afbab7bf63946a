// SecureGuardian - Personal Security Monitoring and Alerting
// Copyright 2026 SecureGuardian contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/secureguardian/guardian

package emergency

import (
	"context"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/secureguardian/guardian/internal/logging"
)

const badgerKeyPrefix = "emergency:"

// BadgerStore persists emergency alerts in an embedded badger database
// so active emergencies survive process restarts.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens (or creates) the badger database at path.
func NewBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).
		WithLogger(newBadgerLogger()).
		WithCompactL0OnClose(true)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening emergency store at %s: %w", path, err)
	}
	return &BadgerStore{db: db}, nil
}

func keyFor(id string) []byte {
	return []byte(badgerKeyPrefix + id)
}

// Save stores the alert as a JSON value.
func (s *BadgerStore) Save(_ context.Context, alert *Alert) error {
	value, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("encoding alert %s: %w", alert.ID, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(keyFor(alert.ID), value)
	})
	if err != nil {
		return fmt.Errorf("saving alert %s: %w", alert.ID, err)
	}
	return nil
}

// Get loads one alert or ErrNotFound.
func (s *BadgerStore) Get(_ context.Context, id string) (*Alert, error) {
	var alert Alert
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keyFor(id))
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			return json.Unmarshal(value, &alert)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading alert %s: %w", id, err)
	}
	return &alert, nil
}

// Update applies fn to the stored alert inside one transaction.
func (s *BadgerStore) Update(_ context.Context, id string, fn func(*Alert) error) (*Alert, error) {
	var updated *Alert
	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(keyFor(id))
		if err != nil {
			return err
		}
		var alert Alert
		if err := item.Value(func(value []byte) error {
			return json.Unmarshal(value, &alert)
		}); err != nil {
			return err
		}

		if err := fn(&alert); err != nil {
			return err
		}

		value, err := json.Marshal(&alert)
		if err != nil {
			return err
		}
		if err := txn.Set(keyFor(id), value); err != nil {
			return err
		}
		updated = &alert
		return nil
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		// fn errors (ErrNotOwner among them) pass through unwrapped.
		if errors.Is(err, ErrNotOwner) {
			return nil, err
		}
		return nil, fmt.Errorf("updating alert %s: %w", id, err)
	}
	return updated, nil
}

// ActiveCount scans the emergency keyspace and counts ACTIVE alerts.
func (s *BadgerStore) ActiveCount(_ context.Context) (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte(badgerKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var alert Alert
			if err := it.Item().Value(func(value []byte) error {
				return json.Unmarshal(value, &alert)
			}); err != nil {
				return err
			}
			if alert.Status == StatusActive {
				count++
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("counting active alerts: %w", err)
	}
	return count, nil
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// badgerLogger routes badger's internal logging through zerolog.
type badgerLogger struct{}

func newBadgerLogger() badger.Logger { return badgerLogger{} }

func (badgerLogger) Errorf(format string, args ...interface{}) {
	logging.Error().Msgf("badger: "+format, args...)
}

func (badgerLogger) Warningf(format string, args ...interface{}) {
	logging.Warn().Msgf("badger: "+format, args...)
}

func (badgerLogger) Infof(format string, args ...interface{}) {
	logging.Debug().Msgf("badger: "+format, args...)
}

func (badgerLogger) Debugf(format string, args ...interface{}) {
	logging.Debug().Msgf("badger: "+format, args...)
}
