// SecureGuardian - Personal Security Monitoring and Alerting
// Copyright 2026 SecureGuardian contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/secureguardian/guardian

package scanner

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/secureguardian/guardian/internal/logging"
	"github.com/secureguardian/guardian/internal/threat"
)

// ScanRunner is the scan entry point the monitor drives.
type ScanRunner interface {
	Scan(ctx context.Context, hint *threat.LocationObservation) (*threat.ScanResult, error)
}

// ResultHandler receives scan results that contain findings.
type ResultHandler func(*threat.ScanResult)

// Status is a snapshot of the monitoring session.
type Status struct {
	Active   bool          `json:"active"`
	InFlight bool          `json:"in_flight"`
	LastScan time.Time     `json:"last_scan"`
	Interval time.Duration `json:"interval"`
}

// Monitor runs scans on a fixed interval. There is exactly one session
// per monitor: Start while running and Stop while stopped are no-ops,
// and overlapping scans are skipped rather than queued.
type Monitor struct {
	runner   ScanRunner
	interval time.Duration
	onResult ResultHandler

	mu       sync.Mutex
	running  bool
	stopCh   chan struct{}
	loopDone chan struct{}

	inFlight atomic.Bool
	lastScan atomic.Pointer[time.Time]
}

// NewMonitor creates a monitor. onResult may be nil.
func NewMonitor(runner ScanRunner, interval time.Duration, onResult ResultHandler) *Monitor {
	return &Monitor{
		runner:   runner,
		interval: interval,
		onResult: onResult,
	}
}

// Start begins the monitoring loop. It reports whether a new session was
// started; calling Start on a running monitor changes nothing.
func (m *Monitor) Start(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		logging.Debug().Msg("monitoring already active")
		return false
	}
	m.running = true
	m.stopCh = make(chan struct{})
	m.loopDone = make(chan struct{})

	go m.loop(ctx, m.stopCh, m.loopDone)
	logging.Info().Dur("interval", m.interval).Msg("monitoring started")
	return true
}

// Stop ends the monitoring loop. An in-flight scan is allowed to finish;
// only the pending timer is canceled. Stopping a stopped monitor changes
// nothing.
func (m *Monitor) Stop() bool {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return false
	}
	m.running = false
	close(m.stopCh)
	done := m.loopDone
	m.mu.Unlock()

	<-done
	logging.Info().Msg("monitoring stopped")
	return true
}

// Running reports whether a session is active.
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Status returns a snapshot of the session state.
func (m *Monitor) Status() Status {
	s := Status{
		Active:   m.Running(),
		InFlight: m.inFlight.Load(),
		Interval: m.interval,
	}
	if last := m.lastScan.Load(); last != nil {
		s.LastScan = *last
	}
	return s
}

func (m *Monitor) loop(ctx context.Context, stopCh, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.runScan(ctx)
	for {
		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.runScan(ctx)
		}
	}
}

// runScan launches one scan unless a previous one is still in flight.
// Errors are logged and the loop continues; the loop never terminates
// the process.
func (m *Monitor) runScan(ctx context.Context) {
	if !m.inFlight.CompareAndSwap(false, true) {
		logging.Debug().Msg("scan still in flight, skipping tick")
		return
	}

	go func() {
		defer m.inFlight.Store(false)

		result, err := m.runner.Scan(ctx, nil)
		if err != nil {
			logging.Err(err).Msg("periodic scan failed")
			return
		}

		now := time.Now().UTC()
		m.lastScan.Store(&now)

		if result.HasFindings() && m.onResult != nil {
			m.onResult(result)
		}
	}()
}
