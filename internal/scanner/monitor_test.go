// SecureGuardian - Personal Security Monitoring and Alerting
// Copyright 2026 SecureGuardian contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/secureguardian/guardian

package scanner

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/secureguardian/guardian/internal/threat"
)

type countingRunner struct {
	calls   atomic.Int64
	result  *threat.ScanResult
	blockCh chan struct{}
}

func (r *countingRunner) Scan(context.Context, *threat.LocationObservation) (*threat.ScanResult, error) {
	r.calls.Add(1)
	if r.blockCh != nil {
		<-r.blockCh
	}
	if r.result != nil {
		return r.result, nil
	}
	return &threat.ScanResult{RiskLevel: threat.RiskLow}, nil
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestMonitorStartIsIdempotent(t *testing.T) {
	runner := &countingRunner{}
	m := NewMonitor(runner, time.Hour, nil)
	defer m.Stop()

	if !m.Start(context.Background()) {
		t.Fatal("first Start() should start a session")
	}
	if m.Start(context.Background()) {
		t.Error("second Start() should be a no-op")
	}

	// Only the initial scan of the single session runs; a second ticker
	// would have produced more calls.
	waitFor(t, time.Second, func() bool { return runner.calls.Load() == 1 })
	time.Sleep(20 * time.Millisecond)
	if got := runner.calls.Load(); got != 1 {
		t.Errorf("scan calls = %d, want 1", got)
	}
}

func TestMonitorStopIsIdempotentAndStopsScanning(t *testing.T) {
	runner := &countingRunner{}
	m := NewMonitor(runner, 10*time.Millisecond, nil)

	m.Start(context.Background())
	waitFor(t, time.Second, func() bool { return runner.calls.Load() >= 2 })

	if !m.Stop() {
		t.Error("Stop() on a running monitor should report true")
	}
	if m.Stop() {
		t.Error("second Stop() should be a no-op")
	}

	// Let any scan launched by the final tick drain before sampling.
	waitFor(t, time.Second, func() bool { return !m.Status().InFlight })
	time.Sleep(30 * time.Millisecond)
	calls := runner.calls.Load()
	time.Sleep(50 * time.Millisecond)
	if got := runner.calls.Load(); got != calls {
		t.Errorf("scans continued after Stop: %d -> %d", calls, got)
	}
	if m.Running() {
		t.Error("monitor should not report running after Stop")
	}
}

func TestMonitorSkipsTicksWhileInFlight(t *testing.T) {
	runner := &countingRunner{blockCh: make(chan struct{})}
	m := NewMonitor(runner, 10*time.Millisecond, nil)

	m.Start(context.Background())
	waitFor(t, time.Second, func() bool { return runner.calls.Load() == 1 })

	// Several ticks elapse while the first scan blocks; none may start
	// a second scan.
	time.Sleep(60 * time.Millisecond)
	if got := runner.calls.Load(); got != 1 {
		t.Errorf("scan calls while blocked = %d, want 1", got)
	}
	if !m.Status().InFlight {
		t.Error("status should report an in-flight scan")
	}

	close(runner.blockCh)
	waitFor(t, time.Second, func() bool { return runner.calls.Load() >= 2 })
	m.Stop()
}

func TestMonitorDeliversResultsWithFindings(t *testing.T) {
	withFindings := &threat.ScanResult{
		Threats:   []threat.Finding{{Type: threat.TypeMaliciousSSID, Severity: threat.SeverityHigh}},
		RiskLevel: threat.RiskHigh,
	}
	runner := &countingRunner{result: withFindings}

	var delivered atomic.Int64
	m := NewMonitor(runner, time.Hour, func(r *threat.ScanResult) {
		delivered.Add(1)
	})
	m.Start(context.Background())
	defer m.Stop()

	waitFor(t, time.Second, func() bool { return delivered.Load() == 1 })
}

func TestMonitorSuppressesEmptyResults(t *testing.T) {
	runner := &countingRunner{}

	var delivered atomic.Int64
	m := NewMonitor(runner, time.Hour, func(*threat.ScanResult) {
		delivered.Add(1)
	})
	m.Start(context.Background())
	defer m.Stop()

	waitFor(t, time.Second, func() bool { return runner.calls.Load() == 1 })
	waitFor(t, time.Second, func() bool { return !m.Status().InFlight })
	if delivered.Load() != 0 {
		t.Error("empty results must not reach the handler")
	}
}

func TestMonitorStatus(t *testing.T) {
	runner := &countingRunner{}
	m := NewMonitor(runner, time.Hour, nil)

	s := m.Status()
	if s.Active || !s.LastScan.IsZero() {
		t.Errorf("initial status = %+v", s)
	}

	m.Start(context.Background())
	waitFor(t, time.Second, func() bool { return !m.Status().LastScan.IsZero() })
	if !m.Status().Active {
		t.Error("status should report active")
	}
	m.Stop()
}
