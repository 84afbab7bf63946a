// SecureGuardian - Personal Security Monitoring and Alerting
// Copyright 2026 SecureGuardian contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/secureguardian/guardian

// Package scanner orchestrates probe collection, signature matching and
// risk aggregation into scan results, and runs the periodic monitoring
// loop.
package scanner

import (
	"context"
	"time"

	"github.com/secureguardian/guardian/internal/logging"
	"github.com/secureguardian/guardian/internal/metrics"
	"github.com/secureguardian/guardian/internal/probe"
	"github.com/secureguardian/guardian/internal/threat"
)

// Collector is the probe layer the scanner draws observations from.
type Collector interface {
	Collect(ctx context.Context, hint *threat.LocationObservation) probe.Observations
	CheckURLs(ctx context.Context, urls []string) ([]threat.URLMatch, *threat.Finding)
}

// Scanner runs one full scan cycle: collect, match, aggregate.
type Scanner struct {
	collector  Collector
	matcher    *threat.Matcher
	aggregator *threat.Aggregator
	metrics    *metrics.Metrics

	reputationURLs []string
}

// New creates a scanner. metrics may be nil.
func New(collector Collector, matcher *threat.Matcher, aggregator *threat.Aggregator, m *metrics.Metrics) *Scanner {
	return &Scanner{
		collector:  collector,
		matcher:    matcher,
		aggregator: aggregator,
		metrics:    m,
	}
}

// SetReputationURLs sets the URLs checked against the reputation probe
// on every full scan. Call before the first scan; the list is read-only
// afterwards.
func (s *Scanner) SetReputationURLs(urls []string) {
	s.reputationURLs = urls
}

// Matcher exposes the signature matcher for targeted analysis endpoints.
func (s *Scanner) Matcher() *threat.Matcher {
	return s.matcher
}

// Aggregator exposes the risk aggregator.
func (s *Scanner) Aggregator() *threat.Aggregator {
	return s.aggregator
}

// Scan performs one scan cycle. Finding order is deterministic for fixed
// observations: wifi notes, per-network findings in enumeration order,
// location findings, URL reputation findings, then probe failures. Probe
// failures degrade the result but never fail the scan; the only error is
// a canceled context.
func (s *Scanner) Scan(ctx context.Context, hint *threat.LocationObservation) (*threat.ScanResult, error) {
	start := time.Now()

	obs := s.collector.Collect(ctx, hint)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var findings []threat.Finding
	findings = append(findings, obs.WifiNotes...)
	for _, network := range obs.Networks {
		findings = append(findings, s.matcher.MatchNetwork(network)...)
	}
	if obs.Location != nil {
		findings = append(findings, s.matcher.MatchLocation(*obs.Location)...)
	}
	if len(s.reputationURLs) > 0 {
		findings = append(findings, s.CheckURLs(ctx, s.reputationURLs)...)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	findings = append(findings, obs.Failures...)

	level, recommendations := s.aggregator.Aggregate(findings)

	result := &threat.ScanResult{
		Timestamp:       time.Now().UTC(),
		Location:        obs.Location,
		Threats:         findings,
		RiskLevel:       level,
		Recommendations: recommendations,
	}

	if s.metrics != nil {
		s.metrics.ObserveScan(time.Since(start), nil)
		for _, f := range findings {
			s.metrics.FindingsTotal.WithLabelValues(string(f.Type)).Inc()
		}
	}

	logging.Debug().
		Int("findings", len(findings)).
		Str("risk_level", string(level)).
		Dur("duration", time.Since(start)).
		Msg("scan completed")

	return result, nil
}

// ScanWifi runs only the wifi probe and matches its observations,
// for targeted wifi analysis requests.
func (s *Scanner) ScanWifi(ctx context.Context) ([]threat.Finding, error) {
	obs := s.collector.Collect(ctx, nil)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var findings []threat.Finding
	findings = append(findings, obs.WifiNotes...)
	for _, network := range obs.Networks {
		findings = append(findings, s.matcher.MatchNetwork(network)...)
	}
	findings = append(findings, obs.Failures...)
	return findings, nil
}

// CheckURLs runs the URL reputation probe and converts its output to
// findings, including the synthetic finding for a failed or unconfigured
// probe.
func (s *Scanner) CheckURLs(ctx context.Context, urls []string) []threat.Finding {
	matches, failure := s.collector.CheckURLs(ctx, urls)
	findings := s.matcher.MatchURLReputation(matches)
	if failure != nil {
		findings = append(findings, *failure)
	}
	return findings
}
