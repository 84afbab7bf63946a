// SecureGuardian - Personal Security Monitoring and Alerting
// Copyright 2026 SecureGuardian contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/secureguardian/guardian

// Package probe collects raw signals from the environment: nearby wifi
// networks, geo attribution for the caller's IP and URL reputation.
// Probe failures never abort a scan; they surface as synthetic findings.
package probe

import (
	"context"
	"errors"

	"github.com/secureguardian/guardian/internal/threat"
)

// ErrNotConfigured is returned by probes whose upstream credentials are
// missing. Callers translate it to a CONFIGURATION_ERROR finding.
var ErrNotConfigured = errors.New("probe not configured")

// WifiScanOutput is the result of one wifi enumeration.
type WifiScanOutput struct {
	Networks []threat.NetworkObservation

	// Notes carries informational findings produced by degraded
	// platforms that can only report the associated network.
	Notes []threat.Finding
}

// WifiScanner enumerates nearby access points.
type WifiScanner interface {
	Scan(ctx context.Context) (WifiScanOutput, error)
}

// GeoInfo is the geo attribution resolved for an IP address.
type GeoInfo struct {
	Country string `json:"country"`
	Region  string `json:"region"`
	City    string `json:"city"`
}

// GeoResolver resolves geo attribution for an IP. An empty ip resolves
// the caller's public address.
type GeoResolver interface {
	Resolve(ctx context.Context, ip string) (*GeoInfo, error)
}

// ReputationChecker looks up URLs against a reputation service.
type ReputationChecker interface {
	Check(ctx context.Context, urls []string) ([]threat.URLMatch, error)
}

// Observations is everything one collection pass gathered. Failures are
// synthetic findings describing probes that could not complete.
type Observations struct {
	Networks  []threat.NetworkObservation
	WifiNotes []threat.Finding
	Location  *threat.LocationObservation
	Failures  []threat.Finding
}

func scanErrorFinding(err error) threat.Finding {
	return threat.Finding{
		Type:        threat.TypeScanError,
		Severity:    threat.SeverityMedium,
		Description: "Unable to scan wireless networks",
		Details:     map[string]interface{}{"error": err.Error()},
	}
}

func apiErrorFinding(service string, err error) threat.Finding {
	return threat.Finding{
		Type:        threat.TypeAPIError,
		Severity:    threat.SeverityMedium,
		Description: "External security service unavailable: " + service,
		Details:     map[string]interface{}{"service": service, "error": err.Error()},
	}
}

func configErrorFinding(service string) threat.Finding {
	return threat.Finding{
		Type:        threat.TypeConfigurationError,
		Severity:    threat.SeverityMedium,
		Description: "Security service not configured: " + service,
		Details:     map[string]interface{}{"service": service},
	}
}
