// SecureGuardian - Personal Security Monitoring and Alerting
// Copyright 2026 SecureGuardian contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/secureguardian/guardian

// Package threat implements signature matching, risk aggregation and
// network classification over collected observations.
package threat

import "time"

// Severity grades a single finding.
type Severity string

// Finding severities, ordered INFO < LOW < MEDIUM < HIGH.
const (
	SeverityInfo   Severity = "INFO"
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

// RiskLevel grades an entire scan.
type RiskLevel string

// Scan risk levels, ordered LOW < MEDIUM < HIGH < CRITICAL.
const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// Type identifies the kind of threat a finding describes.
type Type string

// Finding types.
const (
	TypeCurrentWifi        Type = "CURRENT_WIFI"
	TypeNoWifi             Type = "NO_WIFI"
	TypeScanError          Type = "SCAN_ERROR"
	TypeAPIError           Type = "API_ERROR"
	TypeConfigurationError Type = "CONFIGURATION_ERROR"
	TypeMaliciousSSID      Type = "MALICIOUS_SSID"
	TypeSuspiciousSSID     Type = "SUSPICIOUS_SSID"
	TypeWeakEncryption     Type = "WEAK_ENCRYPTION"
	TypeAnomalousSignal    Type = "ANOMALOUS_SIGNAL"
	TypeMaliciousURL       Type = "MALICIOUS_URL"
	TypeLocationSpoofing   Type = "LOCATION_SPOOFING"
	TypeHighRiskLocation   Type = "HIGH_RISK_LOCATION"
)

// NetworkObservation is one access point seen by a wifi probe.
type NetworkObservation struct {
	SSID        string  `json:"ssid"`
	Security    string  `json:"security"`
	SignalLevel float64 `json:"signal_level"`
	MAC         string  `json:"mac,omitempty"`
}

// LocationObservation is a position fix, optionally enriched with the
// geo attributes resolved for the caller's IP.
type LocationObservation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy,omitempty"`
	IP        string  `json:"ip,omitempty"`
	Country   string  `json:"country,omitempty"`
	Region    string  `json:"region,omitempty"`
	City      string  `json:"city,omitempty"`
}

// URLMatch is one hit returned by a URL reputation probe.
type URLMatch struct {
	ThreatType string `json:"threat_type"`
	URL        string `json:"url"`
	Platform   string `json:"platform,omitempty"`
}

// Finding is a single detected threat. Findings are immutable once
// produced and owned by the ScanResult that carries them.
type Finding struct {
	Type           Type                   `json:"type"`
	Severity       Severity               `json:"severity"`
	Description    string                 `json:"description"`
	Network        string                 `json:"network,omitempty"`
	Location       *LocationObservation   `json:"location,omitempty"`
	Details        map[string]interface{} `json:"details,omitempty"`
	Recommendation string                 `json:"recommendation,omitempty"`
}

// ScanResult is the outcome of one full scan cycle. RiskLevel and
// Recommendations are always recomputed from Threats by the aggregator.
type ScanResult struct {
	Timestamp       time.Time            `json:"timestamp"`
	Location        *LocationObservation `json:"location,omitempty"`
	Threats         []Finding            `json:"threats"`
	RiskLevel       RiskLevel            `json:"risk_level"`
	Recommendations []string             `json:"recommendations"`
}

// HasFindings reports whether the scan produced any findings.
func (r *ScanResult) HasFindings() bool {
	return len(r.Threats) > 0
}
