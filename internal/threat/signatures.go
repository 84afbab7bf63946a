// SecureGuardian - Personal Security Monitoring and Alerting
// Copyright 2026 SecureGuardian contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/secureguardian/guardian

package threat

import (
	"regexp"
	"strings"
)

// SignatureKind selects the evaluation strategy of a Signature.
type SignatureKind string

// Signature kinds.
const (
	KindExact     SignatureKind = "exact"
	KindPattern   SignatureKind = "pattern"
	KindThreshold SignatureKind = "threshold"
	KindSet       SignatureKind = "set"
)

// Signature is one detection rule. All rules, regardless of kind, bind a
// finding type, a default severity and a recommendation, and are evaluated
// through the single Match path. The table is read-only after load.
type Signature struct {
	Kind           SignatureKind
	Type           Type
	Severity       Severity
	Recommendation string

	literal   string
	pattern   *regexp.Regexp
	threshold float64
	members   map[string]Severity
}

// Input is the value a signature is evaluated against. Text carries
// string inputs (SSIDs, security modes, regions), Value numeric ones
// (signal level, accuracy).
type Input struct {
	Text  string
	Value float64
}

// Match evaluates the signature against in. On a hit it returns the
// effective severity, which set members may override.
func (s *Signature) Match(in Input) (Severity, bool) {
	switch s.Kind {
	case KindExact:
		if in.Text == s.literal {
			return s.Severity, true
		}
	case KindPattern:
		if s.pattern.MatchString(in.Text) {
			return s.Severity, true
		}
	case KindThreshold:
		if in.Value > s.threshold {
			return s.Severity, true
		}
	case KindSet:
		if sev, ok := s.members[strings.ToLower(in.Text)]; ok {
			if sev != "" {
				return sev, true
			}
			return s.Severity, true
		}
	}
	return "", false
}

// Exact builds a literal signature matched by strict equality.
func Exact(literal string, typ Type, sev Severity, rec string) Signature {
	return Signature{Kind: KindExact, Type: typ, Severity: sev, Recommendation: rec, literal: literal}
}

// Pattern builds a regexp signature. The expression must compile.
func Pattern(expr string, typ Type, sev Severity, rec string) Signature {
	return Signature{Kind: KindPattern, Type: typ, Severity: sev, Recommendation: rec, pattern: regexp.MustCompile(expr)}
}

// Threshold builds a numeric signature matching values strictly above limit.
func Threshold(limit float64, typ Type, sev Severity, rec string) Signature {
	return Signature{Kind: KindThreshold, Type: typ, Severity: sev, Recommendation: rec, threshold: limit}
}

// Set builds a membership signature. Members map lowercased values to a
// severity override; an empty override falls back to the default severity.
func Set(members map[string]Severity, typ Type, sev Severity, rec string) Signature {
	lowered := make(map[string]Severity, len(members))
	for k, v := range members {
		lowered[strings.ToLower(k)] = v
	}
	return Signature{Kind: KindSet, Type: typ, Severity: sev, Recommendation: rec, members: lowered}
}

// Recommendation texts attached to findings.
const (
	RecommendVPN        = "Enable VPN protection before connecting to any network"
	RecommendVerify     = "Verify network authenticity with venue staff"
	RecommendExtraCare  = "Consider using additional security measures"
	RecommendMonitoring = "Continue monitoring - no immediate threats detected"
)

// SignatureTable groups the signature rules by the observation attribute
// they evaluate.
type SignatureTable struct {
	MaliciousSSIDs  []Signature
	SuspiciousSSIDs []Signature
	WeakEncryption  Signature
	AnomalousSignal Signature
	SpoofedAccuracy Signature
	HighRiskRegions Signature
}

// Count returns the total number of loaded signatures.
func (t *SignatureTable) Count() int {
	return len(t.MaliciousSSIDs) + len(t.SuspiciousSSIDs) + 4
}

// Summary describes the loaded signatures for the patterns endpoint.
func (t *SignatureTable) Summary() map[string]interface{} {
	return map[string]interface{}{
		"malicious_ssids":  len(t.MaliciousSSIDs),
		"suspicious_ssids": len(t.SuspiciousSSIDs),
		"threshold_rules":  3,
		"region_rules":     1,
		"total":            t.Count(),
	}
}

// DefaultSignatures builds the built-in signature table. The SSID lists,
// encryption set and regions match the original detection tables; the
// numeric thresholds come from configuration.
func DefaultSignatures(anomalousSignalDBM, spoofAccuracyMeters float64) *SignatureTable {
	return &SignatureTable{
		MaliciousSSIDs: []Signature{
			Exact("Free WiFi", TypeMaliciousSSID, SeverityHigh, RecommendVPN),
			Exact("Public WiFi", TypeMaliciousSSID, SeverityHigh, RecommendVPN),
			Exact("Hotel WiFi", TypeMaliciousSSID, SeverityHigh, RecommendVPN),
			Exact("Airport WiFi", TypeMaliciousSSID, SeverityHigh, RecommendVPN),
		},
		// Only the exact literals count as confirmed malicious; every
		// pattern hit is suspicious at MEDIUM.
		SuspiciousSSIDs: []Signature{
			Pattern(`(?i)^(.+)_nomap$`, TypeSuspiciousSSID, SeverityMedium, ""),
			Pattern(`(?i)^pineapple`, TypeSuspiciousSSID, SeverityMedium, ""),
			Pattern(`(?i)^evil.*twin`, TypeSuspiciousSSID, SeverityMedium, ""),
			Pattern(`(?i)^android-ap`, TypeSuspiciousSSID, SeverityMedium, ""),
			Pattern(`(?i)^iphone.*hotspot`, TypeSuspiciousSSID, SeverityMedium, ""),
			Pattern(`(?i)^samsung.*direct`, TypeSuspiciousSSID, SeverityMedium, ""),
		},
		WeakEncryption: Set(map[string]Severity{
			"wep":  SeverityMedium,
			"none": SeverityHigh,
			"open": SeverityMedium,
		}, TypeWeakEncryption, SeverityMedium, RecommendVPN),
		AnomalousSignal: Threshold(anomalousSignalDBM, TypeAnomalousSignal, SeverityMedium, RecommendVerify),
		SpoofedAccuracy: Threshold(spoofAccuracyMeters, TypeLocationSpoofing, SeverityMedium, ""),
		HighRiskRegions: Set(map[string]Severity{
			"unknown":         "",
			"anonymous proxy": "",
		}, TypeHighRiskLocation, SeverityHigh, RecommendExtraCare),
	}
}
