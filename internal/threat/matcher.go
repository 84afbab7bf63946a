// SecureGuardian - Personal Security Monitoring and Alerting
// Copyright 2026 SecureGuardian contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/secureguardian/guardian

package threat

import "fmt"

// Matcher evaluates observations against the loaded signature table.
// It holds no mutable state and is safe for concurrent use.
type Matcher struct {
	table *SignatureTable
}

// NewMatcher creates a matcher over the given signature table.
func NewMatcher(table *SignatureTable) *Matcher {
	return &Matcher{table: table}
}

// SignatureCount returns the number of loaded signatures.
func (m *Matcher) SignatureCount() int {
	return m.table.Count()
}

// Summary describes the loaded signatures.
func (m *Matcher) Summary() map[string]interface{} {
	return m.table.Summary()
}

// MatchNetwork evaluates one access point. Rules run in a fixed order so
// the finding order is deterministic for a given observation: malicious
// SSID literals and patterns, suspicious SSID patterns, weak encryption,
// anomalous signal strength.
func (m *Matcher) MatchNetwork(n NetworkObservation) []Finding {
	var findings []Finding

	matched := false
	for i := range m.table.MaliciousSSIDs {
		sig := &m.table.MaliciousSSIDs[i]
		if sev, ok := sig.Match(Input{Text: n.SSID}); ok {
			findings = append(findings, Finding{
				Type:           sig.Type,
				Severity:       sev,
				Description:    fmt.Sprintf("Known malicious network detected: %s", n.SSID),
				Network:        n.SSID,
				Recommendation: sig.Recommendation,
			})
			matched = true
			break
		}
	}
	if !matched {
		for i := range m.table.SuspiciousSSIDs {
			sig := &m.table.SuspiciousSSIDs[i]
			if sev, ok := sig.Match(Input{Text: n.SSID}); ok {
				findings = append(findings, Finding{
					Type:        sig.Type,
					Severity:    sev,
					Description: fmt.Sprintf("Suspicious network name detected: %s", n.SSID),
					Network:     n.SSID,
				})
				break
			}
		}
	}

	if sev, ok := m.table.WeakEncryption.Match(Input{Text: n.Security}); ok {
		findings = append(findings, Finding{
			Type:           m.table.WeakEncryption.Type,
			Severity:       sev,
			Description:    fmt.Sprintf("Network %s uses weak or no encryption (%s)", n.SSID, n.Security),
			Network:        n.SSID,
			Details:        map[string]interface{}{"security": n.Security},
			Recommendation: m.table.WeakEncryption.Recommendation,
		})
	}

	if sev, ok := m.table.AnomalousSignal.Match(Input{Value: n.SignalLevel}); ok {
		findings = append(findings, Finding{
			Type:           m.table.AnomalousSignal.Type,
			Severity:       sev,
			Description:    fmt.Sprintf("Unusually strong signal from %s (%.0f dBm), possible rogue access point nearby", n.SSID, n.SignalLevel),
			Network:        n.SSID,
			Details:        map[string]interface{}{"signal_level": n.SignalLevel},
			Recommendation: m.table.AnomalousSignal.Recommendation,
		})
	}

	return findings
}

// MatchLocation evaluates a position fix: accuracy beyond the spoofing
// threshold, then membership of the resolved region in the high-risk
// set. Only the region field is consulted, never the country.
func (m *Matcher) MatchLocation(loc LocationObservation) []Finding {
	var findings []Finding

	if loc.Accuracy > 0 {
		if sev, ok := m.table.SpoofedAccuracy.Match(Input{Value: loc.Accuracy}); ok {
			l := loc
			findings = append(findings, Finding{
				Type:        m.table.SpoofedAccuracy.Type,
				Severity:    sev,
				Description: fmt.Sprintf("Location accuracy is unusually poor (%.0f m), possible GPS spoofing", loc.Accuracy),
				Location:    &l,
				Details:     map[string]interface{}{"accuracy": loc.Accuracy},
			})
		}
	}

	if loc.Region != "" {
		if sev, ok := m.table.HighRiskRegions.Match(Input{Text: loc.Region}); ok {
			l := loc
			findings = append(findings, Finding{
				Type:           m.table.HighRiskRegions.Type,
				Severity:       sev,
				Description:    fmt.Sprintf("Connection appears to originate from a high-risk region: %s", loc.Region),
				Location:       &l,
				Details:        map[string]interface{}{"region": loc.Region},
				Recommendation: m.table.HighRiskRegions.Recommendation,
			})
		}
	}

	return findings
}

// MatchURLReputation converts reputation probe hits into findings.
func (m *Matcher) MatchURLReputation(matches []URLMatch) []Finding {
	findings := make([]Finding, 0, len(matches))
	for _, match := range matches {
		findings = append(findings, Finding{
			Type:        TypeMaliciousURL,
			Severity:    SeverityHigh,
			Description: fmt.Sprintf("URL flagged as %s: %s", match.ThreatType, match.URL),
			Details: map[string]interface{}{
				"threat_type": match.ThreatType,
				"url":         match.URL,
				"platform":    match.Platform,
			},
		})
	}
	return findings
}
