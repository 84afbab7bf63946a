// SecureGuardian - Personal Security Monitoring and Alerting
// Copyright 2026 SecureGuardian contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/secureguardian/guardian

package alert

import "github.com/secureguardian/guardian/internal/threat"

// criticalTypes always escalate the alert priority to CRITICAL,
// independent of the aggregated risk level.
var criticalTypes = map[threat.Type]bool{
	threat.TypeMaliciousSSID:    true,
	threat.TypeHighRiskLocation: true,
	threat.TypeLocationSpoofing: true,
}

// Priority derives the distribution priority for a scan result. It can
// exceed the aggregated risk level but never fall below it.
func Priority(result *threat.ScanResult) threat.RiskLevel {
	if result.RiskLevel == threat.RiskCritical {
		return threat.RiskCritical
	}

	var high int
	for _, f := range result.Threats {
		if criticalTypes[f.Type] {
			return threat.RiskCritical
		}
		if f.Severity == threat.SeverityHigh {
			high++
		}
	}

	if result.RiskLevel == threat.RiskHigh || high >= 2 {
		return threat.RiskHigh
	}
	return result.RiskLevel
}
