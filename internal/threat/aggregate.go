// SecureGuardian - Personal Security Monitoring and Alerting
// Copyright 2026 SecureGuardian contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/secureguardian/guardian

package threat

// Aggregator computes the overall risk level and recommendation list
// for a set of findings.
type Aggregator struct {
	criticalHighCount int
	highMediumCount   int
}

// NewAggregator creates an aggregator with the given severity-count
// thresholds. criticalHighCount high-severity findings escalate the risk
// to CRITICAL; highMediumCount medium-severity findings escalate to HIGH.
func NewAggregator(criticalHighCount, highMediumCount int) *Aggregator {
	return &Aggregator{
		criticalHighCount: criticalHighCount,
		highMediumCount:   highMediumCount,
	}
}

// Aggregate derives the risk level and recommendations from findings.
// INFO and LOW findings never raise the risk above LOW on their own.
func (a *Aggregator) Aggregate(findings []Finding) (RiskLevel, []string) {
	var high, medium int
	for _, f := range findings {
		switch f.Severity {
		case SeverityHigh:
			high++
		case SeverityMedium:
			medium++
		}
	}

	level := RiskLow
	switch {
	case high >= a.criticalHighCount:
		level = RiskCritical
	case high >= 1:
		level = RiskHigh
	case medium >= a.highMediumCount:
		level = RiskHigh
	case medium >= 1:
		level = RiskMedium
	}

	return level, a.recommendations(findings)
}

// recommendations maps finding types to advice texts, in first-occurrence
// order with duplicates removed.
func (a *Aggregator) recommendations(findings []Finding) []string {
	var recs []string
	seen := make(map[string]bool)
	add := func(text string) {
		if text != "" && !seen[text] {
			seen[text] = true
			recs = append(recs, text)
		}
	}

	for _, f := range findings {
		switch f.Type {
		case TypeMaliciousSSID, TypeWeakEncryption:
			add(RecommendVPN)
		case TypeAnomalousSignal:
			add(RecommendVerify)
		case TypeHighRiskLocation:
			add(RecommendExtraCare)
		}
	}

	if len(recs) == 0 {
		recs = append(recs, RecommendMonitoring)
	}
	return recs
}
