// SecureGuardian - Personal Security Monitoring and Alerting
// Copyright 2026 SecureGuardian contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/secureguardian/guardian

package threat

import (
	"reflect"
	"testing"
)

func findingsWith(severities ...Severity) []Finding {
	findings := make([]Finding, 0, len(severities))
	for _, sev := range severities {
		findings = append(findings, Finding{Type: TypeSuspiciousSSID, Severity: sev})
	}
	return findings
}

func TestAggregateRiskLevels(t *testing.T) {
	agg := NewAggregator(2, 3)

	tests := []struct {
		name     string
		findings []Finding
		want     RiskLevel
	}{
		{"empty", nil, RiskLow},
		{"only info", findingsWith(SeverityInfo), RiskLow},
		{"only low", findingsWith(SeverityLow, SeverityLow), RiskLow},
		{"one medium", findingsWith(SeverityMedium), RiskMedium},
		{"two medium", findingsWith(SeverityMedium, SeverityMedium), RiskMedium},
		{"three medium", findingsWith(SeverityMedium, SeverityMedium, SeverityMedium), RiskHigh},
		{"one high", findingsWith(SeverityHigh), RiskHigh},
		{"one high plus mediums", findingsWith(SeverityHigh, SeverityMedium, SeverityMedium), RiskHigh},
		{"two high", findingsWith(SeverityHigh, SeverityHigh), RiskCritical},
		{"three high", findingsWith(SeverityHigh, SeverityHigh, SeverityHigh), RiskCritical},
		{"mixed critical", findingsWith(SeverityHigh, SeverityLow, SeverityHigh, SeverityMedium), RiskCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, _ := agg.Aggregate(tt.findings)
			if level != tt.want {
				t.Errorf("Aggregate() level = %s, want %s", level, tt.want)
			}
		})
	}
}

func TestAggregateConfigurableThresholds(t *testing.T) {
	agg := NewAggregator(3, 2)

	level, _ := agg.Aggregate(findingsWith(SeverityHigh, SeverityHigh))
	if level != RiskHigh {
		t.Errorf("two high with threshold 3: level = %s, want %s", level, RiskHigh)
	}

	level, _ = agg.Aggregate(findingsWith(SeverityMedium, SeverityMedium))
	if level != RiskHigh {
		t.Errorf("two medium with threshold 2: level = %s, want %s", level, RiskHigh)
	}
}

func TestAggregateRecommendations(t *testing.T) {
	agg := NewAggregator(2, 3)

	tests := []struct {
		name     string
		findings []Finding
		want     []string
	}{
		{
			name: "empty yields default",
			want: []string{RecommendMonitoring},
		},
		{
			name:     "malicious ssid",
			findings: []Finding{{Type: TypeMaliciousSSID, Severity: SeverityHigh}},
			want:     []string{RecommendVPN},
		},
		{
			name: "deduplicated across types",
			findings: []Finding{
				{Type: TypeMaliciousSSID, Severity: SeverityHigh},
				{Type: TypeWeakEncryption, Severity: SeverityMedium},
			},
			want: []string{RecommendVPN},
		},
		{
			name: "first occurrence order",
			findings: []Finding{
				{Type: TypeAnomalousSignal, Severity: SeverityMedium},
				{Type: TypeHighRiskLocation, Severity: SeverityHigh},
				{Type: TypeMaliciousSSID, Severity: SeverityHigh},
				{Type: TypeAnomalousSignal, Severity: SeverityMedium},
			},
			want: []string{RecommendVerify, RecommendExtraCare, RecommendVPN},
		},
		{
			name:     "types without advice yield default",
			findings: []Finding{{Type: TypeSuspiciousSSID, Severity: SeverityMedium}},
			want:     []string{RecommendMonitoring},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, recs := agg.Aggregate(tt.findings)
			if !reflect.DeepEqual(recs, tt.want) {
				t.Errorf("recommendations = %v, want %v", recs, tt.want)
			}
		})
	}
}
