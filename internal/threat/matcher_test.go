// SecureGuardian - Personal Security Monitoring and Alerting
// Copyright 2026 SecureGuardian contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/secureguardian/guardian

package threat

import "testing"

func newTestMatcher() *Matcher {
	return NewMatcher(DefaultSignatures(-30, 1000))
}

func TestMatchNetworkMaliciousSSID(t *testing.T) {
	m := newTestMatcher()

	tests := []struct {
		name     string
		ssid     string
		wantType Type
		wantSev  Severity
	}{
		{"known literal", "Free WiFi", TypeMaliciousSSID, SeverityHigh},
		{"airport literal", "Airport WiFi", TypeMaliciousSSID, SeverityHigh},
		{"nomap suffix", "HomeNetwork_nomap", TypeSuspiciousSSID, SeverityMedium},
		{"pineapple prefix", "Pineapple5G", TypeSuspiciousSSID, SeverityMedium},
		{"evil twin", "evil corp twin", TypeSuspiciousSSID, SeverityMedium},
		{"android hotspot", "Android-AP-1234", TypeSuspiciousSSID, SeverityMedium},
		{"iphone hotspot", "iPhone Personal Hotspot", TypeSuspiciousSSID, SeverityMedium},
		{"samsung direct", "Samsung Galaxy Direct", TypeSuspiciousSSID, SeverityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := m.MatchNetwork(NetworkObservation{
				SSID:        tt.ssid,
				Security:    "WPA2",
				SignalLevel: -65,
			})
			if len(findings) != 1 {
				t.Fatalf("got %d findings, want 1: %+v", len(findings), findings)
			}
			f := findings[0]
			if f.Type != tt.wantType {
				t.Errorf("type = %s, want %s", f.Type, tt.wantType)
			}
			if f.Severity != tt.wantSev {
				t.Errorf("severity = %s, want %s", f.Severity, tt.wantSev)
			}
			if f.Network != tt.ssid {
				t.Errorf("network = %q, want %q", f.Network, tt.ssid)
			}
		})
	}

	t.Run("literal is case sensitive", func(t *testing.T) {
		findings := m.MatchNetwork(NetworkObservation{
			SSID:        "free wifi",
			Security:    "WPA2",
			SignalLevel: -65,
		})
		if len(findings) != 0 {
			t.Errorf("got %d findings, want 0: %+v", len(findings), findings)
		}
	})
}

func TestMatchNetworkWeakEncryption(t *testing.T) {
	m := newTestMatcher()

	tests := []struct {
		security string
		wantSev  Severity
	}{
		{"None", SeverityHigh},
		{"none", SeverityHigh},
		{"WEP", SeverityMedium},
		{"Open", SeverityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.security, func(t *testing.T) {
			findings := m.MatchNetwork(NetworkObservation{
				SSID:        "CoffeeShop",
				Security:    tt.security,
				SignalLevel: -60,
			})
			if len(findings) != 1 {
				t.Fatalf("got %d findings, want 1: %+v", len(findings), findings)
			}
			if findings[0].Type != TypeWeakEncryption {
				t.Errorf("type = %s, want %s", findings[0].Type, TypeWeakEncryption)
			}
			if findings[0].Severity != tt.wantSev {
				t.Errorf("severity = %s, want %s", findings[0].Severity, tt.wantSev)
			}
		})
	}

	t.Run("wpa2 passes", func(t *testing.T) {
		findings := m.MatchNetwork(NetworkObservation{SSID: "CoffeeShop", Security: "WPA2", SignalLevel: -60})
		if len(findings) != 0 {
			t.Errorf("got %d findings, want 0: %+v", len(findings), findings)
		}
	})
}

func TestMatchNetworkAnomalousSignal(t *testing.T) {
	m := newTestMatcher()

	findings := m.MatchNetwork(NetworkObservation{SSID: "Office", Security: "WPA2", SignalLevel: -20})
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1: %+v", len(findings), findings)
	}
	if findings[0].Type != TypeAnomalousSignal || findings[0].Severity != SeverityMedium {
		t.Errorf("got %s/%s, want %s/%s", findings[0].Type, findings[0].Severity, TypeAnomalousSignal, SeverityMedium)
	}

	// Exactly at the threshold is not anomalous.
	findings = m.MatchNetwork(NetworkObservation{SSID: "Office", Security: "WPA2", SignalLevel: -30})
	if len(findings) != 0 {
		t.Errorf("at threshold: got %d findings, want 0", len(findings))
	}
}

func TestMatchNetworkMultipleFindings(t *testing.T) {
	m := newTestMatcher()

	findings := m.MatchNetwork(NetworkObservation{SSID: "Free WiFi", Security: "None", SignalLevel: -15})
	if len(findings) != 3 {
		t.Fatalf("got %d findings, want 3: %+v", len(findings), findings)
	}
	// Order is fixed: SSID rules, then encryption, then signal.
	wantOrder := []Type{TypeMaliciousSSID, TypeWeakEncryption, TypeAnomalousSignal}
	for i, want := range wantOrder {
		if findings[i].Type != want {
			t.Errorf("findings[%d].Type = %s, want %s", i, findings[i].Type, want)
		}
	}
}

func TestMatchLocation(t *testing.T) {
	m := newTestMatcher()

	tests := []struct {
		name string
		loc  LocationObservation
		want []Type
	}{
		{
			name: "clean fix",
			loc:  LocationObservation{Latitude: 40.7, Longitude: -74.0, Accuracy: 15, Country: "United States"},
			want: nil,
		},
		{
			name: "poor accuracy",
			loc:  LocationObservation{Latitude: 40.7, Longitude: -74.0, Accuracy: 1500},
			want: []Type{TypeLocationSpoofing},
		},
		{
			name: "anonymous proxy region",
			loc:  LocationObservation{Latitude: 0, Longitude: 0, Accuracy: 10, Region: "Anonymous Proxy"},
			want: []Type{TypeHighRiskLocation},
		},
		{
			name: "unknown region",
			loc:  LocationObservation{Accuracy: 20, Region: "Unknown"},
			want: []Type{TypeHighRiskLocation},
		},
		{
			name: "country is not consulted",
			loc:  LocationObservation{Accuracy: 20, Country: "Unknown"},
			want: nil,
		},
		{
			name: "spoofed and high risk",
			loc:  LocationObservation{Accuracy: 2000, Region: "Unknown"},
			want: []Type{TypeLocationSpoofing, TypeHighRiskLocation},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := m.MatchLocation(tt.loc)
			if len(findings) != len(tt.want) {
				t.Fatalf("got %d findings, want %d: %+v", len(findings), len(tt.want), findings)
			}
			for i, want := range tt.want {
				if findings[i].Type != want {
					t.Errorf("findings[%d].Type = %s, want %s", i, findings[i].Type, want)
				}
			}
		})
	}
}

func TestMatchLocationSpoofingSeverity(t *testing.T) {
	m := newTestMatcher()

	findings := m.MatchLocation(LocationObservation{Accuracy: 5000})
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1", len(findings))
	}
	if findings[0].Severity != SeverityMedium {
		t.Errorf("severity = %s, want %s", findings[0].Severity, SeverityMedium)
	}
	if findings[0].Location == nil {
		t.Error("finding should carry the location")
	}
}

func TestMatchURLReputation(t *testing.T) {
	m := newTestMatcher()

	matches := []URLMatch{
		{ThreatType: "MALWARE", URL: "http://bad.example.com", Platform: "ANY_PLATFORM"},
		{ThreatType: "SOCIAL_ENGINEERING", URL: "http://phish.example.com"},
	}
	findings := m.MatchURLReputation(matches)
	if len(findings) != 2 {
		t.Fatalf("got %d findings, want 2", len(findings))
	}
	for i, f := range findings {
		if f.Type != TypeMaliciousURL {
			t.Errorf("findings[%d].Type = %s, want %s", i, f.Type, TypeMaliciousURL)
		}
		if f.Severity != SeverityHigh {
			t.Errorf("findings[%d].Severity = %s, want %s", i, f.Severity, SeverityHigh)
		}
	}
	if len(m.MatchURLReputation(nil)) != 0 {
		t.Error("no matches should yield no findings")
	}
}

func TestSignatureTableCount(t *testing.T) {
	table := DefaultSignatures(-30, 1000)
	if got := table.Count(); got != 14 {
		t.Errorf("Count() = %d, want 14", got)
	}
	m := NewMatcher(table)
	if m.SignatureCount() != table.Count() {
		t.Errorf("SignatureCount() = %d, want %d", m.SignatureCount(), table.Count())
	}
}
