// SecureGuardian - Personal Security Monitoring and Alerting
// Copyright 2026 SecureGuardian contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/secureguardian/guardian

package threat

import (
	"math"
	"testing"
)

func TestClassify(t *testing.T) {
	c := NewClassifier(0.7)

	tests := []struct {
		name      string
		network   NetworkObservation
		wantScore float64
		wantLabel string
	}{
		{
			name:      "benign home network",
			network:   NetworkObservation{SSID: "MyHome", Security: "WPA2", SignalLevel: -65},
			wantScore: 0.5,
			wantLabel: ClassificationSafe,
		},
		{
			name:      "bait words only",
			network:   NetworkObservation{SSID: "Free Coffee", Security: "WPA2", SignalLevel: -65},
			wantScore: 0.8,
			wantLabel: ClassificationThreat,
		},
		{
			name:      "open network with bait words",
			network:   NetworkObservation{SSID: "Free WiFi", Security: "None", SignalLevel: -65},
			wantScore: 1.0,
			wantLabel: ClassificationThreat,
		},
		{
			name:      "strong signal only",
			network:   NetworkObservation{SSID: "MyHome", Security: "WPA2", SignalLevel: -20},
			wantScore: 0.7,
			wantLabel: ClassificationSafe,
		},
		{
			name:      "long ssid only",
			network:   NetworkObservation{SSID: "ThisIsAVeryLongNetworkName", Security: "WPA2", SignalLevel: -65},
			wantScore: 0.6,
			wantLabel: ClassificationSafe,
		},
		{
			name:      "score capped at one",
			network:   NetworkObservation{SSID: "Totally Free Public Hotel WiFi Here", Security: "None", SignalLevel: -10},
			wantScore: 1.0,
			wantLabel: ClassificationThreat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.network)
			if math.Abs(got.Probability-tt.wantScore) > 1e-9 {
				t.Errorf("probability = %v, want %v", got.Probability, tt.wantScore)
			}
			if got.Classification != tt.wantLabel {
				t.Errorf("classification = %s, want %s", got.Classification, tt.wantLabel)
			}
			wantConfidence := math.Abs(tt.wantScore-0.5) * 2
			if math.Abs(got.Confidence-wantConfidence) > 1e-9 {
				t.Errorf("confidence = %v, want %v", got.Confidence, wantConfidence)
			}
		})
	}
}

func TestClassifyMissingSignalLevel(t *testing.T) {
	c := NewClassifier(0.7)

	// An omitted signal decodes to zero and must not count as strong.
	got := c.Classify(NetworkObservation{SSID: "MyHome", Security: "WPA2"})
	if math.Abs(got.Probability-0.5) > 1e-9 {
		t.Errorf("probability = %v, want 0.5", got.Probability)
	}
	if got.Features.SignalStrength != -100 {
		t.Errorf("signal feature = %v, want -100", got.Features.SignalStrength)
	}
}

func TestClassifyCutoffFromConfig(t *testing.T) {
	strict := NewClassifier(0.6)
	got := strict.Classify(NetworkObservation{SSID: "MyHome", Security: "WPA2", SignalLevel: -20})
	if got.Classification != ClassificationThreat {
		t.Errorf("score 0.7 with cutoff 0.6: classification = %s, want %s", got.Classification, ClassificationThreat)
	}
}

func TestLookupVendor(t *testing.T) {
	tests := []struct {
		mac  string
		want string
	}{
		{"00:1B:63:AA:BB:CC", "Apple"},
		{"00:1b:63:aa:bb:cc", "Apple"},
		{"08:00:27:11:22:33", "VirtualBox"},
		{"00:0C:29:44:55:66", "VMware"},
		{"00:50:56:77:88:99", "VMware"},
		{"DE:AD:BE:EF:00:01", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := lookupVendor(tt.mac); got != tt.want {
			t.Errorf("lookupVendor(%q) = %q, want %q", tt.mac, got, tt.want)
		}
	}
}
