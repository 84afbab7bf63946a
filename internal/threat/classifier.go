// SecureGuardian - Personal Security Monitoring and Alerting
// Copyright 2026 SecureGuardian contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/secureguardian/guardian

package threat

import (
	"math"
	"regexp"
	"strings"
)

// Classification labels returned by the classifier.
const (
	ClassificationThreat = "THREAT"
	ClassificationSafe   = "SAFE"
)

var commonBaitWords = regexp.MustCompile(`(?i)free|wifi|public|hotel`)

// macVendors maps OUI prefixes to vendor names. Virtualized vendors are a
// weak rogue-AP indicator surfaced in the feature set.
var macVendors = map[string]string{
	"00:1B:63": "Apple",
	"08:00:27": "VirtualBox",
	"00:0C:29": "VMware",
	"00:50:56": "VMware",
}

// Features are the inputs the scoring function derives from a network.
type Features struct {
	SSIDLength     int     `json:"ssid_length"`
	HasCommonWords bool    `json:"has_common_words"`
	SignalStrength float64 `json:"signal_strength"`
	EncryptionType string  `json:"encryption_type"`
	MACVendor      string  `json:"mac_vendor,omitempty"`
}

// Classification is the classifier output for one network.
type Classification struct {
	Probability    float64  `json:"probability"`
	Classification string   `json:"classification"`
	Confidence     float64  `json:"confidence"`
	Features       Features `json:"features"`
}

// Classifier scores networks with a fixed rule-based function. There is
// no training; the weights are constants and only the decision cutoff is
// configurable.
type Classifier struct {
	cutoff float64
}

// NewClassifier creates a classifier with the given threat cutoff.
func NewClassifier(cutoff float64) *Classifier {
	return &Classifier{cutoff: cutoff}
}

// Classify scores one network observation.
func (c *Classifier) Classify(n NetworkObservation) Classification {
	features := extractFeatures(n)

	score := 0.5
	if features.HasCommonWords {
		score += 0.3
	}
	if features.SignalStrength > -30 {
		score += 0.2
	}
	if strings.EqualFold(features.EncryptionType, "None") {
		score += 0.4
	}
	if features.SSIDLength > 20 {
		score += 0.1
	}
	score = math.Min(score, 1.0)

	label := ClassificationSafe
	if score > c.cutoff {
		label = ClassificationThreat
	}

	return Classification{
		Probability:    score,
		Classification: label,
		Confidence:     math.Abs(score-0.5) * 2,
		Features:       features,
	}
}

func extractFeatures(n NetworkObservation) Features {
	// An absent signal level decodes to zero; treat it as a very weak
	// signal instead of an anomalously strong one.
	signal := n.SignalLevel
	if signal == 0 {
		signal = -100
	}
	return Features{
		SSIDLength:     len(n.SSID),
		HasCommonWords: commonBaitWords.MatchString(n.SSID),
		SignalStrength: signal,
		EncryptionType: n.Security,
		MACVendor:      lookupVendor(n.MAC),
	}
}

func lookupVendor(mac string) string {
	if len(mac) < 8 {
		return ""
	}
	return macVendors[strings.ToUpper(mac[:8])]
}
