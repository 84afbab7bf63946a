// SecureGuardian - Personal Security Monitoring and Alerting
// Copyright 2026 SecureGuardian contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/secureguardian/guardian

package probe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/secureguardian/guardian/internal/threat"
)

// SafeBrowsingChecker queries the Google Safe Browsing v4 threatMatches
// endpoint. Without an API key every Check returns ErrNotConfigured.
type SafeBrowsingChecker struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewSafeBrowsingChecker creates a checker. apiKey may be empty; the
// checker then reports itself as unconfigured.
func NewSafeBrowsingChecker(apiKey, baseURL string, client *http.Client) *SafeBrowsingChecker {
	if client == nil {
		client = http.DefaultClient
	}
	return &SafeBrowsingChecker{apiKey: apiKey, baseURL: baseURL, client: client}
}

type sbThreatEntry struct {
	URL string `json:"url"`
}

type sbRequest struct {
	Client struct {
		ClientID      string `json:"clientId"`
		ClientVersion string `json:"clientVersion"`
	} `json:"client"`
	ThreatInfo struct {
		ThreatTypes      []string        `json:"threatTypes"`
		PlatformTypes    []string        `json:"platformTypes"`
		ThreatEntryTypes []string        `json:"threatEntryTypes"`
		ThreatEntries    []sbThreatEntry `json:"threatEntries"`
	} `json:"threatInfo"`
}

type sbResponse struct {
	Matches []struct {
		ThreatType   string `json:"threatType"`
		PlatformType string `json:"platformType"`
		Threat       struct {
			URL string `json:"url"`
		} `json:"threat"`
	} `json:"matches"`
}

// Check looks up the given URLs.
func (c *SafeBrowsingChecker) Check(ctx context.Context, urls []string) ([]threat.URLMatch, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}
	if len(urls) == 0 {
		return nil, nil
	}

	reqBody := sbRequest{}
	reqBody.Client.ClientID = "secureguardian"
	reqBody.Client.ClientVersion = "1.0.0"
	reqBody.ThreatInfo.ThreatTypes = []string{"MALWARE", "SOCIAL_ENGINEERING", "UNWANTED_SOFTWARE", "POTENTIALLY_HARMFUL_APPLICATION"}
	reqBody.ThreatInfo.PlatformTypes = []string{"ANY_PLATFORM"}
	reqBody.ThreatInfo.ThreatEntryTypes = []string{"URL"}
	for _, u := range urls {
		reqBody.ThreatInfo.ThreatEntries = append(reqBody.ThreatInfo.ThreatEntries, sbThreatEntry{URL: u})
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("encoding safe browsing request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"?key="+c.apiKey, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building safe browsing request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("safe browsing lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("safe browsing lookup: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading safe browsing response: %w", err)
	}

	var parsed sbResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decoding safe browsing response: %w", err)
	}

	matches := make([]threat.URLMatch, 0, len(parsed.Matches))
	for _, m := range parsed.Matches {
		matches = append(matches, threat.URLMatch{
			ThreatType: m.ThreatType,
			URL:        m.Threat.URL,
			Platform:   m.PlatformType,
		})
	}
	return matches, nil
}
