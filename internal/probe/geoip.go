// SecureGuardian - Personal Security Monitoring and Alerting
// Copyright 2026 SecureGuardian contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/secureguardian/guardian

package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/goccy/go-json"
)

// HTTPGeoResolver resolves IP geo attribution against an ip-api style
// JSON endpoint.
type HTTPGeoResolver struct {
	baseURL string
	client  *http.Client
}

// NewHTTPGeoResolver creates a resolver for the given base URL, e.g.
// "http://ip-api.com/json".
func NewHTTPGeoResolver(baseURL string, client *http.Client) *HTTPGeoResolver {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPGeoResolver{baseURL: baseURL, client: client}
}

type geoAPIResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	Country    string `json:"country"`
	RegionName string `json:"regionName"`
	City       string `json:"city"`
}

// Resolve looks up the given IP. An empty ip resolves the caller's
// public address.
func (r *HTTPGeoResolver) Resolve(ctx context.Context, ip string) (*GeoInfo, error) {
	endpoint := r.baseURL
	if ip != "" {
		endpoint = r.baseURL + "/" + url.PathEscape(ip)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building geo request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geo lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geo lookup: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading geo response: %w", err)
	}

	var parsed geoAPIResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decoding geo response: %w", err)
	}
	if parsed.Status != "" && parsed.Status != "success" {
		return nil, fmt.Errorf("geo lookup failed: %s", parsed.Message)
	}

	return &GeoInfo{
		Country: parsed.Country,
		Region:  parsed.RegionName,
		City:    parsed.City,
	}, nil
}
