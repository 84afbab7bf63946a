// SecureGuardian - Personal Security Monitoring and Alerting
// Copyright 2026 SecureGuardian contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/secureguardian/guardian

package probe

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/secureguardian/guardian/internal/logging"
	"github.com/secureguardian/guardian/internal/threat"
)

// Collector runs the configured probes and assembles their observations.
// Each probe gets its own timeout so a slow upstream degrades only the
// current pass.
type Collector struct {
	wifi       WifiScanner
	geo        GeoResolver
	reputation ReputationChecker
	timeout    time.Duration
}

// NewCollector creates a collector. Any probe may be nil; nil probes are
// skipped without producing failure findings, except the reputation
// checker which reports CONFIGURATION_ERROR when a URL check is requested.
func NewCollector(wifi WifiScanner, geo GeoResolver, reputation ReputationChecker, timeout time.Duration) *Collector {
	return &Collector{wifi: wifi, geo: geo, reputation: reputation, timeout: timeout}
}

// Collect runs the wifi and geo probes concurrently and gathers their
// results. hint, when present, is enriched with resolved geo attributes.
func (c *Collector) Collect(ctx context.Context, hint *threat.LocationObservation) Observations {
	var (
		obs Observations
		mu  sync.Mutex
		wg  sync.WaitGroup
	)

	if c.wifi != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			probeCtx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()

			out, err := c.wifi.Scan(probeCtx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logging.Warn().Err(err).Msg("wifi probe failed")
				obs.Failures = append(obs.Failures, scanErrorFinding(err))
				return
			}
			obs.Networks = out.Networks
			obs.WifiNotes = out.Notes
		}()
	}

	if hint != nil {
		loc := *hint
		obs.Location = &loc

		if c.geo != nil {
			wg.Add(1)
			go func() {
				defer wg.Done()
				probeCtx, cancel := context.WithTimeout(ctx, c.timeout)
				defer cancel()

				info, err := c.geo.Resolve(probeCtx, hint.IP)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					logging.Warn().Err(err).Msg("geo probe failed")
					obs.Failures = append(obs.Failures, apiErrorFinding("geo lookup", err))
					return
				}
				obs.Location.Country = info.Country
				obs.Location.Region = info.Region
				obs.Location.City = info.City
			}()
		}
	}

	wg.Wait()
	return obs
}

// CheckURLs runs the reputation probe for the given URLs. A missing or
// unconfigured checker yields a CONFIGURATION_ERROR finding instead of
// matches; upstream failures yield an API_ERROR finding.
func (c *Collector) CheckURLs(ctx context.Context, urls []string) ([]threat.URLMatch, *threat.Finding) {
	if len(urls) == 0 {
		return nil, nil
	}
	if c.reputation == nil {
		f := configErrorFinding("safe browsing")
		return nil, &f
	}

	probeCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	matches, err := c.reputation.Check(probeCtx, urls)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			f := configErrorFinding("safe browsing")
			return nil, &f
		}
		logging.Warn().Err(err).Msg("reputation probe failed")
		f := apiErrorFinding("safe browsing", err)
		return nil, &f
	}
	return matches, nil
}
