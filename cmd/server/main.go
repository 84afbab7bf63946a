// SecureGuardian - Personal Security Monitoring and Alerting
// Copyright 2026 SecureGuardian contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/secureguardian/guardian

// Package main is the entry point for the guardian server.
//
// Guardian monitors the local environment for personal security threats:
// rogue wifi access points, weak network encryption, location spoofing
// and high-risk regions. Findings are aggregated into risk levels and
// distributed over websockets, with an emergency escalation channel for
// panic alerts and trusted contact notification.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered defaults, YAML file and environment (koanf v2)
//  2. Threat engine: signature table, matcher, aggregator and classifier
//  3. Probes: wifi scanner, geolocation lookup, URL reputation
//  4. Alert distribution: watermill pub/sub with per-user topics
//  5. Emergency escalation: in-memory or BadgerDB-backed alert store
//  6. Supervisor tree: monitoring, messaging and API layers under suture
//
// # Configuration
//
// Configuration is loaded via koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (GUARDIAN_* prefix)
//   - Config file (-config flag, GUARDIAN_CONFIG_PATH or guardian.yaml)
//   - Built-in defaults
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: the HTTP
// server drains in-flight requests, the monitoring loop stops and the
// emergency store is closed.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/secureguardian/guardian/internal/alert"
	"github.com/secureguardian/guardian/internal/api"
	"github.com/secureguardian/guardian/internal/config"
	"github.com/secureguardian/guardian/internal/emergency"
	"github.com/secureguardian/guardian/internal/logging"
	"github.com/secureguardian/guardian/internal/metrics"
	"github.com/secureguardian/guardian/internal/probe"
	"github.com/secureguardian/guardian/internal/scanner"
	"github.com/secureguardian/guardian/internal/supervisor"
	"github.com/secureguardian/guardian/internal/threat"
	"github.com/secureguardian/guardian/internal/ws"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Timestamp: true,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("storage", cfg.Storage.Backend).
		Dur("scan_interval", cfg.Monitoring.ScanInterval).
		Msg("starting guardian server")

	m := metrics.New()

	// Threat engine: signatures, matcher, aggregator, classifier.
	table := threat.DefaultSignatures(cfg.Threat.AnomalousSignalDBM, cfg.Threat.SpoofAccuracyMeters)
	matcher := threat.NewMatcher(table)
	aggregator := threat.NewAggregator(cfg.Threat.CriticalHighCount, cfg.Threat.HighMediumCount)
	classifier := threat.NewClassifier(cfg.Threat.ClassifierThreatCutoff)
	logging.Info().Int("signatures", table.Count()).Msg("threat signatures loaded")

	// Probes. The URL reputation probe degrades to a config-error finding
	// when no API key is set.
	collector := probe.NewCollector(
		probe.NewSystemWifiScanner(cfg.Probes.WifiInterface),
		probe.NewHTTPGeoResolver(cfg.Probes.GeoLookupURL, nil),
		probe.NewSafeBrowsingChecker(cfg.Probes.SafeBrowsingAPIKey, cfg.Probes.SafeBrowsingURL, nil),
		cfg.Probes.Timeout,
	)
	scn := scanner.New(collector, matcher, aggregator, m)
	scn.SetReputationURLs(cfg.Probes.ReputationURLs)

	// Alert distribution over the in-process pub/sub.
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, alert.NewLoggerAdapter())
	distributor := alert.NewDistributor(pubSub, cfg.Alerts.Retention, m)

	// Emergency alert store.
	store, err := newEmergencyStore(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to open emergency store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("error closing emergency store")
		}
	}()
	emergencySvc := emergency.NewService(store, cfg.Emergency, m)

	// Realtime layer: hub plus the pub/sub-to-websocket bridge.
	hub := ws.NewHub(m)
	bridge := ws.NewBridge(pubSub, hub)

	// Periodic monitoring publishes every result that carries findings.
	monitor := scanner.NewMonitor(scn, cfg.Monitoring.ScanInterval, func(result *threat.ScanResult) {
		if err := distributor.Broadcast(result); err != nil {
			logging.Err(err).Msg("broadcasting scan result failed")
		}
	})

	handlers := api.NewHandlers(cfg, scn, monitor, classifier, distributor, emergencySvc, hub, m)
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handlers.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for sutureslog.
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})

	tree.AddMonitoringService(supervisor.NewMonitorService(monitor, cfg.Monitoring.AutoStart))
	tree.AddMessagingService(supervisor.NewHubService(hub))
	tree.AddMessagingService(supervisor.NewBridgeService(bridge))
	tree.AddMessagingService(supervisor.NewCleanupService(distributor, cfg.Alerts.CleanupInterval))
	tree.AddAPIService(supervisor.NewHTTPService(server, cfg.Server.ShutdownTimeout))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("supervisor shutdown error")
		}
	}

	if unstopped, err := tree.UnstoppedServiceReport(); err == nil && len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("service failed to stop within timeout")
		}
	}

	if err := pubSub.Close(); err != nil {
		logging.Error().Err(err).Msg("error closing pub/sub")
	}

	logging.Info().Msg("guardian server stopped")
}

// newEmergencyStore selects the configured store backend.
func newEmergencyStore(cfg *config.Config) (emergency.Store, error) {
	switch cfg.Storage.Backend {
	case "badger":
		return emergency.NewBadgerStore(cfg.Storage.Path)
	default:
		return emergency.NewMemoryStore(), nil
	}
}
