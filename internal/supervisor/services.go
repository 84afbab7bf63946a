// SecureGuardian - Personal Security Monitoring and Alerting
// Copyright 2026 SecureGuardian contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/secureguardian/guardian

package supervisor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/secureguardian/guardian/internal/alert"
	"github.com/secureguardian/guardian/internal/logging"
	"github.com/secureguardian/guardian/internal/scanner"
	"github.com/secureguardian/guardian/internal/ws"
)

// MonitorService runs the periodic scan loop under supervision. The
// monitor itself owns the session; this wrapper ties its lifetime to
// the supervisor context.
type MonitorService struct {
	monitor   *scanner.Monitor
	autoStart bool
}

// NewMonitorService wraps a scan monitor. When autoStart is false the
// service only keeps the monitor alive for API-driven start requests.
func NewMonitorService(monitor *scanner.Monitor, autoStart bool) *MonitorService {
	return &MonitorService{monitor: monitor, autoStart: autoStart}
}

// Serve implements suture.Service.
func (s *MonitorService) Serve(ctx context.Context) error {
	if s.autoStart {
		s.monitor.Start(ctx)
	}

	<-ctx.Done()

	s.monitor.Stop()
	return ctx.Err()
}

func (s *MonitorService) String() string { return "threat-monitor" }

// CleanupService expires old alert distribution records on a fixed
// interval.
type CleanupService struct {
	distributor *alert.Distributor
	interval    time.Duration
}

// NewCleanupService wraps the distributor housekeeping loop.
func NewCleanupService(distributor *alert.Distributor, interval time.Duration) *CleanupService {
	return &CleanupService{distributor: distributor, interval: interval}
}

// Serve implements suture.Service.
func (s *CleanupService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if removed := s.distributor.CleanupExpired(now); removed > 0 {
				logging.Debug().Int("removed", removed).Msg("expired alert distributions cleaned up")
			}
		}
	}
}

func (s *CleanupService) String() string { return "alert-cleanup" }

// HubService runs the websocket hub under supervision.
type HubService struct {
	hub *ws.Hub
}

// NewHubService wraps the websocket hub.
func NewHubService(hub *ws.Hub) *HubService {
	return &HubService{hub: hub}
}

// Serve implements suture.Service.
func (s *HubService) Serve(ctx context.Context) error {
	if err := s.hub.Run(ctx); err != nil {
		return err
	}
	return ctx.Err()
}

func (s *HubService) String() string { return "websocket-hub" }

// BridgeService runs the pub/sub-to-websocket bridge under supervision.
type BridgeService struct {
	bridge *ws.Bridge
}

// NewBridgeService wraps the alert bridge.
func NewBridgeService(bridge *ws.Bridge) *BridgeService {
	return &BridgeService{bridge: bridge}
}

// Serve implements suture.Service.
func (s *BridgeService) Serve(ctx context.Context) error {
	if err := s.bridge.Run(ctx); err != nil {
		return err
	}
	return ctx.Err()
}

func (s *BridgeService) String() string { return "alert-bridge" }

// HTTPService runs the HTTP server and shuts it down gracefully when
// the supervisor context is canceled.
type HTTPService struct {
	server          *http.Server
	shutdownTimeout time.Duration
}

// NewHTTPService wraps an HTTP server.
func NewHTTPService(server *http.Server, shutdownTimeout time.Duration) *HTTPService {
	return &HTTPService{server: server, shutdownTimeout: shutdownTimeout}
}

// Serve implements suture.Service.
func (s *HTTPService) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.server.Addr, err)
	}

	logging.Info().Str("addr", s.server.Addr).Msg("http server listening")

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		logging.Warn().Err(err).Msg("http server shutdown incomplete, closing")
		_ = s.server.Close()
	}
	<-errCh
	return ctx.Err()
}

func (s *HTTPService) String() string { return "http-server" }
