// SecureGuardian - Personal Security Monitoring and Alerting
// Copyright 2026 SecureGuardian contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/secureguardian/guardian

// Package api exposes the HTTP and websocket surface of the guardian
// server: threat scanning and analysis, emergency escalation and the
// realtime alert channel.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/secureguardian/guardian/internal/alert"
	"github.com/secureguardian/guardian/internal/config"
	"github.com/secureguardian/guardian/internal/emergency"
	"github.com/secureguardian/guardian/internal/metrics"
	"github.com/secureguardian/guardian/internal/scanner"
	"github.com/secureguardian/guardian/internal/threat"
	"github.com/secureguardian/guardian/internal/ws"
)

// Handlers bundles everything the HTTP surface needs.
type Handlers struct {
	cfg         *config.Config
	scanner     *scanner.Scanner
	monitor     *scanner.Monitor
	classifier  *threat.Classifier
	distributor *alert.Distributor
	emergency   *emergency.Service
	hub         *ws.Hub
	metrics     *metrics.Metrics
	startedAt   time.Time
}

// NewHandlers creates the handler set. metrics may be nil.
func NewHandlers(
	cfg *config.Config,
	scn *scanner.Scanner,
	monitor *scanner.Monitor,
	classifier *threat.Classifier,
	distributor *alert.Distributor,
	emergencySvc *emergency.Service,
	hub *ws.Hub,
	m *metrics.Metrics,
) *Handlers {
	return &Handlers{
		cfg:         cfg,
		scanner:     scn,
		monitor:     monitor,
		classifier:  classifier,
		distributor: distributor,
		emergency:   emergencySvc,
		hub:         hub,
		metrics:     m,
		startedAt:   time.Now().UTC(),
	}
}

// Router assembles the chi router with middleware and all routes.
func (h *Handlers) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger)
	r.Use(chimw.Recoverer)
	r.Use(metricsMiddleware(h.metrics))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-User-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(identityMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.handleHealth)
		r.Get("/health/live", h.handleLive)
		r.Get("/health/ready", h.handleReady)

		r.Route("/threat", func(r chi.Router) {
			r.Use(httprate.LimitByIP(h.cfg.Server.RateLimit, h.cfg.Server.RateLimitWindow))

			r.Get("/scan", h.handleScan)
			r.Post("/analyze", h.handleAnalyze)
			r.Post("/classify", h.handleClassify)
			r.Get("/status", h.handleStatus)
			r.Post("/wifi-scan", h.handleWifiScan)
			r.Post("/report", h.handleReport)
			if !h.cfg.IsProduction() {
				r.Get("/patterns", h.handlePatterns)
			}
		})

		r.Route("/emergency", func(r chi.Router) {
			// Emergency endpoints get a tighter per-client budget so a
			// misbehaving client cannot flood responders.
			r.Use(httprate.LimitByIP(10, time.Minute))

			r.Post("/alert", h.handleEmergencyCreate)
			r.Get("/status/{emergencyID}", h.handleEmergencyStatus)
			r.Put("/update/{emergencyID}", h.handleEmergencyUpdate)
			r.Post("/evidence/{emergencyID}", h.handleEmergencyEvidence)
			r.Get("/contacts", h.handleEmergencyContacts)
			r.Post("/panic", h.handleEmergencyPanic)
		})

		r.Get("/ws", h.handleWebsocket)
	})

	if h.metrics != nil {
		r.Handle("/metrics", h.metrics.Handler())
	}

	return r
}
