// SecureGuardian - Personal Security Monitoring and Alerting
// Copyright 2026 SecureGuardian contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/secureguardian/guardian

package api

import (
	"net/http"
	"time"
)

// handleHealth reports overall service health.
func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "healthy",
		"monitoring_active": h.monitor.Running(),
		"websocket_clients": h.hub.ClientCount(),
		"uptime_seconds":    int64(time.Since(h.startedAt).Seconds()),
	}, time.Now())
}

// handleLive is the liveness probe.
func (h *Handlers) handleLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "alive"}, time.Now())
}

// handleReady is the readiness probe.
func (h *Handlers) handleReady(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"}, time.Now())
}
