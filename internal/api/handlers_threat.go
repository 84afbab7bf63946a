// SecureGuardian - Personal Security Monitoring and Alerting
// Copyright 2026 SecureGuardian contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/secureguardian/guardian

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/secureguardian/guardian/internal/logging"
	"github.com/secureguardian/guardian/internal/models"
	"github.com/secureguardian/guardian/internal/threat"
)

// locationFromQuery parses the optional latitude/longitude/accuracy
// query parameters into a location hint.
func locationFromQuery(r *http.Request) (*threat.LocationObservation, bool) {
	q := r.URL.Query()
	latStr, lonStr := q.Get("latitude"), q.Get("longitude")
	if latStr == "" && lonStr == "" {
		return nil, true
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, false
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return nil, false
	}
	loc := &threat.LocationObservation{Latitude: lat, Longitude: lon}
	if accStr := q.Get("accuracy"); accStr != "" {
		acc, err := strconv.ParseFloat(accStr, 64)
		if err != nil {
			return nil, false
		}
		loc.Accuracy = acc
	}
	if ip := q.Get("ip"); ip != "" {
		loc.IP = ip
	}
	return loc, true
}

// handleScan runs one on-demand scan.
func (h *Handlers) handleScan(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	hint, ok := locationFromQuery(r)
	if !ok {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "latitude, longitude and accuracy must be numeric", nil)
		return
	}

	result, err := h.scanner.Scan(r.Context(), hint)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result, start)
}

type networkData struct {
	SSID        string  `json:"ssid" validate:"required,max=64"`
	Security    string  `json:"security" validate:"required,max=32"`
	SignalLevel float64 `json:"signal_level"`
	MAC         string  `json:"mac" validate:"omitempty,max=17"`
}

func (n networkData) observation() threat.NetworkObservation {
	return threat.NetworkObservation{
		SSID:        n.SSID,
		Security:    n.Security,
		SignalLevel: n.SignalLevel,
		MAC:         n.MAC,
	}
}

type locationData struct {
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
	Accuracy  float64 `json:"accuracy" validate:"omitempty,gte=0"`
	Country   string  `json:"country" validate:"omitempty,max=64"`
	Region    string  `json:"region" validate:"omitempty,max=64"`
	City      string  `json:"city" validate:"omitempty,max=64"`
}

func (l locationData) observation() threat.LocationObservation {
	return threat.LocationObservation{
		Latitude:  l.Latitude,
		Longitude: l.Longitude,
		Accuracy:  l.Accuracy,
		Country:   l.Country,
		Region:    l.Region,
		City:      l.City,
	}
}

type analyzeRequest struct {
	AnalysisType string        `json:"analysisType" validate:"required,oneof=network location"`
	NetworkData  *networkData  `json:"networkData" validate:"required_if=AnalysisType network"`
	LocationData *locationData `json:"locationData" validate:"required_if=AnalysisType location"`
}

type analyzeResponse struct {
	AnalysisType    string           `json:"analysis_type"`
	Findings        []threat.Finding `json:"findings"`
	RiskLevel       threat.RiskLevel `json:"risk_level"`
	Recommendations []string         `json:"recommendations"`
}

// handleAnalyze runs the matcher over caller-supplied observations.
func (h *Handlers) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req analyzeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	var findings []threat.Finding
	switch req.AnalysisType {
	case "network":
		findings = h.scanner.Matcher().MatchNetwork(req.NetworkData.observation())
	case "location":
		findings = h.scanner.Matcher().MatchLocation(req.LocationData.observation())
	}
	if findings == nil {
		findings = []threat.Finding{}
	}

	level, recommendations := h.scanner.Aggregator().Aggregate(findings)
	respondJSON(w, http.StatusOK, analyzeResponse{
		AnalysisType:    req.AnalysisType,
		Findings:        findings,
		RiskLevel:       level,
		Recommendations: recommendations,
	}, start)
}

type classifyRequest struct {
	NetworkData networkData `json:"networkData" validate:"required"`
}

// handleClassify scores one network with the fixed classifier.
func (h *Handlers) handleClassify(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req classifyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result := h.classifier.Classify(req.NetworkData.observation())
	respondJSON(w, http.StatusOK, result, start)
}

type monitoringView struct {
	Active          bool       `json:"active"`
	InFlight        bool       `json:"in_flight"`
	LastScan        *time.Time `json:"last_scan,omitempty"`
	IntervalSeconds float64    `json:"interval_seconds"`
}

type statusResponse struct {
	Monitoring     monitoringView `json:"monitoring"`
	SignatureCount int            `json:"signature_count"`
	UptimeSeconds  int64          `json:"uptime_seconds"`
}

// handleStatus reports the monitoring session and signature table state.
func (h *Handlers) handleStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	status := h.monitor.Status()
	view := monitoringView{
		Active:          status.Active,
		InFlight:        status.InFlight,
		IntervalSeconds: status.Interval.Seconds(),
	}
	if !status.LastScan.IsZero() {
		last := status.LastScan
		view.LastScan = &last
	}

	respondJSON(w, http.StatusOK, statusResponse{
		Monitoring:     view,
		SignatureCount: h.scanner.Matcher().SignatureCount(),
		UptimeSeconds:  int64(time.Since(h.startedAt).Seconds()),
	}, start)
}

// handleWifiScan runs only the wifi probe.
func (h *Handlers) handleWifiScan(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	findings, err := h.scanner.ScanWifi(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if findings == nil {
		findings = []threat.Finding{}
	}
	level, _ := h.scanner.Aggregator().Aggregate(findings)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"findings":   findings,
		"risk_level": level,
	}, start)
}

// handlePatterns summarizes the loaded signatures. Not routed in
// production.
func (h *Handlers) handlePatterns(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.scanner.Matcher().Summary(), time.Now())
}

type reportRequest struct {
	ThreatType  string        `json:"threatType" validate:"required,max=64"`
	Description string        `json:"description" validate:"required,max=2048"`
	Location    *locationData `json:"location"`
}

// handleReport acknowledges a user-submitted threat report.
func (h *Handlers) handleReport(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req reportRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	reportID := uuid.NewString()
	logging.Info().
		Str("report_id", reportID).
		Str("threat_type", req.ThreatType).
		Str("user_id", callerID(r)).
		Msg("threat report received")

	respondJSON(w, http.StatusAccepted, map[string]string{
		"report_id": reportID,
		"status":    "received",
	}, start)
}
