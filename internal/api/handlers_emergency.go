// SecureGuardian - Personal Security Monitoring and Alerting
// Copyright 2026 SecureGuardian contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/secureguardian/guardian

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/secureguardian/guardian/internal/alert"
	"github.com/secureguardian/guardian/internal/emergency"
	"github.com/secureguardian/guardian/internal/logging"
	"github.com/secureguardian/guardian/internal/threat"
)

type emergencyCreateRequest struct {
	AlertType              string         `json:"alertType" validate:"required,max=64"`
	Location               *locationData  `json:"location"`
	Description            string         `json:"description" validate:"omitempty,max=2048"`
	Severity               string         `json:"severity" validate:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
	Evidence               []evidenceData `json:"evidence" validate:"omitempty,dive"`
	AutoContactAuthorities bool           `json:"autoContactAuthorities"`
	SilentMode             *bool          `json:"silentMode"`
	TrustedContacts        []string       `json:"trustedContacts" validate:"omitempty,max=10,dive,required,max=128"`
}

type emergencyCreateResponse struct {
	EmergencyID           string                 `json:"emergencyId"`
	Status                emergency.Status       `json:"status"`
	ResponseActions       []string               `json:"responseActions"`
	EmergencyContacts     emergency.ContactSheet `json:"emergencyContacts"`
	EstimatedResponseTime string                 `json:"estimatedResponseTime"`
}

func locationFromData(data *locationData) *threat.LocationObservation {
	if data == nil {
		return nil
	}
	loc := data.observation()
	return &loc
}

func (h *Handlers) respondCreated(w http.ResponseWriter, a *emergency.Alert, start time.Time) {
	respondJSON(w, http.StatusCreated, emergencyCreateResponse{
		EmergencyID:           a.ID,
		Status:                a.Status,
		ResponseActions:       h.emergency.ResponseActions(a),
		EmergencyContacts:     h.emergency.Contacts(),
		EstimatedResponseTime: h.emergency.ResponseTimeEstimate(),
	}, start)
}

func (h *Handlers) broadcastEmergency(a *emergency.Alert, trustedContacts []string) {
	notice := alert.EmergencyNotice{
		ID:          a.ID,
		OwnerID:     a.OwnerID,
		AlertType:   a.AlertType,
		Severity:    string(a.Severity),
		Description: a.Description,
		Location:    a.Location,
		CreatedAt:   a.CreatedAt,
	}
	if _, err := h.distributor.BroadcastEmergency(notice, trustedContacts); err != nil {
		logging.Err(err).Str("alert_id", a.ID).Msg("emergency broadcast failed")
	}
}

// handleEmergencyCreate raises a new emergency alert and distributes it.
func (h *Handlers) handleEmergencyCreate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req emergencyCreateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	created, err := h.emergency.Create(r.Context(), callerID(r), emergency.CreateParams{
		AlertType:              req.AlertType,
		Location:               locationFromData(req.Location),
		Description:            req.Description,
		Severity:               threat.RiskLevel(req.Severity),
		Evidence:               evidenceParamsFrom(req.Evidence),
		AutoContactAuthorities: req.AutoContactAuthorities,
		SilentMode:             req.SilentMode,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	h.broadcastEmergency(created, req.TrustedContacts)
	h.respondCreated(w, created, start)
}

type emergencyStatusResponse struct {
	Alert           *emergency.Alert `json:"alert"`
	ResponseActions []string         `json:"responseActions"`
}

// handleEmergencyStatus returns one owned alert.
func (h *Handlers) handleEmergencyStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	a, err := h.emergency.Get(r.Context(), chi.URLParam(r, "emergencyID"), callerID(r))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, emergencyStatusResponse{
		Alert:           a,
		ResponseActions: h.emergency.ResponseActions(a),
	}, start)
}

type evidenceData struct {
	Type        string `json:"type" validate:"required,max=64"`
	Data        string `json:"data" validate:"required,max=1048576"`
	Description string `json:"description" validate:"omitempty,max=2048"`
}

func evidenceParamsFrom(items []evidenceData) []emergency.EvidenceParams {
	params := make([]emergency.EvidenceParams, 0, len(items))
	for _, ev := range items {
		params = append(params, emergency.EvidenceParams{
			Type:        ev.Type,
			Data:        ev.Data,
			Description: ev.Description,
		})
	}
	return params
}

type emergencyUpdateRequest struct {
	Status      *string        `json:"status" validate:"omitempty,oneof=ACTIVE RESOLVED ESCALATED"`
	Description *string        `json:"description" validate:"omitempty,max=2048"`
	Evidence    []evidenceData `json:"evidence" validate:"omitempty,dive"`
}

// handleEmergencyUpdate applies owner-scoped changes to an alert.
func (h *Handlers) handleEmergencyUpdate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req emergencyUpdateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	params := emergency.UpdateParams{
		Description: req.Description,
		Evidence:    evidenceParamsFrom(req.Evidence),
	}
	if req.Status != nil {
		status := emergency.Status(*req.Status)
		params.Status = &status
	}

	updated, err := h.emergency.Update(r.Context(), chi.URLParam(r, "emergencyID"), callerID(r), params)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated, start)
}

type evidenceRequest struct {
	Evidence evidenceData `json:"evidence" validate:"required"`
}

// handleEmergencyEvidence appends one evidence entry to an owned alert.
func (h *Handlers) handleEmergencyEvidence(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req evidenceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	updated, err := h.emergency.AddEvidence(r.Context(), chi.URLParam(r, "emergencyID"), callerID(r), emergency.EvidenceParams{
		Type:        req.Evidence.Type,
		Data:        req.Evidence.Data,
		Description: req.Evidence.Description,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated, start)
}

// handleEmergencyContacts returns the configured contact sheet.
func (h *Handlers) handleEmergencyContacts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.emergency.Contacts(), time.Now())
}

type panicRequest struct {
	Location   *locationData `json:"location"`
	SilentMode *bool         `json:"silentMode"`
}

// handleEmergencyPanic raises a silent panic alert.
func (h *Handlers) handleEmergencyPanic(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req panicRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	created, err := h.emergency.Panic(r.Context(), callerID(r), locationFromData(req.Location), req.SilentMode)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	h.broadcastEmergency(created, nil)
	h.respondCreated(w, created, start)
}
