// SecureGuardian - Personal Security Monitoring and Alerting
// Copyright 2026 SecureGuardian contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/secureguardian/guardian

package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/secureguardian/guardian/internal/emergency"
	"github.com/secureguardian/guardian/internal/logging"
	"github.com/secureguardian/guardian/internal/models"
	"github.com/secureguardian/guardian/internal/validation"
)

const maxRequestBody = 1 << 20

// respondJSON writes a success envelope.
func respondJSON(w http.ResponseWriter, status int, data interface{}, start time.Time) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := models.NewSuccessResponse(data, time.Since(start))
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Err(err).Msg("encoding response")
	}
}

// respondError writes an error envelope.
func respondError(w http.ResponseWriter, status int, code, message string, details interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := models.NewErrorResponse(code, message, details)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Err(err).Msg("encoding error response")
	}
}

// respondDomainError maps domain errors to HTTP responses.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, emergency.ErrNotFound):
		respondError(w, http.StatusNotFound, models.ErrCodeNotFound, "emergency alert not found", nil)
	case errors.Is(err, emergency.ErrNotOwner):
		respondError(w, http.StatusForbidden, models.ErrCodeAuthorization, "you do not have access to this emergency alert", nil)
	default:
		logging.Err(err).Msg("request failed")
		respondError(w, http.StatusInternalServerError, models.ErrCodeInternal, "internal server error", nil)
	}
}

// decodeAndValidate reads the JSON body into v and validates its tags.
// A false return means the error response was already written.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer func() {
		_, _ = io.Copy(io.Discard, body)
	}()

	if err := json.NewDecoder(body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "invalid JSON body", map[string]string{"error": err.Error()})
		return false
	}

	if err := validation.ValidateStruct(v); err != nil {
		var verr *validation.ValidationError
		if errors.As(err, &verr) {
			respondError(w, http.StatusBadRequest, models.ErrCodeValidation, verr.Error(), verr.Fields)
			return false
		}
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
		return false
	}
	return true
}
