// SecureGuardian - Personal Security Monitoring and Alerting
// Copyright 2026 SecureGuardian contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/secureguardian/guardian

// Package models defines the shared API response envelope and error codes.
package models

import "time"

// APIResponse is the standard envelope for all JSON endpoints.
type APIResponse struct {
	Status   string       `json:"status"`
	Data     interface{}  `json:"data,omitempty"`
	Metadata *APIMetadata `json:"metadata,omitempty"`
	Error    *APIError    `json:"error,omitempty"`
}

// APIMetadata carries per-response metadata.
type APIMetadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms"`
}

// APIError describes a failed request.
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Error codes returned in APIError.Code.
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeAuthorization = "AUTHORIZATION_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeRateLimit     = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal      = "INTERNAL_ERROR"
	ErrCodeUnavailable   = "SERVICE_UNAVAILABLE"
)

// Response statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// NewSuccessResponse builds a success envelope with timing metadata.
func NewSuccessResponse(data interface{}, queryTime time.Duration) APIResponse {
	return APIResponse{
		Status: StatusSuccess,
		Data:   data,
		Metadata: &APIMetadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: queryTime.Milliseconds(),
		},
	}
}

// NewErrorResponse builds an error envelope.
func NewErrorResponse(code, message string, details interface{}) APIResponse {
	return APIResponse{
		Status: StatusError,
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
		Metadata: &APIMetadata{
			Timestamp: time.Now().UTC(),
		},
	}
}
