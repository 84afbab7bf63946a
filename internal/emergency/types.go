// SecureGuardian - Personal Security Monitoring and Alerting
// Copyright 2026 SecureGuardian contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/secureguardian/guardian

// Package emergency implements emergency alert escalation: creation,
// owner-scoped access, evidence collection and response guidance.
package emergency

import (
	"errors"
	"time"

	"github.com/secureguardian/guardian/internal/threat"
)

// Domain errors. The HTTP layer maps these to NOT_FOUND and
// AUTHORIZATION_ERROR responses.
var (
	ErrNotFound = errors.New("emergency alert not found")
	ErrNotOwner = errors.New("caller does not own this emergency alert")
)

// Status is the lifecycle state of an emergency alert.
type Status string

// Alert statuses.
const (
	StatusActive    Status = "ACTIVE"
	StatusResolved  Status = "RESOLVED"
	StatusEscalated Status = "ESCALATED"
)

// Alert types with dedicated response guidance. Other values fall back
// to the generic guidance.
const (
	TypePhysicalThreat = "PHYSICAL_THREAT"
	TypeCyberAttack    = "CYBER_ATTACK"
	TypeLocationThreat = "LOCATION_THREAT"
	TypePanic          = "PANIC"
)

// Evidence is one piece of evidence attached to an alert. The evidence
// list is append-only.
type Evidence struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Data        string    `json:"data"`
	Description string    `json:"description,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	Verified    bool      `json:"verified"`
}

// Alert is a single emergency alert. IDs are UUIDs and never reused.
type Alert struct {
	ID                     string                      `json:"id"`
	OwnerID                string                      `json:"owner_id"`
	AlertType              string                      `json:"alert_type"`
	Location               *threat.LocationObservation `json:"location,omitempty"`
	Description            string                      `json:"description,omitempty"`
	Severity               threat.RiskLevel            `json:"severity"`
	Evidence               []Evidence                  `json:"evidence"`
	Status                 Status                      `json:"status"`
	AutoContactAuthorities bool                        `json:"auto_contact_authorities"`
	SilentMode             bool                        `json:"silent_mode"`
	CreatedAt              time.Time                   `json:"created_at"`
	UpdatedAt              time.Time                   `json:"updated_at"`
}

// clone returns a deep copy so store callers never share slices with
// stored state.
func (a *Alert) clone() *Alert {
	c := *a
	if a.Location != nil {
		loc := *a.Location
		c.Location = &loc
	}
	c.Evidence = make([]Evidence, len(a.Evidence))
	copy(c.Evidence, a.Evidence)
	return &c
}

// Contact is one emergency service entry.
type Contact struct {
	Service string `json:"service"`
	Number  string `json:"number"`
}

// ContactSheet is the emergency contact table with usage instructions.
type ContactSheet struct {
	Contacts     []Contact `json:"contacts"`
	Instructions []string  `json:"instructions"`
}
