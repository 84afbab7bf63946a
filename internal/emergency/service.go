// SecureGuardian - Personal Security Monitoring and Alerting
// Copyright 2026 SecureGuardian contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/secureguardian/guardian

package emergency

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/secureguardian/guardian/internal/config"
	"github.com/secureguardian/guardian/internal/logging"
	"github.com/secureguardian/guardian/internal/metrics"
	"github.com/secureguardian/guardian/internal/threat"
)

// Service implements emergency escalation over a Store. All read and
// write operations are scoped to the alert owner.
type Service struct {
	store   Store
	cfg     config.EmergencyConfig
	metrics *metrics.Metrics
}

// NewService creates the escalation service. m may be nil.
func NewService(store Store, cfg config.EmergencyConfig, m *metrics.Metrics) *Service {
	return &Service{store: store, cfg: cfg, metrics: m}
}

// CreateParams are the caller-supplied fields for a new alert. Evidence
// entries seed the alert's evidence list.
type CreateParams struct {
	AlertType              string
	Location               *threat.LocationObservation
	Description            string
	Severity               threat.RiskLevel
	Evidence               []EvidenceParams
	AutoContactAuthorities bool
	SilentMode             *bool
}

// Create raises a new emergency alert. Severity defaults to HIGH and
// silent mode to on when the caller leaves them unset.
func (s *Service) Create(ctx context.Context, ownerID string, params CreateParams) (*Alert, error) {
	severity := params.Severity
	if severity == "" {
		severity = threat.RiskHigh
	}
	silent := true
	if params.SilentMode != nil {
		silent = *params.SilentMode
	}
	evidence := make([]Evidence, 0, len(params.Evidence))
	for _, ev := range params.Evidence {
		evidence = append(evidence, newEvidence(ev))
	}

	now := time.Now().UTC()
	alert := &Alert{
		ID:                     uuid.NewString(),
		OwnerID:                ownerID,
		AlertType:              params.AlertType,
		Location:               params.Location,
		Description:            params.Description,
		Severity:               severity,
		Evidence:               evidence,
		Status:                 StatusActive,
		AutoContactAuthorities: params.AutoContactAuthorities,
		SilentMode:             silent,
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	if err := s.store.Save(ctx, alert); err != nil {
		return nil, fmt.Errorf("creating emergency alert: %w", err)
	}

	s.updateActiveGauge(ctx)
	logging.Info().
		Str("alert_id", alert.ID).
		Str("alert_type", alert.AlertType).
		Str("severity", string(alert.Severity)).
		Msg("emergency alert created")
	return alert, nil
}

// Panic raises a silent panic alert. Severity is forced to CRITICAL and
// authorities are always auto-contacted, regardless of silent mode.
func (s *Service) Panic(ctx context.Context, ownerID string, loc *threat.LocationObservation, silentMode *bool) (*Alert, error) {
	return s.Create(ctx, ownerID, CreateParams{
		AlertType:              TypePanic,
		Location:               loc,
		Description:            "Silent panic alert activated",
		Severity:               threat.RiskCritical,
		AutoContactAuthorities: true,
		SilentMode:             silentMode,
	})
}

// Get returns the alert if callerID owns it.
func (s *Service) Get(ctx context.Context, id, callerID string) (*Alert, error) {
	alert, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if alert.OwnerID != callerID {
		return nil, ErrNotOwner
	}
	return alert, nil
}

// UpdateParams are the mutable fields of an alert. Evidence entries are
// appended to the existing list, never replacing it.
type UpdateParams struct {
	Status      *Status
	Description *string
	Evidence    []EvidenceParams
}

// Update applies owner-scoped changes to an alert.
func (s *Service) Update(ctx context.Context, id, callerID string, params UpdateParams) (*Alert, error) {
	updated, err := s.store.Update(ctx, id, func(alert *Alert) error {
		if alert.OwnerID != callerID {
			return ErrNotOwner
		}
		if params.Status != nil {
			alert.Status = *params.Status
		}
		if params.Description != nil {
			alert.Description = *params.Description
		}
		for _, ev := range params.Evidence {
			alert.Evidence = append(alert.Evidence, newEvidence(ev))
		}
		alert.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.updateActiveGauge(ctx)
	logging.Info().Str("alert_id", id).Str("status", string(updated.Status)).Msg("emergency alert updated")
	return updated, nil
}

// EvidenceParams are the caller-supplied fields of one evidence entry.
type EvidenceParams struct {
	Type        string
	Data        string
	Description string
}

func newEvidence(params EvidenceParams) Evidence {
	return Evidence{
		ID:          uuid.NewString(),
		Type:        params.Type,
		Data:        params.Data,
		Description: params.Description,
		Timestamp:   time.Now().UTC(),
		Verified:    false,
	}
}

// AddEvidence appends one evidence entry to an owned alert.
func (s *Service) AddEvidence(ctx context.Context, id, callerID string, params EvidenceParams) (*Alert, error) {
	return s.store.Update(ctx, id, func(alert *Alert) error {
		if alert.OwnerID != callerID {
			return ErrNotOwner
		}
		alert.Evidence = append(alert.Evidence, newEvidence(params))
		alert.UpdatedAt = time.Now().UTC()
		return nil
	})
}

// ResponseActions returns the guidance for an alert: type-specific
// steps, the GPS hand-off when a location is attached, and evidence
// preservation.
func (s *Service) ResponseActions(alert *Alert) []string {
	var actions []string
	switch alert.AlertType {
	case TypePhysicalThreat:
		actions = []string{
			"Contact local law enforcement immediately",
			"Move to a safe, public location",
			"Notify trusted contacts of your situation",
		}
	case TypeCyberAttack:
		actions = []string{
			"Disconnect from all networks immediately",
			"Change passwords from a trusted device",
			"Enable two-factor authentication on critical accounts",
		}
	case TypeLocationThreat:
		actions = []string{
			"Leave the area as soon as it is safe to do so",
			"Avoid predictable routes and share your plans with trusted contacts",
			"Keep your device charged and location sharing enabled",
		}
	case TypePanic:
		actions = []string{
			"Emergency contacts have been notified silently",
			"Stay where you are if it is safe, otherwise move to a public place",
			"Keep your device accessible for responder follow-up",
		}
	default:
		actions = []string{
			"Stay alert and monitor your surroundings",
			"Contact emergency services if the situation escalates",
		}
	}

	if alert.Location != nil {
		actions = append(actions, fmt.Sprintf(
			"GPS coordinates shared with responders: %.5f, %.5f",
			alert.Location.Latitude, alert.Location.Longitude))
	}
	actions = append(actions, "Preserve any evidence related to this incident")
	return actions
}

// Contacts returns the emergency contact sheet from configuration.
func (s *Service) Contacts() ContactSheet {
	return ContactSheet{
		Contacts: []Contact{
			{Service: "Police", Number: s.cfg.PoliceNumber},
			{Service: "Medical", Number: s.cfg.MedicalNumber},
			{Service: "Fire", Number: s.cfg.FireNumber},
			{Service: "Crisis Hotline", Number: s.cfg.CrisisHotline},
			{Service: "Poison Control", Number: s.cfg.PoisonControl},
		},
		Instructions: []string{
			"Call the police number for immediate life-threatening situations",
			"Use the crisis hotline for mental health emergencies",
			"Keep your location services enabled so responders can find you",
		},
	}
}

// ResponseTimeEstimate returns the configured responder ETA hint.
func (s *Service) ResponseTimeEstimate() string {
	return s.cfg.ResponseTimeHint
}

func (s *Service) updateActiveGauge(ctx context.Context) {
	if s.metrics == nil {
		return
	}
	count, err := s.store.ActiveCount(ctx)
	if err != nil {
		logging.Warn().Err(err).Msg("active emergency count unavailable")
		return
	}
	s.metrics.EmergenciesOpen.Set(float64(count))
}
