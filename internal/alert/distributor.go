// SecureGuardian - Personal Security Monitoring and Alerting
// Copyright 2026 SecureGuardian contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/secureguardian/guardian

// Package alert distributes security alerts over watermill pub/sub
// topics. The websocket layer subscribes to these topics and forwards
// envelopes to connected clients.
package alert

import (
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/secureguardian/guardian/internal/logging"
	"github.com/secureguardian/guardian/internal/metrics"
	"github.com/secureguardian/guardian/internal/threat"
)

// Topic names. Per-user and per-emergency topics are derived from these
// prefixes. Message order is preserved per topic, not across topics.
const (
	TopicGlobal          = "security.alerts.global"
	topicUserPrefix      = "security.alerts.user."
	topicEmergencyPrefix = "security.alerts.emergency."
)

// UserTopic returns the per-user alert topic.
func UserTopic(userID string) string {
	return topicUserPrefix + userID
}

// EmergencyTopic returns the per-user emergency topic.
func EmergencyTopic(userID string) string {
	return topicEmergencyPrefix + userID
}

// Event names carried in envelopes.
const (
	EventThreatAlert             = "threat-alert"
	EventPersonalThreatAlert     = "personal-threat-alert"
	EventSecurityStatusUpdate    = "security-status-update"
	EventEmergencyAlert          = "emergency-alert"
	EventTrustedContactAlert     = "trusted-contact-alert"
	EventEmergencyLocationUpdate = "emergency-location-update"
)

// Envelope is the wire format published to topics and forwarded to
// websocket clients as-is.
type Envelope struct {
	Event     string           `json:"event"`
	Priority  threat.RiskLevel `json:"priority,omitempty"`
	Payload   interface{}      `json:"payload"`
	Timestamp time.Time        `json:"timestamp"`
}

// EmergencyNotice is the payload broadcast when an emergency alert is
// raised. It mirrors the fields trusted contacts need to react.
type EmergencyNotice struct {
	ID          string                      `json:"id"`
	OwnerID     string                      `json:"owner_id"`
	AlertType   string                      `json:"alert_type"`
	Severity    string                      `json:"severity"`
	Description string                      `json:"description,omitempty"`
	Location    *threat.LocationObservation `json:"location,omitempty"`
	CreatedAt   time.Time                   `json:"created_at"`
}

// Distributor publishes alert envelopes and tracks emergency
// distributions for retention cleanup.
type Distributor struct {
	publisher message.Publisher
	retention time.Duration
	metrics   *metrics.Metrics

	mu            sync.Mutex
	distributions map[string]time.Time
}

// NewDistributor creates a distributor. m may be nil.
func NewDistributor(publisher message.Publisher, retention time.Duration, m *metrics.Metrics) *Distributor {
	return &Distributor{
		publisher:     publisher,
		retention:     retention,
		metrics:       m,
		distributions: make(map[string]time.Time),
	}
}

func (d *Distributor) publish(topic string, env Envelope) error {
	env.Timestamp = time.Now().UTC()
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encoding alert envelope: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event", env.Event)
	if err := d.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("publishing to %s: %w", topic, err)
	}

	if d.metrics != nil {
		d.metrics.AlertsPublished.WithLabelValues(env.Event).Inc()
	}
	return nil
}

// Broadcast publishes a scan result to the global topic with its
// computed priority.
func (d *Distributor) Broadcast(result *threat.ScanResult) error {
	return d.publish(TopicGlobal, Envelope{
		Event:    EventThreatAlert,
		Priority: Priority(result),
		Payload:  result,
	})
}

// SendToUser publishes an event to one user's topic only.
func (d *Distributor) SendToUser(userID, event string, payload interface{}) error {
	return d.publish(UserTopic(userID), Envelope{
		Event:   event,
		Payload: payload,
	})
}

// BroadcastEmergency fans an emergency notice out to the global topic
// and to each trusted contact's user topic. Each call gets its own
// distribution id, distinct from the alert id, so repeated broadcasts of
// one alert are tracked separately.
func (d *Distributor) BroadcastEmergency(notice EmergencyNotice, trustedContacts []string) (string, error) {
	distID := uuid.NewString()

	if err := d.publish(TopicGlobal, Envelope{
		Event:    EventEmergencyAlert,
		Priority: threat.RiskCritical,
		Payload:  notice,
	}); err != nil {
		return "", err
	}

	for _, contact := range trustedContacts {
		if err := d.publish(UserTopic(contact), Envelope{
			Event:    EventTrustedContactAlert,
			Priority: threat.RiskCritical,
			Payload:  notice,
		}); err != nil {
			logging.Err(err).Str("contact", contact).Msg("trusted contact notification failed")
		}
	}

	d.mu.Lock()
	d.distributions[distID] = time.Now().UTC()
	d.mu.Unlock()

	logging.Info().
		Str("distribution_id", distID).
		Str("alert_id", notice.ID).
		Int("contacts", len(trustedContacts)).
		Msg("emergency alert distributed")
	return distID, nil
}

// PublishLocationUpdate publishes a live location update on the user's
// emergency topic.
func (d *Distributor) PublishLocationUpdate(userID string, loc threat.LocationObservation) error {
	return d.publish(EmergencyTopic(userID), Envelope{
		Event:   EventEmergencyLocationUpdate,
		Payload: loc,
	})
}

// CleanupExpired drops distribution records older than the retention
// window and returns how many were removed. Emergency alerts themselves
// live in the store and are not touched.
func (d *Distributor) CleanupExpired(now time.Time) int {
	cutoff := now.Add(-d.retention)

	d.mu.Lock()
	defer d.mu.Unlock()
	removed := 0
	for id, createdAt := range d.distributions {
		if createdAt.Before(cutoff) {
			delete(d.distributions, id)
			removed++
		}
	}
	if removed > 0 {
		logging.Debug().Int("removed", removed).Msg("expired alert distributions cleaned up")
	}
	return removed
}

// TrackedDistributions returns the number of live distribution records.
func (d *Distributor) TrackedDistributions() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.distributions)
}
