// SecureGuardian - Personal Security Monitoring and Alerting
// Copyright 2026 SecureGuardian contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/secureguardian/guardian

package alert

import (
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"

	"github.com/secureguardian/guardian/internal/threat"
)

type published struct {
	topic string
	msg   *message.Message
}

type mockPublisher struct {
	messages []published
}

func (p *mockPublisher) Publish(topic string, messages ...*message.Message) error {
	for _, msg := range messages {
		p.messages = append(p.messages, published{topic: topic, msg: msg})
	}
	return nil
}

func (p *mockPublisher) Close() error { return nil }

func decodeEnvelope(t *testing.T, msg *message.Message) Envelope {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal(msg.Payload, &env); err != nil {
		t.Fatalf("decoding envelope: %v", err)
	}
	return env
}

func TestBroadcast(t *testing.T) {
	pub := &mockPublisher{}
	d := NewDistributor(pub, 24*time.Hour, nil)

	result := &threat.ScanResult{
		Threats:   []threat.Finding{{Type: threat.TypeWeakEncryption, Severity: threat.SeverityHigh}},
		RiskLevel: threat.RiskHigh,
	}
	if err := d.Broadcast(result); err != nil {
		t.Fatalf("Broadcast() error = %v", err)
	}

	if len(pub.messages) != 1 || pub.messages[0].topic != TopicGlobal {
		t.Fatalf("messages = %+v, want one on %s", pub.messages, TopicGlobal)
	}
	env := decodeEnvelope(t, pub.messages[0].msg)
	if env.Event != EventThreatAlert {
		t.Errorf("event = %s, want %s", env.Event, EventThreatAlert)
	}
	if env.Priority != threat.RiskHigh {
		t.Errorf("priority = %s, want %s", env.Priority, threat.RiskHigh)
	}
}

func TestSendToUserTargetsUserTopicOnly(t *testing.T) {
	pub := &mockPublisher{}
	d := NewDistributor(pub, 24*time.Hour, nil)

	if err := d.SendToUser("user-1", EventSecurityStatusUpdate, map[string]string{"state": "ok"}); err != nil {
		t.Fatalf("SendToUser() error = %v", err)
	}

	if len(pub.messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(pub.messages))
	}
	if pub.messages[0].topic != UserTopic("user-1") {
		t.Errorf("topic = %s, want %s", pub.messages[0].topic, UserTopic("user-1"))
	}
}

func TestBroadcastEmergency(t *testing.T) {
	pub := &mockPublisher{}
	d := NewDistributor(pub, 24*time.Hour, nil)

	notice := EmergencyNotice{
		ID:        "alert-123",
		OwnerID:   "user-1",
		AlertType: "PANIC",
		Severity:  "CRITICAL",
	}
	distID, err := d.BroadcastEmergency(notice, []string{"contact-a", "contact-b"})
	if err != nil {
		t.Fatalf("BroadcastEmergency() error = %v", err)
	}
	if distID == "" || distID == notice.ID {
		t.Errorf("distribution id = %q, must be set and distinct from the alert id", distID)
	}

	if len(pub.messages) != 3 {
		t.Fatalf("got %d messages, want 3", len(pub.messages))
	}
	if pub.messages[0].topic != TopicGlobal {
		t.Errorf("first topic = %s, want global", pub.messages[0].topic)
	}
	if env := decodeEnvelope(t, pub.messages[0].msg); env.Event != EventEmergencyAlert {
		t.Errorf("global event = %s, want %s", env.Event, EventEmergencyAlert)
	}
	for i, contact := range []string{"contact-a", "contact-b"} {
		m := pub.messages[i+1]
		if m.topic != UserTopic(contact) {
			t.Errorf("topic = %s, want %s", m.topic, UserTopic(contact))
		}
		if env := decodeEnvelope(t, m.msg); env.Event != EventTrustedContactAlert {
			t.Errorf("contact event = %s, want %s", env.Event, EventTrustedContactAlert)
		}
	}

	if d.TrackedDistributions() != 1 {
		t.Errorf("tracked = %d, want 1", d.TrackedDistributions())
	}

	// A second broadcast of the same alert gets its own distribution id.
	second, err := d.BroadcastEmergency(notice, nil)
	if err != nil {
		t.Fatalf("second BroadcastEmergency() error = %v", err)
	}
	if second == distID {
		t.Error("distribution ids must not repeat")
	}
}

func TestPublishLocationUpdate(t *testing.T) {
	pub := &mockPublisher{}
	d := NewDistributor(pub, 24*time.Hour, nil)

	loc := threat.LocationObservation{Latitude: 48.1, Longitude: 11.6}
	if err := d.PublishLocationUpdate("user-1", loc); err != nil {
		t.Fatalf("PublishLocationUpdate() error = %v", err)
	}
	if pub.messages[0].topic != EmergencyTopic("user-1") {
		t.Errorf("topic = %s, want %s", pub.messages[0].topic, EmergencyTopic("user-1"))
	}
	if env := decodeEnvelope(t, pub.messages[0].msg); env.Event != EventEmergencyLocationUpdate {
		t.Errorf("event = %s, want %s", env.Event, EventEmergencyLocationUpdate)
	}
}

func TestCleanupExpired(t *testing.T) {
	pub := &mockPublisher{}
	d := NewDistributor(pub, 24*time.Hour, nil)

	if _, err := d.BroadcastEmergency(EmergencyNotice{ID: "a"}, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := d.BroadcastEmergency(EmergencyNotice{ID: "b"}, nil); err != nil {
		t.Fatal(err)
	}

	// Inside the retention window nothing is removed.
	if removed := d.CleanupExpired(time.Now()); removed != 0 {
		t.Errorf("removed = %d, want 0", removed)
	}
	if d.TrackedDistributions() != 2 {
		t.Errorf("tracked = %d, want 2", d.TrackedDistributions())
	}

	// A day past the window both records expire.
	if removed := d.CleanupExpired(time.Now().Add(48 * time.Hour)); removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	if d.TrackedDistributions() != 0 {
		t.Errorf("tracked = %d, want 0", d.TrackedDistributions())
	}
}

func TestPriority(t *testing.T) {
	tests := []struct {
		name   string
		result threat.ScanResult
		want   threat.RiskLevel
	}{
		{
			name:   "mirrors low",
			result: threat.ScanResult{RiskLevel: threat.RiskLow},
			want:   threat.RiskLow,
		},
		{
			name:   "mirrors medium",
			result: threat.ScanResult{RiskLevel: threat.RiskMedium},
			want:   threat.RiskMedium,
		},
		{
			name:   "critical risk stays critical",
			result: threat.ScanResult{RiskLevel: threat.RiskCritical},
			want:   threat.RiskCritical,
		},
		{
			name: "critical type overrides medium risk",
			result: threat.ScanResult{
				RiskLevel: threat.RiskMedium,
				Threats:   []threat.Finding{{Type: threat.TypeLocationSpoofing, Severity: threat.SeverityMedium}},
			},
			want: threat.RiskCritical,
		},
		{
			name: "malicious ssid overrides high risk",
			result: threat.ScanResult{
				RiskLevel: threat.RiskHigh,
				Threats:   []threat.Finding{{Type: threat.TypeMaliciousSSID, Severity: threat.SeverityHigh}},
			},
			want: threat.RiskCritical,
		},
		{
			name: "two high findings escalate to high",
			result: threat.ScanResult{
				RiskLevel: threat.RiskMedium,
				Threats: []threat.Finding{
					{Type: threat.TypeWeakEncryption, Severity: threat.SeverityHigh},
					{Type: threat.TypeMaliciousURL, Severity: threat.SeverityHigh},
				},
			},
			want: threat.RiskHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Priority(&tt.result); got != tt.want {
				t.Errorf("Priority() = %s, want %s", got, tt.want)
			}
		})
	}
}
