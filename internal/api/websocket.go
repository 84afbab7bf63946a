// SecureGuardian - Personal Security Monitoring and Alerting
// Copyright 2026 SecureGuardian contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/secureguardian/guardian

package api

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/secureguardian/guardian/internal/alert"
	"github.com/secureguardian/guardian/internal/emergency"
	"github.com/secureguardian/guardian/internal/logging"
	"github.com/secureguardian/guardian/internal/threat"
	"github.com/secureguardian/guardian/internal/ws"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The CORS middleware gates the HTTP surface; the upgrade itself
	// accepts any origin so native clients can connect.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleWebsocket upgrades the connection and serves the realtime
// protocol until the peer disconnects.
func (h *Handlers) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := ws.NewClient(h.hub, conn, callerID(r), h)
	// Everyone receives the global alert feed.
	h.hub.Join(client, alert.TopicGlobal)
	client.Serve(r.Context())
}

type joinTopicData struct {
	UserID string `json:"userId"`
}

type startScanData struct {
	Location *locationData `json:"location"`
}

type emergencyAlertData struct {
	AlertType              string        `json:"alertType"`
	Location               *locationData `json:"location"`
	Description            string        `json:"description"`
	AutoContactAuthorities bool          `json:"autoContactAuthorities"`
	SilentMode             *bool         `json:"silentMode"`
	TrustedContacts        []string      `json:"trustedContacts"`
}

type shareLocationData struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
}

// HandleEvent dispatches inbound websocket messages. It implements
// ws.EventHandler.
func (h *Handlers) HandleEvent(ctx context.Context, c *ws.Client, msg ws.InboundMessage) {
	switch msg.Event {
	case "join-topic":
		h.wsJoinTopic(c, msg.Data)
	case "start-scan":
		h.wsStartScan(ctx, c, msg.Data)
	case "emergency-alert":
		h.wsEmergencyAlert(ctx, c, msg.Data)
	case "share-location":
		h.wsShareLocation(c, msg.Data)
	default:
		c.Send("error", map[string]string{"message": "unknown event: " + msg.Event})
	}
}

// wsJoinTopic subscribes the client to its personal topics. Clients may
// only join topics for their own identity.
func (h *Handlers) wsJoinTopic(c *ws.Client, data json.RawMessage) {
	var req joinTopicData
	if err := json.Unmarshal(data, &req); err != nil || req.UserID == "" {
		c.Send("error", map[string]string{"message": "join-topic requires a userId"})
		return
	}
	if req.UserID != c.UserID() {
		c.Send("error", map[string]string{"message": "cannot join another user's topic"})
		return
	}

	h.hub.Join(c, alert.UserTopic(req.UserID))
	h.hub.Join(c, alert.EmergencyTopic(req.UserID))
	c.Send("topic-joined", map[string]string{"userId": req.UserID})
}

// wsStartScan runs an on-demand scan for this client only.
func (h *Handlers) wsStartScan(ctx context.Context, c *ws.Client, data json.RawMessage) {
	var req startScanData
	if len(data) > 0 {
		if err := json.Unmarshal(data, &req); err != nil {
			c.Send("scan-error", map[string]string{"message": "invalid scan request"})
			return
		}
	}

	result, err := h.scanner.Scan(ctx, locationFromData(req.Location))
	if err != nil {
		c.Send("scan-error", map[string]string{"message": "scan failed"})
		return
	}
	c.Send("scan-results", result)

	if result.HasFindings() {
		if err := h.distributor.SendToUser(c.UserID(), alert.EventPersonalThreatAlert, result); err != nil {
			logging.Err(err).Msg("personal threat alert publish failed")
		}
	}
}

// wsEmergencyAlert raises an emergency alert from the realtime channel
// and distributes it like the HTTP endpoint does.
func (h *Handlers) wsEmergencyAlert(ctx context.Context, c *ws.Client, data json.RawMessage) {
	var req emergencyAlertData
	if err := json.Unmarshal(data, &req); err != nil || req.AlertType == "" {
		c.Send("error", map[string]string{"message": "emergency-alert requires an alertType"})
		return
	}

	created, err := h.emergency.Create(ctx, c.UserID(), emergency.CreateParams{
		AlertType:              req.AlertType,
		Location:               locationFromData(req.Location),
		Description:            req.Description,
		AutoContactAuthorities: req.AutoContactAuthorities,
		SilentMode:             req.SilentMode,
	})
	if err != nil {
		logging.Err(err).Msg("websocket emergency creation failed")
		c.Send("error", map[string]string{"message": "could not create emergency alert"})
		return
	}

	h.broadcastEmergency(created, req.TrustedContacts)
	c.Send("emergency-created", map[string]interface{}{
		"emergencyId":     created.ID,
		"status":          created.Status,
		"responseActions": h.emergency.ResponseActions(created),
	})
}

// wsShareLocation publishes a live location update on the client's
// emergency topic.
func (h *Handlers) wsShareLocation(c *ws.Client, data json.RawMessage) {
	var req shareLocationData
	if err := json.Unmarshal(data, &req); err != nil {
		c.Send("error", map[string]string{"message": "invalid location payload"})
		return
	}

	loc := threat.LocationObservation{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Accuracy:  req.Accuracy,
	}
	if err := h.distributor.PublishLocationUpdate(c.UserID(), loc); err != nil {
		logging.Err(err).Msg("location update publish failed")
	}
}
