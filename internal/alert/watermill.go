// SecureGuardian - Personal Security Monitoring and Alerting
// Copyright 2026 SecureGuardian contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/secureguardian/guardian

package alert

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"

	"github.com/secureguardian/guardian/internal/logging"
)

// ZerologAdapter bridges watermill's logger interface to zerolog so the
// pub/sub internals log through the global logger.
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewLoggerAdapter creates a watermill logger over the global logger.
func NewLoggerAdapter() watermill.LoggerAdapter {
	return &ZerologAdapter{logger: logging.WithComponent("pubsub")}
}

// Error logs an error message.
func (a *ZerologAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.event(a.logger.Error().Err(err), fields).Msg(msg)
}

// Info logs an info message.
func (a *ZerologAdapter) Info(msg string, fields watermill.LogFields) {
	a.event(a.logger.Info(), fields).Msg(msg)
}

// Debug logs a debug message.
func (a *ZerologAdapter) Debug(msg string, fields watermill.LogFields) {
	a.event(a.logger.Debug(), fields).Msg(msg)
}

// Trace logs a trace message.
func (a *ZerologAdapter) Trace(msg string, fields watermill.LogFields) {
	a.event(a.logger.Trace(), fields).Msg(msg)
}

// With returns an adapter that includes fields on every message.
func (a *ZerologAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	ctx := a.logger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &ZerologAdapter{logger: ctx.Logger()}
}

func (a *ZerologAdapter) event(e *zerolog.Event, fields watermill.LogFields) *zerolog.Event {
	for k, v := range fields {
		e = e.Interface(k, v)
	}
	return e
}
