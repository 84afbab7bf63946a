// SecureGuardian - Personal Security Monitoring and Alerting
// Copyright 2026 SecureGuardian contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/secureguardian/guardian

// Package config loads layered configuration with koanf: struct defaults,
// then an optional YAML file, then environment variables.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the guardian server.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Logging    LoggingConfig    `koanf:"logging"`
	Monitoring MonitoringConfig `koanf:"monitoring"`
	Threat     ThreatConfig     `koanf:"threat"`
	Probes     ProbesConfig     `koanf:"probes"`
	Alerts     AlertsConfig     `koanf:"alerts"`
	Emergency  EmergencyConfig  `koanf:"emergency"`
	Storage    StorageConfig    `koanf:"storage"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimit       int           `koanf:"rate_limit"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
	Environment     string        `koanf:"environment"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// MonitoringConfig holds the background scan loop settings.
type MonitoringConfig struct {
	ScanInterval time.Duration `koanf:"scan_interval"`
	AutoStart    bool          `koanf:"auto_start"`
}

// ThreatConfig surfaces the detection thresholds.
type ThreatConfig struct {
	// AnomalousSignalDBM flags access points stronger than this dBm value.
	AnomalousSignalDBM float64 `koanf:"anomalous_signal_dbm"`
	// SpoofAccuracyMeters flags location fixes with worse accuracy than this.
	SpoofAccuracyMeters float64 `koanf:"spoof_accuracy_meters"`
	// CriticalHighCount high-severity findings raise the risk to CRITICAL.
	CriticalHighCount int `koanf:"critical_high_count"`
	// HighMediumCount medium-severity findings raise the risk to HIGH.
	HighMediumCount int `koanf:"high_medium_count"`
	// ClassifierThreatCutoff is the probability above which a network
	// is classified as a threat.
	ClassifierThreatCutoff float64 `koanf:"classifier_threat_cutoff"`
}

// ProbesConfig holds external probe settings.
type ProbesConfig struct {
	Timeout            time.Duration `koanf:"timeout"`
	SafeBrowsingAPIKey string        `koanf:"safe_browsing_api_key"`
	SafeBrowsingURL    string        `koanf:"safe_browsing_url"`
	GeoLookupURL       string        `koanf:"geo_lookup_url"`
	WifiInterface      string        `koanf:"wifi_interface"`
	// ReputationURLs are checked against Safe Browsing on every full scan.
	ReputationURLs []string `koanf:"reputation_urls"`
}

// AlertsConfig holds alert distribution settings.
type AlertsConfig struct {
	Retention       time.Duration `koanf:"retention"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
}

// EmergencyConfig holds emergency escalation settings.
type EmergencyConfig struct {
	PoliceNumber     string `koanf:"police_number"`
	MedicalNumber    string `koanf:"medical_number"`
	FireNumber       string `koanf:"fire_number"`
	CrisisHotline    string `koanf:"crisis_hotline"`
	PoisonControl    string `koanf:"poison_control"`
	ResponseTimeHint string `koanf:"response_time_hint"`
}

// StorageConfig selects the emergency alert store backend.
type StorageConfig struct {
	// Backend is "memory" or "badger".
	Backend string `koanf:"backend"`
	// Path is the badger data directory when Backend is "badger".
	Path string `koanf:"path"`
}

// DefaultConfig returns the configuration defaults. The threat thresholds
// match the original detection constants.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            3000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimit:       100,
			RateLimitWindow: time.Minute,
			Environment:     "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Monitoring: MonitoringConfig{
			ScanInterval: 30 * time.Second,
			AutoStart:    false,
		},
		Threat: ThreatConfig{
			AnomalousSignalDBM:     -30,
			SpoofAccuracyMeters:    1000,
			CriticalHighCount:      2,
			HighMediumCount:        3,
			ClassifierThreatCutoff: 0.7,
		},
		Probes: ProbesConfig{
			Timeout:         10 * time.Second,
			SafeBrowsingURL: "https://safebrowsing.googleapis.com/v4/threatMatches:find",
			GeoLookupURL:    "http://ip-api.com/json",
			ReputationURLs:  []string{"http://malware.testing.google.test/testing/malware/"},
		},
		Alerts: AlertsConfig{
			Retention:       24 * time.Hour,
			CleanupInterval: time.Hour,
		},
		Emergency: EmergencyConfig{
			PoliceNumber:     "911",
			MedicalNumber:    "911",
			FireNumber:       "911",
			CrisisHotline:    "988",
			PoisonControl:    "1-800-222-1222",
			ResponseTimeHint: "5-15 minutes",
		},
		Storage: StorageConfig{
			Backend: "memory",
			Path:    "./data/emergency",
		},
	}
}

// Validate checks configuration invariants after loading.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 1-65535, got %d", c.Server.Port)
	}
	if c.Monitoring.ScanInterval < time.Second {
		return fmt.Errorf("monitoring.scan_interval must be at least 1s, got %s", c.Monitoring.ScanInterval)
	}
	if c.Threat.CriticalHighCount < 1 {
		return fmt.Errorf("threat.critical_high_count must be positive, got %d", c.Threat.CriticalHighCount)
	}
	if c.Threat.HighMediumCount < 1 {
		return fmt.Errorf("threat.high_medium_count must be positive, got %d", c.Threat.HighMediumCount)
	}
	if c.Threat.ClassifierThreatCutoff <= 0 || c.Threat.ClassifierThreatCutoff >= 1 {
		return fmt.Errorf("threat.classifier_threat_cutoff must be in (0,1), got %g", c.Threat.ClassifierThreatCutoff)
	}
	if c.Probes.Timeout <= 0 {
		return fmt.Errorf("probes.timeout must be positive, got %s", c.Probes.Timeout)
	}
	if c.Alerts.Retention <= 0 {
		return fmt.Errorf("alerts.retention must be positive, got %s", c.Alerts.Retention)
	}
	switch c.Storage.Backend {
	case "memory", "badger":
	default:
		return fmt.Errorf("storage.backend must be memory or badger, got %q", c.Storage.Backend)
	}
	if c.Storage.Backend == "badger" && c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required for the badger backend")
	}
	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
