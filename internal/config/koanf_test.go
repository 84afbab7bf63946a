// SecureGuardian - Personal Security Monitoring and Alerting
// Copyright 2026 SecureGuardian contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/secureguardian/guardian

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "guardian.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfigFile(t, ""))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("port = %d, want 3000", cfg.Server.Port)
	}
	if cfg.Monitoring.ScanInterval != 30*time.Second {
		t.Errorf("scan interval = %s, want 30s", cfg.Monitoring.ScanInterval)
	}
	if cfg.Threat.AnomalousSignalDBM != -30 {
		t.Errorf("anomalous signal = %g, want -30", cfg.Threat.AnomalousSignalDBM)
	}
	if cfg.Threat.ClassifierThreatCutoff != 0.7 {
		t.Errorf("classifier cutoff = %g, want 0.7", cfg.Threat.ClassifierThreatCutoff)
	}
	if cfg.Emergency.CrisisHotline != "988" {
		t.Errorf("crisis hotline = %q, want 988", cfg.Emergency.CrisisHotline)
	}
	if cfg.Storage.Backend != "memory" {
		t.Errorf("storage backend = %q, want memory", cfg.Storage.Backend)
	}
	if cfg.IsProduction() {
		t.Error("defaults must not be production")
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 8443
  environment: production
monitoring:
  scan_interval: 45s
  auto_start: true
threat:
  classifier_threat_cutoff: 0.85
storage:
  backend: badger
  path: /var/lib/guardian
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8443 {
		t.Errorf("port = %d, want 8443", cfg.Server.Port)
	}
	if !cfg.IsProduction() {
		t.Error("environment override not applied")
	}
	if cfg.Monitoring.ScanInterval != 45*time.Second {
		t.Errorf("scan interval = %s, want 45s", cfg.Monitoring.ScanInterval)
	}
	if !cfg.Monitoring.AutoStart {
		t.Error("auto_start override not applied")
	}
	if cfg.Threat.ClassifierThreatCutoff != 0.85 {
		t.Errorf("classifier cutoff = %g, want 0.85", cfg.Threat.ClassifierThreatCutoff)
	}
	if cfg.Storage.Backend != "badger" || cfg.Storage.Path != "/var/lib/guardian" {
		t.Errorf("storage = %+v", cfg.Storage)
	}

	// Untouched sections keep their defaults.
	if cfg.Emergency.PoliceNumber != "911" {
		t.Errorf("police number = %q, want 911", cfg.Emergency.PoliceNumber)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 8443
`)

	t.Setenv("GUARDIAN_SERVER_PORT", "9000")
	t.Setenv("GUARDIAN_LOG_LEVEL", "debug")
	t.Setenv("GUARDIAN_SCAN_INTERVAL", "2m")
	t.Setenv("GUARDIAN_SAFE_BROWSING_API_KEY", "test-key")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d, want env override 9000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Monitoring.ScanInterval != 2*time.Minute {
		t.Errorf("scan interval = %s, want 2m", cfg.Monitoring.ScanInterval)
	}
	if cfg.Probes.SafeBrowsingAPIKey != "test-key" {
		t.Errorf("api key = %q", cfg.Probes.SafeBrowsingAPIKey)
	}
}

func TestLoadIgnoresUnmappedEnvVars(t *testing.T) {
	t.Setenv("GUARDIAN_SOMETHING_ELSE", "surprise")

	cfg, err := Load(writeConfigFile(t, ""))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("port = %d, want untouched default", cfg.Server.Port)
	}
}

func TestLoadCORSOriginsFromEnv(t *testing.T) {
	t.Setenv("GUARDIAN_SERVER_CORS_ORIGINS", "https://app.example.com, https://admin.example.com")

	cfg, err := Load(writeConfigFile(t, ""))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := []string{"https://app.example.com", "https://admin.example.com"}
	if len(cfg.Server.CORSOrigins) != len(want) {
		t.Fatalf("origins = %v, want %v", cfg.Server.CORSOrigins, want)
	}
	for i := range want {
		if cfg.Server.CORSOrigins[i] != want[i] {
			t.Errorf("origins[%d] = %q, want %q", i, cfg.Server.CORSOrigins[i], want[i])
		}
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"port out of range", "server:\n  port: 70000\n"},
		{"scan interval too short", "monitoring:\n  scan_interval: 100ms\n"},
		{"cutoff out of range", "threat:\n  classifier_threat_cutoff: 1.5\n"},
		{"unknown storage backend", "storage:\n  backend: redis\n"},
		{"badger without path", "storage:\n  backend: badger\n  path: \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfigFile(t, tt.yaml)); err == nil {
				t.Error("Load() succeeded, want validation error")
			}
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load() succeeded, want file error")
	}
}

func TestValidateDefaults(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}
