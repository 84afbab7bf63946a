// SecureGuardian - Personal Security Monitoring and Alerting
// Copyright 2026 SecureGuardian contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/secureguardian/guardian

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/secureguardian/guardian/internal/logging"
)

const envPrefix = "GUARDIAN_"

// envKeyMap translates environment variable names to koanf keys. Only
// variables listed here are honored; everything else with the prefix is
// ignored so unrelated GUARDIAN_* variables cannot corrupt the config tree.
var envKeyMap = map[string]string{
	"GUARDIAN_SERVER_HOST":              "server.host",
	"GUARDIAN_SERVER_PORT":              "server.port",
	"GUARDIAN_SERVER_READ_TIMEOUT":      "server.read_timeout",
	"GUARDIAN_SERVER_WRITE_TIMEOUT":     "server.write_timeout",
	"GUARDIAN_SERVER_SHUTDOWN_TIMEOUT":  "server.shutdown_timeout",
	"GUARDIAN_SERVER_CORS_ORIGINS":      "server.cors_origins",
	"GUARDIAN_SERVER_RATE_LIMIT":        "server.rate_limit",
	"GUARDIAN_SERVER_RATE_LIMIT_WINDOW": "server.rate_limit_window",
	"GUARDIAN_SERVER_ENVIRONMENT":       "server.environment",

	"GUARDIAN_LOG_LEVEL":  "logging.level",
	"GUARDIAN_LOG_FORMAT": "logging.format",

	"GUARDIAN_SCAN_INTERVAL":        "monitoring.scan_interval",
	"GUARDIAN_MONITORING_AUTOSTART": "monitoring.auto_start",

	"GUARDIAN_ANOMALOUS_SIGNAL_DBM":    "threat.anomalous_signal_dbm",
	"GUARDIAN_SPOOF_ACCURACY_METERS":   "threat.spoof_accuracy_meters",
	"GUARDIAN_CRITICAL_HIGH_COUNT":     "threat.critical_high_count",
	"GUARDIAN_HIGH_MEDIUM_COUNT":       "threat.high_medium_count",
	"GUARDIAN_CLASSIFIER_CUTOFF":       "threat.classifier_threat_cutoff",
	"GUARDIAN_PROBE_TIMEOUT":           "probes.timeout",
	"GUARDIAN_SAFE_BROWSING_API_KEY":   "probes.safe_browsing_api_key",
	"GUARDIAN_SAFE_BROWSING_URL":       "probes.safe_browsing_url",
	"GUARDIAN_GEO_LOOKUP_URL":          "probes.geo_lookup_url",
	"GUARDIAN_WIFI_INTERFACE":          "probes.wifi_interface",
	"GUARDIAN_REPUTATION_URLS":         "probes.reputation_urls",
	"GUARDIAN_ALERT_RETENTION":         "alerts.retention",
	"GUARDIAN_ALERT_CLEANUP_INTERVAL":  "alerts.cleanup_interval",
	"GUARDIAN_EMERGENCY_POLICE":        "emergency.police_number",
	"GUARDIAN_EMERGENCY_MEDICAL":       "emergency.medical_number",
	"GUARDIAN_EMERGENCY_FIRE":          "emergency.fire_number",
	"GUARDIAN_EMERGENCY_CRISIS":        "emergency.crisis_hotline",
	"GUARDIAN_EMERGENCY_POISON":        "emergency.poison_control",
	"GUARDIAN_EMERGENCY_RESPONSE_HINT": "emergency.response_time_hint",
	"GUARDIAN_STORAGE_BACKEND":         "storage.backend",
	"GUARDIAN_STORAGE_PATH":            "storage.path",
}

// sliceKeys are koanf keys whose env values are comma-separated lists.
var sliceKeys = map[string]bool{
	"server.cors_origins":    true,
	"probes.reputation_urls": true,
}

// Load builds the configuration from defaults, an optional YAML file and
// environment variables, in that order of precedence (later wins).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(DefaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if cfgFile := findConfigFile(path); cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", cfgFile, err)
		}
		logging.Info().Str("path", cfgFile).Msg("loaded config file")
	}

	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		if key, ok := envKeyMap[s]; ok {
			return key
		}
		return ""
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	processSliceKeys(k)

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// processSliceKeys splits comma-separated env values into string slices
// before unmarshaling. koanf's env provider yields plain strings.
func processSliceKeys(k *koanf.Koanf) {
	for key := range sliceKeys {
		raw, ok := k.Get(key).(string)
		if !ok {
			continue
		}
		parts := strings.Split(raw, ",")
		values := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				values = append(values, trimmed)
			}
		}
		_ = k.Set(key, values)
	}
}

// findConfigFile returns the config file to load, checking the explicit
// path, the GUARDIAN_CONFIG_PATH variable and conventional locations.
func findConfigFile(path string) string {
	if path != "" {
		return path
	}
	if envPath := os.Getenv("GUARDIAN_CONFIG_PATH"); envPath != "" {
		return envPath
	}
	for _, candidate := range []string{"guardian.yaml", "config/guardian.yaml", "/etc/guardian/guardian.yaml"} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}
