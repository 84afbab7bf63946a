// SecureGuardian - Personal Security Monitoring and Alerting
// Copyright 2026 SecureGuardian contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/secureguardian/guardian

package probe

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/secureguardian/guardian/internal/threat"
)

// SystemWifiScanner enumerates access points with the host's tooling:
// nmcli on Linux, the airport association state on macOS. macOS cannot
// enumerate nearby networks without elevated entitlements, so it reports
// only the currently associated SSID as an informational note. Other
// platforms return an error, which the collector degrades to SCAN_ERROR.
type SystemWifiScanner struct {
	// Interface restricts the scan to one wireless interface. Empty
	// scans all interfaces.
	Interface string

	goos    string
	execCmd func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewSystemWifiScanner creates a scanner for the current platform.
func NewSystemWifiScanner(iface string) *SystemWifiScanner {
	return &SystemWifiScanner{
		Interface: iface,
		goos:      runtime.GOOS,
		execCmd: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).Output()
		},
	}
}

// Scan enumerates nearby networks.
func (s *SystemWifiScanner) Scan(ctx context.Context) (WifiScanOutput, error) {
	switch s.goos {
	case "linux":
		return s.scanLinux(ctx)
	case "darwin":
		return s.scanDarwin(ctx)
	default:
		return WifiScanOutput{}, fmt.Errorf("wifi scanning not supported on %s", s.goos)
	}
}

func (s *SystemWifiScanner) scanLinux(ctx context.Context) (WifiScanOutput, error) {
	args := []string{"-t", "-f", "SSID,SECURITY,SIGNAL,BSSID", "device", "wifi", "list"}
	if s.Interface != "" {
		args = append(args, "ifname", s.Interface)
	}
	out, err := s.execCmd(ctx, "nmcli", args...)
	if err != nil {
		return WifiScanOutput{}, fmt.Errorf("nmcli: %w", err)
	}
	return WifiScanOutput{Networks: parseNmcliOutput(string(out))}, nil
}

// scanDarwin reports only the associated network. CURRENT_WIFI is
// informational; NO_WIFI is a low-severity note when nothing is joined.
func (s *SystemWifiScanner) scanDarwin(ctx context.Context) (WifiScanOutput, error) {
	iface := s.Interface
	if iface == "" {
		iface = "en0"
	}
	out, err := s.execCmd(ctx, "networksetup", "-getairportnetwork", iface)
	if err != nil {
		return WifiScanOutput{}, fmt.Errorf("networksetup: %w", err)
	}

	ssid := parseAirportNetwork(string(out))
	if ssid == "" {
		return WifiScanOutput{
			Notes: []threat.Finding{{
				Type:        threat.TypeNoWifi,
				Severity:    threat.SeverityLow,
				Description: "Not connected to any wireless network",
			}},
		}, nil
	}
	return WifiScanOutput{
		Notes: []threat.Finding{{
			Type:        threat.TypeCurrentWifi,
			Severity:    threat.SeverityInfo,
			Description: fmt.Sprintf("Connected to wireless network: %s", ssid),
			Network:     ssid,
		}},
	}, nil
}

// parseNmcliOutput parses `nmcli -t` colon-separated rows. SSIDs may
// contain escaped colons; BSSID fields always do.
func parseNmcliOutput(out string) []threat.NetworkObservation {
	var networks []threat.NetworkObservation
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := splitNmcliLine(line)
		if len(fields) < 3 {
			continue
		}
		signal, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			continue
		}
		security := fields[1]
		if security == "" || security == "--" {
			security = "None"
		}
		n := threat.NetworkObservation{
			SSID:        fields[0],
			Security:    security,
			SignalLevel: percentToDBM(signal),
		}
		if len(fields) > 3 {
			n.MAC = fields[3]
		}
		networks = append(networks, n)
	}
	return networks
}

// splitNmcliLine splits on unescaped colons and unescapes `\:`.
func splitNmcliLine(line string) []string {
	var fields []string
	var cur strings.Builder
	escaped := false
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == ':':
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	fields = append(fields, cur.String())
	return fields
}

// percentToDBM converts nmcli's 0-100 signal quality to approximate dBm.
func percentToDBM(percent float64) float64 {
	return percent/2 - 100
}

func parseAirportNetwork(out string) string {
	const prefix = "Current Wi-Fi Network: "
	line := strings.TrimSpace(out)
	if !strings.HasPrefix(line, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(line, prefix))
}
