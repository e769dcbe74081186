package gonetworkmanager

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"nmwifi/logging"
)

// SecurityKind classifies the SECURITY column of a scan.
type SecurityKind int

const (
	SecurityUnknown SecurityKind = iota
	SecurityUnsecured
	SecuritySecured
)

// Security describes how a network is protected. Label holds nmcli's text
// for secured networks, e.g. "WPA2 WPA3".
type Security struct {
	Kind  SecurityKind
	Label string
}

func (s Security) String() string {
	switch s.Kind {
	case SecurityUnsecured:
		return "Unsecured"
	case SecuritySecured:
		return s.Label
	default:
		return "unknown"
	}
}

// IsOpen reports whether the network needs no password.
func (s Security) IsOpen() bool { return s.Kind == SecurityUnsecured }

// ParseSecurity maps a SECURITY field to a Security. present is false when
// the line had no SECURITY field at all.
func ParseSecurity(field string, present bool) Security {
	if !present {
		return Security{Kind: SecurityUnknown}
	}
	field = strings.TrimSpace(field)
	if field == "" || field == "--" {
		return Security{Kind: SecurityUnsecured}
	}
	return Security{Kind: SecuritySecured, Label: field}
}

// Network is one row of a scan.
type Network struct {
	InUse    bool
	IsSaved  bool
	SSID     string
	Security Security
}

// ParseWifiList parses `nmcli -t -f IN-USE,SSID,SECURITY device wifi list`.
// Short lines are defaulted rather than rejected.
func ParseWifiList(output string) []Network {
	var networks []Network
	for _, line := range terseLines(output) {
		fields := splitTerse(line, 3)
		n := Network{InUse: strings.TrimSpace(fields[0]) == "*"}
		if len(fields) > 1 {
			n.SSID = fields[1]
		}
		if len(fields) > 2 {
			n.Security = ParseSecurity(fields[2], true)
		} else {
			n.Security = ParseSecurity("", false)
		}
		networks = append(networks, n)
	}
	return networks
}

// MarkSaved sets IsSaved on every network whose SSID names a saved profile.
func MarkSaved(networks []Network, saved []SavedConnection) {
	names := make(map[string]struct{}, len(saved))
	for _, s := range saved {
		names[s.SSID] = struct{}{}
	}
	for i := range networks {
		if networks[i].SSID == "" {
			continue
		}
		_, networks[i].IsSaved = names[networks[i].SSID]
	}
}

// Scan lists visible networks. The saved-profile query runs alongside the
// scan; if it fails the networks are returned unmarked.
func (c *Client) Scan(ctx context.Context) ([]Network, error) {
	g, gctx := errgroup.WithContext(ctx)

	var networks []Network
	g.Go(func() error {
		args := []string{"-t", "-f", wifiListFields, "device", "wifi", "list"}
		if c.rescan {
			args = append(args, "--rescan", "yes")
		}
		res, err := c.runNmcli(gctx, args...)
		if err != nil {
			return fmt.Errorf("wifi scan: %w", err)
		}
		networks = ParseWifiList(res.stdout)
		return nil
	})

	var saved []SavedConnection
	g.Go(func() error {
		s, err := c.ListSaved(gctx)
		if err != nil {
			logging.Warn("saved profile lookup failed during scan", zap.Error(err))
			return nil
		}
		saved = s
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	MarkSaved(networks, saved)
	logging.Debug("wifi scan complete", zap.Int("networks", len(networks)), zap.Int("saved", len(saved)))
	return networks, nil
}

// Connect joins ssid. When a plain connect fails because NetworkManager
// could not infer key management, a WPA-PSK profile is added explicitly
// and activated.
func (c *Client) Connect(ctx context.Context, ssid, password string, hidden bool) Status {
	if strings.TrimSpace(ssid) == "" {
		return Status{Message: ErrEmptySSID.Error(), ExitCode: -1}
	}
	args := []string{"device", "wifi", "connect", ssid}
	if password != "" {
		args = append(args, "password", password)
	}
	if hidden {
		args = append(args, "hidden", "yes")
	}
	res, err := c.runSecret(ctx, []string{password}, args...)
	if err != nil && password != "" && needsExplicitProfile(res.stderr) {
		logging.Info("simple connect failed, adding explicit profile", zap.String("ssid", ssid))
		res, err = c.connectWithProfile(ctx, ssid, password, hidden)
	}
	return statusFrom(res, err, fmt.Sprintf("Successfully connected to '%s'", ssid))
}

func needsExplicitProfile(stderr string) bool {
	return strings.Contains(stderr, "802-11-wireless-security.key-mgmt: property is missing") ||
		strings.Contains(stderr, "secrets were required")
}

func (c *Client) connectWithProfile(ctx context.Context, ssid, password string, hidden bool) (runResult, error) {
	// A stale profile with the same name would shadow the new one.
	if _, err := c.runNmcli(ctx, "connection", "delete", "id", ssid); err != nil {
		logging.Debug("no existing profile removed", zap.String("ssid", ssid), zap.Error(err))
	}
	args := []string{
		"connection", "add", "type", ConnectionTypeWifi,
		"con-name", ssid,
		"ifname", "*",
		"ssid", ssid,
		wifiSecKeyMgmt, keyMgmtWPAPSK,
		wifiSecPSK, password,
	}
	if hidden {
		args = append(args, "802-11-wireless.hidden", "yes")
	}
	if res, err := c.runSecret(ctx, []string{password}, args...); err != nil {
		return res, fmt.Errorf("add profile for '%s': %w", ssid, err)
	}
	return c.runNmcli(ctx, "connection", "up", "id", ssid)
}

// Disconnect deactivates the profile named ssid.
func (c *Client) Disconnect(ctx context.Context, ssid string) Status {
	if strings.TrimSpace(ssid) == "" {
		return Status{Message: "No connection found", ExitCode: -1}
	}
	res, err := c.runNmcli(ctx, "connection", "down", "id", ssid)
	return statusFrom(res, err, fmt.Sprintf("Disconnected from '%s'", ssid))
}
