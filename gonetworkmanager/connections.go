package gonetworkmanager

import (
	"context"
	"fmt"
	"strings"
)

// SavedConnection is a stored Wi-Fi profile.
type SavedConnection struct {
	SSID     string
	LastUsed string
}

// ParseSavedConnections parses `nmcli -t -f NAME,TYPE,TIMESTAMP-REAL
// connection show`, keeping only Wi-Fi profiles.
func ParseSavedConnections(output string) []SavedConnection {
	var saved []SavedConnection
	for _, line := range terseLines(output) {
		fields := splitTerse(line, 3)
		if len(fields) < 2 || fields[0] == "" {
			continue
		}
		switch strings.TrimSpace(fields[1]) {
		case ConnectionTypeWireless, ConnectionTypeWifi:
		default:
			continue
		}
		s := SavedConnection{SSID: fields[0]}
		if len(fields) > 2 {
			s.LastUsed = strings.TrimSpace(fields[2])
		}
		saved = append(saved, s)
	}
	return saved
}

// ListSaved returns saved Wi-Fi profiles.
func (c *Client) ListSaved(ctx context.Context) ([]SavedConnection, error) {
	res, err := c.runNmcli(ctx, "-t", "-f", savedListFields, "connection", "show")
	if err != nil {
		return nil, fmt.Errorf("list saved connections: %w", err)
	}
	return ParseSavedConnections(res.stdout), nil
}

// Delete removes the saved profile named ssid.
func (c *Client) Delete(ctx context.Context, ssid string) Status {
	if strings.TrimSpace(ssid) == "" {
		return Status{Message: ErrEmptySSID.Error(), ExitCode: -1}
	}
	res, err := c.runNmcli(ctx, "connection", "delete", "id", ssid)
	return statusFrom(res, err, fmt.Sprintf("Deleted '%s'", ssid))
}
