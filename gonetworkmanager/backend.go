package gonetworkmanager

import "context"

// Status is the outcome of a connection-changing operation as shown to the
// user. ExitCode is nmcli's exit status, or -1 when nmcli could not be run.
type Status struct {
	Message  string
	ExitCode int
}

// Success reports whether the operation exited cleanly.
func (s Status) Success() bool { return s.ExitCode == 0 }

// Backend is the set of network operations the UI depends on.
type Backend interface {
	// Scan lists visible networks, with IsSaved filled in.
	Scan(ctx context.Context) ([]Network, error)
	// Connect joins ssid. An empty password connects without one; hidden
	// asks NetworkManager to probe for a non-broadcasting SSID.
	Connect(ctx context.Context, ssid, password string, hidden bool) Status
	// Disconnect deactivates the profile named ssid.
	Disconnect(ctx context.Context, ssid string) Status
	// Delete removes the saved profile named ssid.
	Delete(ctx context.Context, ssid string) Status
	// ListSaved returns saved Wi-Fi profiles.
	ListSaved(ctx context.Context) ([]SavedConnection, error)
}

var _ Backend = (*Client)(nil)
