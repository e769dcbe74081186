package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"nmwifi/gonetworkmanager"
	"nmwifi/logging"
	"nmwifi/netlist"
)

// =============================================================================
// Messages
// =============================================================================

type refreshedMsg struct {
	err error
}

type connectResultMsg struct {
	ssid   string
	status gonetworkmanager.Status
}

type disconnectResultMsg struct {
	ssid   string
	status gonetworkmanager.Status
}

type deleteResultMsg struct {
	ssid   string
	status gonetworkmanager.Status
}

type savedLoadedMsg struct {
	saved []gonetworkmanager.SavedConnection
	err   error
}

type pasteMsg struct {
	text string
	err  error
}

// fatalMsg ends the program. It is only sent when the shared list has
// been poisoned.
type fatalMsg struct {
	err error
}

// =============================================================================
// Commands
// =============================================================================

// Each command runs on its own goroutine; Update never waits on nmcli.

func refreshCmd(ctx context.Context, list *netlist.List, backend gonetworkmanager.Backend) tea.Cmd {
	return func() tea.Msg {
		logging.Debug("refreshing network list")
		err := <-list.Refresh(ctx, backend.Scan)
		if errors.Is(err, netlist.ErrPoisoned) {
			return fatalMsg{err: err}
		}
		if err != nil {
			logging.Warn("refresh failed", zap.Error(err))
		}
		return refreshedMsg{err: err}
	}
}

func connectCmd(ctx context.Context, backend gonetworkmanager.Backend, ssid, password string, hidden bool) tea.Cmd {
	return func() tea.Msg {
		logging.Info("connecting", zap.String("ssid", ssid), zap.Bool("hidden", hidden), zap.Bool("with_password", password != ""))
		status := backend.Connect(ctx, ssid, password, hidden)
		return connectResultMsg{ssid: ssid, status: status}
	}
}

// disconnectCmd finds the network in use and takes it down. The lookup
// may wait for a running refresh; that is fine off the UI goroutine.
func disconnectCmd(ctx context.Context, list *netlist.List, backend gonetworkmanager.Backend) tea.Cmd {
	return func() tea.Msg {
		networks, err := list.View()
		if err != nil {
			return fatalMsg{err: err}
		}
		for _, n := range networks {
			if n.InUse {
				logging.Info("disconnecting", zap.String("ssid", n.SSID))
				return disconnectResultMsg{ssid: n.SSID, status: backend.Disconnect(ctx, n.SSID)}
			}
		}
		return disconnectResultMsg{status: gonetworkmanager.Status{Message: "No connection found", ExitCode: 1}}
	}
}

func deleteCmd(ctx context.Context, backend gonetworkmanager.Backend, ssid string) tea.Cmd {
	return func() tea.Msg {
		logging.Info("deleting profile", zap.String("ssid", ssid))
		return deleteResultMsg{ssid: ssid, status: backend.Delete(ctx, ssid)}
	}
}

func loadSavedCmd(ctx context.Context, backend gonetworkmanager.Backend) tea.Cmd {
	return func() tea.Msg {
		saved, err := backend.ListSaved(ctx)
		return savedLoadedMsg{saved: saved, err: err}
	}
}

func pasteCmd(read func() (string, error)) tea.Cmd {
	return func() tea.Msg {
		text, err := read()
		return pasteMsg{text: text, err: err}
	}
}
