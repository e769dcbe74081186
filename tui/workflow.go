package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"nmwifi/gonetworkmanager"
	"nmwifi/logging"
	"nmwifi/netlist"
)

// Action is what selecting a network in the main list leads to.
type Action int

const (
	ActionNone Action = iota
	ActionConnectDirect
	ActionHiddenEntry
	ActionPasswordEntry
)

// Classify decides how to handle a selected network. A row without an
// SSID is treated like the hidden-network entry.
func Classify(n gonetworkmanager.Network) Action {
	switch {
	case n.InUse:
		return ActionNone
	case netlist.IsHiddenEntry(n) || n.SSID == "":
		return ActionHiddenEntry
	case n.IsSaved || n.Security.IsOpen():
		return ActionConnectDirect
	default:
		return ActionPasswordEntry
	}
}

// Credentials are the in-progress SSID and password entry.
type Credentials struct {
	SSID     Buffer
	Password Buffer
	// Hidden is set when the session started from the hidden-network entry.
	Hidden bool
}

func (c *Credentials) Reset() { *c = Credentials{} }

// PasswordAcceptable reports whether a password of length characters may
// be sent. Empty means "no password".
func PasswordAcceptable(length, minLength int) bool {
	return length == 0 || length >= minLength
}

// =============================================================================
// Browsing
// =============================================================================

func (m *Model) handleBrowsingKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return tea.Quit

	case key.Matches(msg, m.keys.Refresh):
		return m.refresh()

	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)

	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)

	case key.Matches(msg, m.keys.Select):
		return m.selectNetwork()

	case key.Matches(msg, m.keys.Help):
		m.overlays = m.overlays.With(OverlayHelp)

	case key.Matches(msg, m.keys.Saved):
		return m.openSavedList()

	case key.Matches(msg, m.keys.Disconnect):
		m.beginStatus("Disconnecting…")
		return tea.Batch(disconnectCmd(m.ctx, m.list, m.backend), m.startSpinner())

	case key.Matches(msg, m.keys.Delete):
		if n, ok := m.selectedNetwork(); ok && n.IsSaved {
			m.deleteTarget = n.SSID
			m.overlays = m.overlays.With(OverlayDeleteConfirm)
		}
	}
	return nil
}

// moveSelection is skipped while a refresh holds the list; the next key
// press will see the new length.
func (m *Model) moveSelection(direction int) {
	networks, ok := m.list.TryView()
	if !ok {
		return
	}
	m.selected.Update(direction, len(networks))
}

// clampToList pulls the selection back inside the list after a write.
// Nothing is done when the list is unchanged or still busy.
func (m *Model) clampToList() {
	gen := m.list.Generation()
	if gen == m.listGen {
		return
	}
	if networks, ok := m.list.TryView(); ok {
		m.selected.Clamp(len(networks))
		m.listGen = gen
	}
}

func (m *Model) selectedNetwork() (gonetworkmanager.Network, bool) {
	networks, ok := m.list.TryView()
	if !ok || len(networks) == 0 {
		return gonetworkmanager.Network{}, false
	}
	m.selected.Clamp(len(networks))
	return networks[m.selected.Index()], true
}

func (m *Model) selectNetwork() tea.Cmd {
	n, ok := m.selectedNetwork()
	if !ok {
		return nil
	}
	switch Classify(n) {
	case ActionConnectDirect:
		return m.startConnect(n.SSID, "", false)
	case ActionHiddenEntry:
		m.creds.Reset()
		m.creds.Hidden = true
		m.hint = ""
		m.overlays = m.overlays.With(OverlaySSIDEntry)
	case ActionPasswordEntry:
		m.creds.Reset()
		m.creds.SSID.SetValue(n.SSID)
		m.hint = ""
		m.overlays = m.overlays.With(OverlayPasswordEntry)
	}
	return nil
}

func (m *Model) startConnect(ssid, password string, hidden bool) tea.Cmd {
	m.beginStatus(fmt.Sprintf("Connecting to '%s'…", ssid))
	return tea.Batch(connectCmd(m.ctx, m.backend, ssid, password, hidden), m.startSpinner())
}

// =============================================================================
// SSID and password entry
// =============================================================================

func (m *Model) handleSSIDEntryKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.creds.Reset()
		m.hint = ""
		m.overlays = m.overlays.Without(OverlaySSIDEntry).Without(OverlayPasswordEntry)
		return nil

	case key.Matches(msg, m.keys.Confirm):
		if strings.TrimSpace(m.creds.SSID.Value()) == "" {
			m.hint = "Enter the network name"
			return nil
		}
		m.hint = ""
		m.creds.Password.MoveToEnd()
		m.overlays = m.overlays.Without(OverlaySSIDEntry).With(OverlayPasswordEntry)
		return nil
	}
	return m.editBuffer(&m.creds.SSID, msg)
}

func (m *Model) handlePasswordEntryKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.hint = ""
		m.overlays = m.overlays.Without(OverlayPasswordEntry)
		if m.creds.Hidden {
			m.creds.SSID.MoveToEnd()
			m.overlays = m.overlays.With(OverlaySSIDEntry)
			return nil
		}
		m.creds.Reset()
		return nil

	case key.Matches(msg, m.keys.Confirm):
		return m.submitPassword()
	}
	return m.editBuffer(&m.creds.Password, msg)
}

func (m *Model) submitPassword() tea.Cmd {
	n := m.creds.Password.Len()
	if !PasswordAcceptable(n, m.opts.MinPasswordLength) {
		m.hint = fmt.Sprintf("Password must be empty or at least %d characters (got %d)", m.opts.MinPasswordLength, n)
		logging.Debug("password rejected by policy", zap.Int("length", n))
		return nil
	}
	ssid, password, hidden := m.creds.SSID.Value(), m.creds.Password.Value(), m.creds.Hidden
	m.creds.Reset()
	m.hint = ""
	m.overlays = m.overlays.Without(OverlayPasswordEntry)
	return m.startConnect(ssid, password, hidden)
}

func (m *Model) editBuffer(b *Buffer, msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Left):
		b.MoveLeft()
	case key.Matches(msg, m.keys.Right):
		b.MoveRight()
	case key.Matches(msg, m.keys.Home):
		b.MoveToStart()
	case key.Matches(msg, m.keys.End):
		b.MoveToEnd()
	case key.Matches(msg, m.keys.Backspace):
		b.DeleteBeforeCursor()
	case key.Matches(msg, m.keys.Paste):
		return pasteCmd(m.readClipboard)
	case msg.Type == tea.KeyRunes && !msg.Alt:
		b.InsertString(string(msg.Runes))
	case msg.Type == tea.KeySpace:
		b.Insert(' ')
	default:
		return nil
	}
	m.hint = ""
	return nil
}

func (m *Model) handlePaste(msg pasteMsg) {
	if msg.err != nil {
		logging.Warn("clipboard read failed", zap.Error(msg.err))
		m.hint = "Clipboard unavailable"
		return
	}
	switch m.overlays.Active() {
	case OverlaySSIDEntry:
		m.creds.SSID.InsertString(msg.text)
	case OverlayPasswordEntry:
		m.creds.Password.InsertString(msg.text)
	}
}

// =============================================================================
// Status, help, saved list, delete confirmation
// =============================================================================

func (m *Model) beginStatus(message string) {
	m.status = gonetworkmanager.Status{Message: message}
	m.statusPending = true
	m.overlays = m.overlays.With(OverlayStatus)
}

func (m *Model) showStatus(status gonetworkmanager.Status) {
	m.status = status
	m.statusPending = false
	m.overlays = m.overlays.With(OverlayStatus)
}

func (m *Model) handleStatusKeys(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Confirm, m.keys.Back) {
		m.status = gonetworkmanager.Status{}
		m.statusPending = false
		m.overlays = m.overlays.Without(OverlayStatus)
	}
	return nil
}

func (m *Model) handleHelpKeys(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Close) {
		m.overlays = m.overlays.Without(OverlayHelp)
	}
	return nil
}

func (m *Model) openSavedList() tea.Cmd {
	m.savedSel.Reset()
	m.saved = nil
	m.savedErr = nil
	m.savedLoading = true
	m.overlays = m.overlays.With(OverlaySavedList)
	return tea.Batch(loadSavedCmd(m.ctx, m.backend), m.startSpinner())
}

func (m *Model) handleSavedListKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Back, m.keys.Quit):
		m.overlays = m.overlays.Without(OverlaySavedList)

	case key.Matches(msg, m.keys.Up):
		m.savedSel.Update(-1, len(m.saved))

	case key.Matches(msg, m.keys.Down):
		m.savedSel.Update(1, len(m.saved))

	case key.Matches(msg, m.keys.Select):
		if len(m.saved) == 0 {
			return nil
		}
		ssid := m.saved[m.savedSel.Index()].SSID
		m.overlays = m.overlays.Without(OverlaySavedList)
		return m.startConnect(ssid, "", false)

	case key.Matches(msg, m.keys.Delete):
		if len(m.saved) == 0 {
			return nil
		}
		m.deleteTarget = m.saved[m.savedSel.Index()].SSID
		m.overlays = m.overlays.With(OverlayDeleteConfirm)
	}
	return nil
}

func (m *Model) handleDeleteConfirmKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Yes):
		target := m.deleteTarget
		m.deleteTarget = ""
		m.overlays = m.overlays.Without(OverlayDeleteConfirm)
		return deleteCmd(m.ctx, m.backend, target)

	case key.Matches(msg, m.keys.No):
		m.deleteTarget = ""
		m.overlays = m.overlays.Without(OverlayDeleteConfirm)
	}
	return nil
}
