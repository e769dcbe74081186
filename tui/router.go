package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// Overlays
// =============================================================================

// Overlay is a modal layer that owns keyboard input while it is on top.
// Constants are declared in precedence order, highest first.
type Overlay int

const (
	OverlayHelp Overlay = iota
	OverlayDeleteConfirm
	OverlaySavedList
	OverlaySSIDEntry
	OverlayPasswordEntry
	OverlayStatus
	OverlayBrowsing
)

func (o Overlay) String() string {
	names := []string{
		"Help",
		"DeleteConfirm",
		"SavedList",
		"SSIDEntry",
		"PasswordEntry",
		"Status",
		"Browsing",
	}
	if o >= 0 && int(o) < len(names) {
		return names[o]
	}
	return fmt.Sprintf("Unknown(%d)", o)
}

// Overlays is the set of open overlays. Several may be open at once (a
// delete confirmation over the saved list) but Active names exactly one.
type Overlays uint8

func (s Overlays) Has(o Overlay) bool { return s&(1<<o) != 0 }

func (s Overlays) With(o Overlay) Overlays { return s | 1<<o }

func (s Overlays) Without(o Overlay) Overlays { return s &^ (1 << o) }

// Active returns the highest-precedence open overlay, or OverlayBrowsing
// when none is open.
func (s Overlays) Active() Overlay {
	for o := OverlayHelp; o < OverlayBrowsing; o++ {
		if s.Has(o) {
			return o
		}
	}
	return OverlayBrowsing
}

// =============================================================================
// Routing
// =============================================================================

// route hands msg to the handler of the active overlay. Force quit is
// handled here so that no overlay can swallow it.
func (m *Model) route(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.ForceQuit) {
		m.quitting = true
		return tea.Quit
	}

	// Notices last until the next keypress.
	m.notice = ""

	switch m.overlays.Active() {
	case OverlayHelp:
		return m.handleHelpKeys(msg)
	case OverlayDeleteConfirm:
		return m.handleDeleteConfirmKeys(msg)
	case OverlaySavedList:
		return m.handleSavedListKeys(msg)
	case OverlaySSIDEntry:
		return m.handleSSIDEntryKeys(msg)
	case OverlayPasswordEntry:
		return m.handlePasswordEntryKeys(msg)
	case OverlayStatus:
		return m.handleStatusKeys(msg)
	default:
		return m.handleBrowsingKeys(msg)
	}
}
