// Package tui is the interactive Wi-Fi manager built on bubbletea.
//
// Every key press is routed to exactly one overlay by fixed precedence (see
// Overlays.Active). Backend work runs in tea.Cmds so Update never blocks on
// nmcli; results arrive back as messages.
package tui

import (
	"context"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"nmwifi/config"
	"nmwifi/gonetworkmanager"
	"nmwifi/logging"
	"nmwifi/netlist"
)

// DefaultMinPasswordLength is the shortest non-empty password sent to the
// backend.
const DefaultMinPasswordLength = config.DefaultMinPasswordLength

// Options carries the configurable parts of the UI.
type Options struct {
	// MinPasswordLength of 0 or less accepts any password.
	MinPasswordLength int
	MaskPassword      bool
}

func DefaultOptions() Options {
	return Options{MinPasswordLength: DefaultMinPasswordLength, MaskPassword: true}
}

// =============================================================================
// Main Model
// =============================================================================

type Model struct {
	ctx     context.Context
	list    *netlist.List
	backend gonetworkmanager.Backend
	opts    Options

	// Overlay state
	overlays Overlays
	selected Selection
	// listGen is the list generation selected was last clamped against.
	listGen uint64

	// Credential entry
	creds Credentials
	hint  string

	// Status popup
	status        gonetworkmanager.Status
	statusPending bool

	// Saved list
	saved        []gonetworkmanager.SavedConnection
	savedErr     error
	savedLoading bool
	savedSel     Selection
	deleteTarget string

	refreshing int
	scanErr    error
	notice     string

	// UI components
	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	spinning bool

	readClipboard func() (string, error)

	width    int
	height   int
	quitting bool
	err      error
}

// New builds the model. list is shared with the refresh workers started
// by the model.
func New(ctx context.Context, list *netlist.List, backend gonetworkmanager.Backend, opts Options) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = scanningStyle

	h := help.New()
	subtleStyle := lipgloss.NewStyle().Foreground(colorFaint)
	h.Styles = help.Styles{
		ShortKey:       subtleStyle,
		ShortDesc:      subtleStyle,
		ShortSeparator: subtleStyle,
		FullKey:        subtleStyle.Bold(true),
		FullDesc:       subtleStyle,
		FullSeparator:  subtleStyle,
		Ellipsis:       subtleStyle,
	}

	m := Model{
		ctx:      ctx,
		list:     list,
		backend:  backend,
		opts:     opts,
		listGen:  list.Generation(),
		keys:     defaultKeyBindings,
		help:     h,
		spinner:  s,
		spinning: true,

		readClipboard: clipboard.ReadAll,
	}
	m.keys.overlay = OverlayBrowsing
	// Init starts the first scan.
	m.refreshing = 1
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(refreshCmd(m.ctx, m.list, m.backend), m.spinner.Tick)
}

// Err is the fatal error that ended the program, if any.
func (m Model) Err() error { return m.err }

// Active returns the overlay currently receiving keys.
func (m Model) Active() Overlay { return m.overlays.Active() }

// =============================================================================
// Update
// =============================================================================

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width - appStyle.GetHorizontalFrameSize()
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case refreshedMsg:
		if m.refreshing > 0 {
			m.refreshing--
		}
		m.scanErr = msg.err
		m.clampToList()

	case connectResultMsg:
		m.showStatus(msg.status)
		cmds = append(cmds, m.refresh())

	case disconnectResultMsg:
		m.showStatus(msg.status)
		cmds = append(cmds, m.refresh())

	case deleteResultMsg:
		if msg.status.Success() {
			m.notice = msg.status.Message
		} else {
			m.showStatus(msg.status)
		}
		cmds = append(cmds, m.refresh())
		if m.overlays.Has(OverlaySavedList) {
			m.savedLoading = true
			cmds = append(cmds, loadSavedCmd(m.ctx, m.backend))
		}

	case savedLoadedMsg:
		m.savedLoading = false
		m.saved = msg.saved
		m.savedErr = msg.err
		m.savedSel.Clamp(len(m.saved))

	case pasteMsg:
		m.handlePaste(msg)

	case fatalMsg:
		logging.Error("fatal error, exiting", zap.Error(msg.err))
		m.err = msg.err
		m.quitting = true
		return m, tea.Quit

	case tea.KeyMsg:
		cmds = append(cmds, m.route(msg))
	}

	m.keys.overlay = m.overlays.Active()
	return m, tea.Batch(cmds...)
}

func (m *Model) refresh() tea.Cmd {
	m.refreshing++
	return tea.Batch(refreshCmd(m.ctx, m.list, m.backend), m.startSpinner())
}

func (m *Model) startSpinner() tea.Cmd {
	if m.spinning {
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}

func (m Model) busy() bool {
	return m.refreshing > 0 || m.list.InFlight() > 0 || m.statusPending || m.savedLoading
}
