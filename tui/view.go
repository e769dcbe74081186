package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"

	"nmwifi/gonetworkmanager"
	"nmwifi/netlist"
)

const (
	appName         = "nmwifi"
	maxSSIDWidth    = 32
	fieldWidth      = 36
	popupMinWidth   = 44
	passwordMask    = '•'
	scanningRowText = "Scanning…"
)

// =============================================================================
// View
// =============================================================================

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	keys := m.keys
	keys.overlay = m.overlays.Active()

	header := m.headerView()
	footer := helpGlobalStyle.Render(m.help.ShortHelpView(keys.ShortHelp()))

	var content string
	switch m.overlays.Active() {
	case OverlayHelp:
		content = m.renderHelp(keys)
	case OverlayDeleteConfirm:
		content = m.renderDeleteConfirm()
	case OverlaySavedList:
		content = m.renderSavedList()
	case OverlaySSIDEntry:
		content = m.renderCredentials(true)
	case OverlayPasswordEntry:
		content = m.renderCredentials(false)
	case OverlayStatus:
		content = m.renderStatus()
	default:
		content = m.renderNetworkTable()
	}

	if m.overlays.Active() != OverlayBrowsing && m.width > 0 {
		w := m.width - appStyle.GetHorizontalFrameSize()
		h := m.height - appStyle.GetVerticalFrameSize() - lipgloss.Height(header) - lipgloss.Height(footer)
		if h > 0 && w > 0 {
			content = lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, content)
		}
	}

	return appStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, content, footer))
}

func (m Model) headerView() string {
	parts := []string{titleStyle.Render(appName)}
	if m.busy() {
		parts = append(parts, scanningStyle.Render(m.spinner.View()+" Working…"))
	}
	if m.notice != "" {
		parts = append(parts, noticeStyle.Render(m.notice))
	}
	if m.scanErr != nil {
		parts = append(parts, errorStyle.Render("Scan failed: "+m.scanErr.Error()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(parts, "  ")) + "\n"
}

// displaySSID shortens long names to a fixed number of terminal cells.
func displaySSID(ssid string) string {
	if ssid == "" {
		return "<hidden>"
	}
	return runewidth.Truncate(ssid, maxSSIDWidth, "…")
}

func (m Model) renderNetworkTable() string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		Headers("", "SSID", "SECURITY", "SAVED")

	networks, ok := m.list.TryView()
	if !ok {
		t.Row("", scanningRowText, "", "")
		return t.StyleFunc(func(row, _ int) lipgloss.Style {
			if row == 0 {
				return tableHeaderStyle
			}
			return tablePendingStyle
		}).Render()
	}

	for _, n := range networks {
		t.Row(networkRow(n)...)
	}
	selected := m.selected.Index()
	t.StyleFunc(func(row, _ int) lipgloss.Style {
		switch {
		case row == 0:
			return tableHeaderStyle
		case row-1 == selected:
			return tableSelectedStyle
		case row-1 < len(networks) && networks[row-1].InUse:
			return tableInUseStyle
		default:
			return tableCellStyle
		}
	})
	return t.Render()
}

func networkRow(n gonetworkmanager.Network) []string {
	if netlist.IsHiddenEntry(n) {
		return []string{"", n.SSID, "", ""}
	}
	inUse, saved := "", ""
	if n.InUse {
		inUse = "*"
	}
	if n.IsSaved {
		saved = "✓"
	}
	return []string{inUse, displaySSID(n.SSID), n.Security.String(), saved}
}

func (m Model) renderSavedList() string {
	title := popupTitleStyle.Render("Saved Wi-Fi profiles")
	var body string
	switch {
	case m.savedLoading:
		body = scanningStyle.Render(m.spinner.View() + " Loading…")
	case m.savedErr != nil:
		body = errorStyle.Render(m.savedErr.Error())
	case len(m.saved) == 0:
		body = faintStyle.Render("No saved Wi-Fi profiles.")
	default:
		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(tableBorderStyle).
			Headers("SSID", "LAST USED")
		for _, s := range m.saved {
			t.Row(displaySSID(s.SSID), s.LastUsed)
		}
		selected := m.savedSel.Index()
		t.StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == 0:
				return tableHeaderStyle
			case row-1 == selected:
				return tableSelectedStyle
			default:
				return tableCellStyle
			}
		})
		body = t.Render()
	}
	return popupStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, body))
}

func (m Model) renderCredentials(ssidFocused bool) string {
	title := "Connect to " + displaySSID(m.creds.SSID.Value())
	if m.creds.Hidden {
		title = "Connect to a hidden network"
	}

	ssidField, pwField := fieldStyle, fieldStyle
	if ssidFocused {
		ssidField = activeFieldStyle
	} else {
		pwField = activeFieldStyle
	}

	rows := []string{popupTitleStyle.Render(title)}
	if m.creds.Hidden || ssidFocused {
		rows = append(rows,
			fieldLabelStyle.Render("SSID"),
			ssidField.Render(renderField(&m.creds.SSID, false, ssidFocused)))
	}
	rows = append(rows,
		fieldLabelStyle.Render("Password (leave empty for none)"),
		pwField.Render(renderField(&m.creds.Password, m.opts.MaskPassword, !ssidFocused)))
	if m.hint != "" {
		rows = append(rows, hintStyle.Render(m.hint))
	}
	return popupStyle.Width(popupMinWidth).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// renderField draws b with the cursor shown as a reversed cell. Text left
// of the cursor scrolls when it no longer fits.
func renderField(b *Buffer, mask bool, focused bool) string {
	text := b.Value()
	if mask {
		text = b.Masked(passwordMask)
	}
	runes := []rune(text)
	if !focused {
		return runewidth.Truncate(string(runes), fieldWidth, "…")
	}

	cursor := b.Cursor()
	before := runes[:cursor]
	col := b.CursorColumn()
	if mask {
		col = runewidth.StringWidth(string(before))
	}
	for len(before) > 0 && col >= fieldWidth {
		col -= runewidth.RuneWidth(before[0])
		before = before[1:]
	}

	at, after := " ", ""
	if cursor < len(runes) {
		at = string(runes[cursor])
		after = string(runes[cursor+1:])
	}
	return string(before) + cursorStyle.Render(at) + runewidth.Truncate(after, fieldWidth, "")
}

func (m Model) renderStatus() string {
	style := successStyle
	switch {
	case m.statusPending:
		style = scanningStyle
	case !m.status.Success():
		style = errorStyle
	}

	msg := m.status.Message
	if m.statusPending {
		msg = m.spinner.View() + " " + msg
	}
	rows := []string{lipgloss.NewStyle().Width(popupMinWidth).Render(style.Render(msg))}
	if !m.statusPending && !m.status.Success() {
		rows = append(rows, faintStyle.Render(fmt.Sprintf("exit code %d", m.status.ExitCode)))
	}
	rows = append(rows, "", faintStyle.Render("(Press Enter or Esc to return)"))
	return popupStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) renderDeleteConfirm() string {
	message := fmt.Sprintf("Delete saved profile '%s'?", displaySSID(m.deleteTarget))
	hint := faintStyle.Render("(y/Enter to confirm, n/Esc to cancel)")
	return confirmPopupStyle.Render(lipgloss.JoinVertical(lipgloss.Center, warningStyle.Render(message), "", hint))
}

func (m Model) renderHelp(keys keyMap) string {
	title := popupTitleStyle.Render("Keys")
	full := m.help.FullHelpView(keys.FullHelp())
	hint := faintStyle.Render("(Esc, Enter or q to close)")
	return popupStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, full, "", hint))
}
