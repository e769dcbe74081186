package tui

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// Styles
// =============================================================================

var (
	appStyle = lipgloss.NewStyle().Margin(1, 1)

	// ANSI colors for broad terminal support
	colorPrimary   = lipgloss.Color("5")
	colorSecondary = lipgloss.Color("4")
	colorAccent    = lipgloss.Color("6")
	colorSuccess   = lipgloss.Color("2")
	colorError     = lipgloss.Color("1")
	colorWarning   = lipgloss.Color("3")
	colorFaint     = lipgloss.Color("8")
	colorText      = lipgloss.Color("7")

	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Padding(0, 1)
	scanningStyle   = lipgloss.NewStyle().Foreground(colorAccent)
	noticeStyle     = lipgloss.NewStyle().Foreground(colorSuccess)
	errorStyle      = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	successStyle    = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	warningStyle    = lipgloss.NewStyle().Foreground(colorWarning)
	faintStyle      = lipgloss.NewStyle().Foreground(colorFaint)
	helpGlobalStyle = lipgloss.NewStyle().Foreground(colorFaint).MarginTop(1)

	tableBorderStyle   = lipgloss.NewStyle().Foreground(colorSecondary)
	tableHeaderStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorSecondary).Padding(0, 1)
	tableCellStyle     = lipgloss.NewStyle().Foreground(colorText).Padding(0, 1)
	tableSelectedStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).Reverse(true).Padding(0, 1)
	tableInUseStyle    = lipgloss.NewStyle().Foreground(colorSuccess).Padding(0, 1)
	tablePendingStyle  = lipgloss.NewStyle().Foreground(colorFaint).Italic(true).Padding(0, 1)

	popupStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(colorAccent).
			Padding(1, 2)
	confirmPopupStyle = popupStyle.BorderForeground(colorWarning)
	popupTitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).MarginBottom(1)
	fieldLabelStyle   = lipgloss.NewStyle().Foreground(colorFaint)
	fieldStyle        = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder(), true).
				BorderForeground(colorFaint).
				Padding(0, 1)
	activeFieldStyle = fieldStyle.BorderForeground(colorAccent)
	cursorStyle      = lipgloss.NewStyle().Reverse(true)
	hintStyle        = lipgloss.NewStyle().Foreground(colorWarning).MarginTop(1)
)
