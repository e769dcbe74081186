package tui

import "github.com/charmbracelet/bubbles/key"

// =============================================================================
// Key Bindings
// =============================================================================

type keyMap struct {
	// Browsing
	Quit       key.Binding
	ForceQuit  key.Binding
	Refresh    key.Binding
	Select     key.Binding
	Up         key.Binding
	Down       key.Binding
	Help       key.Binding
	Saved      key.Binding
	Disconnect key.Binding
	Delete     key.Binding

	// Popups
	Yes     key.Binding
	No      key.Binding
	Back    key.Binding
	Confirm key.Binding
	Close   key.Binding

	// Text entry
	Left      key.Binding
	Right     key.Binding
	Home      key.Binding
	End       key.Binding
	Backspace key.Binding
	Paste     key.Binding

	overlay Overlay
}

func (k keyMap) ShortHelp() []key.Binding {
	switch k.overlay {
	case OverlayBrowsing:
		return []key.Binding{k.Select, k.Refresh, k.Saved, k.Disconnect, k.Delete, k.Help, k.Quit}
	case OverlaySavedList:
		return []key.Binding{k.Select, k.Delete, k.Back}
	case OverlayDeleteConfirm:
		return []key.Binding{k.Yes, k.No}
	case OverlaySSIDEntry, OverlayPasswordEntry:
		return []key.Binding{k.Confirm, k.Paste, k.Back}
	case OverlayStatus:
		return []key.Binding{k.Confirm, k.Back}
	default:
		return []key.Binding{k.Close}
	}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Quit, k.ForceQuit, k.Refresh},
		{k.Select, k.Up, k.Down},
		{k.Saved, k.Disconnect, k.Delete},
		{k.Help, k.Paste},
	}
}

var defaultKeyBindings = keyMap{
	Quit:       key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q/esc", "quit")),
	ForceQuit:  key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "force quit")),
	Refresh:    key.NewBinding(key.WithKeys("r", "ctrl+r"), key.WithHelp("r", "scan")),
	Select:     key.NewBinding(key.WithKeys("enter", "o"), key.WithHelp("enter/o", "connect")),
	Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Help:       key.NewBinding(key.WithKeys("h", "?"), key.WithHelp("h/?", "help")),
	Saved:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "saved")),
	Disconnect: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "disconnect")),
	Delete:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),

	Yes:     key.NewBinding(key.WithKeys("y", "Y", "enter"), key.WithHelp("y/enter", "yes")),
	No:      key.NewBinding(key.WithKeys("n", "N", "esc", "q"), key.WithHelp("n/esc", "no")),
	Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
	Close:   key.NewBinding(key.WithKeys("esc", "enter", "q", "h", "?"), key.WithHelp("esc/enter", "close")),

	Left:      key.NewBinding(key.WithKeys("left")),
	Right:     key.NewBinding(key.WithKeys("right")),
	Home:      key.NewBinding(key.WithKeys("home", "ctrl+a")),
	End:       key.NewBinding(key.WithKeys("end", "ctrl+e")),
	Backspace: key.NewBinding(key.WithKeys("backspace")),
	Paste:     key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "paste")),
}
