package tui

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"nmwifi/gonetworkmanager"
	"nmwifi/netlist"
)

type connectCall struct {
	ssid     string
	password string
	hidden   bool
}

// fakeBackend records calls and answers from canned data.
type fakeBackend struct {
	mu sync.Mutex

	networks      []gonetworkmanager.Network
	saved         []gonetworkmanager.SavedConnection
	connectStatus gonetworkmanager.Status

	scans       int
	connects    []connectCall
	disconnects []string
	deletes     []string
}

func (f *fakeBackend) Scan(context.Context) ([]gonetworkmanager.Network, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scans++
	out := make([]gonetworkmanager.Network, len(f.networks))
	copy(out, f.networks)
	return out, nil
}

func (f *fakeBackend) Connect(_ context.Context, ssid, password string, hidden bool) gonetworkmanager.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connects = append(f.connects, connectCall{ssid, password, hidden})
	if f.connectStatus.Message == "" && f.connectStatus.ExitCode == 0 {
		return gonetworkmanager.Status{Message: "Successfully connected to '" + ssid + "'"}
	}
	return f.connectStatus
}

func (f *fakeBackend) Disconnect(_ context.Context, ssid string) gonetworkmanager.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnects = append(f.disconnects, ssid)
	return gonetworkmanager.Status{Message: "Disconnected from '" + ssid + "'"}
}

func (f *fakeBackend) Delete(_ context.Context, ssid string) gonetworkmanager.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, ssid)
	kept := f.saved[:0]
	for _, s := range f.saved {
		if s.SSID != ssid {
			kept = append(kept, s)
		}
	}
	f.saved = kept
	return gonetworkmanager.Status{Message: "Deleted '" + ssid + "'"}
}

func (f *fakeBackend) ListSaved(context.Context) ([]gonetworkmanager.SavedConnection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]gonetworkmanager.SavedConnection, len(f.saved))
	copy(out, f.saved)
	return out, nil
}

func secured(ssid string) gonetworkmanager.Network {
	return gonetworkmanager.Network{SSID: ssid, Security: gonetworkmanager.Security{Kind: gonetworkmanager.SecuritySecured, Label: "WPA2"}}
}

func unsecured(ssid string) gonetworkmanager.Network {
	return gonetworkmanager.Network{SSID: ssid, Security: gonetworkmanager.Security{Kind: gonetworkmanager.SecurityUnsecured}}
}

// standardNetworks is Home (in use, saved), Cafe (open), Office (secured)
// followed by the hidden entry.
func standardNetworks() []gonetworkmanager.Network {
	home := secured("Home")
	home.InUse, home.IsSaved = true, true
	return []gonetworkmanager.Network{home, unsecured("Cafe"), secured("Office")}
}

func newTestModel(t *testing.T, networks []gonetworkmanager.Network) (Model, *fakeBackend) {
	t.Helper()
	return newTestModelWith(t, networks, DefaultOptions())
}

func newTestModelWith(t *testing.T, networks []gonetworkmanager.Network, opts Options) (Model, *fakeBackend) {
	t.Helper()
	fb := &fakeBackend{networks: networks}
	list := &netlist.List{}
	require.NoError(t, list.Replace(append(append([]gonetworkmanager.Network{}, networks...), netlist.HiddenEntry())))
	m := New(context.Background(), list, fb, opts)
	m.refreshing = 0
	m.spinning = false
	m.readClipboard = func() (string, error) { return "", errors.New("no clipboard in tests") }
	return m, fb
}

// holdList keeps the writer lock on l, as a refresh would, until release
// is called or the test ends.
func holdList(t *testing.T, l *netlist.List) (release func()) {
	t.Helper()
	held := make(chan struct{})
	unblock := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- l.Update(func(current []gonetworkmanager.Network) []gonetworkmanager.Network {
			close(held)
			<-unblock
			return current
		})
	}()
	<-held

	var once sync.Once
	release = func() {
		once.Do(func() {
			close(unblock)
			require.NoError(t, <-done)
		})
	}
	t.Cleanup(release)
	return release
}

func keyRune(r rune) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}} }

func keyType(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

var (
	keyEnter = keyType(tea.KeyEnter)
	keyEsc   = keyType(tea.KeyEsc)
	keyUp    = keyType(tea.KeyUp)
	keyDown  = keyType(tea.KeyDown)
)

func typeText(s string) []tea.KeyMsg {
	var keys []tea.KeyMsg
	for _, r := range s {
		if r == ' ' {
			keys = append(keys, keyType(tea.KeySpace))
			continue
		}
		keys = append(keys, keyRune(r))
	}
	return keys
}

// press feeds keys one at a time and lets every resulting command finish.
func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		next, cmd := m.Update(k)
		m = settle(t, next.(Model), cmd)
	}
	return m
}

// settle runs cmd and feeds its messages back into the model until no
// work is left. Spinner ticks and quit are dropped.
func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 100, "commands did not settle")
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil, spinner.TickMsg, tea.QuitMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			next, more := m.Update(msg)
			m = next.(Model)
			queue = append(queue, more)
		}
	}
	return m
}

// quits reports whether cmd, or any command batched inside it, quits.
func quits(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	switch msg := cmd().(type) {
	case tea.QuitMsg:
		return true
	case tea.BatchMsg:
		for _, c := range msg {
			if quits(c) {
				return true
			}
		}
	}
	return false
}
