package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nmwifi/config"
	"nmwifi/gonetworkmanager"
	"nmwifi/netlist"
)

func TestHiddenEntryFlow(t *testing.T) {
	m, fb := newTestModel(t, standardNetworks())

	// Up from the first row wraps to the hidden entry.
	m = press(t, m, keyUp, keyEnter)
	require.Equal(t, OverlaySSIDEntry, m.Active())
	assert.True(t, m.creds.Hidden)
	assert.Equal(t, "", m.creds.SSID.Value())
	assert.Equal(t, "", m.creds.Password.Value())

	m = press(t, m, typeText("MyHome")...)
	m = press(t, m, keyEnter)
	require.Equal(t, OverlayPasswordEntry, m.Active())
	assert.Equal(t, "MyHome", m.creds.SSID.Value())
	assert.Equal(t, 0, m.creds.Password.Cursor())

	m = press(t, m, typeText("secret")...)
	m = press(t, m, keyEsc)
	require.Equal(t, OverlaySSIDEntry, m.Active())
	assert.Equal(t, 6, m.creds.SSID.Cursor())

	m = press(t, m, keyEnter)
	require.Equal(t, OverlayPasswordEntry, m.Active())
	assert.Equal(t, "secret", m.creds.Password.Value())
	assert.Equal(t, 6, m.creds.Password.Cursor())

	m = press(t, m, typeText("99")...)
	m = press(t, m, keyEnter)
	require.Len(t, fb.connects, 1)
	assert.Equal(t, connectCall{ssid: "MyHome", password: "secret99", hidden: true}, fb.connects[0])
	assert.Equal(t, OverlayStatus, m.Active())
}

func TestSSIDEntryRequiresName(t *testing.T) {
	m, _ := newTestModel(t, standardNetworks())
	m = press(t, m, keyUp, keyEnter, keyEnter)

	assert.Equal(t, OverlaySSIDEntry, m.Active())
	assert.NotEmpty(t, m.hint)
}

func TestSSIDEntryEscAbandonsSession(t *testing.T) {
	m, fb := newTestModel(t, standardNetworks())
	m = press(t, m, keyUp, keyEnter)
	m = press(t, m, typeText("Lab")...)
	m = press(t, m, keyEsc)

	assert.Equal(t, OverlayBrowsing, m.Active())
	assert.False(t, m.creds.Hidden)
	assert.Equal(t, "", m.creds.SSID.Value())
	assert.Empty(t, fb.connects)
}

func TestUnsecuredConnectsDirectly(t *testing.T) {
	m, fb := newTestModel(t, standardNetworks())

	m = press(t, m, keyDown, keyEnter)

	require.Len(t, fb.connects, 1)
	assert.Equal(t, connectCall{ssid: "Cafe"}, fb.connects[0])
	assert.Equal(t, OverlayStatus, m.Active())
	assert.False(t, m.overlays.Has(OverlayPasswordEntry))
	assert.Equal(t, "Successfully connected to 'Cafe'", m.status.Message)
	assert.False(t, m.statusPending)
	assert.Equal(t, 1, fb.scans, "connect should trigger a refresh")
}

func TestSavedNetworkConnectsWithoutPassword(t *testing.T) {
	office := secured("Office")
	office.IsSaved = true
	m, fb := newTestModel(t, []gonetworkmanager.Network{office})

	m = press(t, m, keyEnter)

	require.Len(t, fb.connects, 1)
	assert.Equal(t, connectCall{ssid: "Office"}, fb.connects[0])
	assert.Equal(t, OverlayStatus, m.Active())
}

func TestInUseSelectionIsNoop(t *testing.T) {
	m, fb := newTestModel(t, standardNetworks())

	m = press(t, m, keyEnter)

	assert.Equal(t, OverlayBrowsing, m.Active())
	assert.Empty(t, fb.connects)
}

func TestSecuredOpensPasswordEntry(t *testing.T) {
	m, fb := newTestModel(t, standardNetworks())

	m = press(t, m, keyDown, keyDown, keyEnter)
	require.Equal(t, OverlayPasswordEntry, m.Active())
	assert.Equal(t, "Office", m.creds.SSID.Value())
	assert.False(t, m.creds.Hidden)

	m = press(t, m, keyEsc)
	assert.Equal(t, OverlayBrowsing, m.Active())
	assert.Empty(t, fb.connects)
}

func TestPasswordLengthPolicy(t *testing.T) {
	tests := []struct {
		name     string
		password string
		accepted bool
	}{
		{"empty", "", true},
		{"five", "12345", false},
		{"seven", "1234567", false},
		{"eight", "12345678", true},
		{"long", "correct horse battery", true},
		{"eight multi-byte", "пароль12", true},
		{"five multi-byte", "日本語日本", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, fb := newTestModel(t, standardNetworks())
			m = press(t, m, keyDown, keyDown, keyEnter)
			m = press(t, m, typeText(tt.password)...)
			m = press(t, m, keyEnter)

			if tt.accepted {
				require.Len(t, fb.connects, 1)
				assert.Equal(t, connectCall{ssid: "Office", password: tt.password}, fb.connects[0])
				assert.Equal(t, OverlayStatus, m.Active())
				assert.Equal(t, "", m.creds.Password.Value(), "password should not linger")
			} else {
				assert.Empty(t, fb.connects)
				assert.Equal(t, OverlayPasswordEntry, m.Active())
				assert.NotEmpty(t, m.hint)
			}
		})
	}
}

func TestConfigurableMinimumLength(t *testing.T) {
	m, fb := newTestModelWith(t, standardNetworks(), Options{MinPasswordLength: 4, MaskPassword: true})

	m = press(t, m, keyDown, keyDown, keyEnter)
	m = press(t, m, typeText("abcd")...)
	m = press(t, m, keyEnter)

	require.Len(t, fb.connects, 1)
}

func TestZeroMinimumAcceptsAnyPassword(t *testing.T) {
	tests := []struct {
		name string
		min  int
	}{
		{name: "zero", min: 0},
		{name: "negative", min: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, fb := newTestModelWith(t, standardNetworks(), Options{MinPasswordLength: tt.min})
			assert.Equal(t, tt.min, m.opts.MinPasswordLength)

			m = press(t, m, keyDown, keyDown, keyEnter)
			m = press(t, m, typeText("abc")...)
			m = press(t, m, keyEnter)

			require.Len(t, fb.connects, 1)
			assert.Equal(t, connectCall{ssid: "Office", password: "abc"}, fb.connects[0])
		})
	}
}

func TestDefaultOptionsFollowConfig(t *testing.T) {
	assert.Equal(t, config.Default().Policy.MinPasswordLength, DefaultOptions().MinPasswordLength)
	assert.Equal(t, config.Default().UI.MaskPassword, DefaultOptions().MaskPassword)
}

func TestEntryKeysAreText(t *testing.T) {
	m, _ := newTestModel(t, standardNetworks())
	m = press(t, m, keyUp, keyEnter)

	m = press(t, m, typeText("qhjk ?sxd")...)
	assert.Equal(t, OverlaySSIDEntry, m.Active())
	assert.Equal(t, "qhjk ?sxd", m.creds.SSID.Value())
}

func TestEntryEditingKeys(t *testing.T) {
	m, _ := newTestModel(t, standardNetworks())
	m = press(t, m, keyUp, keyEnter)
	m = press(t, m, typeText("Cafe")...)

	m = press(t, m, keyType(tea.KeyLeft), keyType(tea.KeyBackspace))
	assert.Equal(t, "Cae", m.creds.SSID.Value())
	assert.Equal(t, 2, m.creds.SSID.Cursor())

	m = press(t, m, keyType(tea.KeyHome), keyRune('X'), keyType(tea.KeyEnd), keyRune('!'))
	assert.Equal(t, "XCae!", m.creds.SSID.Value())
}

func TestStatusDismissClearsIt(t *testing.T) {
	m, fb := newTestModel(t, standardNetworks())
	fb.connectStatus = gonetworkmanager.Status{Message: "Error: Secrets were required", ExitCode: 4}

	m = press(t, m, keyDown, keyEnter)
	require.Equal(t, OverlayStatus, m.Active())
	assert.Equal(t, 4, m.status.ExitCode)
	assert.Equal(t, "Error: Secrets were required", m.status.Message)

	// Other keys are swallowed by the popup.
	m = press(t, m, keyRune('q'))
	assert.Equal(t, OverlayStatus, m.Active())

	m = press(t, m, keyEsc)
	assert.Equal(t, OverlayBrowsing, m.Active())
	assert.Equal(t, gonetworkmanager.Status{}, m.status)
}

func TestDisconnect(t *testing.T) {
	m, fb := newTestModel(t, standardNetworks())

	m = press(t, m, keyRune('x'))

	assert.Equal(t, []string{"Home"}, fb.disconnects)
	assert.Equal(t, OverlayStatus, m.Active())
	assert.Equal(t, "Disconnected from 'Home'", m.status.Message)
	assert.Equal(t, 1, fb.scans)
}

func TestDisconnectWithoutActiveNetwork(t *testing.T) {
	m, fb := newTestModel(t, []gonetworkmanager.Network{unsecured("Cafe")})

	m = press(t, m, keyRune('x'))

	assert.Empty(t, fb.disconnects)
	assert.Equal(t, "No connection found", m.status.Message)
	assert.False(t, m.status.Success())
}

func TestDeleteConfirmation(t *testing.T) {
	m, fb := newTestModel(t, standardNetworks())

	m = press(t, m, keyRune('d'))
	require.Equal(t, OverlayDeleteConfirm, m.Active())
	assert.Equal(t, "Home", m.deleteTarget)

	m = press(t, m, keyRune('n'))
	assert.Equal(t, OverlayBrowsing, m.Active())
	assert.Empty(t, fb.deletes)

	m = press(t, m, keyRune('d'), keyRune('Y'))
	assert.Equal(t, []string{"Home"}, fb.deletes)
	assert.Equal(t, OverlayBrowsing, m.Active())
	assert.Equal(t, "Deleted 'Home'", m.notice)
	assert.Equal(t, 1, fb.scans)
}

func TestDeleteConfirmCancelKeys(t *testing.T) {
	for _, k := range []tea.KeyMsg{keyRune('n'), keyRune('N'), keyEsc, keyRune('q')} {
		m, fb := newTestModel(t, standardNetworks())
		m = press(t, m, keyRune('d'), k)
		assert.Equal(t, OverlayBrowsing, m.Active(), "key %q", k.String())
		assert.Empty(t, fb.deletes)
		assert.False(t, m.quitting)
	}
}

func TestDeleteIgnoredForUnsaved(t *testing.T) {
	m, _ := newTestModel(t, standardNetworks())
	m = press(t, m, keyDown, keyRune('d'))
	assert.Equal(t, OverlayBrowsing, m.Active())
}

func TestSavedListFlow(t *testing.T) {
	m, fb := newTestModel(t, standardNetworks())
	fb.saved = []gonetworkmanager.SavedConnection{{SSID: "Home"}, {SSID: "Lab"}, {SSID: "Cabin"}}

	m = press(t, m, keyRune('s'))
	require.Equal(t, OverlaySavedList, m.Active())
	require.Len(t, m.saved, 3)
	assert.Equal(t, 0, m.savedSel.Index())

	m = press(t, m, keyRune('k'))
	assert.Equal(t, 2, m.savedSel.Index())
	m = press(t, m, keyDown)
	assert.Equal(t, 0, m.savedSel.Index())
	m = press(t, m, keyRune('j'))

	// Delete confirmation opens on top of the saved list.
	m = press(t, m, keyRune('d'))
	require.Equal(t, OverlayDeleteConfirm, m.Active())
	assert.True(t, m.overlays.Has(OverlaySavedList))
	assert.Equal(t, "Lab", m.deleteTarget)

	m = press(t, m, keyEsc)
	require.Equal(t, OverlaySavedList, m.Active())

	m = press(t, m, keyRune('d'), keyEnter)
	assert.Equal(t, []string{"Lab"}, fb.deletes)
	require.Equal(t, OverlaySavedList, m.Active())
	assert.Len(t, m.saved, 2, "saved list reloads after delete")

	m = press(t, m, keyEnter)
	require.Len(t, fb.connects, 1)
	assert.Equal(t, "Cabin", fb.connects[0].ssid)
	assert.Equal(t, "", fb.connects[0].password)
	assert.False(t, m.overlays.Has(OverlaySavedList))
}

func TestSavedListResetsSelectionOnOpen(t *testing.T) {
	m, fb := newTestModel(t, standardNetworks())
	fb.saved = []gonetworkmanager.SavedConnection{{SSID: "A"}, {SSID: "B"}}

	m = press(t, m, keyRune('s'), keyDown, keyRune('q'))
	assert.Equal(t, OverlayBrowsing, m.Active())
	assert.False(t, m.quitting)

	m = press(t, m, keyRune('s'))
	assert.Equal(t, 0, m.savedSel.Index())
}

func TestHelpCapturesInput(t *testing.T) {
	m, fb := newTestModel(t, standardNetworks())

	m = press(t, m, keyRune('?'))
	require.Equal(t, OverlayHelp, m.Active())

	m = press(t, m, keyDown, keyEnter)
	assert.Equal(t, OverlayBrowsing, m.Active())
	assert.Equal(t, 0, m.selected.Index())
	assert.Empty(t, fb.connects)

	m = press(t, m, keyRune('h'), keyRune('q'))
	assert.Equal(t, OverlayBrowsing, m.Active())
	assert.False(t, m.quitting)
}

func TestQuitFromBrowsing(t *testing.T) {
	for _, k := range []tea.KeyMsg{keyRune('q'), keyEsc} {
		m, _ := newTestModel(t, standardNetworks())
		next, cmd := m.Update(k)
		assert.True(t, quits(cmd), "key %q", k.String())
		assert.True(t, next.(Model).quitting)
	}
}

func TestForceQuitFromAnyOverlay(t *testing.T) {
	m, _ := newTestModel(t, standardNetworks())
	m = press(t, m, keyUp, keyEnter)
	require.Equal(t, OverlaySSIDEntry, m.Active())

	m = press(t, m, typeText("Lab")...)

	next, cmd := m.Update(keyType(tea.KeyCtrlC))
	assert.True(t, quits(cmd))
	assert.True(t, next.(Model).quitting)
}

func TestRefreshKeys(t *testing.T) {
	m, fb := newTestModel(t, standardNetworks())
	fb.networks = []gonetworkmanager.Network{unsecured("Fresh")}

	m = press(t, m, keyRune('r'), keyType(tea.KeyCtrlR))
	assert.Equal(t, 2, fb.scans)
	assert.Equal(t, 0, m.refreshing)

	got, ok := m.list.TryView()
	require.True(t, ok)
	require.Len(t, got, 2)
	assert.Equal(t, "Fresh", got[0].SSID)
	assert.Equal(t, netlist.HiddenNetworkSSID, got[1].SSID)
}

func TestSelectionClampedAfterShrink(t *testing.T) {
	m, fb := newTestModel(t, standardNetworks())
	m = press(t, m, keyUp)
	assert.Equal(t, 3, m.selected.Index())

	fb.networks = nil
	m = press(t, m, keyRune('r'))
	assert.Equal(t, 0, m.selected.Index())
}

func TestPasteIntoEntry(t *testing.T) {
	m, _ := newTestModel(t, standardNetworks())
	m.readClipboard = func() (string, error) { return "Guest Wi‑Fi\n", nil }

	m = press(t, m, keyUp, keyEnter)
	m = press(t, m, keyType(tea.KeyCtrlV))
	assert.Equal(t, "Guest Wi‑Fi", m.creds.SSID.Value())

	m = press(t, m, keyEnter)
	m.readClipboard = func() (string, error) { return "hunter22", nil }
	m = press(t, m, keyType(tea.KeyCtrlV))
	assert.Equal(t, "hunter22", m.creds.Password.Value())
	assert.Equal(t, 8, m.creds.Password.Cursor())
}

func TestPasteFailureShowsHint(t *testing.T) {
	m, _ := newTestModel(t, standardNetworks())
	m = press(t, m, keyUp, keyEnter, keyType(tea.KeyCtrlV))

	assert.Equal(t, "", m.creds.SSID.Value())
	assert.Equal(t, "Clipboard unavailable", m.hint)
}

func TestFatalMessageQuits(t *testing.T) {
	m, _ := newTestModel(t, standardNetworks())

	next, cmd := m.Update(fatalMsg{err: netlist.ErrPoisoned})
	assert.True(t, quits(cmd))
	assert.ErrorIs(t, next.(Model).Err(), netlist.ErrPoisoned)
}

func TestScanErrorKeepsList(t *testing.T) {
	m, _ := newTestModel(t, standardNetworks())

	next, _ := m.Update(refreshedMsg{err: assert.AnError})
	m = next.(Model)

	assert.ErrorIs(t, m.scanErr, assert.AnError)
	got, ok := m.list.TryView()
	require.True(t, ok)
	assert.Len(t, got, 4)
}

func TestRefreshedClampsAfterListChanges(t *testing.T) {
	m, _ := newTestModel(t, standardNetworks())
	m = press(t, m, keyUp)
	require.Equal(t, 3, m.selected.Index())

	require.NoError(t, m.list.Replace([]gonetworkmanager.Network{unsecured("Cafe"), netlist.HiddenEntry()}))

	release := holdList(t, m.list)
	next, _ := m.Update(refreshedMsg{})
	m = next.(Model)
	assert.Equal(t, 3, m.selected.Index(), "a busy list is clamped later")

	release()
	next, _ = m.Update(refreshedMsg{})
	m = next.(Model)
	assert.Equal(t, 1, m.selected.Index())
	assert.Equal(t, m.list.Generation(), m.listGen)

	// Unchanged generation: the selection is left alone.
	m.selected.index = 7
	next, _ = m.Update(refreshedMsg{})
	m = next.(Model)
	assert.Equal(t, 7, m.selected.Index())
}
