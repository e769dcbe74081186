// Package netlist holds the scan results shared between the UI and the
// background refresh workers.
//
// Readers on the UI side never block: TryView gives up immediately when a
// writer holds the lock and the caller draws a placeholder instead.
// Background tasks may use the blocking View.
//
// Concurrent refreshes are not ordered. Whichever scan finishes last
// replaces the contents, even if it started first.
package netlist

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"nmwifi/gonetworkmanager"
	"nmwifi/logging"
)

// HiddenNetworkSSID labels the synthetic last row used to join a network
// that does not broadcast its SSID.
const HiddenNetworkSSID = "Connect to Hidden network"

// ErrPoisoned is returned by every write after a writer panicked while
// holding the lock. The contents can no longer be trusted.
var ErrPoisoned = errors.New("network list poisoned by a failed update")

// ScanFunc produces a fresh set of networks.
type ScanFunc func(ctx context.Context) ([]gonetworkmanager.Network, error)

// List is a mutex-guarded slice of networks. The zero value is ready to use.
type List struct {
	mu       sync.Mutex
	networks []gonetworkmanager.Network
	poisoned bool

	inFlight   atomic.Int32
	generation atomic.Uint64
}

// HiddenEntry returns the synthetic row appended after every scan.
func HiddenEntry() gonetworkmanager.Network {
	return gonetworkmanager.Network{
		SSID:     HiddenNetworkSSID,
		Security: gonetworkmanager.Security{Kind: gonetworkmanager.SecurityUnknown},
	}
}

// IsHiddenEntry reports whether n is the synthetic hidden-network row.
func IsHiddenEntry(n gonetworkmanager.Network) bool {
	return n.SSID == HiddenNetworkSSID && !n.InUse && !n.IsSaved
}

// TryView returns a copy of the contents without waiting. ok is false when
// a writer holds the lock or the list is poisoned.
func (l *List) TryView() (networks []gonetworkmanager.Network, ok bool) {
	if !l.mu.TryLock() {
		return nil, false
	}
	defer l.mu.Unlock()
	if l.poisoned {
		return nil, false
	}
	return l.snapshot(), true
}

// View returns a copy of the contents, waiting for any writer to finish.
func (l *List) View() ([]gonetworkmanager.Network, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.poisoned {
		return nil, ErrPoisoned
	}
	return l.snapshot(), nil
}

func (l *List) snapshot() []gonetworkmanager.Network {
	out := make([]gonetworkmanager.Network, len(l.networks))
	copy(out, l.networks)
	return out
}

// Replace swaps in networks.
func (l *List) Replace(networks []gonetworkmanager.Network) error {
	return l.Update(func([]gonetworkmanager.Network) []gonetworkmanager.Network { return networks })
}

// Update holds the writer lock while fill computes the new contents from a
// copy of the current ones. Readers using TryView see the list as busy
// until fill returns. A panic raised by fill poisons the list and is
// reported as ErrPoisoned.
func (l *List) Update(fill func(current []gonetworkmanager.Network) []gonetworkmanager.Network) (err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.poisoned {
		return ErrPoisoned
	}
	defer func() {
		if r := recover(); r != nil {
			l.poisoned = true
			logging.Error("network list writer panicked", zap.Any("panic", r))
			err = fmt.Errorf("%w: %v", ErrPoisoned, r)
		}
	}()
	next := fill(l.snapshot())
	l.networks = make([]gonetworkmanager.Network, len(next))
	copy(l.networks, next)
	l.generation.Add(1)
	return nil
}

// InFlight is the number of refreshes still running.
func (l *List) InFlight() int { return int(l.inFlight.Load()) }

// Generation counts successful writes. Callers compare it with an earlier
// value to learn whether the contents may have changed.
func (l *List) Generation() uint64 { return l.generation.Load() }

// Refresh runs scan in a new goroutine and replaces the contents with its
// result plus the hidden entry. The returned channel receives exactly one
// value, nil on success, and is then closed. A failed scan leaves the
// current contents in place.
func (l *List) Refresh(ctx context.Context, scan ScanFunc) <-chan error {
	done := make(chan error, 1)
	l.inFlight.Add(1)
	go func() {
		defer close(done)
		defer l.inFlight.Add(-1)

		networks, err := scan(ctx)
		if err != nil {
			done <- fmt.Errorf("refresh: %w", err)
			return
		}
		done <- l.Update(func([]gonetworkmanager.Network) []gonetworkmanager.Network {
			return append(networks, HiddenEntry())
		})
	}()
	return done
}
