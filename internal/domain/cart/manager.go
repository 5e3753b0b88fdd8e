// internal/domain/cart/manager.go
package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Manager owns one in-memory cart and keeps it synchronized with a
// durable snapshot: the remote document store keyed by identity when one
// is signed in, the local slot otherwise. Transitions are synchronous;
// persistence is an asynchronous best-effort side effect that never
// blocks or rolls back the in-memory state.
type Manager struct {
	store  Store
	local  Slot
	logger *logrus.Logger

	loads singleflight.Group
	wg    sync.WaitGroup

	mu      sync.Mutex
	cart    Cart
	uid     string
	version int64
	gen     uint64 // bumped on every identity transition, rejects stale loads
}

// NewManager creates a cart manager. The local slot is read exactly once
// here; a snapshot left behind by a previous anonymous session is
// rehydrated, anything else starts empty.
func NewManager(store Store, local Slot, logger *logrus.Logger) *Manager {
	m := &Manager{
		store:  store,
		local:  local,
		logger: logger,
	}

	if local != nil {
		snap, err := local.Load()
		switch {
		case err == nil:
			m.cart = fromSnapshot(snap)
			m.version = snap.Version
		case errors.Is(err, ErrSnapshotNotFound):
		default:
			logger.WithError(err).Warn("Failed to load local cart slot")
		}
	}

	return m
}

// Cart returns a copy of the current cart
func (m *Manager) Cart() Cart {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cart.clone()
}

// AddItem merges the line into the cart. Stock validation is the
// caller's responsibility before calling.
func (m *Manager) AddItem(line Line) Cart {
	return m.transition(func(c *Cart) bool { return c.addLine(line) })
}

// RemoveItem deletes the line if present; absent IDs are a no-op
func (m *Manager) RemoveItem(productID int) Cart {
	return m.transition(func(c *Cart) bool { return c.removeLine(productID) })
}

// UpdateQuantity sets the line's quantity, floored at 1. It never
// removes a line; absent IDs are a no-op.
func (m *Manager) UpdateQuantity(productID, quantity int) Cart {
	return m.transition(func(c *Cart) bool { return c.setQuantity(productID, quantity) })
}

// Clear resets to the empty cart
func (m *Manager) Clear() Cart {
	return m.transition(func(c *Cart) bool { return c.clear() })
}

// Replace overwrites the cart wholesale from a persisted snapshot. It is
// a hydration step, not a user transition, so it never triggers a
// persistence write.
func (m *Manager) Replace(snap *Snapshot) Cart {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cart = fromSnapshot(snap)
	if snap.Version > m.version {
		m.version = snap.Version
	}
	return m.cart.clone()
}

// SignIn switches synchronization to the identity's remote document and
// issues exactly one load for the transition. If the document exists its
// contents replace the in-memory cart; if not, the in-memory cart stays
// as it is. The load is delivered asynchronously and discarded if the
// identity changes again before it lands.
func (m *Manager) SignIn(uid string) {
	m.mu.Lock()
	if m.uid == uid {
		m.mu.Unlock()
		return
	}
	m.uid = uid
	m.gen++
	gen := m.gen
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		// Single-flight: a load already in flight for this identity
		// suppresses a concurrent duplicate.
		v, err, _ := m.loads.Do(uid, func() (interface{}, error) {
			return m.store.Load(context.Background(), uid)
		})
		if err != nil {
			if !errors.Is(err, ErrSnapshotNotFound) {
				m.logger.WithError(err).WithField("uid", uid).Warn("Failed to load remote cart")
			}
			return
		}

		snap := v.(*Snapshot)

		m.mu.Lock()
		defer m.mu.Unlock()
		if m.gen != gen || m.uid != uid {
			// Identity changed while the load was in flight
			return
		}
		m.cart = fromSnapshot(snap)
		if snap.Version > m.version {
			m.version = snap.Version
		}
	}()
}

// SignOut clears the in-memory cart immediately. The clearing is not
// written anywhere: sign-out removes only the local view, never the
// remote truth.
func (m *Manager) SignOut() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.uid == "" {
		return
	}
	m.uid = ""
	m.gen++
	m.cart.clear()
}

// Close waits for in-flight persistence writes to drain
func (m *Manager) Close() {
	m.wg.Wait()
}

// transition applies a reducer step and, when it changed the cart,
// fires a best-effort persistence write.
func (m *Manager) transition(apply func(*Cart) bool) Cart {
	m.mu.Lock()
	defer m.mu.Unlock()

	if apply(&m.cart) {
		m.persistLocked()
	}
	return m.cart.clone()
}

// persistLocked snapshots the cart under the lock and writes it from a
// goroutine. Failures are logged and swallowed; the in-memory cart stays
// authoritative for the session and the next transition retries
// naturally. Writes carry a monotonic version so a slow save that lands
// after a newer one is rejected by the store instead of clobbering it.
func (m *Manager) persistLocked() {
	m.version++
	snap := m.cart.snapshot(m.version)
	uid := m.uid

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		if uid != "" {
			err := m.store.Save(context.Background(), uid, snap)
			switch {
			case err == nil:
			case errors.Is(err, ErrStaleSnapshot):
				m.logger.WithField("uid", uid).Debug("Skipped stale cart write")
				m.recoverVersion(uid, snap.Version)
			default:
				m.logger.WithError(err).WithField("uid", uid).Warn("Failed to save remote cart")
			}
			return
		}

		if m.local == nil {
			return
		}
		if err := m.local.Save(snap); err != nil {
			m.logger.WithError(err).Warn("Failed to save local cart slot")
		}
	}()
}

// recoverVersion handles a stale-write rejection. A rejection normally
// means a newer write from this manager already landed, but it can also
// mean the sign-in load was lost and the write token never caught up
// with the stored document; left alone, every future save would then be
// rejected too. The stored version is reloaded and the token
// fast-forwarded past it. When the rejected write was the latest one
// issued, the current cart is re-persisted under the advanced token so
// the rejected transition still reaches the store.
func (m *Manager) recoverVersion(uid string, rejected int64) {
	stored, err := m.store.Load(context.Background(), uid)
	if err != nil {
		if !errors.Is(err, ErrSnapshotNotFound) {
			m.logger.WithError(err).WithField("uid", uid).Warn("Failed to reload cart version")
		}
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.uid != uid {
		return
	}

	latest := m.version == rejected
	if stored.Version > m.version {
		m.version = stored.Version
	}
	if latest {
		m.persistLocked()
	}
}
