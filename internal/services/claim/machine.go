package claim

import (
	"sync"

	"github.com/birdielog/birdielog/internal/model"
)

// Machine tracks one seat's claim state as seen by the local client:
// editing (default), syncing (a lock or unlock write is in flight) and
// locked. It is a local derivation, not stored state; propagated row
// updates always win over locally assumed state because another client
// (the same player on a second device) may have changed the row.
type Machine struct {
	mu     sync.Mutex
	seatID model.SeatID
	state  model.ClaimState
}

// NewMachine creates a machine in the editing state
func NewMachine(seatID model.SeatID) *Machine {
	return &Machine{
		seatID: seatID,
		state:  model.ClaimStateEditing,
	}
}

// SeatID returns the seat this machine tracks
func (m *Machine) SeatID() model.SeatID {
	return m.seatID
}

// State returns the current local state
func (m *Machine) State() model.ClaimState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// BeginSync marks a lock or unlock write as in flight. Returns false if a
// write is already in flight; mutating actions are disabled while syncing.
func (m *Machine) BeginSync() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == model.ClaimStateSyncing {
		return false
	}
	m.state = model.ClaimStateSyncing
	return true
}

// AckLock completes a lock write: success lands on locked, failure reverts
// to editing
func (m *Machine) AckLock(ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ok {
		m.state = model.ClaimStateLocked
	} else {
		m.state = model.ClaimStateEditing
	}
}

// AckUnlock completes an unlock write: success lands on editing, failure
// restores locked
func (m *Machine) AckUnlock(ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ok {
		m.state = model.ClaimStateEditing
	} else {
		m.state = model.ClaimStateLocked
	}
}

// Reconcile re-derives the state from a propagated claim row. The row's
// lock flag wins over any locally assumed state, except while a local
// write is still in flight (the acknowledgement will settle it).
// Applying the same row twice produces the same state.
func (m *Machine) Reconcile(c model.Claim) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == model.ClaimStateSyncing {
		return
	}
	if c.Locked {
		m.state = model.ClaimStateLocked
	} else {
		m.state = model.ClaimStateEditing
	}
}
