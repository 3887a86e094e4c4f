package claim

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/birdielog/birdielog/internal/model"
)

func TestMachineStartsEditing(t *testing.T) {
	m := NewMachine("s1")
	assert.Equal(t, model.ClaimStateEditing, m.State())
	assert.Equal(t, model.SeatID("s1"), m.SeatID())
}

func TestBeginSyncRejectsConcurrentWrite(t *testing.T) {
	m := NewMachine("s1")
	assert.True(t, m.BeginSync())
	assert.False(t, m.BeginSync())
}

func TestLockSuccess(t *testing.T) {
	m := NewMachine("s1")
	m.BeginSync()
	m.AckLock(true)
	assert.Equal(t, model.ClaimStateLocked, m.State())
}

func TestLockFailureRevertsToEditing(t *testing.T) {
	m := NewMachine("s1")
	m.BeginSync()
	m.AckLock(false)
	assert.Equal(t, model.ClaimStateEditing, m.State())
}

func TestUnlockSuccess(t *testing.T) {
	m := NewMachine("s1")
	m.BeginSync()
	m.AckLock(true)
	m.BeginSync()
	m.AckUnlock(true)
	assert.Equal(t, model.ClaimStateEditing, m.State())
}

func TestUnlockFailureRestoresLocked(t *testing.T) {
	m := NewMachine("s1")
	m.BeginSync()
	m.AckLock(true)
	m.BeginSync()
	m.AckUnlock(false)
	assert.Equal(t, model.ClaimStateLocked, m.State())
}

func TestReconcileRowWins(t *testing.T) {
	m := NewMachine("s1")
	m.Reconcile(model.Claim{Locked: true})
	assert.Equal(t, model.ClaimStateLocked, m.State())

	m.Reconcile(model.Claim{Locked: false})
	assert.Equal(t, model.ClaimStateEditing, m.State())
}

func TestReconcileIgnoredWhileSyncing(t *testing.T) {
	m := NewMachine("s1")
	m.BeginSync()
	m.Reconcile(model.Claim{Locked: true})
	assert.Equal(t, model.ClaimStateSyncing, m.State())
}

func TestReconcileIdempotent(t *testing.T) {
	m := NewMachine("s1")
	row := model.Claim{Locked: true}
	m.Reconcile(row)
	m.Reconcile(row)
	assert.Equal(t, model.ClaimStateLocked, m.State())
}
