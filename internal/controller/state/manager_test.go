package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManager_Dialog(t *testing.T) {
	sm := NewManager(time.Minute)

	assert.Equal(t, StateNone, sm.GetState(1))

	sm.Begin(1, StateEditBookingMessage, map[string]any{KeyBookingID: "b-1"})
	assert.Equal(t, StateEditBookingMessage, sm.GetState(1))

	id, ok := sm.GetString(1, KeyBookingID)
	assert.True(t, ok)
	assert.Equal(t, "b-1", id)

	// новый диалог не наследует данные старого
	sm.Begin(1, StateSearchingCandidates, nil)
	_, ok = sm.GetData(1, KeyBookingID)
	assert.False(t, ok)

	sm.ClearState(1)
	assert.Equal(t, StateNone, sm.GetState(1))
}

func TestManager_Expiry(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	sm := NewManager(time.Minute).WithClock(func() time.Time { return now })

	sm.Begin(1, StateEditBookingMessage, map[string]any{KeyBookingID: "b-1"})
	sm.Begin(2, StateSearchingCandidates, nil)

	now = now.Add(2 * time.Minute)
	sm.Begin(2, StateSearchingCandidates, nil)

	assert.Equal(t, StateNone, sm.GetState(1))
	_, ok := sm.GetString(1, KeyBookingID)
	assert.False(t, ok)
	assert.Equal(t, StateSearchingCandidates, sm.GetState(2))

	assert.Equal(t, 1, sm.Sweep())
	assert.Equal(t, 0, sm.Sweep())
}

func TestManager_BeginNoneClears(t *testing.T) {
	sm := NewManager(0)

	sm.Begin(1, StateEditBookingMessage, nil)
	sm.Begin(1, StateNone, nil)

	assert.Equal(t, StateNone, sm.GetState(1))
}
