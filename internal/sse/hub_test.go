package sse

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birdielog/birdielog/internal/model"
	memorypropagator "github.com/birdielog/birdielog/internal/propagator/memory"
	"github.com/birdielog/birdielog/internal/testutil"
)

const waitTimeout = 2 * time.Second

func receive(t *testing.T, ch chan []byte) []byte {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for sse message")
		return nil
	}
}

func TestFormatSSEMessage(t *testing.T) {
	msg := formatSSEMessage("seat_update", `{"op":"update"}`)
	assert.Equal(t, "event: seat_update\ndata: {\"op\":\"update\"}\n\n", string(msg))
}

func TestFormatSSEMessageMultiline(t *testing.T) {
	msg := formatSSEMessage("seat_update", "line1\r\nline2")
	assert.Equal(t, "event: seat_update\ndata: line1\ndata: line2\n\n", string(msg))
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub("FLT001", testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	client := NewClient(hub, "p1")
	hub.Register(client)

	hub.BroadcastEvent("seat_update", `{"seat_id":"s1"}`)

	msg := receive(t, client.send)
	assert.Contains(t, string(msg), "event: seat_update")
	assert.Contains(t, string(msg), `data: {"seat_id":"s1"}`)
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub := NewHub("FLT001", testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	client := NewClient(hub, "p1")
	hub.Register(client)
	hub.Unregister(client)

	select {
	case _, open := <-client.send:
		assert.False(t, open)
	case <-time.After(waitTimeout):
		t.Fatal("send channel not closed")
	}
}

func TestHubManagerGetOrCreate(t *testing.T) {
	m := NewHubManager(testutil.NopLogger())

	hub := m.GetOrCreateHub("FLT001")
	require.NotNil(t, hub)
	assert.Same(t, hub, m.GetOrCreateHub("FLT001"))
	assert.Same(t, hub, m.GetHub("FLT001"))
	assert.Nil(t, m.GetHub("FLT999"))

	m.RemoveHub("FLT001")
	assert.Nil(t, m.GetHub("FLT001"))
}

func TestCleanupEmptyHubs(t *testing.T) {
	m := NewHubManager(testutil.NopLogger())

	m.GetOrCreateHub("FLT001")
	busy := m.GetOrCreateHub("FLT002")
	client := NewClient(busy, "p1")
	busy.Register(client)

	// Wait for the register to land in the hub loop
	require.Eventually(t, func() bool {
		return busy.ClientCount() == 1
	}, waitTimeout, 10*time.Millisecond)

	removed := m.CleanupEmptyHubs()
	assert.Equal(t, []model.FlightID{"FLT001"}, removed)
	assert.Nil(t, m.GetHub("FLT001"))
	assert.NotNil(t, m.GetHub("FLT002"))
}

func TestBroadcasterRelaysChangeEvents(t *testing.T) {
	prop := memorypropagator.New()
	defer prop.Close()
	m := NewHubManager(testutil.NopLogger())
	b := NewBroadcaster(m, prop, testutil.NopLogger())
	ctx := context.Background()

	require.NoError(t, b.EnsureStream(ctx, "FLT001"))
	// Idempotent
	require.NoError(t, b.EnsureStream(ctx, "FLT001"))

	hub := m.GetHub("FLT001")
	require.NotNil(t, hub)
	client := NewClient(hub, "p1")
	hub.Register(client)
	require.Eventually(t, func() bool {
		return hub.ClientCount() == 1
	}, waitTimeout, 10*time.Millisecond)

	value := model.ClaimValue(123)
	require.NoError(t, prop.Publish(ctx, model.ChangeEvent{
		Op:       model.OpUpdate,
		Row:      model.RowSeat,
		FlightID: "FLT001",
		SeatID:   "s1",
		Seat: &model.Seat{
			ID:       "s1",
			FlightID: "FLT001",
			Claim:    model.Claim{Value: &value, Locked: true, LockVersion: 1},
		},
		Timestamp: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC),
	}))

	msg := receive(t, client.send)
	text := string(msg)
	assert.Contains(t, text, "event: seat_update\n")

	// Payload is JSON the UI can refetch from
	var body struct {
		Op       string      `json:"op"`
		Row      string      `json:"row"`
		FlightID string      `json:"flight_id"`
		SeatID   string      `json:"seat_id"`
		Seat     *model.Seat `json:"seat"`
	}
	start := len("event: seat_update\ndata: ")
	end := len(text) - len("\n\n")
	require.NoError(t, json.Unmarshal([]byte(text[start:end]), &body))
	assert.Equal(t, "update", body.Op)
	assert.Equal(t, "seat", body.Row)
	assert.Equal(t, "FLT001", body.FlightID)
	assert.Equal(t, "s1", body.SeatID)
	require.NotNil(t, body.Seat)
	assert.True(t, body.Seat.Claim.Locked)
}

func TestBroadcasterCloseStream(t *testing.T) {
	prop := memorypropagator.New()
	defer prop.Close()
	m := NewHubManager(testutil.NopLogger())
	b := NewBroadcaster(m, prop, testutil.NopLogger())
	ctx := context.Background()

	require.NoError(t, b.EnsureStream(ctx, "FLT001"))
	b.CloseStream("FLT001")

	// A fresh stream can be opened after closing
	require.NoError(t, b.EnsureStream(ctx, "FLT001"))
}
