package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birdielog/birdielog/internal/model"
)

func seatEvent(flightID model.FlightID, seatID model.SeatID) model.ChangeEvent {
	return model.ChangeEvent{
		Op:       model.OpUpdate,
		Row:      model.RowSeat,
		FlightID: flightID,
		SeatID:   seatID,
	}
}

func TestPublishReachesSubscriber(t *testing.T) {
	p := New()
	defer p.Close()
	ctx := context.Background()

	sub, err := p.Subscribe(ctx, "FLT001")
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, p.Publish(ctx, seatEvent("FLT001", "s1")))

	ev := <-sub.Events()
	assert.Equal(t, model.SeatID("s1"), ev.SeatID)
}

func TestPublishFansOut(t *testing.T) {
	p := New()
	defer p.Close()
	ctx := context.Background()

	first, err := p.Subscribe(ctx, "FLT001")
	require.NoError(t, err)
	defer first.Close()
	second, err := p.Subscribe(ctx, "FLT001")
	require.NoError(t, err)
	defer second.Close()

	require.NoError(t, p.Publish(ctx, seatEvent("FLT001", "s1")))

	assert.Equal(t, model.SeatID("s1"), (<-first.Events()).SeatID)
	assert.Equal(t, model.SeatID("s1"), (<-second.Events()).SeatID)
}

func TestPublishScopedToFlight(t *testing.T) {
	p := New()
	defer p.Close()
	ctx := context.Background()

	sub, err := p.Subscribe(ctx, "FLT002")
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, p.Publish(ctx, seatEvent("FLT001", "s1")))

	select {
	case ev := <-sub.Events():
		t.Fatalf("unexpected event: %+v", ev)
	default:
	}
}

func TestDeliveryCopies(t *testing.T) {
	p := New()
	defer p.Close()
	p.DeliveryCopies = 2
	ctx := context.Background()

	sub, err := p.Subscribe(ctx, "FLT001")
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, p.Publish(ctx, seatEvent("FLT001", "s1")))

	first := <-sub.Events()
	second := <-sub.Events()
	assert.Equal(t, first, second)
}

func TestSubscriptionCloseStopsDelivery(t *testing.T) {
	p := New()
	defer p.Close()
	ctx := context.Background()

	sub, err := p.Subscribe(ctx, "FLT001")
	require.NoError(t, err)
	sub.Close()

	// Publishing after close must not panic; the events channel is closed
	require.NoError(t, p.Publish(ctx, seatEvent("FLT001", "s1")))
	_, open := <-sub.Events()
	assert.False(t, open)
}

func TestCloseClosesAllSubscriptions(t *testing.T) {
	p := New()
	ctx := context.Background()

	sub, err := p.Subscribe(ctx, "FLT001")
	require.NoError(t, err)

	require.NoError(t, p.Close())

	_, open := <-sub.Events()
	assert.False(t, open)

	// Idempotent
	require.NoError(t, p.Close())
}
