package sse

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/birdielog/birdielog/internal/model"
	"github.com/birdielog/birdielog/internal/propagator"
)

// Broadcaster bridges the change propagator to SSE hubs: one propagator
// subscription per flight with connected UI clients, fanned out as JSON
// SSE events named "<row>_<op>" (e.g. "seat_update", "validation_update").
type Broadcaster struct {
	hubManager *HubManager
	propagator propagator.Propagator
	logger     *slog.Logger

	mu      sync.Mutex
	streams map[model.FlightID]propagator.Subscription
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, prop propagator.Propagator, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		propagator: prop,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
		streams:    make(map[model.FlightID]propagator.Subscription),
	}
}

// streamEvent is the JSON body pushed to UI clients. Snapshots may be
// stale on arrival; clients refetch flight state rather than patching.
type streamEvent struct {
	Op         string                  `json:"op"`
	Row        string                  `json:"row"`
	FlightID   string                  `json:"flight_id"`
	SeatID     string                  `json:"seat_id,omitempty"`
	Seat       *model.Seat             `json:"seat,omitempty"`
	Validation *model.ValidationRecord `json:"validation,omitempty"`
	Timestamp  time.Time               `json:"timestamp"`
}

// EnsureStream starts relaying a flight's change feed to its hub. It is
// idempotent; the first SSE client for a flight triggers the subscription.
func (b *Broadcaster) EnsureStream(ctx context.Context, flightID model.FlightID) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.streams[flightID]; ok {
		return nil
	}

	sub, err := b.propagator.Subscribe(ctx, flightID)
	if err != nil {
		return err
	}
	b.streams[flightID] = sub

	hub := b.hubManager.GetOrCreateHub(flightID)
	go b.pump(flightID, hub, sub)

	return nil
}

// pump relays change events to the hub until the subscription closes
func (b *Broadcaster) pump(flightID model.FlightID, hub *Hub, sub propagator.Subscription) {
	for ev := range sub.Events() {
		body := streamEvent{
			Op:         string(ev.Op),
			Row:        string(ev.Row),
			FlightID:   string(ev.FlightID),
			SeatID:     string(ev.SeatID),
			Seat:       ev.Seat,
			Validation: ev.Validation,
			Timestamp:  ev.Timestamp,
		}
		data, err := json.Marshal(body)
		if err != nil {
			b.logger.Error("sse event marshal failed",
				slog.String("flight", string(flightID)),
				slog.String("error", err.Error()))
			continue
		}
		hub.BroadcastEvent(fmt.Sprintf("%s_%s", ev.Row, ev.Op), string(data))
	}
}

// CloseStream stops relaying a flight's change feed
func (b *Broadcaster) CloseStream(flightID model.FlightID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if sub, ok := b.streams[flightID]; ok {
		sub.Close()
		delete(b.streams, flightID)
	}
}

// Cleanup removes hubs with no clients and closes their streams
func (b *Broadcaster) Cleanup() {
	for _, flightID := range b.hubManager.CleanupEmptyHubs() {
		b.CloseStream(flightID)
	}
}
