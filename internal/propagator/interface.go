package propagator

import (
	"context"

	"github.com/birdielog/birdielog/internal/model"
)

// Subscription is a handle on one flight's change feed.
// The Events channel is closed when the subscription is closed.
type Subscription interface {
	Events() <-chan model.ChangeEvent
	Close()
}

// Propagator pushes row-level change events to every subscriber of a
// flight. Delivery is at-least-once: events may arrive duplicated or out of
// order relative to write order, and a slow consumer may miss events
// entirely. Consumers must re-derive state from storage rows on every
// event rather than applying deltas.
type Propagator interface {
	Publish(ctx context.Context, event model.ChangeEvent) error
	Subscribe(ctx context.Context, flightID model.FlightID) (Subscription, error)
	Close() error
}
