package memory

import (
	"context"
	"sync"

	"github.com/birdielog/birdielog/internal/model"
	"github.com/birdielog/birdielog/internal/propagator"
)

const subscriberBufferSize = 64

// Propagator is an in-memory implementation of the change propagator.
// Events are fanned out to buffered subscriber channels; a full buffer
// drops the event, which is within the at-least-once contract (consumers
// re-derive from storage rows).
type Propagator struct {
	mu          sync.RWMutex
	subscribers map[model.FlightID]map[*subscription]bool
	closed      bool

	// DeliveryCopies is how many times each published event is delivered
	// to each subscriber. Tests raise it above 1 to exercise duplicate
	// delivery; it defaults to 1.
	DeliveryCopies int
}

// New creates a new in-memory propagator
func New() *Propagator {
	return &Propagator{
		subscribers:    make(map[model.FlightID]map[*subscription]bool),
		DeliveryCopies: 1,
	}
}

// Ensure Propagator implements the interface
var _ propagator.Propagator = (*Propagator)(nil)

type subscription struct {
	prop     *Propagator
	flightID model.FlightID
	events   chan model.ChangeEvent
	once     sync.Once
}

func (s *subscription) Events() <-chan model.ChangeEvent {
	return s.events
}

func (s *subscription) Close() {
	s.once.Do(func() {
		s.prop.mu.Lock()
		defer s.prop.mu.Unlock()
		if subs, ok := s.prop.subscribers[s.flightID]; ok {
			delete(subs, s)
			if len(subs) == 0 {
				delete(s.prop.subscribers, s.flightID)
			}
		}
		close(s.events)
	})
}

// Publish delivers an event to every subscriber of the event's flight
func (p *Propagator) Publish(ctx context.Context, event model.ChangeEvent) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	copies := p.DeliveryCopies
	if copies < 1 {
		copies = 1
	}

	for sub := range p.subscribers[event.FlightID] {
		for i := 0; i < copies; i++ {
			select {
			case sub.events <- event:
			default:
				// Subscriber buffer full; drop
			}
		}
	}
	return nil
}

// Subscribe registers a new subscriber for a flight's change feed
func (p *Propagator) Subscribe(ctx context.Context, flightID model.FlightID) (propagator.Subscription, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	sub := &subscription{
		prop:     p,
		flightID: flightID,
		events:   make(chan model.ChangeEvent, subscriberBufferSize),
	}
	if p.subscribers[flightID] == nil {
		p.subscribers[flightID] = make(map[*subscription]bool)
	}
	p.subscribers[flightID][sub] = true
	return sub, nil
}

// Close closes all subscriptions
func (p *Propagator) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	var subs []*subscription
	for _, flightSubs := range p.subscribers {
		for sub := range flightSubs {
			subs = append(subs, sub)
		}
	}
	p.mu.Unlock()

	for _, sub := range subs {
		sub.Close()
	}
	return nil
}
