package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/birdielog/birdielog/internal/model"
	"github.com/birdielog/birdielog/internal/propagator"
)

const subscriberBufferSize = 64

// Config holds Redis pub/sub connection settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		URL: "redis://localhost:6379",
	}
}

// Propagator is a Redis pub/sub implementation of the change propagator.
// Each flight has its own channel; Redis pub/sub gives no replay, no
// ordering across publishers and delivery only to currently-connected
// subscribers, which matches the at-least-once contract.
type Propagator struct {
	client *redis.Client
	logger *slog.Logger
}

// New creates a new Redis propagator
func New(cfg Config, logger *slog.Logger) (*Propagator, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewWithClient(client, logger), nil
}

// NewWithClient creates a Redis propagator with an existing client (for testing)
func NewWithClient(client *redis.Client, logger *slog.Logger) *Propagator {
	return &Propagator{
		client: client,
		logger: logger.With(slog.String("component", "propagator")),
	}
}

// Ensure Propagator implements the interface
var _ propagator.Propagator = (*Propagator)(nil)

// changeChannel returns the pub/sub channel name for a flight
func changeChannel(flightID model.FlightID) string {
	return fmt.Sprintf("birdielog:changes:%s", flightID)
}

// Publish sends an event to the flight's pub/sub channel
func (p *Propagator) Publish(ctx context.Context, event model.ChangeEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, changeChannel(event.FlightID), data).Err()
}

type subscription struct {
	pubsub *redis.PubSub
	events chan model.ChangeEvent
	once   sync.Once
}

func (s *subscription) Events() <-chan model.ChangeEvent {
	return s.events
}

func (s *subscription) Close() {
	s.once.Do(func() {
		// Closing the PubSub closes its message channel, which ends the
		// pump goroutine and closes the events channel.
		_ = s.pubsub.Close()
	})
}

// Subscribe opens a pub/sub subscription on the flight's channel
func (p *Propagator) Subscribe(ctx context.Context, flightID model.FlightID) (propagator.Subscription, error) {
	pubsub := p.client.Subscribe(ctx, changeChannel(flightID))

	// Wait for subscription confirmation so no event published after
	// Subscribe returns is missed
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	sub := &subscription{
		pubsub: pubsub,
		events: make(chan model.ChangeEvent, subscriberBufferSize),
	}

	go p.pump(flightID, pubsub, sub.events)

	return sub, nil
}

// pump converts raw pub/sub messages to change events
func (p *Propagator) pump(flightID model.FlightID, pubsub *redis.PubSub, events chan<- model.ChangeEvent) {
	defer close(events)

	for msg := range pubsub.Channel() {
		var event model.ChangeEvent
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			p.logger.Warn("dropping malformed change event",
				slog.String("flight", string(flightID)),
				slog.String("error", err.Error()))
			continue
		}

		select {
		case events <- event:
		default:
			// Subscriber buffer full; drop. Consumers re-derive from
			// storage rows, so a dropped event costs latency, not
			// correctness.
			p.logger.Warn("change event dropped - subscriber buffer full",
				slog.String("flight", string(flightID)))
		}
	}
}

// Close closes the Redis connection
func (p *Propagator) Close() error {
	return p.client.Close()
}
