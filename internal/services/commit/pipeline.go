package commit

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/birdielog/birdielog/internal/dependencies/clock"
	"github.com/birdielog/birdielog/internal/model"
	"github.com/birdielog/birdielog/internal/services/flight"
)

// DefaultDebounceWindow is the quiet period between the last keystroke and
// the store write
const DefaultDebounceWindow = 400 * time.Millisecond

// Config holds commit pipeline settings
type Config struct {
	DebounceWindow time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		DebounceWindow: DefaultDebounceWindow,
	}
}

// Pipeline coalesces rapid local edits to a seat's claim into a single
// debounced store write, and performs the immediate lock/unlock writes.
// Drafts are ephemeral: they exist only in this client's memory and are
// discarded, never flushed, on Close — a flush-on-teardown race would be
// indistinguishable from a legitimate concurrent edit.
type Pipeline struct {
	flightID   model.FlightID
	actor      model.Identity
	controller flight.ControllerInterface
	clock      clock.Clock
	cfg        Config
	logger     *slog.Logger

	// OnCommit is invoked after a successful debounced write
	OnCommit func(seat *model.Seat)
	// OnError is invoked when a debounced write fails; the draft has
	// already been reverted to the last known-good value
	OnError func(seatID model.SeatID, err error)

	mu     sync.Mutex
	drafts map[model.SeatID]*draft
	timers map[model.SeatID]clock.Timer
	closed bool
}

// draft is the uncommitted scratch value for one seat. value is nil when
// the draft clears the claim.
type draft struct {
	text  string
	value *model.ClaimValue
}

// NewPipeline creates a commit pipeline for one client's view of a flight
func NewPipeline(flightID model.FlightID, actor model.Identity, controller flight.ControllerInterface, clk clock.Clock, cfg Config, logger *slog.Logger) *Pipeline {
	if cfg.DebounceWindow <= 0 {
		cfg.DebounceWindow = DefaultDebounceWindow
	}
	return &Pipeline{
		flightID:   flightID,
		actor:      actor,
		controller: controller,
		clock:      clk,
		cfg:        cfg,
		logger:     logger.With(slog.String("component", "commit"), slog.String("flight", string(flightID))),
		drafts:     make(map[model.SeatID]*draft),
		timers:     make(map[model.SeatID]clock.Timer),
	}
}

// SetDraft updates the seat's draft immediately for responsive echo and
// schedules a debounced commit. The timer resets on every keystroke, so
// exactly one write is issued per quiet period. Malformed or out-of-range
// text is rejected as a no-op: the draft keeps its value from before the
// rejected keystroke. Empty text clears the draft (a null claim value).
func (p *Pipeline) SetDraft(ctx context.Context, seatID model.SeatID, rawText string) error {
	if err := p.checkOwnership(ctx, seatID); err != nil {
		return err
	}

	var d *draft
	if strings.TrimSpace(rawText) == "" {
		d = &draft{text: rawText, value: nil}
	} else {
		value, err := model.ParseClaimText(rawText)
		if err != nil {
			return err
		}
		d = &draft{text: rawText, value: &value}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}

	p.drafts[seatID] = d

	// Reset-on-keystroke: supersede any pending timer for this seat
	if t, ok := p.timers[seatID]; ok {
		t.Stop()
	}
	p.timers[seatID] = p.clock.AfterFunc(p.cfg.DebounceWindow, func() {
		p.flush(seatID)
	})

	return nil
}

// Draft returns the seat's current draft text and whether one exists
func (p *Pipeline) Draft(seatID model.SeatID) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	d, ok := p.drafts[seatID]
	if !ok {
		return "", false
	}
	return d.text, true
}

// flush issues the single debounced write for a seat
func (p *Pipeline) flush(seatID model.SeatID) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	delete(p.timers, seatID)
	d, ok := p.drafts[seatID]
	p.mu.Unlock()
	if !ok {
		return // Superseded by a lock or teardown
	}

	seat, err := p.controller.SetClaimValue(context.Background(), p.flightID, seatID, d.value, p.actor)
	if err != nil {
		// No automatic retry: revert to the last known-good value (the
		// stored row) and inform the caller
		p.mu.Lock()
		delete(p.drafts, seatID)
		p.mu.Unlock()
		p.logger.Warn("debounced commit failed",
			slog.String("seat", string(seatID)),
			slog.String("error", err.Error()))
		if p.OnError != nil {
			p.OnError(seatID, err)
		}
		return
	}

	// Draft is now committed; drop it so the stored row is authoritative
	p.mu.Lock()
	delete(p.drafts, seatID)
	p.mu.Unlock()

	if p.OnCommit != nil {
		p.OnCommit(seat)
	}
}

// Lock commits the seat's current effective value (draft if present, else
// the last committed value) together with the lock flag in one immediate,
// non-debounced write. Any pending debounce timer for the seat is
// superseded by this write.
func (p *Pipeline) Lock(ctx context.Context, seatID model.SeatID) (*model.Seat, error) {
	if err := p.checkOwnership(ctx, seatID); err != nil {
		return nil, err
	}

	p.mu.Lock()
	if t, ok := p.timers[seatID]; ok {
		t.Stop()
		delete(p.timers, seatID)
	}
	var effective *model.ClaimValue
	d, hasDraft := p.drafts[seatID]
	if hasDraft {
		effective = d.value
		if effective == nil {
			// Draft explicitly clears the value; locking nothing is
			// rejected before any network call
			p.mu.Unlock()
			return nil, model.ErrClaimValueRequired
		}
	}
	p.mu.Unlock()

	seat, err := p.controller.LockClaim(ctx, p.flightID, seatID, effective, p.actor)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	delete(p.drafts, seatID)
	p.mu.Unlock()

	return seat, nil
}

// Unlock clears the seat's lock flag in one immediate write, returning the
// claim to editing. Downstream approvals stop counting toward ratification
// as a consequence of the lock version change.
func (p *Pipeline) Unlock(ctx context.Context, seatID model.SeatID) (*model.Seat, error) {
	if err := p.checkOwnership(ctx, seatID); err != nil {
		return nil, err
	}
	return p.controller.UnlockClaim(ctx, p.flightID, seatID, p.actor)
}

// Close cancels all pending debounce timers without flushing them
func (p *Pipeline) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	for seatID, t := range p.timers {
		t.Stop()
		delete(p.timers, seatID)
	}
	p.drafts = make(map[model.SeatID]*draft)
}

// checkOwnership rejects mutating operations when the actor's resolved
// seat is not the target seat. A nil resolution means this client is an
// observer; all seat-owning actions are disabled.
func (p *Pipeline) checkOwnership(ctx context.Context, seatID model.SeatID) error {
	seat, err := p.controller.ResolveSeat(ctx, p.flightID, p.actor)
	if err != nil {
		return err
	}
	if seat == nil || seat.ID != seatID {
		return model.ErrNotSeatOwner
	}
	return nil
}
