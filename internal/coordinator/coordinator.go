package coordinator

import (
	"context"
	"log/slog"
	"sync"

	"github.com/birdielog/birdielog/internal/dependencies/clock"
	"github.com/birdielog/birdielog/internal/model"
	"github.com/birdielog/birdielog/internal/propagator"
	"github.com/birdielog/birdielog/internal/services/claim"
	"github.com/birdielog/birdielog/internal/services/commit"
	"github.com/birdielog/birdielog/internal/services/flight"
	"github.com/birdielog/birdielog/internal/services/quorum"
)

// Snapshot is the coordinator's derived view after applying a change
// event: current seats, per-seat claim states and the recomputed phase
type Snapshot struct {
	Seats  []*model.Seat
	States map[model.SeatID]model.ClaimState
	Phase  model.Phase
}

// Config holds everything a coordinator needs for one flight
type Config struct {
	FlightID   model.FlightID
	Actor      model.Identity
	Controller flight.ControllerInterface
	Quorum     *quorum.Engine
	Propagator propagator.Propagator
	Clock      clock.Clock
	Commit     commit.Config
	Logger     *slog.Logger

	// OnChange, if set, is invoked from the event loop after each change
	// event has been applied and the view re-derived
	OnChange func(Snapshot)
}

// Coordinator is the session-scoped object a client owns for the duration
// of flight setup. It holds this client's resolved seat, the debounced
// commit pipeline, one claim state machine per seat and a single change
// feed subscription, and it surfaces the operations the rest of the
// application calls. All state is re-derived from storage rows on every
// event; incoming events are triggers, never deltas, which keeps the
// coordinator correct under duplicated and reordered delivery.
type Coordinator struct {
	cfg      Config
	pipeline *commit.Pipeline
	sub      propagator.Subscription
	logger   *slog.Logger

	mu       sync.Mutex
	machines map[model.SeatID]*claim.Machine
	closed   bool

	wg sync.WaitGroup
}

// Open creates a coordinator for a flight and starts consuming its change
// feed
func Open(ctx context.Context, cfg Config) (*Coordinator, error) {
	logger := cfg.Logger.With(
		slog.String("component", "coordinator"),
		slog.String("flight", string(cfg.FlightID)))

	sub, err := cfg.Propagator.Subscribe(ctx, cfg.FlightID)
	if err != nil {
		return nil, err
	}

	c := &Coordinator{
		cfg:      cfg,
		pipeline: commit.NewPipeline(cfg.FlightID, cfg.Actor, cfg.Controller, cfg.Clock, cfg.Commit, cfg.Logger),
		sub:      sub,
		logger:   logger,
		machines: make(map[model.SeatID]*claim.Machine),
	}

	// Seed machines from current rows so peers' locked claims show as
	// locked before any event arrives
	seats, err := cfg.Controller.GetSeats(ctx, cfg.FlightID)
	if err != nil {
		sub.Close()
		return nil, err
	}
	c.reconcileSeats(seats)

	c.wg.Add(1)
	go c.run()

	return c, nil
}

// run is the event loop: every delivered event triggers a full re-derive
// from current rows
func (c *Coordinator) run() {
	defer c.wg.Done()
	for range c.sub.Events() {
		c.applyChange()
	}
}

// applyChange re-derives machines and phase from current storage rows.
// Applying the same event twice produces the same state.
func (c *Coordinator) applyChange() {
	ctx := context.Background()

	seats, err := c.cfg.Controller.GetSeats(ctx, c.cfg.FlightID)
	if err != nil {
		c.logger.Warn("re-derive failed", slog.String("error", err.Error()))
		return
	}
	c.reconcileSeats(seats)

	if c.cfg.OnChange == nil {
		return
	}

	ph, err := c.cfg.Controller.CurrentPhase(ctx, c.cfg.FlightID)
	if err != nil {
		c.logger.Warn("phase recompute failed", slog.String("error", err.Error()))
		return
	}

	c.cfg.OnChange(Snapshot{
		Seats:  seats,
		States: c.claimStates(seats),
		Phase:  ph,
	})
}

// reconcileSeats syncs the machine set with the seat list and reconciles
// each machine against its row
func (c *Coordinator) reconcileSeats(seats []*model.Seat) {
	c.mu.Lock()
	defer c.mu.Unlock()

	present := make(map[model.SeatID]bool, len(seats))
	for _, seat := range seats {
		present[seat.ID] = true
		m, ok := c.machines[seat.ID]
		if !ok {
			m = claim.NewMachine(seat.ID)
			c.machines[seat.ID] = m
		}
		m.Reconcile(seat.Claim)
	}
	for id := range c.machines {
		if !present[id] {
			delete(c.machines, id)
		}
	}
}

func (c *Coordinator) claimStates(seats []*model.Seat) map[model.SeatID]model.ClaimState {
	c.mu.Lock()
	defer c.mu.Unlock()
	states := make(map[model.SeatID]model.ClaimState, len(seats))
	for _, seat := range seats {
		if m, ok := c.machines[seat.ID]; ok {
			states[seat.ID] = m.State()
		}
	}
	return states
}

// machineFor returns the machine for a seat, creating it if needed
func (c *Coordinator) machineFor(seatID model.SeatID) *claim.Machine {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.machines[seatID]
	if !ok {
		m = claim.NewMachine(seatID)
		c.machines[seatID] = m
	}
	return m
}

// ResolveSeat maps this client's actor to its seat, or nil for observers.
// Recomputed on every call because seats can be added asynchronously by
// other clients.
func (c *Coordinator) ResolveSeat(ctx context.Context) (*model.Seat, error) {
	return c.cfg.Controller.ResolveSeat(ctx, c.cfg.FlightID, c.cfg.Actor)
}

// SetDraft updates the local draft for a seat and schedules the debounced
// commit
func (c *Coordinator) SetDraft(ctx context.Context, seatID model.SeatID, rawText string) error {
	return c.pipeline.SetDraft(ctx, seatID, rawText)
}

// Draft returns the seat's uncommitted draft text, if any
func (c *Coordinator) Draft(seatID model.SeatID) (string, bool) {
	return c.pipeline.Draft(seatID)
}

// ClaimState returns the locally derived claim state for a seat
func (c *Coordinator) ClaimState(seatID model.SeatID) model.ClaimState {
	return c.machineFor(seatID).State()
}

// Lock commits the seat's effective value with the lock flag. The seat is
// syncing until the write is acknowledged; on failure it reverts to
// editing with the last known-good value untouched.
func (c *Coordinator) Lock(ctx context.Context, seatID model.SeatID) (*model.Seat, error) {
	m := c.machineFor(seatID)
	if !m.BeginSync() {
		return nil, model.ErrWriteInFlight
	}

	seat, err := c.pipeline.Lock(ctx, seatID)
	m.AckLock(err == nil)
	if err != nil {
		return nil, err
	}
	return seat, nil
}

// Unlock clears the seat's lock flag, regressing downstream validation:
// approvals of the previous lock stop counting until the claim is
// re-locked and re-approved.
func (c *Coordinator) Unlock(ctx context.Context, seatID model.SeatID) (*model.Seat, error) {
	m := c.machineFor(seatID)
	if !m.BeginSync() {
		return nil, model.ErrWriteInFlight
	}

	seat, err := c.pipeline.Unlock(ctx, seatID)
	m.AckUnlock(err == nil)
	if err != nil {
		return nil, err
	}
	return seat, nil
}

// Approve records this client's approval of a target seat's claim
func (c *Coordinator) Approve(ctx context.Context, target model.SeatID, note string) (*model.ValidationRecord, error) {
	return c.submitValidation(ctx, target, model.ValidationApproved, note)
}

// Question records this client's question on a target seat's claim
func (c *Coordinator) Question(ctx context.Context, target model.SeatID, note string) (*model.ValidationRecord, error) {
	return c.submitValidation(ctx, target, model.ValidationQuestioned, note)
}

func (c *Coordinator) submitValidation(ctx context.Context, target model.SeatID, status model.ValidationStatus, note string) (*model.ValidationRecord, error) {
	own, err := c.ResolveSeat(ctx)
	if err != nil {
		return nil, err
	}
	if own == nil {
		return nil, model.ErrNotSeatOwner
	}
	return c.cfg.Controller.SubmitValidation(ctx, c.cfg.FlightID, own.ID, target, status, note, c.cfg.Actor)
}

// Summary returns the validation progress for a target seat
func (c *Coordinator) Summary(ctx context.Context, target model.SeatID) (quorum.Summary, error) {
	return c.cfg.Quorum.SummaryFor(ctx, c.cfg.FlightID, target)
}

// CurrentPhase derives the flight's effective phase from current rows
func (c *Coordinator) CurrentPhase(ctx context.Context) (model.Phase, error) {
	return c.cfg.Controller.CurrentPhase(ctx, c.cfg.FlightID)
}

// Leave removes this client's seat from the flight: an immediate,
// non-debounced delete
func (c *Coordinator) Leave(ctx context.Context) error {
	return c.cfg.Controller.LeaveFlight(ctx, c.cfg.FlightID, c.cfg.Actor)
}

// Close cancels pending debounce timers without flushing, closes the
// change feed subscription and waits for the event loop to stop
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.pipeline.Close()
	c.sub.Close()
	c.wg.Wait()
}
