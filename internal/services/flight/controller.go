package flight

import (
	"context"
	"log/slog"
	"strings"

	"github.com/birdielog/birdielog/internal/dependencies/clock"
	"github.com/birdielog/birdielog/internal/dependencies/random"
	"github.com/birdielog/birdielog/internal/model"
	"github.com/birdielog/birdielog/internal/propagator"
	"github.com/birdielog/birdielog/internal/services/identity"
	"github.com/birdielog/birdielog/internal/services/phase"
	"github.com/birdielog/birdielog/internal/services/quorum"
	"github.com/birdielog/birdielog/internal/storage"
)

const (
	// FlightIDLength is the length of generated flight codes
	FlightIDLength = 6
	// FlightIDAlphabet is the characters used in flight codes (avoid confusing chars)
	FlightIDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	// SeatIDLength is the length of generated seat IDs
	SeatIDLength = 12
	// SeatIDAlphabet is the characters used in seat IDs
	SeatIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// Controller is the single write path for flight, seat and validation rows.
// Every successful store write publishes a row-level change event; the
// commit pipeline, the coordinator and the API all mutate through here.
type Controller struct {
	storage    storage.Storage
	propagator propagator.Propagator
	quorum     *quorum.Engine
	clock      clock.Clock
	random     random.Random
	logger     *slog.Logger
}

// NewController creates a new flight controller
func NewController(
	store storage.Storage,
	prop propagator.Propagator,
	quorumEngine *quorum.Engine,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:    store,
		propagator: prop,
		quorum:     quorumEngine,
		clock:      clk,
		random:     rnd,
		logger:     logger.With(slog.String("component", "flight")),
	}
}

// CreateFlight creates a new flight with the creator holding the first seat
func (c *Controller) CreateFlight(ctx context.Context, creator model.Player, name, courseName string) (*model.Flight, *model.Seat, error) {
	now := c.clock.Now()

	// Generate unique flight code
	var id model.FlightID
	for {
		id = model.FlightID(c.random.String(FlightIDLength, FlightIDAlphabet))
		exists, err := c.storage.FlightExists(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		if !exists {
			break
		}
	}

	flight := &model.Flight{
		ID:         id,
		Name:       name,
		CourseName: courseName,
		CreatorID:  creator.ID,
		Phase:      model.PhaseSetup,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := c.storage.SaveFlight(ctx, flight); err != nil {
		return nil, nil, err
	}

	seat := &model.Seat{
		ID:          c.newSeatID(),
		FlightID:    id,
		PlayerID:    creator.ID,
		DisplayName: creator.DisplayName,
		OrderIndex:  0,
		JoinedAt:    now,
	}
	if err := c.storage.SaveSeat(ctx, seat); err != nil {
		return nil, nil, err
	}

	c.publishFlight(ctx, model.OpInsert, flight)
	c.publishSeat(ctx, model.OpInsert, seat)

	return flight, seat, nil
}

// GetFlight retrieves a flight by ID
func (c *Controller) GetFlight(ctx context.Context, id model.FlightID) (*model.Flight, error) {
	return c.storage.GetFlight(ctx, id)
}

// GetSeats returns the flight's seats in stable order
func (c *Controller) GetSeats(ctx context.Context, id model.FlightID) ([]*model.Seat, error) {
	return c.storage.GetSeatsForFlight(ctx, id)
}

// ResolveSeat maps an actor to its seat in the flight, or nil for observers
func (c *Controller) ResolveSeat(ctx context.Context, id model.FlightID, actor model.Identity) (*model.Seat, error) {
	seats, err := c.storage.GetSeatsForFlight(ctx, id)
	if err != nil {
		return nil, err
	}
	return identity.Resolve(actor, seats), nil
}

// JoinFlight seats a registered player in a flight. If the player's
// identity already resolves to a seat (their registered ID, or a guest seat
// matching their display name), that seat is returned instead of creating a
// duplicate: at most one seat per registered identity.
func (c *Controller) JoinFlight(ctx context.Context, id model.FlightID, player model.Player) (*model.Seat, error) {
	if _, err := c.storage.GetFlight(ctx, id); err != nil {
		return nil, err
	}
	seats, err := c.storage.GetSeatsForFlight(ctx, id)
	if err != nil {
		return nil, err
	}

	if existing := identity.Resolve(model.Identity{PlayerID: player.ID, DisplayName: player.DisplayName}, seats); existing != nil {
		return existing, nil
	}

	if len(seats) >= model.MaxFlightSeats {
		return nil, model.ErrFlightFull
	}

	seat := &model.Seat{
		ID:          c.newSeatID(),
		FlightID:    id,
		PlayerID:    player.ID,
		DisplayName: player.DisplayName,
		OrderIndex:  nextOrderIndex(seats),
		JoinedAt:    c.clock.Now(),
	}
	if err := c.storage.SaveSeat(ctx, seat); err != nil {
		return nil, err
	}

	c.publishSeat(ctx, model.OpInsert, seat)
	return seat, nil
}

// AddGuestSeat adds a seat for a locally-typed guest name. Guest names are
// unique case-insensitively within the flight only, never globally.
func (c *Controller) AddGuestSeat(ctx context.Context, id model.FlightID, guestName string) (*model.Seat, error) {
	guestName = strings.TrimSpace(guestName)
	if guestName == "" {
		return nil, model.ErrGuestNameTaken
	}

	if _, err := c.storage.GetFlight(ctx, id); err != nil {
		return nil, err
	}
	seats, err := c.storage.GetSeatsForFlight(ctx, id)
	if err != nil {
		return nil, err
	}

	for _, s := range seats {
		if s.IsGuest() && strings.EqualFold(s.GuestName, guestName) {
			return nil, model.ErrGuestNameTaken
		}
	}

	if len(seats) >= model.MaxFlightSeats {
		return nil, model.ErrFlightFull
	}

	seat := &model.Seat{
		ID:          c.newSeatID(),
		FlightID:    id,
		GuestName:   guestName,
		DisplayName: guestName,
		OrderIndex:  nextOrderIndex(seats),
		JoinedAt:    c.clock.Now(),
	}
	if err := c.storage.SaveSeat(ctx, seat); err != nil {
		return nil, err
	}

	c.publishSeat(ctx, model.OpInsert, seat)
	return seat, nil
}

// RemoveSeat removes a seat from a flight: an immediate, non-debounced
// delete. A seat may be removed by its owner or by the flight creator, but
// the creator's own seat is never removable by others. Validation records
// referencing the seat are left in place; they decay to orphans excluded
// from quorum computation.
func (c *Controller) RemoveSeat(ctx context.Context, id model.FlightID, seatID model.SeatID, actor model.Identity) error {
	flight, err := c.storage.GetFlight(ctx, id)
	if err != nil {
		return err
	}
	seats, err := c.storage.GetSeatsForFlight(ctx, id)
	if err != nil {
		return err
	}
	seat := model.FindSeat(seats, seatID)
	if seat == nil {
		return model.ErrSeatNotFound
	}

	isOwner := identity.Owns(actor, seats, seatID)
	isCreator := actor.PlayerID != "" && actor.PlayerID == flight.CreatorID

	if seat.PlayerID == flight.CreatorID && !isCreator {
		return model.ErrSeatNotRemovable
	}
	if !isOwner && !isCreator {
		return model.ErrNotSeatOwner
	}

	if err := c.storage.DeleteSeat(ctx, id, seatID); err != nil {
		return err
	}
	c.publishSeatDelete(ctx, id, seatID)

	// Last seat out deletes the flight
	if len(seats) == 1 {
		if err := c.storage.DeleteValidationsForFlight(ctx, id); err != nil {
			return err
		}
		if err := c.storage.DeleteFlight(ctx, id); err != nil {
			return err
		}
		c.publishFlightDelete(ctx, id)
	}

	return nil
}

// LeaveFlight removes the actor's own seat
func (c *Controller) LeaveFlight(ctx context.Context, id model.FlightID, actor model.Identity) error {
	seats, err := c.storage.GetSeatsForFlight(ctx, id)
	if err != nil {
		return err
	}
	seat := identity.Resolve(actor, seats)
	if seat == nil {
		return model.ErrNotInFlight
	}
	return c.RemoveSeat(ctx, id, seat.ID, actor)
}

// SetClaimValue writes a seat's claim value. Only the seat's owner may
// mutate it, and only while the claim is unlocked.
func (c *Controller) SetClaimValue(ctx context.Context, id model.FlightID, seatID model.SeatID, value *model.ClaimValue, actor model.Identity) (*model.Seat, error) {
	seats, err := c.storage.GetSeatsForFlight(ctx, id)
	if err != nil {
		return nil, err
	}
	seat := model.FindSeat(seats, seatID)
	if seat == nil {
		return nil, model.ErrSeatNotFound
	}
	if !identity.Owns(actor, seats, seatID) {
		return nil, model.ErrNotSeatOwner
	}

	if seat.Claim.Locked {
		return nil, model.ErrClaimLocked
	}
	if value != nil && !value.InRange() {
		return nil, model.ErrClaimOutOfRange
	}

	updated := *seat
	updated.Claim.Value = value
	updated.Claim.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveSeat(ctx, &updated); err != nil {
		return nil, err
	}

	c.publishSeat(ctx, model.OpUpdate, &updated)
	return &updated, nil
}

// LockClaim commits a claim as final in a single atomic write of value and
// lock flag. The value argument is the effective value to commit (the
// caller's draft); nil means keep the last committed value. Locking with no
// effective value is rejected. Each lock increments the claim's lock
// version, which is what invalidates approvals of prior locks.
func (c *Controller) LockClaim(ctx context.Context, id model.FlightID, seatID model.SeatID, value *model.ClaimValue, actor model.Identity) (*model.Seat, error) {
	seats, err := c.storage.GetSeatsForFlight(ctx, id)
	if err != nil {
		return nil, err
	}
	seat := model.FindSeat(seats, seatID)
	if seat == nil {
		return nil, model.ErrSeatNotFound
	}
	if !identity.Owns(actor, seats, seatID) {
		return nil, model.ErrNotSeatOwner
	}

	if seat.Claim.Locked {
		return nil, model.ErrClaimLocked
	}

	effective := value
	if effective == nil {
		effective = seat.Claim.Value
	}
	if effective == nil {
		return nil, model.ErrClaimValueRequired
	}
	if !effective.InRange() {
		return nil, model.ErrClaimOutOfRange
	}

	updated := *seat
	updated.Claim.Value = effective
	updated.Claim.Locked = true
	updated.Claim.LockVersion++
	updated.Claim.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveSeat(ctx, &updated); err != nil {
		return nil, err
	}

	c.publishSeat(ctx, model.OpUpdate, &updated)
	return &updated, nil
}

// UnlockClaim clears a claim's lock flag, returning the seat to editing.
// The lock version is bumped here too, so approvals of the old lock stop
// counting toward ratification immediately and the phase regresses on the
// next recomputation.
func (c *Controller) UnlockClaim(ctx context.Context, id model.FlightID, seatID model.SeatID, actor model.Identity) (*model.Seat, error) {
	seats, err := c.storage.GetSeatsForFlight(ctx, id)
	if err != nil {
		return nil, err
	}
	seat := model.FindSeat(seats, seatID)
	if seat == nil {
		return nil, model.ErrSeatNotFound
	}
	if !identity.Owns(actor, seats, seatID) {
		return nil, model.ErrNotSeatOwner
	}

	if !seat.Claim.Locked {
		return nil, model.ErrClaimNotLocked
	}

	updated := *seat
	updated.Claim.Locked = false
	// Bump the version on unlock as well: approvals recorded against the
	// previous locked version stop counting immediately, not only after
	// the next lock.
	updated.Claim.LockVersion++
	updated.Claim.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveSeat(ctx, &updated); err != nil {
		return nil, err
	}

	c.publishSeat(ctx, model.OpUpdate, &updated)
	return &updated, nil
}

// SubmitValidation records the actor's approve/question decision on a
// target seat's claim. The actor must own the validator seat.
func (c *Controller) SubmitValidation(ctx context.Context, id model.FlightID, validator, target model.SeatID, status model.ValidationStatus, note string, actor model.Identity) (*model.ValidationRecord, error) {
	seats, err := c.storage.GetSeatsForFlight(ctx, id)
	if err != nil {
		return nil, err
	}
	if !identity.Owns(actor, seats, validator) {
		return nil, model.ErrNotSeatOwner
	}

	record, err := c.quorum.Submit(ctx, id, validator, target, status, note)
	if err != nil {
		return nil, err
	}

	c.publishValidation(ctx, model.OpUpdate, record)
	return record, nil
}

// CurrentPhase derives the flight's effective phase from current rows
func (c *Controller) CurrentPhase(ctx context.Context, id model.FlightID) (model.Phase, error) {
	flight, err := c.storage.GetFlight(ctx, id)
	if err != nil {
		return "", err
	}
	seats, err := c.storage.GetSeatsForFlight(ctx, id)
	if err != nil {
		return "", err
	}
	records, err := c.storage.GetValidationsForFlight(ctx, id)
	if err != nil {
		return "", err
	}
	return phase.Current(flight, seats, records), nil
}

// BeginRound marks the round as started. Entry is disallowed unless the
// phase recomputed from current rows is ready; the actor must hold a seat.
func (c *Controller) BeginRound(ctx context.Context, id model.FlightID, actor model.Identity) (*model.Flight, error) {
	flight, err := c.storage.GetFlight(ctx, id)
	if err != nil {
		return nil, err
	}
	if flight.Phase == model.PhaseStarted {
		return nil, model.ErrRoundAlreadyStarted
	}
	seats, err := c.storage.GetSeatsForFlight(ctx, id)
	if err != nil {
		return nil, err
	}
	if identity.Resolve(actor, seats) == nil {
		return nil, model.ErrNotInFlight
	}
	records, err := c.storage.GetValidationsForFlight(ctx, id)
	if err != nil {
		return nil, err
	}

	if len(seats) < model.MinFlightSeats {
		return nil, model.ErrRoundNotReady
	}
	if phase.Compute(seats, records) != model.PhaseReady {
		return nil, model.ErrRoundNotReady
	}

	updated := *flight
	updated.Phase = model.PhaseStarted
	updated.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveFlight(ctx, &updated); err != nil {
		return nil, err
	}

	c.publishFlight(ctx, model.OpUpdate, &updated)
	return &updated, nil
}

// newSeatID generates a fresh seat ID
func (c *Controller) newSeatID() model.SeatID {
	return model.SeatID(c.random.String(SeatIDLength, SeatIDAlphabet))
}

// nextOrderIndex returns one past the highest order index in use, so seat
// order stays stable as seats come and go
func nextOrderIndex(seats []*model.Seat) int {
	next := 0
	for _, s := range seats {
		if s.OrderIndex >= next {
			next = s.OrderIndex + 1
		}
	}
	return next
}

// Event publication. Failures are logged, not returned: the feed is
// at-least-once with no replay, and subscribers re-derive from rows on
// their next event or refresh.

func (c *Controller) publishFlight(ctx context.Context, op model.ChangeOp, flight *model.Flight) {
	c.publish(ctx, model.ChangeEvent{
		Op:        op,
		Row:       model.RowFlight,
		FlightID:  flight.ID,
		Flight:    flight,
		Timestamp: c.clock.Now(),
	})
}

func (c *Controller) publishFlightDelete(ctx context.Context, id model.FlightID) {
	c.publish(ctx, model.ChangeEvent{
		Op:        model.OpDelete,
		Row:       model.RowFlight,
		FlightID:  id,
		Timestamp: c.clock.Now(),
	})
}

func (c *Controller) publishSeat(ctx context.Context, op model.ChangeOp, seat *model.Seat) {
	c.publish(ctx, model.ChangeEvent{
		Op:        op,
		Row:       model.RowSeat,
		FlightID:  seat.FlightID,
		SeatID:    seat.ID,
		Seat:      seat,
		Timestamp: c.clock.Now(),
	})
}

func (c *Controller) publishSeatDelete(ctx context.Context, id model.FlightID, seatID model.SeatID) {
	c.publish(ctx, model.ChangeEvent{
		Op:        model.OpDelete,
		Row:       model.RowSeat,
		FlightID:  id,
		SeatID:    seatID,
		Timestamp: c.clock.Now(),
	})
}

func (c *Controller) publishValidation(ctx context.Context, op model.ChangeOp, record *model.ValidationRecord) {
	c.publish(ctx, model.ChangeEvent{
		Op:         op,
		Row:        model.RowValidation,
		FlightID:   record.FlightID,
		SeatID:     record.TargetSeatID,
		Validation: record,
		Timestamp:  c.clock.Now(),
	})
}

func (c *Controller) publish(ctx context.Context, event model.ChangeEvent) {
	if c.propagator == nil {
		return
	}
	if err := c.propagator.Publish(ctx, event); err != nil {
		c.logger.Warn("change event publish failed",
			slog.String("flight", string(event.FlightID)),
			slog.String("row", string(event.Row)),
			slog.String("error", err.Error()))
	}
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateFlight(ctx context.Context, creator model.Player, name, courseName string) (*model.Flight, *model.Seat, error)
	GetFlight(ctx context.Context, id model.FlightID) (*model.Flight, error)
	GetSeats(ctx context.Context, id model.FlightID) ([]*model.Seat, error)
	ResolveSeat(ctx context.Context, id model.FlightID, actor model.Identity) (*model.Seat, error)
	JoinFlight(ctx context.Context, id model.FlightID, player model.Player) (*model.Seat, error)
	AddGuestSeat(ctx context.Context, id model.FlightID, guestName string) (*model.Seat, error)
	RemoveSeat(ctx context.Context, id model.FlightID, seatID model.SeatID, actor model.Identity) error
	LeaveFlight(ctx context.Context, id model.FlightID, actor model.Identity) error
	SetClaimValue(ctx context.Context, id model.FlightID, seatID model.SeatID, value *model.ClaimValue, actor model.Identity) (*model.Seat, error)
	LockClaim(ctx context.Context, id model.FlightID, seatID model.SeatID, value *model.ClaimValue, actor model.Identity) (*model.Seat, error)
	UnlockClaim(ctx context.Context, id model.FlightID, seatID model.SeatID, actor model.Identity) (*model.Seat, error)
	SubmitValidation(ctx context.Context, id model.FlightID, validator, target model.SeatID, status model.ValidationStatus, note string, actor model.Identity) (*model.ValidationRecord, error)
	CurrentPhase(ctx context.Context, id model.FlightID) (model.Phase, error)
	BeginRound(ctx context.Context, id model.FlightID, actor model.Identity) (*model.Flight, error)
}

var _ ControllerInterface = (*Controller)(nil)
