package quorum

import (
	"context"
	"errors"
	"log/slog"

	"github.com/birdielog/birdielog/internal/dependencies/clock"
	"github.com/birdielog/birdielog/internal/model"
	"github.com/birdielog/birdielog/internal/storage"
)

// Summary is the validation progress for one target seat
type Summary struct {
	ApprovedCount int
	TotalExpected int
}

// Ratified reports whether the summary alone satisfies unanimity. The full
// ratification predicate also requires the target claim to be locked; see
// SeatRatified.
func (s Summary) Ratified() bool {
	return s.TotalExpected > 0 && s.ApprovedCount == s.TotalExpected
}

// Engine aggregates peer validation records and computes ratification
type Engine struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new quorum engine
func New(store storage.Storage, clk clock.Clock, logger *slog.Logger) *Engine {
	return &Engine{
		storage: store,
		clock:   clk,
		logger:  logger.With(slog.String("component", "quorum")),
	}
}

// Submit upserts one validator's decision on a target seat's claim.
// Rejected when validator == target, or when the target claim holds no
// value (nothing to validate). The validator's own claim need not be
// locked. The record captures the target's current lock version, so a
// later unlock/re-lock of the target excludes it from ratification until
// resubmitted.
func (e *Engine) Submit(ctx context.Context, flightID model.FlightID, validator, target model.SeatID, status model.ValidationStatus, note string) (*model.ValidationRecord, error) {
	if validator == target {
		return nil, model.ErrSelfValidation
	}

	targetSeat, err := e.storage.GetSeat(ctx, flightID, target)
	if err != nil {
		return nil, err
	}
	if _, err := e.storage.GetSeat(ctx, flightID, validator); err != nil {
		return nil, err
	}
	if targetSeat.Claim.Value == nil {
		return nil, model.ErrNothingToValidate
	}

	record := &model.ValidationRecord{
		FlightID:          flightID,
		ValidatorSeatID:   validator,
		TargetSeatID:      target,
		Status:            status,
		Note:              note,
		TargetLockVersion: targetSeat.Claim.LockVersion,
		UpdatedAt:         e.clock.Now(),
	}

	if err := e.storage.SaveValidation(ctx, record); err != nil {
		return nil, err
	}

	e.logger.Debug("validation submitted",
		slog.String("flight", string(flightID)),
		slog.String("validator", string(validator)),
		slog.String("target", string(target)),
		slog.String("status", string(status)))

	return record, nil
}

// SummaryFor computes the validation summary for a target seat from current
// rows
func (e *Engine) SummaryFor(ctx context.Context, flightID model.FlightID, target model.SeatID) (Summary, error) {
	seats, err := e.storage.GetSeatsForFlight(ctx, flightID)
	if err != nil {
		return Summary{}, err
	}
	records, err := e.storage.GetValidationsForFlight(ctx, flightID)
	if err != nil {
		return Summary{}, err
	}
	targetSeat := model.FindSeat(seats, target)
	if targetSeat == nil {
		return Summary{}, model.ErrSeatNotFound
	}
	return ComputeSummary(targetSeat, seats, records), nil
}

// ComputeSummary derives the summary for a target seat from a row snapshot.
//
// TotalExpected is the number of *other* seats currently in the flight; it
// is dynamic and changes as seats join or leave. ApprovedCount counts
// approved records whose validator seat still exists (orphaned records are
// excluded, not deleted, preserving audit history) and whose captured lock
// version matches the target's current one (the unlock cascade).
func ComputeSummary(target *model.Seat, seats []*model.Seat, records []*model.ValidationRecord) Summary {
	summary := Summary{
		TotalExpected: len(seats) - 1,
	}

	for _, r := range records {
		if r.TargetSeatID != target.ID || r.Status != model.ValidationApproved {
			continue
		}
		if model.FindSeat(seats, r.ValidatorSeatID) == nil {
			continue // Validator seat removed; orphaned record
		}
		if r.TargetLockVersion != target.Claim.LockVersion {
			continue // Approved a prior lock; invalid until re-approved
		}
		summary.ApprovedCount++
	}

	return summary
}

// SeatRatified is the full ratification predicate: the target claim is
// locked and every other current seat has approved it (strict unanimity;
// pending or questioned records block)
func SeatRatified(target *model.Seat, seats []*model.Seat, records []*model.ValidationRecord) bool {
	if !target.Claim.Locked {
		return false
	}
	return ComputeSummary(target, seats, records).Ratified()
}

// Ratified reports whether a target seat is ratified, from current rows
func (e *Engine) Ratified(ctx context.Context, flightID model.FlightID, target model.SeatID) (bool, error) {
	seats, err := e.storage.GetSeatsForFlight(ctx, flightID)
	if err != nil {
		return false, err
	}
	records, err := e.storage.GetValidationsForFlight(ctx, flightID)
	if err != nil {
		return false, err
	}
	targetSeat := model.FindSeat(seats, target)
	if targetSeat == nil {
		return false, model.ErrSeatNotFound
	}
	return SeatRatified(targetSeat, seats, records), nil
}

// RecordFor returns the stored record for a (validator, target) pair, or
// a pending placeholder when none exists (absence means pending)
func (e *Engine) RecordFor(ctx context.Context, flightID model.FlightID, validator, target model.SeatID) (*model.ValidationRecord, error) {
	record, err := e.storage.GetValidation(ctx, flightID, validator, target)
	if err != nil {
		if errors.Is(err, model.ErrValidationNotFound) {
			return &model.ValidationRecord{
				FlightID:        flightID,
				ValidatorSeatID: validator,
				TargetSeatID:    target,
				Status:          model.ValidationPending,
			}, nil
		}
		return nil, err
	}
	return record, nil
}
