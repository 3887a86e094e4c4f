package phase

import (
	"github.com/birdielog/birdielog/internal/model"
	"github.com/birdielog/birdielog/internal/services/quorum"
)

// Compute derives the flight-wide phase from a row snapshot, always
// recomputed top-down from raw data rather than advanced incrementally.
// This makes regression (an unlock after ready, a seat joining
// mid-validation) correct by construction instead of needing rollback
// logic.
//
//   - setup: at least one seat's claim is not locked
//   - validation: all claims locked, at least one seat not ratified
//   - ready: every seat ratified
//
// The started phase never comes out of Compute: entering it is an external
// event, gated elsewhere on the last computed phase being ready.
func Compute(seats []*model.Seat, records []*model.ValidationRecord) model.Phase {
	if len(seats) == 0 {
		return model.PhaseSetup
	}

	for _, seat := range seats {
		if !seat.Claim.Locked {
			return model.PhaseSetup
		}
	}

	for _, seat := range seats {
		if !quorum.SeatRatified(seat, seats, records) {
			return model.PhaseValidation
		}
	}

	return model.PhaseReady
}

// Current resolves the effective phase for a flight: the stored phase is
// only authoritative for started (an external fact not derivable from
// rows); everything else is recomputed.
func Current(flight *model.Flight, seats []*model.Seat, records []*model.ValidationRecord) model.Phase {
	if flight.Phase == model.PhaseStarted {
		return model.PhaseStarted
	}
	return Compute(seats, records)
}
