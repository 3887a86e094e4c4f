package model

import "time"

// ChangeOp identifies the kind of row change
type ChangeOp string

const (
	OpInsert ChangeOp = "insert"
	OpUpdate ChangeOp = "update"
	OpDelete ChangeOp = "delete"
)

// ChangeRow identifies which record type changed
type ChangeRow string

const (
	RowFlight     ChangeRow = "flight"
	RowSeat       ChangeRow = "seat"
	RowValidation ChangeRow = "validation"
)

// ChangeEvent is one row-level change delivered by the change propagator.
// Delivery is at-least-once and may reorder or duplicate, so consumers must
// treat an event as a trigger to re-derive from current row state, never as
// a relative delta. The embedded snapshots are a convenience for display
// only and may be stale by the time the event arrives.
type ChangeEvent struct {
	Op         ChangeOp
	Row        ChangeRow
	FlightID   FlightID
	SeatID     SeatID // set for seat rows; the target seat for validation rows
	Flight     *Flight
	Seat       *Seat
	Validation *ValidationRecord
	Timestamp  time.Time
}
