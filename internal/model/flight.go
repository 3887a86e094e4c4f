package model

import (
	"sort"
	"time"
)

// FlightID is a human-readable identifier for joining flights
type FlightID string

// Phase represents the flight-wide stage gating whether scoring may begin.
// Only PhaseStarted is authoritative when stored; the earlier phases are
// always recomputed from seat and validation rows.
type Phase string

const (
	PhaseSetup      Phase = "setup"      // At least one claim not locked
	PhaseValidation Phase = "validation" // All locked, not all ratified
	PhaseReady      Phase = "ready"      // All seats ratified
	PhaseStarted    Phase = "started"    // Round begun
)

// Flight limits
const (
	MinFlightSeats = 2
	MaxFlightSeats = 4
)

// Flight represents a group of players tracking one round together.
// Seats are stored as separate rows, keyed by flight, so the change feed
// can deliver row-level seat events.
type Flight struct {
	ID         FlightID
	Name       string
	CourseName string
	CreatorID  PlayerID
	Phase      Phase
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SeatID uniquely identifies a seat across all flights
type SeatID string

// Seat represents one player's slot within a flight.
// Exactly one of PlayerID / GuestName is set: a seat either references a
// registered account or carries a free-text guest name unique (case
// insensitively) within its flight.
type Seat struct {
	ID          SeatID
	FlightID    FlightID
	PlayerID    PlayerID // empty for guest seats
	GuestName   string   // set iff PlayerID is empty
	DisplayName string
	OrderIndex  int
	Claim       Claim
	JoinedAt    time.Time
}

// IsGuest reports whether this seat is a guest seat (no registered identity)
func (s *Seat) IsGuest() bool {
	return s.PlayerID == ""
}

// SortSeats orders seats by their stable order index, in place
func SortSeats(seats []*Seat) {
	sort.Slice(seats, func(i, j int) bool {
		return seats[i].OrderIndex < seats[j].OrderIndex
	})
}

// FindSeat returns the seat with the given ID, or nil if not present
func FindSeat(seats []*Seat, id SeatID) *Seat {
	for _, s := range seats {
		if s.ID == id {
			return s
		}
	}
	return nil
}
