package storage

import (
	"context"

	"github.com/birdielog/birdielog/internal/model"
)

// Storage defines the interface for data persistence.
// It is the source of truth for flight, seat and validation rows; all
// cross-client coordination re-derives from what it returns.
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error

	// Registered player operations
	SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error
	GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error)
	GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error)

	// Flight operations
	SaveFlight(ctx context.Context, flight *model.Flight) error
	GetFlight(ctx context.Context, id model.FlightID) (*model.Flight, error)
	DeleteFlight(ctx context.Context, id model.FlightID) error
	FlightExists(ctx context.Context, id model.FlightID) (bool, error)

	// Seat operations
	SaveSeat(ctx context.Context, seat *model.Seat) error
	GetSeat(ctx context.Context, flightID model.FlightID, seatID model.SeatID) (*model.Seat, error)
	GetSeatsForFlight(ctx context.Context, flightID model.FlightID) ([]*model.Seat, error)
	DeleteSeat(ctx context.Context, flightID model.FlightID, seatID model.SeatID) error

	// Validation record operations, keyed by (validator, target) pair
	SaveValidation(ctx context.Context, record *model.ValidationRecord) error
	GetValidation(ctx context.Context, flightID model.FlightID, validator, target model.SeatID) (*model.ValidationRecord, error)
	GetValidationsForFlight(ctx context.Context, flightID model.FlightID) ([]*model.ValidationRecord, error)
	DeleteValidationsForFlight(ctx context.Context, flightID model.FlightID) error
}
