package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/birdielog/birdielog/internal/model"
	"github.com/birdielog/birdielog/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	players           map[model.PlayerID]*model.Player
	registeredPlayers map[model.PlayerID]*model.RegisteredPlayer
	usernameIndex     map[string]model.PlayerID
	flights           map[model.FlightID]*model.Flight
	seats             map[seatKey]*model.Seat
	validations       map[validationKey]*model.ValidationRecord
}

type seatKey struct {
	flightID model.FlightID
	seatID   model.SeatID
}

type validationKey struct {
	flightID  model.FlightID
	validator model.SeatID
	target    model.SeatID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:           make(map[model.PlayerID]*model.Player),
		registeredPlayers: make(map[model.PlayerID]*model.RegisteredPlayer),
		usernameIndex:     make(map[string]model.PlayerID),
		flights:           make(map[model.FlightID]*model.Flight),
		seats:             make(map[seatKey]*model.Seat),
		validations:       make(map[validationKey]*model.ValidationRecord),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[player.ID] = player
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, id)
	return nil
}

// Registered player operations

func (s *Storage) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registeredPlayers[rp.PlayerID] = rp
	s.usernameIndex[strings.ToLower(rp.Username)] = rp.PlayerID
	return nil
}

func (s *Storage) GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rp, ok := s.registeredPlayers[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return rp, nil
}

func (s *Storage) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	playerID, ok := s.usernameIndex[strings.ToLower(username)]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	rp, ok := s.registeredPlayers[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return rp, nil
}

// Flight operations

func (s *Storage) SaveFlight(ctx context.Context, flight *model.Flight) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flights[flight.ID] = flight
	return nil
}

func (s *Storage) GetFlight(ctx context.Context, id model.FlightID) (*model.Flight, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	flight, ok := s.flights[id]
	if !ok {
		return nil, model.ErrFlightNotFound
	}
	return flight, nil
}

func (s *Storage) DeleteFlight(ctx context.Context, id model.FlightID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.flights, id)
	for k := range s.seats {
		if k.flightID == id {
			delete(s.seats, k)
		}
	}
	return nil
}

func (s *Storage) FlightExists(ctx context.Context, id model.FlightID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.flights[id]
	return ok, nil
}

// Seat operations

func (s *Storage) SaveSeat(ctx context.Context, seat *model.Seat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seats[seatKey{seat.FlightID, seat.ID}] = seat
	return nil
}

func (s *Storage) GetSeat(ctx context.Context, flightID model.FlightID, seatID model.SeatID) (*model.Seat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seat, ok := s.seats[seatKey{flightID, seatID}]
	if !ok {
		return nil, model.ErrSeatNotFound
	}
	return seat, nil
}

func (s *Storage) GetSeatsForFlight(ctx context.Context, flightID model.FlightID) ([]*model.Seat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seats := []*model.Seat{}
	for k, seat := range s.seats {
		if k.flightID == flightID {
			seats = append(seats, seat)
		}
	}
	model.SortSeats(seats)
	return seats, nil
}

func (s *Storage) DeleteSeat(ctx context.Context, flightID model.FlightID, seatID model.SeatID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.seats, seatKey{flightID, seatID})
	return nil
}

// Validation record operations

func (s *Storage) SaveValidation(ctx context.Context, record *model.ValidationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.validations[validationKey{record.FlightID, record.ValidatorSeatID, record.TargetSeatID}] = record
	return nil
}

func (s *Storage) GetValidation(ctx context.Context, flightID model.FlightID, validator, target model.SeatID) (*model.ValidationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.validations[validationKey{flightID, validator, target}]
	if !ok {
		return nil, model.ErrValidationNotFound
	}
	return record, nil
}

func (s *Storage) GetValidationsForFlight(ctx context.Context, flightID model.FlightID) ([]*model.ValidationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := []*model.ValidationRecord{}
	for k, record := range s.validations {
		if k.flightID == flightID {
			records = append(records, record)
		}
	}
	return records, nil
}

func (s *Storage) DeleteValidationsForFlight(ctx context.Context, flightID model.FlightID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.validations {
		if k.flightID == flightID {
			delete(s.validations, k)
		}
	}
	return nil
}
