package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/birdielog/birdielog/internal/model"
	"github.com/birdielog/birdielog/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	key := playerKey(player.ID)

	// Apply TTL only for guest players
	var ttl time.Duration
	if player.IsGuest {
		ttl = s.cfg.GuestPlayerTTL
	}

	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	return s.client.Del(ctx, playerKey(id)).Err()
}

// Registered player operations

func (s *Storage) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	data, err := json.Marshal(rp)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, registeredPlayerKey(rp.PlayerID), data, 0) // No TTL
	pipe.Set(ctx, usernameIndexKey(strings.ToLower(rp.Username)), string(rp.PlayerID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error) {
	data, err := s.client.Get(ctx, registeredPlayerKey(playerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var rp model.RegisteredPlayer
	if err := json.Unmarshal(data, &rp); err != nil {
		return nil, err
	}
	return &rp, nil
}

func (s *Storage) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	// Look up player ID from username index
	playerIDStr, err := s.client.Get(ctx, usernameIndexKey(strings.ToLower(username))).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	return s.GetRegisteredPlayer(ctx, model.PlayerID(playerIDStr))
}

// Flight operations

func (s *Storage) SaveFlight(ctx context.Context, flight *model.Flight) error {
	data, err := json.Marshal(flight)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, flightKey(flight.ID), data, s.cfg.FlightTTL).Err()
}

func (s *Storage) GetFlight(ctx context.Context, id model.FlightID) (*model.Flight, error) {
	data, err := s.client.Get(ctx, flightKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrFlightNotFound
		}
		return nil, err
	}

	var flight model.Flight
	if err := json.Unmarshal(data, &flight); err != nil {
		return nil, err
	}
	return &flight, nil
}

func (s *Storage) DeleteFlight(ctx context.Context, id model.FlightID) error {
	// Delete seats, their index, and the flight row itself
	seatKeys, err := s.client.SMembers(ctx, seatsForFlightIndexKey(id)).Result()
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	for _, key := range seatKeys {
		pipe.Del(ctx, key)
	}
	pipe.Del(ctx, seatsForFlightIndexKey(id))
	pipe.Del(ctx, flightKey(id))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) FlightExists(ctx context.Context, id model.FlightID) (bool, error) {
	exists, err := s.client.Exists(ctx, flightKey(id)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

// Seat operations

func (s *Storage) SaveSeat(ctx context.Context, seat *model.Seat) error {
	data, err := json.Marshal(seat)
	if err != nil {
		return err
	}

	sKey := seatKey(seat.FlightID, seat.ID)
	indexKey := seatsForFlightIndexKey(seat.FlightID)

	// Use pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, sKey, data, s.cfg.FlightTTL)
	pipe.SAdd(ctx, indexKey, sKey)
	pipe.Expire(ctx, indexKey, s.cfg.FlightTTL) // Keep index TTL in sync
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetSeat(ctx context.Context, flightID model.FlightID, seatID model.SeatID) (*model.Seat, error) {
	data, err := s.client.Get(ctx, seatKey(flightID, seatID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSeatNotFound
		}
		return nil, err
	}

	var seat model.Seat
	if err := json.Unmarshal(data, &seat); err != nil {
		return nil, err
	}
	return &seat, nil
}

func (s *Storage) GetSeatsForFlight(ctx context.Context, flightID model.FlightID) ([]*model.Seat, error) {
	indexKey := seatsForFlightIndexKey(flightID)

	seatKeys, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, err
	}

	if len(seatKeys) == 0 {
		return []*model.Seat{}, nil
	}

	values, err := s.client.MGet(ctx, seatKeys...).Result()
	if err != nil {
		return nil, err
	}

	seats := make([]*model.Seat, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue // Seat may have expired or been deleted
		}
		var seat model.Seat
		if err := json.Unmarshal([]byte(val.(string)), &seat); err != nil {
			continue // Skip invalid data
		}
		seats = append(seats, &seat)
	}

	model.SortSeats(seats)
	return seats, nil
}

func (s *Storage) DeleteSeat(ctx context.Context, flightID model.FlightID, seatID model.SeatID) error {
	sKey := seatKey(flightID, seatID)

	pipe := s.client.Pipeline()
	pipe.Del(ctx, sKey)
	pipe.SRem(ctx, seatsForFlightIndexKey(flightID), sKey)
	_, err := pipe.Exec(ctx)
	return err
}

// Validation record operations

func (s *Storage) SaveValidation(ctx context.Context, record *model.ValidationRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	vKey := validationKey(record.FlightID, record.ValidatorSeatID, record.TargetSeatID)
	indexKey := validationsForFlightIndexKey(record.FlightID)

	pipe := s.client.Pipeline()
	pipe.Set(ctx, vKey, data, s.cfg.FlightTTL)
	pipe.SAdd(ctx, indexKey, vKey)
	pipe.Expire(ctx, indexKey, s.cfg.FlightTTL)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetValidation(ctx context.Context, flightID model.FlightID, validator, target model.SeatID) (*model.ValidationRecord, error) {
	data, err := s.client.Get(ctx, validationKey(flightID, validator, target)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrValidationNotFound
		}
		return nil, err
	}

	var record model.ValidationRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *Storage) GetValidationsForFlight(ctx context.Context, flightID model.FlightID) ([]*model.ValidationRecord, error) {
	indexKey := validationsForFlightIndexKey(flightID)

	recordKeys, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, err
	}

	if len(recordKeys) == 0 {
		return []*model.ValidationRecord{}, nil
	}

	values, err := s.client.MGet(ctx, recordKeys...).Result()
	if err != nil {
		return nil, err
	}

	records := make([]*model.ValidationRecord, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var record model.ValidationRecord
		if err := json.Unmarshal([]byte(val.(string)), &record); err != nil {
			continue
		}
		records = append(records, &record)
	}

	return records, nil
}

func (s *Storage) DeleteValidationsForFlight(ctx context.Context, flightID model.FlightID) error {
	indexKey := validationsForFlightIndexKey(flightID)

	recordKeys, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return err
	}

	if len(recordKeys) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for _, key := range recordKeys {
		pipe.Del(ctx, key)
	}
	pipe.Del(ctx, indexKey)
	_, err = pipe.Exec(ctx)
	return err
}
