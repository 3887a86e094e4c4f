package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/birdielog/birdielog/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) TestPlayerRoundTrip() {
	player := &model.Player{
		ID:          "p1",
		DisplayName: "Alice",
		CreatedAt:   time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC),
	}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	got, err := s.storage.GetPlayer(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(player, got)

	s.Require().NoError(s.storage.DeletePlayer(s.ctx, "p1"))
	_, err = s.storage.GetPlayer(s.ctx, "p1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestRegisteredPlayerLookup() {
	rp := &model.RegisteredPlayer{
		PlayerID:     "p1",
		Username:     "Alice",
		PasswordHash: "$2a$10$abcdefgh",
	}
	s.Require().NoError(s.storage.SaveRegisteredPlayer(s.ctx, rp))

	got, err := s.storage.GetRegisteredPlayer(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(rp, got)

	// Username lookup is case-insensitive
	got, err = s.storage.GetRegisteredPlayerByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(rp, got)

	_, err = s.storage.GetRegisteredPlayerByUsername(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestFlightRoundTrip() {
	flight := &model.Flight{ID: "FLT001", Name: "Saturday Four", Phase: model.PhaseSetup}
	s.Require().NoError(s.storage.SaveFlight(s.ctx, flight))

	got, err := s.storage.GetFlight(s.ctx, "FLT001")
	s.Require().NoError(err)
	s.Equal(flight, got)

	exists, err := s.storage.FlightExists(s.ctx, "FLT001")
	s.Require().NoError(err)
	s.True(exists)
	exists, err = s.storage.FlightExists(s.ctx, "NOPE")
	s.Require().NoError(err)
	s.False(exists)

	_, err = s.storage.GetFlight(s.ctx, "NOPE")
	s.ErrorIs(err, model.ErrFlightNotFound)
}

func (s *StorageSuite) TestDeleteFlightRemovesSeats() {
	s.Require().NoError(s.storage.SaveFlight(s.ctx, &model.Flight{ID: "FLT001"}))
	s.Require().NoError(s.storage.SaveSeat(s.ctx, &model.Seat{ID: "s1", FlightID: "FLT001"}))

	s.Require().NoError(s.storage.DeleteFlight(s.ctx, "FLT001"))

	_, err := s.storage.GetSeat(s.ctx, "FLT001", "s1")
	s.ErrorIs(err, model.ErrSeatNotFound)
}

func (s *StorageSuite) TestSeatsReturnedInOrder() {
	for i, id := range []model.SeatID{"c", "a", "b"} {
		s.Require().NoError(s.storage.SaveSeat(s.ctx, &model.Seat{
			ID:         id,
			FlightID:   "FLT001",
			OrderIndex: 2 - i,
		}))
	}

	seats, err := s.storage.GetSeatsForFlight(s.ctx, "FLT001")
	s.Require().NoError(err)
	s.Require().Len(seats, 3)
	s.Equal(model.SeatID("b"), seats[0].ID)
	s.Equal(model.SeatID("a"), seats[1].ID)
	s.Equal(model.SeatID("c"), seats[2].ID)
}

func (s *StorageSuite) TestSeatsScopedToFlight() {
	s.Require().NoError(s.storage.SaveSeat(s.ctx, &model.Seat{ID: "s1", FlightID: "FLT001"}))
	s.Require().NoError(s.storage.SaveSeat(s.ctx, &model.Seat{ID: "s2", FlightID: "FLT002"}))

	seats, err := s.storage.GetSeatsForFlight(s.ctx, "FLT001")
	s.Require().NoError(err)
	s.Len(seats, 1)
}

func (s *StorageSuite) TestDeleteSeat() {
	s.Require().NoError(s.storage.SaveSeat(s.ctx, &model.Seat{ID: "s1", FlightID: "FLT001"}))
	s.Require().NoError(s.storage.DeleteSeat(s.ctx, "FLT001", "s1"))

	_, err := s.storage.GetSeat(s.ctx, "FLT001", "s1")
	s.ErrorIs(err, model.ErrSeatNotFound)
}

func (s *StorageSuite) TestValidationUpsert() {
	record := &model.ValidationRecord{
		FlightID:          "FLT001",
		ValidatorSeatID:   "s2",
		TargetSeatID:      "s1",
		Status:            model.ValidationQuestioned,
		TargetLockVersion: 1,
	}
	s.Require().NoError(s.storage.SaveValidation(s.ctx, record))

	// Same pair overwrites
	updated := *record
	updated.Status = model.ValidationApproved
	s.Require().NoError(s.storage.SaveValidation(s.ctx, &updated))

	got, err := s.storage.GetValidation(s.ctx, "FLT001", "s2", "s1")
	s.Require().NoError(err)
	s.Equal(model.ValidationApproved, got.Status)

	records, err := s.storage.GetValidationsForFlight(s.ctx, "FLT001")
	s.Require().NoError(err)
	s.Len(records, 1)
}

func (s *StorageSuite) TestValidationNotFound() {
	_, err := s.storage.GetValidation(s.ctx, "FLT001", "s2", "s1")
	s.ErrorIs(err, model.ErrValidationNotFound)
}

func (s *StorageSuite) TestDeleteValidationsForFlight() {
	s.Require().NoError(s.storage.SaveValidation(s.ctx, &model.ValidationRecord{
		FlightID: "FLT001", ValidatorSeatID: "s2", TargetSeatID: "s1",
	}))
	s.Require().NoError(s.storage.SaveValidation(s.ctx, &model.ValidationRecord{
		FlightID: "FLT002", ValidatorSeatID: "s2", TargetSeatID: "s1",
	}))

	s.Require().NoError(s.storage.DeleteValidationsForFlight(s.ctx, "FLT001"))

	records, err := s.storage.GetValidationsForFlight(s.ctx, "FLT001")
	s.Require().NoError(err)
	s.Empty(records)
	records, err = s.storage.GetValidationsForFlight(s.ctx, "FLT002")
	s.Require().NoError(err)
	s.Len(records, 1)
}
