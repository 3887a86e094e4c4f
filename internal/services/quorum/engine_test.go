package quorum

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/birdielog/birdielog/internal/dependencies/mocks"
	"github.com/birdielog/birdielog/internal/model"
	"github.com/birdielog/birdielog/internal/storage/memory"
	"github.com/birdielog/birdielog/internal/testutil"
)

type EngineSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	engine  *Engine
	ctx     context.Context
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC))
	s.engine = New(s.storage, s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *EngineSuite) addSeat(id model.SeatID, order int, value *model.ClaimValue, locked bool, version int) {
	seat := &model.Seat{
		ID:         id,
		FlightID:   "FLT001",
		PlayerID:   model.PlayerID("p-" + string(id)),
		OrderIndex: order,
		Claim: model.Claim{
			Value:       value,
			Locked:      locked,
			LockVersion: version,
		},
	}
	s.Require().NoError(s.storage.SaveSeat(s.ctx, seat))
}

func claimValue(v model.ClaimValue) *model.ClaimValue {
	return &v
}

// Submit tests

func (s *EngineSuite) TestSubmitRecordsDecision() {
	s.addSeat("s1", 0, claimValue(123), true, 1)
	s.addSeat("s2", 1, claimValue(80), true, 1)

	record, err := s.engine.Submit(s.ctx, "FLT001", "s2", "s1", model.ValidationApproved, "")
	s.Require().NoError(err)

	s.Equal(model.SeatID("s2"), record.ValidatorSeatID)
	s.Equal(model.SeatID("s1"), record.TargetSeatID)
	s.Equal(model.ValidationApproved, record.Status)
	s.Equal(1, record.TargetLockVersion)
	s.Equal(s.clock.Now(), record.UpdatedAt)
}

func (s *EngineSuite) TestSubmitRejectsSelfValidation() {
	s.addSeat("s1", 0, claimValue(123), true, 1)

	_, err := s.engine.Submit(s.ctx, "FLT001", "s1", "s1", model.ValidationApproved, "")
	s.ErrorIs(err, model.ErrSelfValidation)
}

func (s *EngineSuite) TestSubmitRejectsNullTargetValue() {
	s.addSeat("s1", 0, nil, false, 0)
	s.addSeat("s2", 1, claimValue(80), true, 1)

	_, err := s.engine.Submit(s.ctx, "FLT001", "s2", "s1", model.ValidationApproved, "")
	s.ErrorIs(err, model.ErrNothingToValidate)
}

func (s *EngineSuite) TestSubmitRejectsMissingSeats() {
	s.addSeat("s1", 0, claimValue(123), true, 1)

	_, err := s.engine.Submit(s.ctx, "FLT001", "ghost", "s1", model.ValidationApproved, "")
	s.ErrorIs(err, model.ErrSeatNotFound)

	_, err = s.engine.Submit(s.ctx, "FLT001", "s1", "ghost", model.ValidationApproved, "")
	s.ErrorIs(err, model.ErrSeatNotFound)
}

func (s *EngineSuite) TestSubmitUpsertsPerPair() {
	s.addSeat("s1", 0, claimValue(123), true, 1)
	s.addSeat("s2", 1, claimValue(80), true, 1)

	_, err := s.engine.Submit(s.ctx, "FLT001", "s2", "s1", model.ValidationQuestioned, "seems high")
	s.Require().NoError(err)
	_, err = s.engine.Submit(s.ctx, "FLT001", "s2", "s1", model.ValidationApproved, "")
	s.Require().NoError(err)

	records, err := s.storage.GetValidationsForFlight(s.ctx, "FLT001")
	s.Require().NoError(err)
	s.Len(records, 1)
	s.Equal(model.ValidationApproved, records[0].Status)
}

// Summary tests

func (s *EngineSuite) TestSummaryCountsApprovals() {
	s.addSeat("s1", 0, claimValue(123), true, 1)
	s.addSeat("s2", 1, claimValue(80), true, 1)
	s.addSeat("s3", 2, claimValue(200), true, 1)

	_, _ = s.engine.Submit(s.ctx, "FLT001", "s2", "s1", model.ValidationApproved, "")

	summary, err := s.engine.SummaryFor(s.ctx, "FLT001", "s1")
	s.Require().NoError(err)
	s.Equal(1, summary.ApprovedCount)
	s.Equal(2, summary.TotalExpected)
	s.False(summary.Ratified())
}

func (s *EngineSuite) TestSummaryUnanimousRatifies() {
	s.addSeat("s1", 0, claimValue(123), true, 1)
	s.addSeat("s2", 1, claimValue(80), true, 1)

	_, _ = s.engine.Submit(s.ctx, "FLT001", "s2", "s1", model.ValidationApproved, "")

	summary, err := s.engine.SummaryFor(s.ctx, "FLT001", "s1")
	s.Require().NoError(err)
	s.True(summary.Ratified())

	ratified, err := s.engine.Ratified(s.ctx, "FLT001", "s1")
	s.Require().NoError(err)
	s.True(ratified)
}

func (s *EngineSuite) TestSummaryQuestionedDoesNotCount() {
	s.addSeat("s1", 0, claimValue(123), true, 1)
	s.addSeat("s2", 1, claimValue(80), true, 1)

	_, _ = s.engine.Submit(s.ctx, "FLT001", "s2", "s1", model.ValidationQuestioned, "too low")

	summary, err := s.engine.SummaryFor(s.ctx, "FLT001", "s1")
	s.Require().NoError(err)
	s.Equal(0, summary.ApprovedCount)
}

func (s *EngineSuite) TestSummaryExcludesStaleLockVersion() {
	s.addSeat("s1", 0, claimValue(123), true, 1)
	s.addSeat("s2", 1, claimValue(80), true, 1)

	_, _ = s.engine.Submit(s.ctx, "FLT001", "s2", "s1", model.ValidationApproved, "")

	// s1 unlocks and relocks: version moves on, approval goes stale
	seat, err := s.storage.GetSeat(s.ctx, "FLT001", "s1")
	s.Require().NoError(err)
	updated := *seat
	updated.Claim.LockVersion = 3
	s.Require().NoError(s.storage.SaveSeat(s.ctx, &updated))

	summary, err := s.engine.SummaryFor(s.ctx, "FLT001", "s1")
	s.Require().NoError(err)
	s.Equal(0, summary.ApprovedCount)
	s.False(summary.Ratified())
}

func (s *EngineSuite) TestSummaryExcludesOrphanedValidator() {
	s.addSeat("s1", 0, claimValue(123), true, 1)
	s.addSeat("s2", 1, claimValue(80), true, 1)
	s.addSeat("s3", 2, claimValue(200), true, 1)

	_, _ = s.engine.Submit(s.ctx, "FLT001", "s2", "s1", model.ValidationApproved, "")
	_, _ = s.engine.Submit(s.ctx, "FLT001", "s3", "s1", model.ValidationApproved, "")

	// s3 leaves; its record stays but stops counting, and the denominator
	// shrinks with it
	s.Require().NoError(s.storage.DeleteSeat(s.ctx, "FLT001", "s3"))

	summary, err := s.engine.SummaryFor(s.ctx, "FLT001", "s1")
	s.Require().NoError(err)
	s.Equal(1, summary.ApprovedCount)
	s.Equal(1, summary.TotalExpected)
	s.True(summary.Ratified())
}

func (s *EngineSuite) TestSummaryMissingTarget() {
	s.addSeat("s1", 0, claimValue(123), true, 1)

	_, err := s.engine.SummaryFor(s.ctx, "FLT001", "ghost")
	s.ErrorIs(err, model.ErrSeatNotFound)
}

func (s *EngineSuite) TestSoloFlightNeverRatifies() {
	s.addSeat("s1", 0, claimValue(123), true, 1)

	summary, err := s.engine.SummaryFor(s.ctx, "FLT001", "s1")
	s.Require().NoError(err)
	s.Equal(0, summary.TotalExpected)
	s.False(summary.Ratified())
}

// RecordFor tests

func (s *EngineSuite) TestRecordForAbsentMeansPending() {
	record, err := s.engine.RecordFor(s.ctx, "FLT001", "s2", "s1")
	s.Require().NoError(err)
	s.Equal(model.ValidationPending, record.Status)
}

func (s *EngineSuite) TestRecordForReturnsStored() {
	s.addSeat("s1", 0, claimValue(123), true, 1)
	s.addSeat("s2", 1, claimValue(80), true, 1)

	_, _ = s.engine.Submit(s.ctx, "FLT001", "s2", "s1", model.ValidationApproved, "looks right")

	record, err := s.engine.RecordFor(s.ctx, "FLT001", "s2", "s1")
	s.Require().NoError(err)
	s.Equal(model.ValidationApproved, record.Status)
	s.Equal("looks right", record.Note)
}
