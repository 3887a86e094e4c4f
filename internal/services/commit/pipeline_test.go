package commit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/birdielog/birdielog/internal/dependencies/mocks"
	"github.com/birdielog/birdielog/internal/model"
	"github.com/birdielog/birdielog/internal/services/flight"
	"github.com/birdielog/birdielog/internal/services/quorum"
	"github.com/birdielog/birdielog/internal/storage/memory"
	"github.com/birdielog/birdielog/internal/testutil"
)

type PipelineSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	controller *flight.Controller
	pipeline   *Pipeline
	ctx        context.Context

	alice    model.Player
	flightID model.FlightID
	seatID   model.SeatID
}

func TestPipelineSuite(t *testing.T) {
	suite.Run(t, new(PipelineSuite))
}

func (s *PipelineSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	logger := testutil.NopLogger()
	engine := quorum.New(s.storage, s.clock, logger)
	s.controller = flight.NewController(s.storage, nil, engine, s.clock, s.random, logger)
	s.ctx = context.Background()

	s.alice = model.Player{ID: "p-alice", DisplayName: "Alice"}
	s.random.QueueString("FLTABC", "seat-alice00")
	f, seat, err := s.controller.CreateFlight(s.ctx, s.alice, "", "")
	s.Require().NoError(err)
	s.flightID = f.ID
	s.seatID = seat.ID

	actor := model.Identity{PlayerID: s.alice.ID, DisplayName: s.alice.DisplayName}
	s.pipeline = NewPipeline(s.flightID, actor, s.controller, s.clock, DefaultConfig(), logger)
}

func (s *PipelineSuite) TearDownTest() {
	s.pipeline.Close()
}

func (s *PipelineSuite) storedValue() *model.ClaimValue {
	seat, err := s.storage.GetSeat(s.ctx, s.flightID, s.seatID)
	s.Require().NoError(err)
	return seat.Claim.Value
}

func (s *PipelineSuite) TestDraftIsEchoedImmediately() {
	s.Require().NoError(s.pipeline.SetDraft(s.ctx, s.seatID, "12.3"))

	text, ok := s.pipeline.Draft(s.seatID)
	s.True(ok)
	s.Equal("12.3", text)

	// Nothing hits the store until the quiet period elapses
	s.Nil(s.storedValue())
}

func (s *PipelineSuite) TestQuietPeriodFlushesOnce() {
	s.Require().NoError(s.pipeline.SetDraft(s.ctx, s.seatID, "12.3"))

	var commits int
	s.pipeline.OnCommit = func(seat *model.Seat) { commits++ }

	s.clock.Advance(DefaultDebounceWindow)

	s.Equal(1, commits)
	s.Require().NotNil(s.storedValue())
	s.Equal(model.ClaimValue(123), *s.storedValue())

	// Draft is dropped after commit; the stored row is authoritative
	_, ok := s.pipeline.Draft(s.seatID)
	s.False(ok)
	s.Equal(0, s.clock.PendingTimers())
}

func (s *PipelineSuite) TestTimerResetsOnKeystroke() {
	s.Require().NoError(s.pipeline.SetDraft(s.ctx, s.seatID, "1"))
	s.clock.Advance(DefaultDebounceWindow / 2)
	s.Require().NoError(s.pipeline.SetDraft(s.ctx, s.seatID, "12"))
	s.clock.Advance(DefaultDebounceWindow / 2)
	s.Require().NoError(s.pipeline.SetDraft(s.ctx, s.seatID, "12.3"))

	// Neither earlier keystroke's timer has fired
	s.Nil(s.storedValue())

	s.clock.Advance(DefaultDebounceWindow)
	s.Require().NotNil(s.storedValue())
	s.Equal(model.ClaimValue(123), *s.storedValue())
}

func (s *PipelineSuite) TestMalformedKeystrokeKeepsPriorDraft() {
	s.Require().NoError(s.pipeline.SetDraft(s.ctx, s.seatID, "12.3"))

	err := s.pipeline.SetDraft(s.ctx, s.seatID, "12.3x")
	s.ErrorIs(err, model.ErrInvalidClaimText)

	text, ok := s.pipeline.Draft(s.seatID)
	s.True(ok)
	s.Equal("12.3", text)

	s.clock.Advance(DefaultDebounceWindow)
	s.Require().NotNil(s.storedValue())
	s.Equal(model.ClaimValue(123), *s.storedValue())
}

func (s *PipelineSuite) TestOutOfRangeKeystrokeRejected() {
	err := s.pipeline.SetDraft(s.ctx, s.seatID, "54.1")
	s.ErrorIs(err, model.ErrClaimOutOfRange)
	s.Equal(0, s.clock.PendingTimers())
}

func (s *PipelineSuite) TestEmptyTextClearsValue() {
	s.Require().NoError(s.pipeline.SetDraft(s.ctx, s.seatID, "12.3"))
	s.clock.Advance(DefaultDebounceWindow)
	s.Require().NotNil(s.storedValue())

	s.Require().NoError(s.pipeline.SetDraft(s.ctx, s.seatID, ""))
	s.clock.Advance(DefaultDebounceWindow)
	s.Nil(s.storedValue())
}

func (s *PipelineSuite) TestFlushFailureDropsDraftAndReports() {
	s.Require().NoError(s.pipeline.SetDraft(s.ctx, s.seatID, "12.3"))

	// The row locks underneath the pending draft (e.g. via another client)
	actor := model.Identity{PlayerID: s.alice.ID, DisplayName: s.alice.DisplayName}
	v := model.ClaimValue(80)
	_, err := s.controller.LockClaim(s.ctx, s.flightID, s.seatID, &v, actor)
	s.Require().NoError(err)

	var reported error
	s.pipeline.OnError = func(seatID model.SeatID, err error) {
		s.Equal(s.seatID, seatID)
		reported = err
	}

	s.clock.Advance(DefaultDebounceWindow)

	s.ErrorIs(reported, model.ErrClaimLocked)
	// Draft reverted; the stored row keeps the locked value
	_, ok := s.pipeline.Draft(s.seatID)
	s.False(ok)
	s.Equal(model.ClaimValue(80), *s.storedValue())
}

func (s *PipelineSuite) TestLockCommitsDraftImmediately() {
	s.Require().NoError(s.pipeline.SetDraft(s.ctx, s.seatID, "12.3"))

	seat, err := s.pipeline.Lock(s.ctx, s.seatID)
	s.Require().NoError(err)
	s.True(seat.Claim.Locked)
	s.Equal(model.ClaimValue(123), *seat.Claim.Value)

	// The pending debounce timer was superseded; advancing fires nothing
	s.Equal(0, s.clock.PendingTimers())
	s.clock.Advance(DefaultDebounceWindow)
	s.True(s.storedValue() != nil && *s.storedValue() == 123)
}

func (s *PipelineSuite) TestLockWithoutAnyValue() {
	_, err := s.pipeline.Lock(s.ctx, s.seatID)
	s.ErrorIs(err, model.ErrClaimValueRequired)
}

func (s *PipelineSuite) TestLockWithClearingDraftRejectedLocally() {
	s.Require().NoError(s.pipeline.SetDraft(s.ctx, s.seatID, "12.3"))
	s.clock.Advance(DefaultDebounceWindow)
	s.Require().NoError(s.pipeline.SetDraft(s.ctx, s.seatID, ""))

	_, err := s.pipeline.Lock(s.ctx, s.seatID)
	s.ErrorIs(err, model.ErrClaimValueRequired)
}

func (s *PipelineSuite) TestLockUsesCommittedValueWhenNoDraft() {
	s.Require().NoError(s.pipeline.SetDraft(s.ctx, s.seatID, "8"))
	s.clock.Advance(DefaultDebounceWindow)

	seat, err := s.pipeline.Lock(s.ctx, s.seatID)
	s.Require().NoError(err)
	s.Equal(model.ClaimValue(80), *seat.Claim.Value)
}

func (s *PipelineSuite) TestUnlockReturnsToEditing() {
	s.Require().NoError(s.pipeline.SetDraft(s.ctx, s.seatID, "12.3"))
	_, err := s.pipeline.Lock(s.ctx, s.seatID)
	s.Require().NoError(err)

	seat, err := s.pipeline.Unlock(s.ctx, s.seatID)
	s.Require().NoError(err)
	s.False(seat.Claim.Locked)
	s.Equal(2, seat.Claim.LockVersion)
}

func (s *PipelineSuite) TestObserverCannotEdit() {
	observer := model.Identity{PlayerID: "p-eve", DisplayName: "Eve"}
	p := NewPipeline(s.flightID, observer, s.controller, s.clock, DefaultConfig(), testutil.NopLogger())
	defer p.Close()

	err := p.SetDraft(s.ctx, s.seatID, "12.3")
	s.ErrorIs(err, model.ErrNotSeatOwner)
	_, err = p.Lock(s.ctx, s.seatID)
	s.ErrorIs(err, model.ErrNotSeatOwner)
}

func (s *PipelineSuite) TestCloseDiscardsWithoutFlushing() {
	s.Require().NoError(s.pipeline.SetDraft(s.ctx, s.seatID, "12.3"))
	s.pipeline.Close()

	s.Equal(0, s.clock.PendingTimers())
	s.clock.Advance(DefaultDebounceWindow)
	s.Nil(s.storedValue())
}
