package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/birdielog/birdielog/internal/dependencies/mocks"
	"github.com/birdielog/birdielog/internal/storage/memory"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, DefaultConfig())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestCreateGuestPlayer() {
	session, err := s.service.CreateGuestPlayer(s.ctx, "Sam")
	s.Require().NoError(err)

	s.NotEmpty(session.Token)
	s.Equal("Sam", session.Player.DisplayName)
	s.True(session.Player.IsGuest)
	s.Equal(s.clock.Now().Add(24*time.Hour), session.ExpiresAt)

	stored, err := s.storage.GetPlayer(s.ctx, session.PlayerID)
	s.Require().NoError(err)
	s.True(stored.IsGuest)
}

func (s *ServiceSuite) TestRegisterPlayer() {
	session, err := s.service.RegisterPlayer(s.ctx, "alice", "secret123", "Alice")
	s.Require().NoError(err)

	s.Equal("Alice", session.Player.DisplayName)
	s.False(session.Player.IsGuest)

	rp, err := s.storage.GetRegisteredPlayerByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(session.PlayerID, rp.PlayerID)
	// Never the plaintext
	s.NotEqual("secret123", rp.PasswordHash)
	s.NotEmpty(rp.PasswordHash)
}

func (s *ServiceSuite) TestRegisterDuplicateUsername() {
	_, err := s.service.RegisterPlayer(s.ctx, "alice", "secret123", "Alice")
	s.Require().NoError(err)

	_, err = s.service.RegisterPlayer(s.ctx, "alice", "other", "Other Alice")
	s.ErrorIs(err, ErrUsernameExists)
}

func (s *ServiceSuite) TestLogin() {
	registered, err := s.service.RegisterPlayer(s.ctx, "alice", "secret123", "Alice")
	s.Require().NoError(err)

	session, err := s.service.Login(s.ctx, "alice", "secret123")
	s.Require().NoError(err)
	s.Equal(registered.PlayerID, session.PlayerID)
	s.NotEqual(registered.Token, session.Token)
}

func (s *ServiceSuite) TestLoginWrongPassword() {
	_, err := s.service.RegisterPlayer(s.ctx, "alice", "secret123", "Alice")
	s.Require().NoError(err)

	_, err = s.service.Login(s.ctx, "alice", "wrong")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginUnknownUsername() {
	_, err := s.service.Login(s.ctx, "nobody", "whatever")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestValidateSession() {
	session, err := s.service.CreateGuestPlayer(s.ctx, "Sam")
	s.Require().NoError(err)

	validated, err := s.service.ValidateSession(session.Token)
	s.Require().NoError(err)
	s.Equal(session.PlayerID, validated.PlayerID)
}

func (s *ServiceSuite) TestValidateSessionUnknownToken() {
	_, err := s.service.ValidateSession("sess_nope")
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestSessionExpiry() {
	session, err := s.service.CreateGuestPlayer(s.ctx, "Sam")
	s.Require().NoError(err)

	s.clock.Advance(24*time.Hour + time.Minute)

	_, err = s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestInvalidateSession() {
	session, err := s.service.CreateGuestPlayer(s.ctx, "Sam")
	s.Require().NoError(err)

	s.service.InvalidateSession(session.Token)
	_, err = s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestCleanExpiredSessions() {
	expired, err := s.service.CreateGuestPlayer(s.ctx, "Old")
	s.Require().NoError(err)
	s.clock.Advance(25 * time.Hour)
	fresh, err := s.service.CreateGuestPlayer(s.ctx, "New")
	s.Require().NoError(err)

	s.service.CleanExpiredSessions()

	_, err = s.service.ValidateSession(expired.Token)
	s.ErrorIs(err, ErrInvalidSession)
	_, err = s.service.ValidateSession(fresh.Token)
	s.NoError(err)
}

func (s *ServiceSuite) TestSessionIdentity() {
	session, err := s.service.CreateGuestPlayer(s.ctx, "Sam")
	s.Require().NoError(err)

	identity := session.Identity()
	s.Equal(session.PlayerID, identity.PlayerID)
	s.Equal("Sam", identity.DisplayName)
}

func (s *ServiceSuite) TestGetPlayer() {
	session, err := s.service.CreateGuestPlayer(s.ctx, "Sam")
	s.Require().NoError(err)

	player, err := s.service.GetPlayer(session.Token)
	s.Require().NoError(err)
	s.Equal(session.PlayerID, player.ID)
}
