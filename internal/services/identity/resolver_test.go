package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/birdielog/birdielog/internal/model"
)

func seatFixture() []*model.Seat {
	return []*model.Seat{
		{ID: "s1", PlayerID: "p1", DisplayName: "Alice"},
		{ID: "s2", GuestName: "Sam", DisplayName: "Sam"},
		{ID: "s3", PlayerID: "p3", DisplayName: "Sam"},
	}
}

func TestResolveByPlayerID(t *testing.T) {
	seat := Resolve(model.Identity{PlayerID: "p1", DisplayName: "Alice"}, seatFixture())
	assert.Equal(t, model.SeatID("s1"), seat.ID)
}

func TestResolvePlayerIDTakesPrecedenceOverGuestName(t *testing.T) {
	// p3's display name also matches the guest seat "Sam"; the registered
	// ID match must win
	seat := Resolve(model.Identity{PlayerID: "p3", DisplayName: "Sam"}, seatFixture())
	assert.Equal(t, model.SeatID("s3"), seat.ID)
}

func TestResolveGuestNameCaseInsensitive(t *testing.T) {
	seat := Resolve(model.Identity{PlayerID: "other", DisplayName: "sam"}, seatFixture())
	assert.Equal(t, model.SeatID("s2"), seat.ID)
}

func TestResolveGuestNameNeverMatchesRegisteredSeat(t *testing.T) {
	seats := []*model.Seat{
		{ID: "s1", PlayerID: "p1", DisplayName: "Alice"},
	}
	// Display name matches a registered seat's name, but that seat belongs
	// to someone else
	seat := Resolve(model.Identity{PlayerID: "p9", DisplayName: "Alice"}, seats)
	assert.Nil(t, seat)
}

func TestResolveObserver(t *testing.T) {
	seat := Resolve(model.Identity{PlayerID: "p9", DisplayName: "Nobody"}, seatFixture())
	assert.Nil(t, seat)
}

func TestResolveEmptyIdentity(t *testing.T) {
	assert.Nil(t, Resolve(model.Identity{}, seatFixture()))
}

func TestOwns(t *testing.T) {
	seats := seatFixture()
	actor := model.Identity{PlayerID: "p1", DisplayName: "Alice"}

	assert.True(t, Owns(actor, seats, "s1"))
	assert.False(t, Owns(actor, seats, "s2"))
	assert.False(t, Owns(model.Identity{}, seats, "s1"))
}
