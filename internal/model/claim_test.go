package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClaimText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want ClaimValue
	}{
		{"integer", "12", 120},
		{"one decimal", "12.3", 123},
		{"comma separator", "12,3", 123},
		{"zero", "0", 0},
		{"min with decimal", "0.0", 0},
		{"max", "54.0", 540},
		{"max integer", "54", 540},
		{"leading dot", ".5", 5},
		{"trailing dot", "7.", 70},
		{"single digit", "8", 80},
		{"whitespace trimmed", " 12.3 ", 123},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClaimText(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseClaimTextInvalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"letters", "abc"},
		{"negative", "-5"},
		{"too many integer digits", "123"},
		{"too many fraction digits", "12.34"},
		{"double separator", "1.2.3"},
		{"lone separator", "."},
		{"mixed alpha", "1a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseClaimText(tt.raw)
			assert.ErrorIs(t, err, ErrInvalidClaimText)
		})
	}
}

func TestParseClaimTextOutOfRange(t *testing.T) {
	for _, raw := range []string{"54.1", "55", "99.9"} {
		_, err := ParseClaimText(raw)
		assert.ErrorIs(t, err, ErrClaimOutOfRange, "input %q", raw)
	}
}

func TestClaimValueString(t *testing.T) {
	assert.Equal(t, "12.3", ClaimValue(123).String())
	assert.Equal(t, "8.0", ClaimValue(80).String())
	assert.Equal(t, "0.0", ClaimValue(0).String())
	assert.Equal(t, "54.0", ClaimValue(540).String())
}

func TestClaimValueRoundTrip(t *testing.T) {
	// Every representable value survives render-then-parse unchanged
	for v := MinClaimValue; v <= MaxClaimValue; v++ {
		parsed, err := ParseClaimText(v.String())
		require.NoError(t, err)
		require.Equal(t, v, parsed)
	}
}

func TestSortSeats(t *testing.T) {
	seats := []*Seat{
		{ID: "c", OrderIndex: 2},
		{ID: "a", OrderIndex: 0},
		{ID: "b", OrderIndex: 1},
	}
	SortSeats(seats)
	assert.Equal(t, SeatID("a"), seats[0].ID)
	assert.Equal(t, SeatID("b"), seats[1].ID)
	assert.Equal(t, SeatID("c"), seats[2].ID)
}

func TestFindSeat(t *testing.T) {
	seats := []*Seat{{ID: "a"}, {ID: "b"}}
	assert.Equal(t, seats[1], FindSeat(seats, "b"))
	assert.Nil(t, FindSeat(seats, "missing"))
}

func TestSeatIsGuest(t *testing.T) {
	assert.True(t, (&Seat{GuestName: "Sam"}).IsGuest())
	assert.False(t, (&Seat{PlayerID: "p1"}).IsGuest())
}
