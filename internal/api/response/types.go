package response

import (
	"time"

	"github.com/birdielog/birdielog/internal/model"
	"github.com/birdielog/birdielog/internal/services/auth"
	"github.com/birdielog/birdielog/internal/services/quorum"
)

// Player represents a player in API responses
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		IsGuest:     p.IsGuest,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Player       Player `json:"player"`
	SessionToken string `json:"session_token"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Player:       PlayerFromModel(&s.Player),
		SessionToken: s.Token,
	}
}

// Claim represents a seat's handicap claim. Value is the one-decimal
// display form ("12.3"), or null when no value has been committed.
type Claim struct {
	Value       *string   `json:"value"`
	Locked      bool      `json:"locked"`
	LockVersion int       `json:"lock_version"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ClaimFromModel converts model.Claim
func ClaimFromModel(c model.Claim) Claim {
	var value *string
	if c.Value != nil {
		v := c.Value.String()
		value = &v
	}
	return Claim{
		Value:       value,
		Locked:      c.Locked,
		LockVersion: c.LockVersion,
		UpdatedAt:   c.UpdatedAt,
	}
}

// Seat represents a flight seat
type Seat struct {
	ID          string `json:"id"`
	PlayerID    string `json:"player_id,omitempty"`
	GuestName   string `json:"guest_name,omitempty"`
	DisplayName string `json:"display_name"`
	OrderIndex  int    `json:"order_index"`
	IsGuest     bool   `json:"is_guest"`
	Claim       Claim  `json:"claim"`
}

// SeatFromModel converts model.Seat
func SeatFromModel(s *model.Seat) Seat {
	return Seat{
		ID:          string(s.ID),
		PlayerID:    string(s.PlayerID),
		GuestName:   s.GuestName,
		DisplayName: s.DisplayName,
		OrderIndex:  s.OrderIndex,
		IsGuest:     s.IsGuest(),
		Claim:       ClaimFromModel(s.Claim),
	}
}

// Flight represents a flight with its seats and effective phase
type Flight struct {
	ID         string `json:"id"`
	Name       string `json:"name,omitempty"`
	CourseName string `json:"course_name,omitempty"`
	CreatorID  string `json:"creator_id"`
	Phase      string `json:"phase"`
	Seats      []Seat `json:"seats"`
}

// FlightFromModel converts model.Flight plus its seat rows and the
// derived phase
func FlightFromModel(f *model.Flight, seats []*model.Seat, phase model.Phase) Flight {
	seatResp := make([]Seat, len(seats))
	for i, s := range seats {
		seatResp[i] = SeatFromModel(s)
	}
	return Flight{
		ID:         string(f.ID),
		Name:       f.Name,
		CourseName: f.CourseName,
		CreatorID:  string(f.CreatorID),
		Phase:      string(phase),
		Seats:      seatResp,
	}
}

// Validation represents a validation record
type Validation struct {
	ValidatorSeatID   string    `json:"validator_seat_id"`
	TargetSeatID      string    `json:"target_seat_id"`
	Status            string    `json:"status"`
	Note              string    `json:"note,omitempty"`
	TargetLockVersion int       `json:"target_lock_version"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ValidationFromModel converts model.ValidationRecord
func ValidationFromModel(v *model.ValidationRecord) Validation {
	return Validation{
		ValidatorSeatID:   string(v.ValidatorSeatID),
		TargetSeatID:      string(v.TargetSeatID),
		Status:            string(v.Status),
		Note:              v.Note,
		TargetLockVersion: v.TargetLockVersion,
		UpdatedAt:         v.UpdatedAt,
	}
}

// Summary represents a target seat's validation progress
type Summary struct {
	TargetSeatID  string `json:"target_seat_id"`
	ApprovedCount int    `json:"approved_count"`
	TotalExpected int    `json:"total_expected"`
	Ratified      bool   `json:"ratified"`
}

// SummaryFromModel converts quorum.Summary
func SummaryFromModel(target model.SeatID, s quorum.Summary) Summary {
	return Summary{
		TargetSeatID:  string(target),
		ApprovedCount: s.ApprovedCount,
		TotalExpected: s.TotalExpected,
		Ratified:      s.Ratified(),
	}
}

// Phase is the response for the phase endpoint
type Phase struct {
	Phase string `json:"phase"`
}
