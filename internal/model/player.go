package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Player represents an account that can hold seats in flights
type Player struct {
	ID          PlayerID
	DisplayName string
	IsGuest     bool // true for unregistered players
	CreatedAt   time.Time
}

// RegisteredPlayer extends Player with authentication data
// Stored separately for security (password never in memory with session)
type RegisteredPlayer struct {
	PlayerID     PlayerID
	Username     string // login username (immutable)
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is what the identity resolver matches against a flight's seats.
// PlayerID is empty for a locally-typed guest name with no account behind it.
type Identity struct {
	PlayerID    PlayerID
	DisplayName string
}
