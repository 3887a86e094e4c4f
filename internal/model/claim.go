package model

import (
	"fmt"
	"strings"
	"time"
)

// ClaimValue is a self-declared skill rating in tenths (12.3 is stored as
// 123). Tenths keep the single permitted fractional digit exact, so a value
// round-trips through storage unchanged.
type ClaimValue int

// Claim value domain: 0.0 to 54.0 inclusive
const (
	MinClaimValue ClaimValue = 0
	MaxClaimValue ClaimValue = 540
)

// String renders the value with one fractional digit, e.g. "12.3", "8.0"
func (v ClaimValue) String() string {
	return fmt.Sprintf("%d.%d", int(v)/10, int(v)%10)
}

// InRange reports whether the value is within the claim domain
func (v ClaimValue) InRange() bool {
	return v >= MinClaimValue && v <= MaxClaimValue
}

// ParseClaimText parses raw claim input: 0-2 integer digits, an optional
// fractional separator ('.' or ','), and 0-1 fractional digit. Returns
// ErrInvalidClaimText for malformed input and ErrClaimOutOfRange for a
// well-formed value outside [0.0, 54.0].
func ParseClaimText(raw string) (ClaimValue, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return 0, ErrInvalidClaimText
	}

	intPart := text
	fracPart := ""
	if i := strings.IndexAny(text, ".,"); i >= 0 {
		intPart = text[:i]
		fracPart = text[i+1:]
	}

	if len(intPart) > 2 || len(fracPart) > 1 {
		return 0, ErrInvalidClaimText
	}
	if intPart == "" && fracPart == "" {
		return 0, ErrInvalidClaimText
	}
	for _, r := range intPart + fracPart {
		if r < '0' || r > '9' {
			return 0, ErrInvalidClaimText
		}
	}

	tenths := ClaimValue(0)
	for _, r := range intPart {
		tenths = tenths*10 + ClaimValue(r-'0')*10
	}
	if fracPart != "" {
		tenths += ClaimValue(fracPart[0] - '0')
	}

	if !tenths.InRange() {
		return 0, ErrClaimOutOfRange
	}
	return tenths, nil
}

// Claim is a seat's self-declared rating pending peer sign-off.
// LockVersion increments on every lock and unlock; validation records
// capture the version they approved, which is how unlocking invalidates
// stale approvals without deleting audit history.
type Claim struct {
	Value       *ClaimValue
	Locked      bool
	LockVersion int
	UpdatedAt   time.Time
}

// ClaimState is the per-seat state a client derives for a claim
type ClaimState string

const (
	ClaimStateEditing ClaimState = "editing" // Value mutable by the owner
	ClaimStateSyncing ClaimState = "syncing" // Write in flight, unauthoritative
	ClaimStateLocked  ClaimState = "locked"  // Committed and ratifiable
)
