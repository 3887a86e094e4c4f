package identity

import (
	"strings"

	"github.com/birdielog/birdielog/internal/model"
)

// Resolve maps the local actor to at most one seat in the given seat list.
//
// Precedence:
//  1. Exact match on the actor's registered player ID.
//  2. Case-insensitive exact match of the actor's display name against an
//     unclaimed guest seat's name.
//  3. No match: nil.
//
// Resolution is a pure read with no side effects and must be recomputed
// whenever the seat list changes, since seats can be added asynchronously
// by other clients. A nil result means this client is an observer and all
// seat-owning actions are disabled.
func Resolve(actor model.Identity, seats []*model.Seat) *model.Seat {
	if actor.PlayerID != "" {
		for _, seat := range seats {
			if seat.PlayerID == actor.PlayerID {
				return seat
			}
		}
	}

	if actor.DisplayName == "" {
		return nil
	}

	for _, seat := range seats {
		if seat.IsGuest() && strings.EqualFold(seat.GuestName, actor.DisplayName) {
			return seat
		}
	}

	return nil
}

// Owns reports whether the actor resolves to the given seat. It is the
// guard every seat-mutating operation checks before touching storage.
func Owns(actor model.Identity, seats []*model.Seat, seatID model.SeatID) bool {
	seat := Resolve(actor, seats)
	return seat != nil && seat.ID == seatID
}
