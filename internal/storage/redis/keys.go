package redis

import (
	"fmt"

	"github.com/birdielog/birdielog/internal/model"
)

// Key prefix for all flight-related data
const keyPrefix = "birdielog"

// Key generation functions for each entity type

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// registeredPlayerKey returns the Redis key for a RegisteredPlayer
func registeredPlayerKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:registered_player:%s", keyPrefix, playerID)
}

// usernameIndexKey returns the Redis key for the username -> player_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// flightKey returns the Redis key for a Flight
func flightKey(id model.FlightID) string {
	return fmt.Sprintf("%s:flight:%s", keyPrefix, id)
}

// seatKey returns the Redis key for a Seat
func seatKey(flightID model.FlightID, seatID model.SeatID) string {
	return fmt.Sprintf("%s:seat:%s:%s", keyPrefix, flightID, seatID)
}

// seatsForFlightIndexKey returns the Redis key for the SET of seats in a flight
func seatsForFlightIndexKey(flightID model.FlightID) string {
	return fmt.Sprintf("%s:idx:seats_for_flight:%s", keyPrefix, flightID)
}

// validationKey returns the Redis key for a ValidationRecord
func validationKey(flightID model.FlightID, validator, target model.SeatID) string {
	return fmt.Sprintf("%s:validation:%s:%s:%s", keyPrefix, flightID, validator, target)
}

// validationsForFlightIndexKey returns the Redis key for the SET of
// validation records in a flight
func validationsForFlightIndexKey(flightID model.FlightID) string {
	return fmt.Sprintf("%s:idx:validations_for_flight:%s", keyPrefix, flightID)
}
