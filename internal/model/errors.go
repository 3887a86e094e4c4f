package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Flight errors
	ErrFlightNotFound   = errors.New("flight not found")
	ErrFlightFull       = errors.New("flight is full")
	ErrAlreadyInFlight  = errors.New("player already holds a seat in this flight")
	ErrNotInFlight      = errors.New("player does not hold a seat in this flight")
	ErrGuestNameTaken   = errors.New("guest name already taken in this flight")
	ErrSeatNotFound     = errors.New("seat not found")
	ErrSeatNotRemovable = errors.New("the creator's seat can only be removed by the creator")
	ErrNotSeatOwner     = errors.New("caller does not own this seat")

	// Claim errors
	ErrInvalidClaimText   = errors.New("claim text is malformed")
	ErrClaimOutOfRange    = errors.New("claim value outside 0.0-54.0")
	ErrClaimValueRequired = errors.New("claim has no value to lock")
	ErrClaimLocked        = errors.New("claim is locked")
	ErrClaimNotLocked     = errors.New("claim is not locked")
	ErrWriteInFlight      = errors.New("a lock or unlock write is already in flight for this seat")

	// Validation errors
	ErrValidationNotFound = errors.New("validation record not found")
	ErrSelfValidation     = errors.New("a seat cannot validate its own claim")
	ErrNothingToValidate  = errors.New("target claim has no value to validate")

	// Phase errors
	ErrRoundNotReady       = errors.New("flight is not ready to start a round")
	ErrRoundAlreadyStarted = errors.New("round already started")
)
