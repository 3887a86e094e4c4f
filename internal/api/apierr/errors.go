package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/birdielog/birdielog/internal/model"
	"github.com/birdielog/birdielog/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodePlayerNotFound      = "PLAYER_NOT_FOUND"
	CodeFlightNotFound      = "FLIGHT_NOT_FOUND"
	CodeFlightFull          = "FLIGHT_FULL"
	CodeAlreadyInFlight     = "ALREADY_IN_FLIGHT"
	CodeNotInFlight         = "NOT_IN_FLIGHT"
	CodeGuestNameTaken      = "GUEST_NAME_TAKEN"
	CodeSeatNotFound        = "SEAT_NOT_FOUND"
	CodeSeatNotRemovable    = "SEAT_NOT_REMOVABLE"
	CodeNotSeatOwner        = "NOT_SEAT_OWNER"
	CodeInvalidClaim        = "INVALID_CLAIM"
	CodeClaimOutOfRange     = "CLAIM_OUT_OF_RANGE"
	CodeClaimValueRequired  = "CLAIM_VALUE_REQUIRED"
	CodeClaimLocked         = "CLAIM_LOCKED"
	CodeClaimNotLocked      = "CLAIM_NOT_LOCKED"
	CodeWriteInFlight       = "WRITE_IN_FLIGHT"
	CodeValidationNotFound  = "VALIDATION_NOT_FOUND"
	CodeSelfValidation      = "SELF_VALIDATION"
	CodeNothingToValidate   = "NOTHING_TO_VALIDATE"
	CodeRoundNotReady       = "ROUND_NOT_READY"
	CodeRoundAlreadyStarted = "ROUND_ALREADY_STARTED"
	CodeUsernameExists      = "USERNAME_EXISTS"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrFlightNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeFlightNotFound, "Flight not found"}}
	case errors.Is(err, model.ErrFlightFull):
		return &httpError{http.StatusConflict, APIError{CodeFlightFull, "Flight is full"}}
	case errors.Is(err, model.ErrAlreadyInFlight):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyInFlight, "Already in this flight"}}
	case errors.Is(err, model.ErrNotInFlight):
		return &httpError{http.StatusNotFound, APIError{CodeNotInFlight, "Not in this flight"}}
	case errors.Is(err, model.ErrGuestNameTaken):
		return &httpError{http.StatusConflict, APIError{CodeGuestNameTaken, "A seat with this guest name already exists"}}
	case errors.Is(err, model.ErrSeatNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSeatNotFound, "Seat not found"}}
	case errors.Is(err, model.ErrSeatNotRemovable):
		return &httpError{http.StatusForbidden, APIError{CodeSeatNotRemovable, "Seat cannot be removed"}}
	case errors.Is(err, model.ErrNotSeatOwner):
		return &httpError{http.StatusForbidden, APIError{CodeNotSeatOwner, "Seat belongs to someone else"}}
	case errors.Is(err, model.ErrInvalidClaimText):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidClaim, "Handicap must be a number with at most one decimal place"}}
	case errors.Is(err, model.ErrClaimOutOfRange):
		return &httpError{http.StatusBadRequest, APIError{CodeClaimOutOfRange, "Handicap must be between 0.0 and 54.0"}}
	case errors.Is(err, model.ErrClaimValueRequired):
		return &httpError{http.StatusConflict, APIError{CodeClaimValueRequired, "Cannot lock an empty handicap"}}
	case errors.Is(err, model.ErrClaimLocked):
		return &httpError{http.StatusConflict, APIError{CodeClaimLocked, "Claim is locked; unlock before editing"}}
	case errors.Is(err, model.ErrClaimNotLocked):
		return &httpError{http.StatusConflict, APIError{CodeClaimNotLocked, "Claim is not locked"}}
	case errors.Is(err, model.ErrWriteInFlight):
		return &httpError{http.StatusConflict, APIError{CodeWriteInFlight, "A write for this seat is already in flight"}}
	case errors.Is(err, model.ErrValidationNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeValidationNotFound, "Validation record not found"}}
	case errors.Is(err, model.ErrSelfValidation):
		return &httpError{http.StatusForbidden, APIError{CodeSelfValidation, "Cannot validate your own claim"}}
	case errors.Is(err, model.ErrNothingToValidate):
		return &httpError{http.StatusConflict, APIError{CodeNothingToValidate, "Target claim has no value to validate"}}
	case errors.Is(err, model.ErrRoundNotReady):
		return &httpError{http.StatusConflict, APIError{CodeRoundNotReady, "Flight is not ready to start"}}
	case errors.Is(err, model.ErrRoundAlreadyStarted):
		return &httpError{http.StatusConflict, APIError{CodeRoundAlreadyStarted, "Round has already started"}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid username or password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}
	case errors.Is(err, auth.ErrUsernameExists):
		return &httpError{http.StatusConflict, APIError{CodeUsernameExists, "Username already exists"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
