package request

// CreateGuestRequest is the request body for creating a guest player
type CreateGuestRequest struct {
	DisplayName string `json:"display_name"`
}

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateFlightRequest is the request body for creating a flight
type CreateFlightRequest struct {
	Name       string `json:"name,omitempty"`
	CourseName string `json:"course_name,omitempty"`
}

// AddGuestSeatRequest is the request body for adding a guest seat
type AddGuestSeatRequest struct {
	GuestName string `json:"guest_name"`
}

// SetClaimRequest is the request body for setting a seat's handicap claim.
// Value is the raw text as typed; an empty string clears the claim.
type SetClaimRequest struct {
	Value string `json:"value"`
}

// LockClaimRequest is the request body for locking a claim. Value is
// optional; when present it is committed atomically with the lock.
type LockClaimRequest struct {
	Value string `json:"value,omitempty"`
}

// SubmitValidationRequest is the request body for approving or
// questioning a peer's locked claim
type SubmitValidationRequest struct {
	ValidatorSeatID string `json:"validator_seat_id"`
	Status          string `json:"status"`
	Note            string `json:"note,omitempty"`
}
