package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/birdielog/birdielog/internal/api/middleware"
	"github.com/birdielog/birdielog/internal/api/request"
	"github.com/birdielog/birdielog/internal/api/response"
	"github.com/birdielog/birdielog/internal/model"
	"github.com/birdielog/birdielog/internal/services/flight"
)

// ClaimHandler handles handicap claim endpoints
type ClaimHandler struct {
	controller flight.ControllerInterface
}

// NewClaimHandler creates a new claim handler
func NewClaimHandler(controller flight.ControllerInterface) *ClaimHandler {
	return &ClaimHandler{
		controller: controller,
	}
}

// parseClaimValue converts raw request text to a claim value. Empty text
// means "no value" and returns nil.
func parseClaimValue(raw string) (*model.ClaimValue, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	v, err := model.ParseClaimText(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// SetClaim handles PUT /api/v1/flights/{code}/seats/{seat_id}/claim
func (h *ClaimHandler) SetClaim(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())
	vars := mux.Vars(r)
	code := model.FlightID(vars["code"])
	seatID := model.SeatID(vars["seat_id"])

	var req request.SetClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	value, err := parseClaimValue(req.Value)
	if err != nil {
		WriteError(w, err)
		return
	}

	seat, err := h.controller.SetClaimValue(r.Context(), code, seatID, value, session.Identity())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SeatFromModel(seat))
}

// Lock handles POST /api/v1/flights/{code}/seats/{seat_id}/claim/lock
func (h *ClaimHandler) Lock(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())
	vars := mux.Vars(r)
	code := model.FlightID(vars["code"])
	seatID := model.SeatID(vars["seat_id"])

	var req request.LockClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Value is optional; allow empty body
		req = request.LockClaimRequest{}
	}

	value, err := parseClaimValue(req.Value)
	if err != nil {
		WriteError(w, err)
		return
	}

	seat, err := h.controller.LockClaim(r.Context(), code, seatID, value, session.Identity())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SeatFromModel(seat))
}

// Unlock handles POST /api/v1/flights/{code}/seats/{seat_id}/claim/unlock
func (h *ClaimHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())
	vars := mux.Vars(r)
	code := model.FlightID(vars["code"])
	seatID := model.SeatID(vars["seat_id"])

	seat, err := h.controller.UnlockClaim(r.Context(), code, seatID, session.Identity())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SeatFromModel(seat))
}
