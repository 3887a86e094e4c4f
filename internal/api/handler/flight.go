package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/birdielog/birdielog/internal/api/middleware"
	"github.com/birdielog/birdielog/internal/api/request"
	"github.com/birdielog/birdielog/internal/api/response"
	"github.com/birdielog/birdielog/internal/model"
	"github.com/birdielog/birdielog/internal/services/flight"
)

// FlightHandler handles flight-related endpoints
type FlightHandler struct {
	controller flight.ControllerInterface
}

// NewFlightHandler creates a new flight handler
func NewFlightHandler(controller flight.ControllerInterface) *FlightHandler {
	return &FlightHandler{
		controller: controller,
	}
}

// flightResponse loads the seats and derived phase for a flight and
// builds the full response body
func (h *FlightHandler) flightResponse(r *http.Request, f *model.Flight) (response.Flight, error) {
	seats, err := h.controller.GetSeats(r.Context(), f.ID)
	if err != nil {
		return response.Flight{}, err
	}
	phase, err := h.controller.CurrentPhase(r.Context(), f.ID)
	if err != nil {
		return response.Flight{}, err
	}
	return response.FlightFromModel(f, seats, phase), nil
}

// Create handles POST /api/v1/flights
func (h *FlightHandler) Create(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.CreateFlightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Allow empty body
		req = request.CreateFlightRequest{}
	}

	f, _, err := h.controller.CreateFlight(r.Context(), *player, req.Name, req.CourseName)
	if err != nil {
		WriteError(w, err)
		return
	}

	resp, err := h.flightResponse(r, f)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, resp)
}

// Get handles GET /api/v1/flights/{code}
func (h *FlightHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := model.FlightID(mux.Vars(r)["code"])

	f, err := h.controller.GetFlight(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	resp, err := h.flightResponse(r, f)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, resp)
}

// Join handles POST /api/v1/flights/{code}/join
func (h *FlightHandler) Join(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.FlightID(mux.Vars(r)["code"])

	seat, err := h.controller.JoinFlight(r.Context(), code, *player)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SeatFromModel(seat))
}

// Leave handles POST /api/v1/flights/{code}/leave
func (h *FlightHandler) Leave(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())
	code := model.FlightID(mux.Vars(r)["code"])

	if err := h.controller.LeaveFlight(r.Context(), code, session.Identity()); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// AddGuestSeat handles POST /api/v1/flights/{code}/seats
func (h *FlightHandler) AddGuestSeat(w http.ResponseWriter, r *http.Request) {
	code := model.FlightID(mux.Vars(r)["code"])

	var req request.AddGuestSeatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.GuestName == "" {
		WriteError(w, NewInvalidRequestError("guest_name is required"))
		return
	}

	seat, err := h.controller.AddGuestSeat(r.Context(), code, req.GuestName)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.SeatFromModel(seat))
}

// RemoveSeat handles DELETE /api/v1/flights/{code}/seats/{seat_id}
func (h *FlightHandler) RemoveSeat(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())
	vars := mux.Vars(r)
	code := model.FlightID(vars["code"])
	seatID := model.SeatID(vars["seat_id"])

	if err := h.controller.RemoveSeat(r.Context(), code, seatID, session.Identity()); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Phase handles GET /api/v1/flights/{code}/phase
func (h *FlightHandler) Phase(w http.ResponseWriter, r *http.Request) {
	code := model.FlightID(mux.Vars(r)["code"])

	phase, err := h.controller.CurrentPhase(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Phase{Phase: string(phase)})
}

// Start handles POST /api/v1/flights/{code}/start
func (h *FlightHandler) Start(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())
	code := model.FlightID(mux.Vars(r)["code"])

	f, err := h.controller.BeginRound(r.Context(), code, session.Identity())
	if err != nil {
		WriteError(w, err)
		return
	}

	resp, err := h.flightResponse(r, f)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, resp)
}
