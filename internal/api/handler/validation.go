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
	"github.com/birdielog/birdielog/internal/services/quorum"
	"github.com/birdielog/birdielog/internal/storage"
)

// ValidationHandler handles peer validation endpoints
type ValidationHandler struct {
	controller flight.ControllerInterface
	quorum     *quorum.Engine
	storage    storage.Storage
}

// NewValidationHandler creates a new validation handler
func NewValidationHandler(controller flight.ControllerInterface, engine *quorum.Engine, store storage.Storage) *ValidationHandler {
	return &ValidationHandler{
		controller: controller,
		quorum:     engine,
		storage:    store,
	}
}

// Submit handles POST /api/v1/flights/{code}/seats/{seat_id}/validations
func (h *ValidationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())
	vars := mux.Vars(r)
	code := model.FlightID(vars["code"])
	target := model.SeatID(vars["seat_id"])

	var req request.SubmitValidationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.ValidatorSeatID == "" {
		WriteError(w, NewInvalidRequestError("validator_seat_id is required"))
		return
	}

	status := model.ValidationStatus(req.Status)
	if status != model.ValidationApproved && status != model.ValidationQuestioned {
		WriteError(w, NewInvalidRequestError("status must be approved or questioned"))
		return
	}

	record, err := h.controller.SubmitValidation(r.Context(), code,
		model.SeatID(req.ValidatorSeatID), target, status, req.Note, session.Identity())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ValidationFromModel(record))
}

// List handles GET /api/v1/flights/{code}/validations
func (h *ValidationHandler) List(w http.ResponseWriter, r *http.Request) {
	code := model.FlightID(mux.Vars(r)["code"])

	if _, err := h.controller.GetFlight(r.Context(), code); err != nil {
		WriteError(w, err)
		return
	}

	records, err := h.storage.GetValidationsForFlight(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := make([]response.Validation, len(records))
	for i, rec := range records {
		resp[i] = response.ValidationFromModel(rec)
	}
	response.JSON(w, http.StatusOK, resp)
}

// Summary handles GET /api/v1/flights/{code}/seats/{seat_id}/summary
func (h *ValidationHandler) Summary(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	code := model.FlightID(vars["code"])
	target := model.SeatID(vars["seat_id"])

	summary, err := h.quorum.SummaryFor(r.Context(), code, target)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SummaryFromModel(target, summary))
}
