package handler

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/birdielog/birdielog/internal/api/middleware"
	"github.com/birdielog/birdielog/internal/model"
	"github.com/birdielog/birdielog/internal/services/flight"
	"github.com/birdielog/birdielog/internal/sse"
)

// EventsHandler streams flight change events to clients over SSE
type EventsHandler struct {
	controller  flight.ControllerInterface
	hubManager  *sse.HubManager
	broadcaster *sse.Broadcaster
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(controller flight.ControllerInterface, hubManager *sse.HubManager, broadcaster *sse.Broadcaster) *EventsHandler {
	return &EventsHandler{
		controller:  controller,
		hubManager:  hubManager,
		broadcaster: broadcaster,
	}
}

// Stream handles GET /api/v1/flights/{code}/events
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.FlightID(mux.Vars(r)["code"])

	if _, err := h.controller.GetFlight(r.Context(), code); err != nil {
		WriteError(w, err)
		return
	}

	// The stream outlives this request; don't tie the subscription to
	// the request context
	if err := h.broadcaster.EnsureStream(context.Background(), code); err != nil {
		WriteError(w, err)
		return
	}

	hub := h.hubManager.GetOrCreateHub(code)
	sse.ServeSSE(w, r, hub, player.ID)
}
