package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/birdielog/birdielog/internal/api/handler"
	"github.com/birdielog/birdielog/internal/api/middleware"
	"github.com/birdielog/birdielog/internal/services/auth"
	"github.com/birdielog/birdielog/internal/services/flight"
	"github.com/birdielog/birdielog/internal/services/quorum"
	"github.com/birdielog/birdielog/internal/sse"
	"github.com/birdielog/birdielog/internal/storage"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger           *slog.Logger
	AuthService      *auth.Service
	FlightController flight.ControllerInterface
	QuorumEngine     *quorum.Engine
	Storage          storage.Storage
	HubManager       *sse.HubManager
	Broadcaster      *sse.Broadcaster
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.AuthService)
	flightHandler := handler.NewFlightHandler(cfg.FlightController)
	claimHandler := handler.NewClaimHandler(cfg.FlightController)
	validationHandler := handler.NewValidationHandler(cfg.FlightController, cfg.QuorumEngine, cfg.Storage)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Player routes (no auth required for creating players/logging in)
	api.HandleFunc("/players/guest", playerHandler.CreateGuest).Methods(http.MethodPost)
	api.HandleFunc("/players/register", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/players/login", playerHandler.Login).Methods(http.MethodPost)

	// Protected player routes
	playerProtected := api.PathPrefix("/players").Subrouter()
	playerProtected.Use(authMiddleware)
	playerProtected.HandleFunc("/me", playerHandler.GetMe).Methods(http.MethodGet)

	// Flight routes (all require auth)
	flights := api.PathPrefix("/flights").Subrouter()
	flights.Use(authMiddleware)
	flights.HandleFunc("", flightHandler.Create).Methods(http.MethodPost)
	flights.HandleFunc("/{code}", flightHandler.Get).Methods(http.MethodGet)
	flights.HandleFunc("/{code}/join", flightHandler.Join).Methods(http.MethodPost)
	flights.HandleFunc("/{code}/leave", flightHandler.Leave).Methods(http.MethodPost)
	flights.HandleFunc("/{code}/seats", flightHandler.AddGuestSeat).Methods(http.MethodPost)
	flights.HandleFunc("/{code}/seats/{seat_id}", flightHandler.RemoveSeat).Methods(http.MethodDelete)
	flights.HandleFunc("/{code}/phase", flightHandler.Phase).Methods(http.MethodGet)
	flights.HandleFunc("/{code}/start", flightHandler.Start).Methods(http.MethodPost)

	// Claim routes
	flights.HandleFunc("/{code}/seats/{seat_id}/claim", claimHandler.SetClaim).Methods(http.MethodPut)
	flights.HandleFunc("/{code}/seats/{seat_id}/claim/lock", claimHandler.Lock).Methods(http.MethodPost)
	flights.HandleFunc("/{code}/seats/{seat_id}/claim/unlock", claimHandler.Unlock).Methods(http.MethodPost)

	// Validation routes
	flights.HandleFunc("/{code}/seats/{seat_id}/validations", validationHandler.Submit).Methods(http.MethodPost)
	flights.HandleFunc("/{code}/seats/{seat_id}/summary", validationHandler.Summary).Methods(http.MethodGet)
	flights.HandleFunc("/{code}/validations", validationHandler.List).Methods(http.MethodGet)

	// Change feed (SSE)
	if cfg.HubManager != nil && cfg.Broadcaster != nil {
		eventsHandler := handler.NewEventsHandler(cfg.FlightController, cfg.HubManager, cfg.Broadcaster)
		flights.HandleFunc("/{code}/events", eventsHandler.Stream).Methods(http.MethodGet)
	}

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
