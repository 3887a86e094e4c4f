package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/birdielog/birdielog/internal/dependencies/clock"
	"github.com/birdielog/birdielog/internal/dependencies/random"
	"github.com/birdielog/birdielog/internal/propagator"
	memorypropagator "github.com/birdielog/birdielog/internal/propagator/memory"
	redispropagator "github.com/birdielog/birdielog/internal/propagator/redis"
	"github.com/birdielog/birdielog/internal/services/auth"
	"github.com/birdielog/birdielog/internal/services/flight"
	"github.com/birdielog/birdielog/internal/services/quorum"
	"github.com/birdielog/birdielog/internal/sse"
	"github.com/birdielog/birdielog/internal/storage"
	"github.com/birdielog/birdielog/internal/storage/memory"
	redisstorage "github.com/birdielog/birdielog/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage and change feed
	Storage    storage.Storage
	Propagator propagator.Propagator

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	QuorumEngine     *quorum.Engine
	FlightController *flight.Controller
	AuthService      *auth.Service
	HubManager       *sse.HubManager
	Broadcaster      *sse.Broadcaster
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage and propagator backends
	// ("memory" or "redis"). If empty, defaults to "memory".
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired. With the
// redis backend the change feed rides Redis pub/sub, so multiple server
// instances see each other's writes.
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	var store storage.Storage
	var prop propagator.Propagator

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
		prop = memorypropagator.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore

		propCfg := redispropagator.DefaultConfig()
		propCfg.URL = cfg.RedisConfig.URL
		redisProp, err := redispropagator.New(propCfg, logger)
		if err != nil {
			return nil, err
		}
		prop = redisProp
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Use default auth config if not provided
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	return newWithDependencies(store, prop, clk, rnd, authCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, prop propagator.Propagator, clk clock.Clock, rnd random.Random, authCfg auth.Config, logger *slog.Logger) *App {
	quorumEngine := quorum.New(store, clk, logger)
	flightController := flight.NewController(store, prop, quorumEngine, clk, rnd, logger)
	authService := auth.New(store, clk, authCfg)
	hubManager := sse.NewHubManager(logger)
	broadcaster := sse.NewBroadcaster(hubManager, prop, logger)

	return &App{
		Storage:          store,
		Propagator:       prop,
		Clock:            clk,
		Random:           rnd,
		QuorumEngine:     quorumEngine,
		FlightController: flightController,
		AuthService:      authService,
		HubManager:       hubManager,
		Broadcaster:      broadcaster,
	}
}
