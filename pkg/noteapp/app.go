package noteapp

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/notedown/notedown/pkg/store"
	"github.com/notedown/notedown/pkg/store/memory"
	"github.com/notedown/notedown/pkg/store/postgres"
	"github.com/notedown/notedown/pkg/store/surrealdb"
)

// Config holds application configuration. Values come from flags and the
// environment; see Parse. The signing secret has no default and must be
// provided.
type Config struct {
	// Server configuration
	Port string

	// Token signing secret (JWT_SECRET). Required.
	JWTSecret string

	// Backend selection. Postgres is the default; exactly one is active.
	UseMemory  bool
	UseSurreal bool

	// Database configuration
	PostgresDSN   string
	SurrealDBURL  string
	SurrealDBNS   string
	SurrealDBDB   string
	SurrealDBUser string
	SurrealDBPass string
}

// App holds the application state: the active store, configuration, and
// the process logger. Handlers hang off App; it carries no per-request
// state, so a single instance serves all requests.
type App struct {
	store  store.Store
	config *Config
	logger zerolog.Logger
}

// New creates an application instance, connecting to the configured
// backend. Logs go to w (stderr in the binary, a test buffer in tests).
func New(config *Config, w io.Writer) (*App, error) {
	if config.JWTSecret == "" {
		return nil, fmt.Errorf("signing secret is required (set JWT_SECRET)")
	}
	if w == nil {
		w = os.Stderr
	}
	logger := zerolog.New(w).With().Timestamp().Logger()

	var appStore store.Store
	var err error

	switch {
	case config.UseMemory:
		appStore = memory.NewMemoryStore()
		logger.Info().Msg("using in-memory store")
	case config.UseSurreal:
		appStore, err = surrealdb.NewSurrealStore(
			config.SurrealDBURL,
			config.SurrealDBNS,
			config.SurrealDBDB,
			config.SurrealDBUser,
			config.SurrealDBPass,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
		}
		logger.Info().Str("url", config.SurrealDBURL).Msg("connected to SurrealDB")
	default:
		appStore, err = postgres.NewPostgresStore(config.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		logger.Info().Msg("connected to PostgreSQL")
	}

	return &App{
		store:  appStore,
		config: config,
		logger: logger,
	}, nil
}

// NewWithStore creates an application instance around an existing store.
// Used by tests to wire the in-memory store directly.
func NewWithStore(config *Config, s store.Store, w io.Writer) (*App, error) {
	if config.JWTSecret == "" {
		return nil, fmt.Errorf("signing secret is required (set JWT_SECRET)")
	}
	if w == nil {
		w = io.Discard
	}
	return &App{
		store:  s,
		config: config,
		logger: zerolog.New(w).With().Timestamp().Logger(),
	}, nil
}

// Close releases the store connection.
func (a *App) Close() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

// Store returns the underlying store (useful for testing)
func (a *App) Store() store.Store {
	return a.store
}

// getEnv retrieves an environment variable with a fallback default.
// Empty values are treated the same as unset ones, which matches how
// container environments tend to leave variables blank.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
