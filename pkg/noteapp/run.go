package noteapp

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// shutdownTimeout bounds how long in-flight requests may run after the
// process receives a shutdown signal.
const shutdownTimeout = 5 * time.Second

// Router builds the HTTP routing table:
//
//	POST /register          - create an account, returns token + user
//	POST /login             - authenticate, returns token + user
//	GET  /notes             - list the caller's notes, newest first
//	POST /notes             - create a note
//	PUT  /notes/{id}        - replace a note's title and content
//	DELETE /notes/{id}      - remove a note
//	GET  /                  - plaintext health probe
//
// The /notes tree sits behind the auth middleware; everything else is
// public. Exposed so tests can mount the full routing table on an
// httptest server.
func (a *App) Router() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/register", a.handleRegister).Methods("POST")
	router.HandleFunc("/login", a.handleLogin).Methods("POST")

	notes := router.PathPrefix("/notes").Subrouter()
	notes.Use(a.requireAuth)
	notes.HandleFunc("", a.handleListNotes).Methods("GET")
	notes.HandleFunc("", a.handleCreateNote).Methods("POST")
	notes.HandleFunc("/{id}", a.handleUpdateNote).Methods("PUT")
	notes.HandleFunc("/{id}", a.handleDeleteNote).Methods("DELETE")

	router.HandleFunc("/", a.handleHealth).Methods("GET")

	return router
}

// Run starts the HTTP server and blocks until the context is cancelled or
// the server fails. On cancellation it shuts down gracefully, letting
// in-flight requests finish within shutdownTimeout; the store connection
// is released by App.Close in the caller.
func (a *App) Run(ctx context.Context, cmd *RunCommand) error {
	addr := fmt.Sprintf(":%s", a.config.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: a.Router(),
	}

	a.logger.Info().Str("addr", addr).Msg("starting notes API server")

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}

// Migrate initializes the active backend's schema.
func (a *App) Migrate(ctx context.Context, cmd *MigrateCommand) error {
	if err := a.store.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	a.logger.Info().Msg("schema migration complete")
	return nil
}
