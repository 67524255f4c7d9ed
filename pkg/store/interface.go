// Package store defines the persistence interface for the notedown service.
//
// Three implementations exist:
//   - postgres: PostgreSQL through GORM, the default backend
//   - surrealdb: SurrealDB through the official driver with the surrealcbor codec
//   - memory: map-backed store for tests and dependency-free local runs
//
// All implementations share the same not-found convention: lookups return
// (nil, nil) when the record does not exist rather than a sentinel error.
// Callers decide what "missing" means at their boundary (the HTTP layer
// turns it into a 404, the auth layer into invalid credentials).
package store

import (
	"context"

	"github.com/notedown/notedown/pkg/models"
)

// Store is the persistence interface the application is written against.
// Every method takes a context so the backend can honor request
// cancellation and timeouts; no store holds per-request state.
type Store interface {
	// User operations. Users are registration-only: no update or delete.
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id models.UserID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// Note operations. ListNotes returns the owner's notes ordered by
	// creation time descending. GetNote does not filter by owner; the
	// caller enforces ownership so a foreign note and a missing note are
	// indistinguishable in its response.
	CreateNote(ctx context.Context, note *models.Note) error
	GetNote(ctx context.Context, id models.NoteID) (*models.Note, error)
	UpdateNote(ctx context.Context, note *models.Note) error
	DeleteNote(ctx context.Context, id models.NoteID) error
	ListNotes(ctx context.Context, ownerID models.UserID) ([]*models.Note, error)

	// Migrate initializes the backend schema. Safe to run repeatedly.
	Migrate(ctx context.Context) error

	// Close releases the backend connection.
	Close() error
}
