// Package surrealdb provides the SurrealDB implementation of the
// [github.com/notedown/notedown/pkg/store.Store] interface using the
// official driver with native SurrealQL.
//
// # CBOR marshaling
//
// The connection is configured with the surrealcbor codec rather than the
// driver default. SurrealDB speaks CBOR internally, and the custom codec is
// what makes time.Time values round-trip as native datetimes and lets the
// typed IDs in [github.com/notedown/notedown/pkg/models] marshal directly
// to RecordIDs (CBOR tag 8). Without it, note timestamps come back
// malformed and ID fields need fragile string concatenation.
//
// # Query safety
//
// Every query that carries a user-provided value uses the $param syntax.
// Typed IDs marshal to RecordID references, so structs pass to the driver
// directly; fmt.Sprintf never builds a query here.
//
// # Schema
//
// SurrealDB creates tables implicitly on first insert, so Migrate only
// asserts a unique index on user email, the one constraint the service
// relies on the database for.
package surrealdb

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/connection"
	"github.com/surrealdb/surrealdb.go/pkg/connection/gorillaws"
	"github.com/surrealdb/surrealdb.go/surrealcbor"

	"github.com/notedown/notedown/pkg/models"
	"github.com/notedown/notedown/pkg/store"
)

// SurrealStore implements the Store interface using SurrealDB over
// WebSocket with the surrealcbor codec.
type SurrealStore struct {
	db *surrealdb.DB
}

// NewSurrealStore connects to SurrealDB at wsURL, authenticates when
// credentials are provided, and selects the namespace and database.
func NewSurrealStore(wsURL, namespace, database, username, password string) (store.Store, error) {
	ctx := context.Background()

	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	conf := connection.NewConfig(u)

	// The custom codec is required for time.Time and RecordID handling;
	// the default marshaler produces datetimes SurrealDB rejects.
	codec := surrealcbor.New()
	conf.Marshaler = codec
	conf.Unmarshaler = codec

	conn := gorillaws.New(conf)

	db, err := surrealdb.FromConnection(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
	}

	if username != "" && password != "" {
		if _, err := db.SignIn(ctx, map[string]any{
			"user": username,
			"pass": password,
		}); err != nil {
			return nil, fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	if err := db.Use(ctx, namespace, database); err != nil {
		return nil, fmt.Errorf("failed to use namespace/database: %w", err)
	}

	return &SurrealStore{db: db}, nil
}

// Migrate asserts the unique email index. Tables themselves are created
// implicitly on first insert.
func (s *SurrealStore) Migrate(ctx context.Context) error {
	query := "DEFINE INDEX IF NOT EXISTS unique_email ON TABLE users COLUMNS email UNIQUE"
	if _, err := surrealdb.Query[any](ctx, s.db, query, nil); err != nil {
		return fmt.Errorf("failed to define email index: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SurrealStore) Close() error {
	return s.db.Close(context.Background())
}

// handleNotFound maps the driver's empty-result errors onto the store's
// (nil, nil) not-found convention.
func handleNotFound(err error) error {
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "Expected a single or multiple results but got 0") ||
			strings.Contains(errStr, "cannot unmarshal array into Go value") {
			return nil
		}
	}
	return err
}

// User operations

func (s *SurrealStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = models.NewUserID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = time.Now()
	}

	// The struct marshals directly; UserID handles RecordID conversion.
	_, err := surrealdb.Create[models.User](ctx, s.db, "users", user)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *SurrealStore) GetUser(ctx context.Context, id models.UserID) (*models.User, error) {
	user, err := surrealdb.Select[models.User](ctx, s.db, id.RecordID())
	if err != nil {
		if handleNotFound(err) == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *SurrealStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := "SELECT * FROM users WHERE email = $email"
	params := map[string]any{
		"email": email,
	}
	result, err := surrealdb.Query[[]models.User](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	if result != nil && len(*result) > 0 && len((*result)[0].Result) > 0 {
		return &(*result)[0].Result[0], nil
	}
	return nil, nil
}

// Note operations

func (s *SurrealStore) CreateNote(ctx context.Context, note *models.Note) error {
	if note.ID.IsZero() {
		note.ID = models.NewNoteID()
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now()
	}
	if note.UpdatedAt.IsZero() {
		note.UpdatedAt = time.Now()
	}

	_, err := surrealdb.Create[models.Note](ctx, s.db, "notes", note)
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	return nil
}

func (s *SurrealStore) GetNote(ctx context.Context, id models.NoteID) (*models.Note, error) {
	note, err := surrealdb.Select[models.Note](ctx, s.db, id.RecordID())
	if err != nil {
		if handleNotFound(err) == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	return note, nil
}

func (s *SurrealStore) UpdateNote(ctx context.Context, note *models.Note) error {
	note.UpdatedAt = time.Now()
	_, err := surrealdb.Update[models.Note](ctx, s.db, note.ID.RecordID(), note)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	return nil
}

func (s *SurrealStore) DeleteNote(ctx context.Context, id models.NoteID) error {
	_, err := surrealdb.Delete[models.Note](ctx, s.db, id.RecordID())
	return err
}

func (s *SurrealStore) ListNotes(ctx context.Context, ownerID models.UserID) ([]*models.Note, error) {
	query := "SELECT * FROM notes WHERE owner_id = $owner ORDER BY created_at DESC"
	params := map[string]any{
		"owner": ownerID.RecordID(),
	}
	result, err := surrealdb.Query[[]*models.Note](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	var notes []*models.Note
	if result != nil && len(*result) > 0 {
		notes = (*result)[0].Result
	}
	return notes, nil
}
