// Package memory provides a map-backed implementation of the
// [github.com/notedown/notedown/pkg/store.Store] interface.
//
// It exists for tests and dependency-free local runs; nothing survives a
// process restart. The implementation copies entities on the way in and
// out so callers can't mutate stored state through shared pointers.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/notedown/notedown/pkg/models"
	"github.com/notedown/notedown/pkg/store"
)

// MemoryStore implements the Store interface with in-process maps.
// Safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[models.UserID]*models.User
	notes map[models.NoteID]*models.Note
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() store.Store {
	return &MemoryStore{
		users: make(map[models.UserID]*models.User),
		notes: make(map[models.NoteID]*models.Note),
	}
}

// Migrate is a no-op; there is no schema.
func (s *MemoryStore) Migrate(ctx context.Context) error { return nil }

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

// User operations

func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID.IsZero() {
		user.ID = models.NewUserID()
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}

	stored := *user
	s.users[user.ID] = &stored
	return nil
}

func (s *MemoryStore) GetUser(ctx context.Context, id models.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	out := *user
	return &out, nil
}

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Email == email {
			out := *user
			return &out, nil
		}
	}
	return nil, nil
}

// Note operations

func (s *MemoryStore) CreateNote(ctx context.Context, note *models.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if note.ID.IsZero() {
		note.ID = models.NewNoteID()
	}
	now := time.Now()
	if note.CreatedAt.IsZero() {
		note.CreatedAt = now
	}
	if note.UpdatedAt.IsZero() {
		note.UpdatedAt = now
	}

	stored := *note
	s.notes[note.ID] = &stored
	return nil
}

func (s *MemoryStore) GetNote(ctx context.Context, id models.NoteID) (*models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	note, ok := s.notes[id]
	if !ok {
		return nil, nil
	}
	out := *note
	return &out, nil
}

func (s *MemoryStore) UpdateNote(ctx context.Context, note *models.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	note.UpdatedAt = time.Now()
	stored := *note
	s.notes[note.ID] = &stored
	return nil
}

func (s *MemoryStore) DeleteNote(ctx context.Context, id models.NoteID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.notes, id)
	return nil
}

func (s *MemoryStore) ListNotes(ctx context.Context, ownerID models.UserID) ([]*models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var notes []*models.Note
	for _, note := range s.notes {
		if note.OwnerID == ownerID {
			out := *note
			notes = append(notes, &out)
		}
	}
	// Newest first, matching the persistent backends.
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})
	return notes, nil
}
