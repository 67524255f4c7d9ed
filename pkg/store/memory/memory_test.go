package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notedown/notedown/pkg/models"
)

func TestUserLifecycle(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	user := &models.User{Email: "a@x.com", Name: "Alice", PasswordHash: "hash"}
	require.NoError(t, s.CreateUser(ctx, user))
	assert.False(t, user.ID.IsZero(), "CreateUser assigns an id")
	assert.False(t, user.CreatedAt.IsZero())

	got, err := s.GetUser(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a@x.com", got.Email)

	byEmail, err := s.GetUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, user.ID, byEmail.ID)

	missing, err := s.GetUser(ctx, models.NewUserID())
	require.NoError(t, err)
	assert.Nil(t, missing, "unknown id returns nil, nil")

	missing, err = s.GetUserByEmail(ctx, "nobody@x.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestNoteLifecycle(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	owner := models.NewUserID()
	note := &models.Note{OwnerID: owner, Title: "T", Content: "C"}
	require.NoError(t, s.CreateNote(ctx, note))
	assert.False(t, note.ID.IsZero())

	got, err := s.GetNote(ctx, note.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "T", got.Title)

	got.Title = "T2"
	got.Content = "C2"
	require.NoError(t, s.UpdateNote(ctx, got))

	got, err = s.GetNote(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "T2", got.Title)
	assert.Equal(t, "C2", got.Content)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt) || got.UpdatedAt.Equal(got.CreatedAt))

	require.NoError(t, s.DeleteNote(ctx, note.ID))

	gone, err := s.GetNote(ctx, note.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	// Deleting an id that no longer exists is not an error.
	require.NoError(t, s.DeleteNote(ctx, note.ID))
}

func TestListNotesScopedToOwnerNewestFirst(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	alice := models.NewUserID()
	bob := models.NewUserID()

	base := time.Now()
	for i, title := range []string{"oldest", "middle", "newest"} {
		require.NoError(t, s.CreateNote(ctx, &models.Note{
			OwnerID:   alice,
			Title:     title,
			Content:   "body",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}
	require.NoError(t, s.CreateNote(ctx, &models.Note{OwnerID: bob, Title: "bob's", Content: "body"}))

	notes, err := s.ListNotes(ctx, alice)
	require.NoError(t, err)
	require.Len(t, notes, 3)
	assert.Equal(t, "newest", notes[0].Title)
	assert.Equal(t, "middle", notes[1].Title)
	assert.Equal(t, "oldest", notes[2].Title)

	notes, err = s.ListNotes(ctx, bob)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "bob's", notes[0].Title)

	notes, err = s.ListNotes(ctx, models.NewUserID())
	require.NoError(t, err)
	assert.Len(t, notes, 0)
}

func TestCopySemantics(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	note := &models.Note{OwnerID: models.NewUserID(), Title: "T", Content: "C"}
	require.NoError(t, s.CreateNote(ctx, note))

	// Mutating the caller's struct after the write must not affect the
	// stored copy.
	note.Title = "mutated"
	got, err := s.GetNote(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "T", got.Title)

	// Mutating a read result must not affect later reads.
	got.Title = "also mutated"
	again, err := s.GetNote(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "T", again.Title)
}
