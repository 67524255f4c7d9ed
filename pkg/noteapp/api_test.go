package noteapp_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notedown/notedown/pkg/client"
	"github.com/notedown/notedown/pkg/models"
	"github.com/notedown/notedown/pkg/noteapp"
	"github.com/notedown/notedown/pkg/store/memory"
)

const testSecret = "test-secret"

// newTestServer mounts the full routing table on an httptest server
// backed by the in-memory store and returns a client pointed at it.
func newTestServer(t *testing.T) *client.Client {
	t.Helper()

	app, err := noteapp.NewWithStore(&noteapp.Config{JWTSecret: testSecret}, memory.NewMemoryStore(), nil)
	require.NoError(t, err)

	srv := httptest.NewServer(app.Router())
	t.Cleanup(srv.Close)
	t.Cleanup(func() { _ = app.Close() })

	return client.NewClient(srv.URL)
}

func apiStatus(t *testing.T, err error) int {
	t.Helper()
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	return apiErr.StatusCode
}

func TestHealth(t *testing.T) {
	c := newTestServer(t)

	body, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Hello from the Notes API!", body)
}

func TestRegisterReturnsTokenAndPublicUser(t *testing.T) {
	c := newTestServer(t)
	ctx := context.Background()

	auth, err := c.Register(ctx, "a@x.com", "pw1", "Alice")
	require.NoError(t, err)

	assert.Equal(t, "User created successfully", auth.Message)
	assert.NotEmpty(t, auth.Token)
	assert.Equal(t, "a@x.com", auth.User.Email)
	assert.Equal(t, "Alice", auth.User.Name)
	assert.False(t, auth.User.ID.IsZero())

	// The token decodes to the registered user's id and email.
	claims := &noteapp.Claims{}
	_, err = jwt.ParseWithClaims(auth.Token, claims, func(t *jwt.Token) (any, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	assert.Equal(t, auth.User.ID, claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	c := newTestServer(t)
	ctx := context.Background()

	_, err := c.Register(ctx, "a@x.com", "pw1", "")
	require.NoError(t, err)

	_, err = c.Register(ctx, "a@x.com", "pw2", "")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "User already exists", apiErr.Message)
}

func TestRegisterMissingFields(t *testing.T) {
	c := newTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name            string
		email, password string
	}{
		{"missing email", "", "pw1"},
		{"missing password", "a@x.com", ""},
		{"missing both", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Register(ctx, tt.email, tt.password, "")
			require.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, apiStatus(t, err))
		})
	}
}

func TestLoginInvalidCredentialsAreIndistinguishable(t *testing.T) {
	c := newTestServer(t)
	ctx := context.Background()

	_, err := c.Register(ctx, "a@x.com", "pw1", "")
	require.NoError(t, err)

	// Wrong password for a real user vs. a user that never registered:
	// same status, same message.
	_, errWrongPw := c.Login(ctx, "a@x.com", "wrong")
	_, errNoUser := c.Login(ctx, "ghost@x.com", "pw1")

	var apiWrongPw, apiNoUser *client.APIError
	require.ErrorAs(t, errWrongPw, &apiWrongPw)
	require.ErrorAs(t, errNoUser, &apiNoUser)
	assert.Equal(t, http.StatusUnauthorized, apiWrongPw.StatusCode)
	assert.Equal(t, apiWrongPw.StatusCode, apiNoUser.StatusCode)
	assert.Equal(t, apiWrongPw.Message, apiNoUser.Message)
	assert.Equal(t, "Invalid credentials", apiWrongPw.Message)
}

func TestNotesRequireAuth(t *testing.T) {
	c := newTestServer(t)
	ctx := context.Background()

	// No token at all.
	_, err := c.ListNotes(ctx)
	assert.Equal(t, http.StatusUnauthorized, apiStatus(t, err))

	// Garbage token.
	c.SetToken("not-a-jwt")
	_, err = c.CreateNote(ctx, "T", "C")
	assert.Equal(t, http.StatusUnauthorized, apiStatus(t, err))
}

func TestExpiredTokenRejectedEverywhere(t *testing.T) {
	c := newTestServer(t)
	ctx := context.Background()

	auth, err := c.Register(ctx, "a@x.com", "pw1", "")
	require.NoError(t, err)

	// Forge a token for the same user that expired an hour ago.
	now := time.Now()
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &noteapp.Claims{
		UserID: auth.User.ID,
		Email:  auth.User.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now.Add(-25 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	c.SetToken(expired)

	_, err = c.ListNotes(ctx)
	assert.Equal(t, http.StatusUnauthorized, apiStatus(t, err))

	_, err = c.CreateNote(ctx, "T", "C")
	assert.Equal(t, http.StatusUnauthorized, apiStatus(t, err))

	_, err = c.UpdateNote(ctx, models.NewNoteID(), "T", "C")
	assert.Equal(t, http.StatusUnauthorized, apiStatus(t, err))

	err = c.DeleteNote(ctx, models.NewNoteID())
	assert.Equal(t, http.StatusUnauthorized, apiStatus(t, err))
}

func TestNoteValidation(t *testing.T) {
	c := newTestServer(t)
	ctx := context.Background()

	_, err := c.Register(ctx, "a@x.com", "pw1", "")
	require.NoError(t, err)

	_, err = c.CreateNote(ctx, "", "C")
	assert.Equal(t, http.StatusBadRequest, apiStatus(t, err))

	_, err = c.CreateNote(ctx, "T", "")
	assert.Equal(t, http.StatusBadRequest, apiStatus(t, err))

	note, err := c.CreateNote(ctx, "T", "C")
	require.NoError(t, err)

	_, err = c.UpdateNote(ctx, note.ID, "", "C2")
	assert.Equal(t, http.StatusBadRequest, apiStatus(t, err))
}

func TestNoteRoundTrip(t *testing.T) {
	c := newTestServer(t)
	ctx := context.Background()

	// The full scenario: register, login, wrong login, create, list,
	// update, list again, delete, list empty.
	_, err := c.Register(ctx, "a@x.com", "pw1", "")
	require.NoError(t, err)

	auth, err := c.Login(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "Login successful", auth.Message)

	_, err = c.Login(ctx, "a@x.com", "wrong")
	assert.Equal(t, http.StatusUnauthorized, apiStatus(t, err))

	note, err := c.CreateNote(ctx, "T", "C")
	require.NoError(t, err)
	assert.False(t, note.ID.IsZero())
	assert.False(t, note.CreatedAt.IsZero())

	notes, err := c.ListNotes(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "T", notes[0].Title)
	assert.Equal(t, "C", notes[0].Content)

	updated, err := c.UpdateNote(ctx, note.ID, "T2", "C2")
	require.NoError(t, err)
	assert.Equal(t, note.ID, updated.ID)
	assert.Equal(t, "T2", updated.Title)

	// Exactly one note, reflecting only the new values.
	notes, err = c.ListNotes(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, note.ID, notes[0].ID)
	assert.Equal(t, "T2", notes[0].Title)
	assert.Equal(t, "C2", notes[0].Content)

	require.NoError(t, c.DeleteNote(ctx, note.ID))

	notes, err = c.ListNotes(ctx)
	require.NoError(t, err)
	assert.NotNil(t, notes, "empty list must serialize as [], not null")
	assert.Len(t, notes, 0)
}

func TestListNotesNewestFirst(t *testing.T) {
	c := newTestServer(t)
	ctx := context.Background()

	_, err := c.Register(ctx, "a@x.com", "pw1", "")
	require.NoError(t, err)

	for _, title := range []string{"first", "second", "third"} {
		_, err := c.CreateNote(ctx, title, "body")
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	notes, err := c.ListNotes(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 3)
	assert.Equal(t, "third", notes[0].Title)
	assert.Equal(t, "second", notes[1].Title)
	assert.Equal(t, "first", notes[2].Title)
}

func TestOwnershipIsolation(t *testing.T) {
	c := newTestServer(t)
	ctx := context.Background()

	alice := c
	_, err := alice.Register(ctx, "alice@x.com", "pw1", "")
	require.NoError(t, err)

	aliceNote, err := alice.CreateNote(ctx, "private", "alice's")
	require.NoError(t, err)

	// Bob shares the server but not the notes.
	bob := client.NewClient(alice.BaseURL())
	_, err = bob.Register(ctx, "bob@x.com", "pw2", "")
	require.NoError(t, err)

	notes, err := bob.ListNotes(ctx)
	require.NoError(t, err)
	assert.Len(t, notes, 0, "alice's notes must not appear in bob's list")

	// Bob's update/delete on alice's note id looks exactly like a
	// nonexistent note.
	_, err = bob.UpdateNote(ctx, aliceNote.ID, "stolen", "rewritten")
	assert.Equal(t, http.StatusNotFound, apiStatus(t, err))

	err = bob.DeleteNote(ctx, aliceNote.ID)
	assert.Equal(t, http.StatusNotFound, apiStatus(t, err))

	var forNote, forMissing *client.APIError
	_, errNote := bob.UpdateNote(ctx, aliceNote.ID, "a", "b")
	_, errMissing := bob.UpdateNote(ctx, models.NewNoteID(), "a", "b")
	require.ErrorAs(t, errNote, &forNote)
	require.ErrorAs(t, errMissing, &forMissing)
	assert.Equal(t, forMissing.StatusCode, forNote.StatusCode)
	assert.Equal(t, forMissing.Message, forNote.Message)

	// Alice's note is untouched.
	notes, err = alice.ListNotes(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "private", notes[0].Title)
}

func TestDeleteIdempotence(t *testing.T) {
	c := newTestServer(t)
	ctx := context.Background()

	_, err := c.Register(ctx, "a@x.com", "pw1", "")
	require.NoError(t, err)

	note, err := c.CreateNote(ctx, "T", "C")
	require.NoError(t, err)

	require.NoError(t, c.DeleteNote(ctx, note.ID))

	// Second delete of the same id is a 404, never a silent success.
	err = c.DeleteNote(ctx, note.ID)
	assert.Equal(t, http.StatusNotFound, apiStatus(t, err))

	err = c.DeleteNote(ctx, note.ID)
	assert.Equal(t, http.StatusNotFound, apiStatus(t, err))
}
