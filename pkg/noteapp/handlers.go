package noteapp

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/notedown/notedown/pkg/models"
)

// NoteRequest is the body of POST /notes and PUT /notes/{id}. Both fields
// are required; a note never exists without a title and content.
type NoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// handleListNotes returns all of the caller's notes, newest first. The
// store orders by creation time descending, so the handler returns the
// slice as-is. An owner with no notes gets an empty array, not null.
func (a *App) handleListNotes(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	notes, err := a.store.ListNotes(r.Context(), identity.UserID)
	if err != nil {
		a.logger.Error().Err(err).Msg("list notes failed")
		respondError(w, http.StatusInternalServerError, "Failed to fetch notes")
		return
	}
	if notes == nil {
		notes = []*models.Note{}
	}

	respondJSON(w, http.StatusOK, notes)
}

// handleCreateNote persists a new note owned by the caller.
func (a *App) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Title and content are required.")
		return
	}
	if req.Title == "" || req.Content == "" {
		respondError(w, http.StatusBadRequest, "Title and content are required.")
		return
	}

	note := &models.Note{
		OwnerID: identity.UserID,
		Title:   req.Title,
		Content: req.Content,
	}
	if err := a.store.CreateNote(r.Context(), note); err != nil {
		a.logger.Error().Err(err).Msg("create note failed")
		respondError(w, http.StatusInternalServerError, "Failed to create note")
		return
	}

	respondJSON(w, http.StatusCreated, note)
}

// handleUpdateNote replaces the title and content of one of the caller's
// notes and refreshes its last-modified timestamp.
//
// A note that does not exist, a note owned by someone else, and a
// syntactically invalid id all produce the identical 404, so the response
// never reveals whether a foreign note id exists.
func (a *App) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Title and content are required.")
		return
	}
	if req.Title == "" || req.Content == "" {
		respondError(w, http.StatusBadRequest, "Title and content are required.")
		return
	}

	id, err := models.ParseNoteID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusNotFound, "Note not found")
		return
	}

	ctx := r.Context()
	note, err := a.store.GetNote(ctx, id)
	if err != nil {
		a.logger.Error().Err(err).Msg("update note: lookup failed")
		respondError(w, http.StatusInternalServerError, "Failed to update note")
		return
	}
	if note == nil || note.OwnerID != identity.UserID {
		respondError(w, http.StatusNotFound, "Note not found")
		return
	}

	note.Title = req.Title
	note.Content = req.Content
	if err := a.store.UpdateNote(ctx, note); err != nil {
		a.logger.Error().Err(err).Msg("update note failed")
		respondError(w, http.StatusInternalServerError, "Failed to update note")
		return
	}

	respondJSON(w, http.StatusOK, note)
}

// handleDeleteNote permanently removes one of the caller's notes, under
// the same ownership rule as update. Deleting an already-deleted id is a
// 404 every time, never a silent success.
func (a *App) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := models.ParseNoteID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusNotFound, "Note not found")
		return
	}

	ctx := r.Context()
	note, err := a.store.GetNote(ctx, id)
	if err != nil {
		a.logger.Error().Err(err).Msg("delete note: lookup failed")
		respondError(w, http.StatusInternalServerError, "Failed to delete note")
		return
	}
	if note == nil || note.OwnerID != identity.UserID {
		respondError(w, http.StatusNotFound, "Note not found")
		return
	}

	if err := a.store.DeleteNote(ctx, id); err != nil {
		a.logger.Error().Err(err).Msg("delete note failed")
		respondError(w, http.StatusInternalServerError, "Failed to delete note")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Note deleted successfully"})
}

// handleHealth answers the unauthenticated root probe with plaintext.
func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Hello from the Notes API!"))
}

// respondJSON sends payload as JSON with the given status code.
func respondJSON(w http.ResponseWriter, status int, payload any) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_, _ = w.Write(response)
	}
}

// respondError sends a structured error body: {"error": message}.
// Internal failure detail never reaches the client; callers log it and
// pass a generic message here.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
