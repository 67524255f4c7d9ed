package noteapp

import (
	"encoding/json"
	"net/http"

	"github.com/notedown/notedown/pkg/models"
)

// RegisterRequest is the body of POST /register. Name is optional.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by both /register and /login: a signed bearer
// token plus the public view of the user it identifies.
type AuthResponse struct {
	Message string            `json:"message"`
	Token   string            `json:"token"`
	User    models.PublicUser `json:"user"`
}

// handleRegister creates a user account and signs the caller in.
//
// Failure modes, in order of checking: malformed JSON or a missing email
// or password is a 400 validation error; an already-registered email is a
// 400 conflict. The duplicate check is an exact, case-sensitive email
// match. Password hashing happens after those checks so a conflicting
// request never pays the bcrypt cost.
func (a *App) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	ctx := r.Context()

	existing, err := a.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		a.logger.Error().Err(err).Msg("register: user lookup failed")
		respondError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}
	if existing != nil {
		respondError(w, http.StatusBadRequest, "User already exists")
		return
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		a.logger.Error().Err(err).Msg("register: password hashing failed")
		respondError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	user := &models.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
	}
	if err := a.store.CreateUser(ctx, user); err != nil {
		a.logger.Error().Err(err).Msg("register: user creation failed")
		respondError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	token, err := a.signToken(user)
	if err != nil {
		a.logger.Error().Err(err).Msg("register: token signing failed")
		respondError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	a.logger.Info().Str("user_id", user.ID.String()).Msg("user registered")
	respondJSON(w, http.StatusCreated, AuthResponse{
		Message: "User created successfully",
		Token:   token,
		User:    user.Public(),
	})
}

// handleLogin authenticates an existing user.
//
// An unknown email and a wrong password produce the identical 401
// response so the endpoint cannot be used to probe which emails are
// registered.
func (a *App) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	ctx := r.Context()

	user, err := a.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		a.logger.Error().Err(err).Msg("login: user lookup failed")
		respondError(w, http.StatusInternalServerError, "Failed to login")
		return
	}
	if user == nil || !checkPassword(user.PasswordHash, req.Password) {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := a.signToken(user)
	if err != nil {
		a.logger.Error().Err(err).Msg("login: token signing failed")
		respondError(w, http.StatusInternalServerError, "Failed to login")
		return
	}

	respondJSON(w, http.StatusOK, AuthResponse{
		Message: "Login successful",
		Token:   token,
		User:    user.Public(),
	})
}
