package noteapp

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/notedown/notedown/pkg/models"
)

// tokenLifetime is the fixed validity window of an issued token. There is
// no server-side revocation; a token is valid until it expires.
const tokenLifetime = 24 * time.Hour

// Claims is the JWT payload: the user's identity plus the registered
// issued-at and expiry claims. The field names match what clients of the
// original API decode.
type Claims struct {
	UserID models.UserID `json:"userId"`
	Email  string        `json:"email"`
	jwt.RegisteredClaims
}

// Identity is the authenticated caller attached to the request context by
// the auth middleware. Every note operation is scoped to Identity.UserID.
type Identity struct {
	UserID models.UserID
	Email  string
}

type contextKey struct{ name string }

var identityKey = contextKey{"identity"}

// identityFrom returns the authenticated identity from the request
// context, if the auth middleware ran.
func identityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// signToken issues an HS256 token for the user with a 24-hour lifetime.
func (a *App) signToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString([]byte(a.config.JWTSecret))
}

// parseToken verifies the signature and expiry and returns the claims.
// Only HS256 is accepted; a token declaring any other algorithm fails
// verification outright.
func (a *App) parseToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return []byte(a.config.JWTSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// getTokenFromHeader extracts the bearer token from the Authorization
// header. Returns "" when the header is absent or not a bearer credential.
func getTokenFromHeader(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const bearerPrefix = "Bearer "
	if len(auth) > len(bearerPrefix) && strings.EqualFold(auth[:len(bearerPrefix)], bearerPrefix) {
		return auth[len(bearerPrefix):]
	}
	return ""
}

// requireAuth guards the note routes. A missing, malformed, forged, or
// expired token yields 401 with a structured body; on success the decoded
// identity is attached to the request context for the handlers.
func (a *App) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := getTokenFromHeader(r)
		if tokenStr == "" {
			respondError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		claims, err := a.parseToken(tokenStr)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		identity := Identity{UserID: claims.UserID, Email: claims.Email}
		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// hashPassword derives the stored bcrypt hash. DefaultCost keeps hashing
// in the tens-of-milliseconds range; the salt is embedded in the hash.
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// checkPassword reports whether password matches the stored hash.
func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
