// Package client provides a Go HTTP client for the notedown REST API.
//
// The client mirrors the server's endpoint structure with strongly-typed
// methods: Register and Login for the auth endpoints, and owner-scoped
// CRUD for notes. After a successful Register or Login the bearer token
// is retained and sent on every subsequent request, so callers normally
// never touch the token themselves.
//
// Errors from the API surface as [*APIError], carrying the HTTP status
// and the server's message, so callers can distinguish a 404 from a 401
// without string matching.
//
// Client instances are safe for concurrent use by multiple goroutines,
// except that SetToken must not race with in-flight requests.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/notedown/notedown/pkg/models"
)

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: status=%d, message=%s", e.StatusCode, e.Message)
}

// AuthResponse is the body of a successful register or login call.
type AuthResponse struct {
	Message string            `json:"message"`
	Token   string            `json:"token"`
	User    models.PublicUser `json:"user"`
}

// Client provides typed access to the notedown REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// NewClient creates a client for the API at baseURL (protocol and host,
// no trailing slash). The client is ready for immediate use; the token is
// captured automatically on Register/Login.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetToken overrides the bearer token sent on authenticated requests.
// Mostly useful in tests that need to present an expired or forged token.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token returns the currently held bearer token.
func (c *Client) Token() string {
	return c.token
}

// BaseURL returns the server address the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doRequest performs an HTTP request with JSON and auth headers set.
func (c *Client) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	return c.httpClient.Do(req)
}

// decodeResponse decodes the JSON response into target, mapping non-2xx
// statuses to *APIError with the server's error message.
func decodeResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errBody struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(resp.Body)
		if err := json.Unmarshal(raw, &errBody); err != nil || errBody.Error == "" {
			errBody.Error = string(raw)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: errBody.Error}
	}

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// Register creates an account and retains the returned token.
func (c *Client) Register(ctx context.Context, email, password, name string) (*AuthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/register", map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
	})
	if err != nil {
		return nil, err
	}

	var auth AuthResponse
	if err := decodeResponse(resp, &auth); err != nil {
		return nil, err
	}
	c.token = auth.Token
	return &auth, nil
}

// Login authenticates and retains the returned token.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	var auth AuthResponse
	if err := decodeResponse(resp, &auth); err != nil {
		return nil, err
	}
	c.token = auth.Token
	return &auth, nil
}

// ListNotes returns the caller's notes, newest first.
func (c *Client) ListNotes(ctx context.Context) ([]*models.Note, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/notes", nil)
	if err != nil {
		return nil, err
	}

	var notes []*models.Note
	if err := decodeResponse(resp, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// CreateNote creates a note owned by the authenticated user.
func (c *Client) CreateNote(ctx context.Context, title, content string) (*models.Note, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/notes", map[string]string{
		"title":   title,
		"content": content,
	})
	if err != nil {
		return nil, err
	}

	var note models.Note
	if err := decodeResponse(resp, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// UpdateNote replaces a note's title and content.
func (c *Client) UpdateNote(ctx context.Context, id models.NoteID, title, content string) (*models.Note, error) {
	resp, err := c.doRequest(ctx, http.MethodPut, "/notes/"+id.String(), map[string]string{
		"title":   title,
		"content": content,
	})
	if err != nil {
		return nil, err
	}

	var note models.Note
	if err := decodeResponse(resp, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// DeleteNote permanently removes a note.
func (c *Client) DeleteNote(ctx context.Context, id models.NoteID) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, "/notes/"+id.String(), nil)
	if err != nil {
		return err
	}
	return decodeResponse(resp, nil)
}

// Health fetches the plaintext health probe at the API root.
func (c *Client) Health(ctx context.Context) (string, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/", nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", &APIError{StatusCode: resp.StatusCode, Message: string(body)}
	}
	return string(body), nil
}
