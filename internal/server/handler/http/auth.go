// Package http provides the HTTP handlers and router of the to-do backend:
// registration, bearer-token login, profile lookup and to-do CRUD.
package http

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/atinyakov/GophTodo/internal/middleware"
	"github.com/atinyakov/GophTodo/internal/models"
)

// AuthService defines the authentication operations required by the HTTP
// handlers.
type AuthService interface {
	// Register creates a ROLE_USER account.
	Register(ctx context.Context, email, password string) error
	// Login verifies credentials and returns a signed bearer token.
	Login(ctx context.Context, email, password string) (string, error)
	// CurrentUser returns the profile of the user with id.
	CurrentUser(ctx context.Context, id int64) (models.UserProfile, error)
}

// AuthHandler handles HTTP requests for registration, login and the
// current-user profile.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
	// Logger receives unexpected failures. May be nil.
	Logger *zap.Logger
}

func readCredentials(w http.ResponseWriter, r *http.Request) (models.Credentials, bool) {
	var req models.Credentials
	if err := decodeJSON(w, r, &req); err != nil || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid request")
		return req, false
	}
	return req, true
}

// Register handles POST /api/register.
// It expects a JSON body with non-empty "email" and "password" fields and
// answers 201 with an empty body on success.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, ok := readCredentials(w, r)
	if !ok {
		return
	}
	if err := h.AuthService.Register(r.Context(), req.Email, req.Password); err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// Login handles POST /api/login and returns {"token": "..."}.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := readCredentials(w, r)
	if !ok {
		return
	}
	token, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, models.LoginResponse{Token: token})
}

// Me handles GET /api/me for the authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	if userID == 0 {
		writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}
	profile, err := h.AuthService.CurrentUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
