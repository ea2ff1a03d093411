// Package auth implements login, registration, logout and profile lookup
// against the backend, keeping the session in step.
package auth

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/GophTodo/internal/client/api"
	"github.com/atinyakov/GophTodo/internal/models"
)

// Doer sends one JSON request to the backend.
type Doer interface {
	Do(ctx context.Context, method, path string, in, out any) error
}

// TokenStore is the part of the session the service writes to.
type TokenStore interface {
	SetToken(token string) error
	Clear() error
}

// Service performs authentication operations.
type Service struct {
	client  Doer
	session TokenStore
	log     *zap.Logger
}

// NewService wires a Service. log may be nil.
func NewService(client Doer, session TokenStore, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{client: client, session: session, log: log}
}

// Login exchanges credentials for a token and stores it in the session.
// Any rejection is reported as api.ErrAuthentication and leaves the session
// untouched; transport failures stay api.ErrNetwork.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	var resp models.LoginResponse
	err := s.client.Do(ctx, http.MethodPost, "/login", models.Credentials{Email: email, Password: password}, &resp)
	if err != nil {
		s.log.Info("login rejected", zap.String("email", email), zap.Error(err))
		return "", api.Reclassify(err, api.ErrAuthentication)
	}
	if resp.Token == "" {
		return "", &api.Error{Status: http.StatusOK, Message: "empty token", Kind: api.ErrAuthentication}
	}

	// a persistence failure still leaves the session authenticated in memory
	if err := s.session.SetToken(resp.Token); err != nil {
		s.log.Warn("token not persisted", zap.Error(err))
	}
	return resp.Token, nil
}

// Register creates an account. It does not log the caller in.
func (s *Service) Register(ctx context.Context, email, password string) error {
	err := s.client.Do(ctx, http.MethodPost, "/register", models.Credentials{Email: email, Password: password}, nil)
	if err != nil {
		return api.Reclassify(err, api.ErrRegistration)
	}
	return nil
}

// Logout clears the session. No backend call is made.
func (s *Service) Logout() error {
	return s.session.Clear()
}

// CurrentUser fetches the profile of the token's owner.
func (s *Service) CurrentUser(ctx context.Context) (*models.UserProfile, error) {
	var p models.UserProfile
	if err := s.client.Do(ctx, http.MethodGet, "/me", nil, &p); err != nil {
		// the token's owner no longer existing is an authentication failure too
		if errors.Is(err, api.ErrNotFound) {
			return nil, api.Reclassify(err, api.ErrAuthentication)
		}
		return nil, err
	}
	return &p, nil
}
