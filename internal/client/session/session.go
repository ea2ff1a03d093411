// Package session holds the client's authentication state: a single bearer
// token mirrored to durable storage on every change.
package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/atinyakov/GophTodo/internal/client/storage"
)

// TokenKey is the storage key the token is persisted under.
const TokenKey = "todo_jwt"

// ErrEmptyToken is returned by SetToken for a blank token.
var ErrEmptyToken = errors.New("session: empty token")

// Session is either unauthenticated (no token) or authenticated with a
// non-empty opaque bearer token. It is safe for concurrent use.
type Session struct {
	mu    sync.RWMutex
	token string
	store storage.Store
	log   *zap.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used to report storage failures.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// New restores the session from store. A read failure leaves the session
// unauthenticated and is returned alongside the usable session.
func New(store storage.Store, opts ...Option) (*Session, error) {
	s := &Session{store: store, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	tok, ok, err := store.Get(TokenKey)
	if err != nil {
		s.log.Warn("session restore failed", zap.Error(err))
		return s, fmt.Errorf("restore session: %w", err)
	}
	if ok && strings.TrimSpace(tok) != "" {
		s.token = tok
	}
	return s, nil
}

// Token returns the current token and whether one is present.
func (s *Session) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// IsAuthenticated reports whether a token is present.
func (s *Session) IsAuthenticated() bool {
	_, ok := s.Token()
	return ok
}

// SetToken replaces the token and writes it through to storage. The in-memory
// token is updated even if the write fails; only persistence is lost.
func (s *Session) SetToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	if err := s.store.Set(TokenKey, token); err != nil {
		s.log.Warn("session persist failed", zap.Error(err))
		return fmt.Errorf("persist token: %w", err)
	}
	return nil
}

// Clear drops the token and removes it from storage.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	if err := s.store.Remove(TokenKey); err != nil {
		s.log.Warn("session clear failed", zap.Error(err))
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}
