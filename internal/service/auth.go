// Package service provides the backend business logic for authentication and
// to-do management, delegating persistence to repository interfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/atinyakov/GophTodo/internal/models"
)

var (
	// ErrUserExists is returned when registering an email that is already taken.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound is returned by repositories when no user matches.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials is returned for an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidCredentialsFormat is returned when register input fails validation.
	ErrInvalidCredentialsFormat = errors.New("invalid email or password format")
	// ErrForbiddenRole is returned when a role may not be self-assigned.
	ErrForbiddenRole = errors.New("role cannot be self-registered")
)

const (
	minPasswordLen = 8
	// bcrypt ignores input past 72 bytes.
	maxPasswordLen = 72
)

// AuthRepository defines the persistence operations
// required by the authentication service.
type AuthRepository interface {
	// UserExists returns true if a user with the given email exists.
	UserExists(ctx context.Context, email string) (bool, error)
	// CreateUser stores u and returns it with its ID set.
	// Returns ErrUserExists if the email is taken.
	CreateUser(ctx context.Context, u models.User) (models.User, error)
	// GetUserByEmail returns ErrUserNotFound if no user matches.
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	// GetUserByID returns ErrUserNotFound if no user matches.
	GetUserByID(ctx context.Context, id int64) (models.User, error)
}

// TokenIssuer signs bearer tokens for authenticated users.
type TokenIssuer interface {
	Issue(u models.User) (string, error)
}

// AuthService implements registration, login and profile lookup.
type AuthService struct {
	repo   AuthRepository
	tokens TokenIssuer
	cost   int
}

// NewAuthService constructs an AuthService using the provided repository and
// token issuer.
func NewAuthService(repo AuthRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, cost: bcrypt.DefaultCost}
}

// Register creates a ROLE_USER account for email. The password is stored as a
// bcrypt hash.
func (s *AuthService) Register(ctx context.Context, email, password string) error {
	return s.RegisterWithRole(ctx, email, password, models.RoleUser)
}

// RegisterWithRole is Register with an explicit role. ROLE_ADMIN cannot be
// self-registered.
func (s *AuthService) RegisterWithRole(ctx context.Context, email, password string, role models.UserRole) error {
	if role == models.RoleAdmin {
		return ErrForbiddenRole
	}
	if !role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidCredentialsFormat, role)
	}
	email = normalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return err
	}

	exists, err := s.repo.UserExists(ctx, email)
	if err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if exists {
		return ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	_, err = s.repo.CreateUser(ctx, models.User{Email: email, PasswordHash: hash, Role: role})
	if err != nil {
		if errors.Is(err, ErrUserExists) {
			return ErrUserExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Login verifies the credentials and returns a signed bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("get user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.tokens.Issue(u)
}

// CurrentUser returns the profile of the user with id.
func (s *AuthService) CurrentUser(ctx context.Context, id int64) (models.UserProfile, error) {
	u, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return models.UserProfile{}, err
	}
	return models.UserProfile{
		ID:         u.ID,
		Email:      u.Email,
		UserRole:   u.Role,
		Privileges: u.Role.Authorities(),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateCredentials(email, password string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("%w: invalid email", ErrInvalidCredentialsFormat)
	}
	if len(password) < minPasswordLen || len(password) > maxPasswordLen {
		return fmt.Errorf("%w: password must be %d to %d bytes", ErrInvalidCredentialsFormat, minPasswordLen, maxPasswordLen)
	}
	return nil
}
