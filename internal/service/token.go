package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/atinyakov/GophTodo/internal/models"
)

// ErrInvalidToken is returned for tokens that are malformed, badly signed or expired.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the JWT payload issued on login.
type Claims struct {
	UserID     int64              `json:"uid"`
	Role       models.UserRole    `json:"role"`
	Privileges []models.Privilege `json:"privileges"`
	jwt.RegisteredClaims
}

// HasPrivilege reports whether the token grants p.
func (c *Claims) HasPrivilege(p models.Privilege) bool {
	for _, have := range c.Privileges {
		if have == p {
			return true
		}
	}
	return false
}

// TokenManager issues and verifies HS256 bearer tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager returns a TokenManager signing with secret. Tokens expire
// after ttl.
func NewTokenManager(secret []byte, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: secret, ttl: ttl, now: time.Now}
}

// Issue signs a token for u. The subject is the user's email.
func (m *TokenManager) Issue(u models.User) (string, error) {
	now := m.now()
	claims := Claims{
		UserID:     u.ID,
		Role:       u.Role,
		Privileges: u.Role.Privileges(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Email,
			ID:        strconv.FormatInt(now.UnixNano(), 36),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies token and returns its claims.
func (m *TokenManager) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.UserID == 0 {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidToken)
	}
	return claims, nil
}
