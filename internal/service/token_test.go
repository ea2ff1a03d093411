package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/GophTodo/internal/models"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager([]byte("secret"), time.Hour)
	tok, err := m.Issue(models.User{ID: 9, Email: "e@example.com", Role: models.RoleUser})
	require.NoError(t, err)

	claims, err := m.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(9), claims.UserID)
	assert.Equal(t, "e@example.com", claims.Subject)
	assert.Equal(t, models.RoleUser, claims.Role)
	assert.True(t, claims.HasPrivilege(models.CreateTodos))
}

func TestTokenManager_Rejects(t *testing.T) {
	m := NewTokenManager([]byte("secret"), time.Hour)
	user := models.User{ID: 9, Email: "e@example.com", Role: models.RoleUser}

	other := NewTokenManager([]byte("other"), time.Hour)
	forged, err := other.Issue(user)
	require.NoError(t, err)

	expiredMgr := NewTokenManager([]byte("secret"), time.Minute)
	expiredMgr.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, err := expiredMgr.Issue(user)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 9}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noUser, err := m.Issue(models.User{Email: "e@example.com", Role: models.RoleUser})
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"garbage":   "not.a.token",
		"forged":    forged,
		"expired":   expired,
		"alg none":  none,
		"no userid": noUser,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := m.Parse(tok)
			assert.True(t, errors.Is(err, ErrInvalidToken), "got %v", err)
		})
	}
}
