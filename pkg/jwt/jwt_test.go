package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_RoundTrip(t *testing.T) {
	m := NewManager("secret", "https://auth.example.com", time.Hour)
	userID := uuid.New()

	token, err := m.GenerateAccessToken(userID, "anna@example.com", RoleAdmin)
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "anna@example.com", claims.Email)
	assert.Equal(t, RoleAdmin, claims.Role)

	got, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestManager_RejectsWrongSecretAndIssuer(t *testing.T) {
	token, err := NewManager("other", "", time.Hour).GenerateAccessToken(uuid.New(), "", RoleAuthenticated)
	require.NoError(t, err)
	_, err = NewManager("secret", "", time.Hour).ValidateAccessToken(token)
	assert.Error(t, err)

	token, err = NewManager("secret", "issuer-a", time.Hour).GenerateAccessToken(uuid.New(), "", RoleAuthenticated)
	require.NoError(t, err)
	_, err = NewManager("secret", "issuer-b", time.Hour).ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestManager_RejectsExpired(t *testing.T) {
	m := NewManager("secret", "", -time.Minute)
	token, err := m.GenerateAccessToken(uuid.New(), "", RoleAuthenticated)
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))
}

func TestClaims_UserIDInvalid(t *testing.T) {
	c := &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "not-a-uuid"}}
	_, err := c.UserID()
	assert.Error(t, err)
}

func TestHashToken(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", HashToken(""))
	assert.Len(t, HashToken("ntr_abc"), 64)
}
