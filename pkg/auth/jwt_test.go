package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_GenerateAndValidate(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, 24*time.Hour)

	tokenString, err := m.GenerateToken("user-1", "alice", "alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := m.ValidateToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTManager_RefreshTokenCarriesOnlyUserID(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, 24*time.Hour)

	tokenString, err := m.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	claims, err := m.ValidateToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Empty(t, claims.Username)
	assert.Empty(t, claims.Email)
}

func TestJWTManager_InvalidToken(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, 24*time.Hour)

	_, err := m.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestJWTManager_ExpiredToken(t *testing.T) {
	m := NewJWTManager("secret", -time.Minute, 24*time.Hour)

	tokenString, err := m.GenerateToken("user-1", "alice", "alice@example.com")
	require.NoError(t, err)

	_, err = m.ValidateToken(tokenString)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTManager_WrongSecret(t *testing.T) {
	m1 := NewJWTManager("secret-one", time.Hour, 24*time.Hour)
	m2 := NewJWTManager("secret-two", time.Hour, 24*time.Hour)

	tokenString, err := m1.GenerateToken("user-1", "alice", "alice@example.com")
	require.NoError(t, err)

	_, err = m2.ValidateToken(tokenString)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.True(t, CheckPasswordHash("hunter22", hash))
	assert.False(t, CheckPasswordHash("hunter23", hash))
}
