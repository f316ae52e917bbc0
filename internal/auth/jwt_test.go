package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearpathclaims/inspectdesk/internal/domain"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager(testSecret, "inspectdesk")

	want := domain.User{
		Email:     "admin@example.com",
		FullName:  "Admin Person",
		Role:      domain.RoleAdmin,
		IsManager: true,
	}

	token, err := m.GenerateToken(want, time.Minute)
	require.NoError(t, err)

	got, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, &want, got)
	assert.True(t, got.IsAdmin())
}

func TestJWTManager_DefaultsRole(t *testing.T) {
	m := NewJWTManager(testSecret, "inspectdesk")

	token, err := m.GenerateToken(domain.User{Email: "u@example.com"}, time.Minute)
	require.NoError(t, err)

	got, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, got.Role)
	assert.False(t, got.IsAdmin())
}

func TestJWTManager_Expired(t *testing.T) {
	m := NewJWTManager(testSecret, "inspectdesk")

	token, err := m.GenerateToken(domain.User{Email: "u@example.com"}, -time.Minute)
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTManager_WrongSecret(t *testing.T) {
	m := NewJWTManager(testSecret, "inspectdesk")
	other := NewJWTManager("ffffffffffffffffffffffffffffffff", "inspectdesk")

	token, err := m.GenerateToken(domain.User{Email: "u@example.com"}, time.Minute)
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTManager_WrongIssuer(t *testing.T) {
	m := NewJWTManager(testSecret, "someone-else")
	v := NewJWTManager(testSecret, "inspectdesk")

	token, err := m.GenerateToken(domain.User{Email: "u@example.com"}, time.Minute)
	require.NoError(t, err)

	_, err = v.ValidateToken(token)
	assert.ErrorContains(t, err, "issuer")
}

func TestJWTManager_EmptyToken(t *testing.T) {
	m := NewJWTManager(testSecret, "inspectdesk")
	_, err := m.ValidateToken("")
	assert.Error(t, err)
}
