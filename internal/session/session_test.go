package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/proptic/proptic/internal/api"
	"github.com/stretchr/testify/require"
)

func TestSessionLifecycle(t *testing.T) {
	t.Parallel()

	s := New()
	require.False(t, s.SignedIn())

	var changes int
	s.Observe(func() { changes++ })

	exp := time.Date(2031, 6, 1, 0, 0, 0, 0, time.UTC)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	s.SignIn(token)
	require.True(t, s.SignedIn())
	require.Equal(t, token, s.Token())
	require.True(t, exp.Equal(s.Expiry()))
	require.False(t, s.Expired(exp.Add(-time.Second)))
	require.True(t, s.Expired(exp))

	s.SetProfile(api.Profile{User: api.User{Roles: []api.Role{
		{Name: "receptionist", DisplayName: "Receptionist"},
		{Name: "admin"},
	}}})
	s.SetRole("admin")
	require.Equal(t, "admin", s.RoleLabel())
	s.SetRole("receptionist")
	require.Equal(t, "Receptionist", s.RoleLabel())

	s.Clear()
	require.False(t, s.SignedIn())
	require.Empty(t, s.Role())
	require.Empty(t, s.Roles())
	require.Equal(t, 5, changes)
}

func TestSessionOpaqueToken(t *testing.T) {
	t.Parallel()

	s := New()
	s.SignIn("opaque")
	require.True(t, s.SignedIn())
	require.True(t, s.Expiry().IsZero())
	require.False(t, s.Expired(time.Now()))
}
