package auth

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func signed(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-secret"))
	require.NoError(t, err)
	return s
}

func TestFileStore(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "token")
	s := NewFileStore(path)

	_, err := s.Load()
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Save("abc"))
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	token, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, "abc", token)

	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear())
	_, err = s.Load()
	require.ErrorIs(t, err, ErrNotFound)
}

// The keyring mock is process global, so these tests do not run in parallel.
func TestKeyringStore(t *testing.T) {
	keyring.MockInit()

	s := NewKeyringStore()
	_, err := s.Load()
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Save("abc"))
	token, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, "abc", token)

	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear())
}

func TestFallbackStoreUsesFileWithoutKeyring(t *testing.T) {
	keyring.MockInitWithError(errors.New("no secret service"))
	t.Cleanup(keyring.MockInit)

	file := NewFileStore(filepath.Join(t.TempDir(), "token"))
	s := &FallbackStore{Primary: NewKeyringStore(), Secondary: file}

	require.NoError(t, s.Save("abc"))
	token, err := file.Load()
	require.NoError(t, err)
	require.Equal(t, "abc", token)

	token, err = s.Load()
	require.NoError(t, err)
	require.Equal(t, "abc", token)

	require.Error(t, s.Clear())
	_, err = file.Load()
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFallbackStorePrefersKeyring(t *testing.T) {
	keyring.MockInit()

	file := NewFileStore(filepath.Join(t.TempDir(), "token"))
	require.NoError(t, file.Save("stale"))

	s := NewStore(file.Path, false)
	require.NoError(t, s.Save("fresh"))

	_, err := file.Load()
	require.ErrorIs(t, err, ErrNotFound)

	token, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, "fresh", token)

	require.NoError(t, s.Clear())
	_, err = s.Load()
	require.ErrorIs(t, err, ErrNotFound)
}

func TestNewStoreWithoutKeyring(t *testing.T) {
	t.Parallel()

	s := NewStore(filepath.Join(t.TempDir(), "token"), true)
	require.IsType(t, &FileStore{}, s)
}

func TestExpiry(t *testing.T) {
	t.Parallel()

	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	token := signed(t, Claims{
		UserID:           "u1",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)},
	})

	got, ok, err := Expiry(token)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, exp.Equal(got))

	claims, err := Parse(token)
	require.NoError(t, err)
	require.Equal(t, "u1", claims.UserID)

	require.False(t, Expired(token, exp.Add(-time.Hour), time.Minute))
	require.True(t, Expired(token, exp.Add(-30*time.Second), time.Minute))
	require.True(t, Expired(token, exp.Add(time.Hour), 0))
}

func TestExpiryWithoutClaim(t *testing.T) {
	t.Parallel()

	token := signed(t, jwt.MapClaims{"user_id": "u1"})
	_, ok, err := Expiry(token)
	require.NoError(t, err)
	require.False(t, ok)
	require.False(t, Expired(token, time.Now(), 0))

	require.True(t, Expired("not-a-jwt", time.Now(), 0))
}
