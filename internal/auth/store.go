// Package auth persists the access token between runs.
package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "proptic"
	keyringUser    = "access-token"
)

// ErrNotFound is returned by [Store.Load] when no token is stored.
var ErrNotFound = errors.New("auth: no stored token")

// Store keeps a single access token.
type Store interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// KeyringStore keeps the token in the OS keyring.
type KeyringStore struct {
	Service string
	User    string
}

func NewKeyringStore() *KeyringStore {
	return &KeyringStore{Service: keyringService, User: keyringUser}
}

func (k *KeyringStore) Load() (string, error) {
	token, err := keyring.Get(k.Service, k.User)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read keyring: %w", err)
	}
	return token, nil
}

func (k *KeyringStore) Save(token string) error {
	if err := keyring.Set(k.Service, k.User, token); err != nil {
		return fmt.Errorf("failed to write keyring: %w", err)
	}
	return nil
}

func (k *KeyringStore) Clear() error {
	err := keyring.Delete(k.Service, k.User)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to clear keyring: %w", err)
	}
	return nil
}

// FileStore keeps the token in a file only its owner can read.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (f *FileStore) Load() (string, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token file: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNotFound
	}
	return token, nil
}

func (f *FileStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(f.Path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

func (f *FileStore) Clear() error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}

// FallbackStore uses Primary and falls back to Secondary when Primary fails
// for any reason other than a missing token, such as a machine without a
// keyring daemon.
type FallbackStore struct {
	Primary   Store
	Secondary Store
}

func (f *FallbackStore) Load() (string, error) {
	token, err := f.Primary.Load()
	if err == nil {
		return token, nil
	}
	if !errors.Is(err, ErrNotFound) {
		slog.Warn("Primary token store unavailable", "error", err)
	}
	return f.Secondary.Load()
}

func (f *FallbackStore) Save(token string) error {
	if err := f.Primary.Save(token); err != nil {
		slog.Warn("Primary token store unavailable, using fallback", "error", err)
		return f.Secondary.Save(token)
	}
	// A stale token in the fallback would outlive a later keyring clear.
	return f.Secondary.Clear()
}

// Clear clears both stores.
func (f *FallbackStore) Clear() error {
	return errors.Join(f.Primary.Clear(), f.Secondary.Clear())
}

// NewStore returns the store used by the program: the keyring with a file
// fallback, or only the file when the keyring is disabled.
func NewStore(tokenFile string, disableKeyring bool) Store {
	file := NewFileStore(tokenFile)
	if disableKeyring {
		return file
	}
	return &FallbackStore{Primary: NewKeyringStore(), Secondary: file}
}
