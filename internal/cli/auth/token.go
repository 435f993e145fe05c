package auth

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoToken is returned when no token has been stored yet.
var ErrNoToken = errors.New("not logged in")

// TokenStore keeps the auth token between CLI invocations.
type TokenStore interface {
	Save(token string) error
	Load() (string, error)
	Clear() error
}

// FileStore stores the token in a single file; the last login lives next to it.
type FileStore struct {
	Path string
}

func NewFileStore(path string) FileStore {
	return FileStore{Path: path}
}

func (s FileStore) loginPath() string {
	return filepath.Join(filepath.Dir(s.Path), "last_login")
}

func writeFile(path, value string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(value), 0o600)
}

func readFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", err
	}
	v := strings.TrimSpace(string(b))
	if v == "" {
		return "", ErrNoToken
	}
	return v, nil
}

// Save writes token to the token file.
func (s FileStore) Save(token string) error {
	if token == "" {
		return errors.New("empty token")
	}
	return writeFile(s.Path, token)
}

// Load reads token from the token file.
func (s FileStore) Load() (string, error) {
	return readFile(s.Path)
}

// Clear removes the token and the stored login. Missing files are not an error.
func (s FileStore) Clear() error {
	for _, p := range []string{s.Path, s.loginPath()} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

// SaveLogin stores the login of the current CLI user.
func (s FileStore) SaveLogin(login string) error {
	if login == "" {
		return errors.New("empty login")
	}
	return writeFile(s.loginPath(), login)
}

// LoadLogin returns the last stored login.
func (s FileStore) LoadLogin() (string, error) {
	return readFile(s.loginPath())
}
