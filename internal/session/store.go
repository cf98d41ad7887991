package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoCredential is returned by PersistentStore.Read when nothing is stored.
var ErrNoCredential = errors.New("session: no stored credential")

// PersistentStore is the durable half of the session store. Implementations
// must tolerate Delete when no credential exists.
type PersistentStore interface {
	Read() (string, error)
	Write(token string) error
	Delete() error
}

// FileStore persists the credential to a file, the client-side equivalent of
// durable browser storage. The file is created user-readable only.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore backed by the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Read() (string, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoCredential
	}
	if err != nil {
		return "", err
	}
	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", ErrNoCredential
	}
	return token, nil
}

func (s *FileStore) Write(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(token), 0o600)
}

func (s *FileStore) Delete() error {
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// NoopStore serves contexts without durable storage. Reads report no
// credential, writes and deletes are discarded.
type NoopStore struct{}

func (NoopStore) Read() (string, error) { return "", ErrNoCredential }
func (NoopStore) Write(string) error    { return nil }
func (NoopStore) Delete() error         { return nil }
