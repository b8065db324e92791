// Package credentials supplies the bearer token attached to API requests
// and lets the CLI store and inspect it.
package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// TokenKey is the key the token is stored under.
const TokenKey = "zynor_token"

const (
	dirPerm  = 0o700
	filePerm = 0o600
)

// FileStore keeps key/value credentials in a JSON file. The file is read
// on every Token call so that a token saved by another process is picked up.
type FileStore struct {
	log  *slog.Logger
	path string
}

// NewFileStore creates a FileStore backed by path. The file may not exist yet.
func NewFileStore(log *slog.Logger, path string) *FileStore {
	return &FileStore{log: log, path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Token returns the stored token. ok is false when the file or the key is missing.
func (s *FileStore) Token(ctx context.Context) (string, bool) {
	values, err := s.load()
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.WarnContext(ctx, "Failed to read credentials", "path", s.path, "error", err)
		}
		return "", false
	}

	token := strings.TrimSpace(values[TokenKey])
	return token, token != ""
}

// Save stores token, keeping any other keys in the file.
func (s *FileStore) Save(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}

	values, err := s.load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if values == nil {
		values = make(map[string]string)
	}
	values[TokenKey] = token

	return s.write(values)
}

// Clear removes the token from the file. A missing file is not an error.
func (s *FileStore) Clear() error {
	values, err := s.load()
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	delete(values, TokenKey)

	return s.write(values)
}

func (s *FileStore) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	values := make(map[string]string)
	if len(strings.TrimSpace(string(data))) == 0 {
		return values, nil
	}
	if err = json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to decode credentials file: %w", err)
	}
	return values, nil
}

func (s *FileStore) write(values map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), dirPerm); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	if err = os.WriteFile(s.path, data, filePerm); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	return nil
}
