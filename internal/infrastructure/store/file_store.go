package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/hoststack/console/internal/core/domain"
)

// FileStore persists credential slots in a single JSON file, one slot
// per scope ("token" / "admin_token"). Writes go through a temp file
// and rename so a crash never leaves a half-written credentials file.
// The file is created 0600; tokens are bearer secrets.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore uses the given path, or the default location under the
// user config dir when path is empty.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		path = filepath.Join(dir, "hoststack", "credentials.json")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create token dir: %w", err)
	}
	return &FileStore{path: path}, nil
}

func (f *FileStore) Get(_ context.Context, scope domain.Scope) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	slots, err := f.read()
	if err != nil {
		return "", err
	}
	token, ok := slots[scope.TokenSlot()]
	if !ok || token == "" {
		return "", domain.ErrNoCredential
	}
	return token, nil
}

func (f *FileStore) Set(_ context.Context, scope domain.Scope, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	slots, err := f.read()
	if err != nil {
		return err
	}
	slots[scope.TokenSlot()] = token
	return f.write(slots)
}

func (f *FileStore) Clear(_ context.Context, scope domain.Scope) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	slots, err := f.read()
	if err != nil {
		return err
	}
	if _, ok := slots[scope.TokenSlot()]; !ok {
		return nil
	}
	delete(slots, scope.TokenSlot())
	return f.write(slots)
}

func (f *FileStore) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	slots := map[string]string{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &slots); err != nil {
			// A corrupt file is unreadable, not fatal: treat every
			// slot as empty and let the next write repair it.
			return map[string]string{}, nil
		}
	}
	return slots, nil
}

func (f *FileStore) write(slots map[string]string) error {
	data, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace credentials: %w", err)
	}
	return nil
}
