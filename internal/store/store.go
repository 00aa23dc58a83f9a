// Package store реализует хранение сессии в одном локальном файле.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mmeshcher/shopfront-client/internal/model"
)

// FileStore хранит единственную запись сессии в JSON-файле.
type FileStore struct {
	path string
}

// NewFileStore создаёт хранилище сессии по указанному пути.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

type sessionRecord struct {
	User *model.User `json:"user"`
}

// Load возвращает сохранённого пользователя. Отсутствующий или повреждённый
// файл означает отсутствие сессии, а не ошибку: клиент стартует разлогиненным.
func (s *FileStore) Load() (*model.User, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var rec sessionRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, nil
	}
	if rec.User == nil || rec.User.UserID <= 0 {
		return nil, nil
	}

	return rec.User, nil
}

// Save записывает пользователя в слот сессии. При nil слот очищается.
func (s *FileStore) Save(u *model.User) error {
	if u == nil {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("clear session file: %w", err)
		}
		return nil
	}

	raw, err := json.Marshal(sessionRecord{User: u})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create session dir: %w", err)
		}
	}

	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}

	return nil
}
