package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mmeshcher/shopfront-client/internal/model"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := NewFileStore(path)

	user := &model.User{UserID: 7, Name: "Ana", Email: "ana@x.com"}
	if err := s.Save(user); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got == nil {
		t.Fatalf("Load returned nil after Save")
	}
	if *got != *user {
		t.Fatalf("Load = %+v, want %+v", got, user)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "absent.json"))

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got != nil {
		t.Fatalf("Load = %+v, want nil for missing file", got)
	}
}

func TestLoad_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	s := NewFileStore(path)

	got, err := s.Load()
	if err != nil {
		t.Fatalf("corrupt file must not surface an error, got %v", err)
	}
	if got != nil {
		t.Fatalf("Load = %+v, want nil for corrupt file", got)
	}
}

func TestLoad_EmptyRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte(`{"user":null}`), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	s := NewFileStore(path)

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got != nil {
		t.Fatalf("Load = %+v, want nil for empty record", got)
	}
}

func TestSaveNil_ClearsSlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := NewFileStore(path)

	if err := s.Save(&model.User{UserID: 7, Name: "Ana", Email: "ana@x.com"}); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := s.Save(nil); err != nil {
		t.Fatalf("Save(nil) error: %v", err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("session file still exists after Save(nil)")
	}

	got, err := s.Load()
	if err != nil || got != nil {
		t.Fatalf("Load after clear = %+v, %v, want nil, nil", got, err)
	}

	// Повторная очистка уже пустого слота не является ошибкой.
	if err := s.Save(nil); err != nil {
		t.Fatalf("second Save(nil) error: %v", err)
	}
}

func TestSave_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "session.json")
	s := NewFileStore(path)

	if err := s.Save(&model.User{UserID: 1, Name: "Ana", Email: "ana@x.com"}); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	got, err := s.Load()
	if err != nil || got == nil {
		t.Fatalf("Load after nested Save = %+v, %v", got, err)
	}
}
