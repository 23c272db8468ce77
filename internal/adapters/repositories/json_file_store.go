package repositories

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// Whole-file JSON persistence shared by the file-backed repositories.
//
// By default reads and writes are unguarded and a write truncates the file
// in place, so concurrent writers race and the last one wins. Hardened
// stores serialize access per path and replace the file through a temp
// file rename.
type JSONFileStore struct {
	Path     string
	Hardened bool
}

var pathLocks sync.Map // path -> *sync.Mutex

func NewJSONFileStore(path string, hardened bool) *JSONFileStore {
	return &JSONFileStore{Path: path, Hardened: hardened}
}

func (s *JSONFileStore) lock() func() {
	if !s.Hardened {
		return func() {}
	}
	m, _ := pathLocks.LoadOrStore(filepath.Clean(s.Path), &sync.Mutex{})
	mu := m.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Decode the file into v. found is false when the file does not exist or
// holds malformed JSON; v is left for the caller to default in that case.
func (s *JSONFileStore) Read(ctx context.Context, v any) (found bool, err error) {
	unlock := s.lock()
	defer unlock()

	b, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %q: %w", s.Path, err)
	}

	if err := json.Unmarshal(b, v); err != nil {
		zerolog.Ctx(ctx).Warn().Str("path", s.Path).Err(err).
			Msg("malformed json on disk, using empty default")
		return false, nil
	}
	return true, nil
}

// Encode v with two-space indentation and replace the file.
func (s *JSONFileStore) Write(ctx context.Context, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("write %q: encode: %w", s.Path, err)
	}

	unlock := s.lock()
	defer unlock()

	if dir := filepath.Dir(s.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("write %q: create dir: %w", s.Path, err)
		}
	}

	if !s.Hardened {
		if err := os.WriteFile(s.Path, b, 0o644); err != nil {
			return fmt.Errorf("write %q: %w", s.Path, err)
		}
		return nil
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.Path), filepath.Base(s.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write %q: create temp: %w", s.Path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %q: write temp: %w", s.Path, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %q: sync temp: %w", s.Path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %q: close temp: %w", s.Path, err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("write %q: rename: %w", s.Path, err)
	}
	return nil
}
