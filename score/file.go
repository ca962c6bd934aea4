package score

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// DefaultFileName is the best-score document under the simon config directory
const DefaultFileName = "best.toml"

type bestDocument struct {
	Best int `toml:"best"`
}

// FileStore keeps the best score in a small TOML document
// Writes go through a temp file and rename so a crash never leaves a torn file
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store at path; the file need not exist
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath returns <user config dir>/simon/best.toml
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "simon", DefaultFileName), nil
}

// Path returns the backing file
func (s *FileStore) Path() string {
	return s.path
}

// GetBest implements Store
func (s *FileStore) GetBest() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return 0
	}
	var doc bestDocument
	if err := toml.Unmarshal(data, &doc); err != nil || doc.Best < 0 {
		return 0
	}
	return doc.Best
}

// SetBest implements Store
func (s *FileStore) SetBest(best int) error {
	if best < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidScore, best)
	}
	data, err := toml.Marshal(bestDocument{Best: best})
	if err != nil {
		return fmt.Errorf("encode best score: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".best-*.toml")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if err := errors.Join(werr, cerr); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write best score: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
