package persist

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// FileStore keeps each named record as a JSON file inside a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a file store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// DefaultFileStore creates a file store under the user's XDG data directory.
func DefaultFileStore() *FileStore {
	return NewFileStore(filepath.Join(xdg.DataHome, "lychee"))
}

// Path returns the file path backing a named record.
func (s *FileStore) Path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Get reads a named record from disk.
func (s *FileStore) Get(name string) (string, bool, error) {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading record %s: %w", name, err)
	}
	return string(data), true, nil
}

// Set writes a named record to disk, creating the store directory on first
// use.
func (s *FileStore) Set(name, value string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}
	if err := os.WriteFile(s.Path(name), []byte(value), 0o644); err != nil {
		return fmt.Errorf("writing record %s: %w", name, err)
	}
	return nil
}
