// Package marker persists the last successfully processed bundle URL
// as a single-line text file.
package marker

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/frozenisback/sp-src/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.MarkerStore = (*Store)(nil)

// Store is a file-based driven.MarkerStore.
type Store struct {
	path string
}

// NewStore creates a marker store under dataDir.
// If dataDir is empty, defaults to ~/.sp-src/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dataDir = filepath.Join(home, ".sp-src", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, err
	}

	return &Store{path: filepath.Join(dataDir, "playerUrl.txt")}, nil
}

// Read returns the stored marker. A missing file is not an error and
// reads as "".
func (s *Store) Read() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// Write replaces the stored marker.
func (s *Store) Write(url string) error {
	return os.WriteFile(s.path, []byte(url), 0600)
}

// Path returns the marker file path.
func (s *Store) Path() string {
	return s.path
}
