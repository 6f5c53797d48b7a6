package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/takak2166/wordpress2sanity/internal/logger"
)

// Extension is the file extension of every staged record
const Extension = ".json"

// ErrInvalidID is returned for kinds or ids that cannot name a file
var ErrInvalidID = errors.New("invalid record id")

// Store stages records as one JSON file per id, in a directory per kind
type Store struct {
	root string
}

// New creates a Store rooted at dir. The directory is created on first write.
func New(dir string) *Store {
	return &Store{root: dir}
}

// Root returns the directory the store writes to
func (s *Store) Root() string {
	return s.root
}

// Path returns the file a record of the given kind and id is staged at
func (s *Store) Path(kind, id string) string {
	return filepath.Join(s.root, kind, id+Extension)
}

// Stage writes record under kind/id. With overwrite false an existing record
// is left alone and Stage reports false. Writes go through a temporary file
// and a rename so a reader never sees a partial record.
func (s *Store) Stage(kind, id string, record interface{}, overwrite bool) (bool, error) {
	if err := validName(kind); err != nil {
		return false, fmt.Errorf("kind %q: %w", kind, err)
	}
	if err := validName(id); err != nil {
		return false, fmt.Errorf("id %q: %w", id, err)
	}

	path := s.Path(kind, id)
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			logger.Debug("Record already staged, skipping", logger.Fields{
				"kind": kind,
				"id":   id,
			})
			return false, nil
		} else if !os.IsNotExist(err) {
			return false, fmt.Errorf("failed to stat %s: %w", path, err)
		}
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return false, fmt.Errorf("failed to encode %s/%s: %w", kind, id, err)
	}

	if err := atomicWrite(path, append(data, '\n')); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}

// Reset removes every staged record
func (s *Store) Reset() error {
	if err := os.RemoveAll(s.root); err != nil {
		return fmt.Errorf("failed to clear %s: %w", s.root, err)
	}
	return nil
}

func atomicWrite(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

func validName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return ErrInvalidID
	}
	return nil
}
