// Package history persists per-document revision snapshots in a YAML
// sidecar file. The whole mapping is loaded, mutated, and rewritten on
// every operation; updates are not transactional with the document store.
package history

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Store is a YAML-backed mapping of document name to ordered snapshots
// (oldest first).
type Store struct {
	path string
}

// NewStore creates a store persisted at path. The file is created lazily
// on the first mutation.
func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) load() (map[string][]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string][]string{}, nil
		}
		return nil, fmt.Errorf("history: read %s: %w", s.path, err)
	}
	entries := map[string][]string{}
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("history: parse %s: %w", s.path, err)
	}
	return entries, nil
}

func (s *Store) save(entries map[string][]string) error {
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("history: marshal: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("history: write %s: %w", s.path, err)
	}
	return nil
}

// Record snapshots a document immediately before it is overwritten.
// On the first touch of a name it creates an empty entry; afterwards it
// appends the pre-overwrite content. Callers must invoke Record before
// writing the new content, or the snapshot captures the wrong version.
func (s *Store) Record(name string, current []byte, exists bool) error {
	entries, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := entries[name]; !ok {
		entries[name] = []string{}
	} else if exists {
		entries[name] = append(entries[name], string(current))
	}
	return s.save(entries)
}

// Drop removes the history entry for a deleted document.
func (s *Store) Drop(name string) error {
	entries, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := entries[name]; !ok {
		return nil
	}
	delete(entries, name)
	return s.save(entries)
}

// Move re-keys a history entry after a document rename. Any existing
// entry under the new name is replaced.
func (s *Store) Move(oldName, newName string) error {
	entries, err := s.load()
	if err != nil {
		return err
	}
	snaps, ok := entries[oldName]
	if !ok {
		return nil
	}
	delete(entries, oldName)
	entries[newName] = snaps
	return s.save(entries)
}

// Versions returns the stored snapshots for a document, oldest first.
// A document with no recorded history yields an empty slice.
func (s *Store) Versions(name string) ([]string, error) {
	entries, err := s.load()
	if err != nil {
		return nil, err
	}
	return entries[name], nil
}
