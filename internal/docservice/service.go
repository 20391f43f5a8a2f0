// Package docservice coordinates the document store and the history
// store. History is snapshotted before every overwrite; the two stores
// are updated best-effort, not transactionally.
package docservice

import (
	"context"
	"errors"
	"os"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/history"
	"github.com/starford/ansuz/internal/storage"
)

// Document is the full representation of a stored document.
type Document struct {
	Name    string
	Content []byte
	Kind    storage.Kind
}

// Service coordinates storage and history operations.
type Service struct {
	store   storage.Provider
	history *history.Store
}

// NewService creates a new document service.
func NewService(store storage.Provider, hist *history.Store) *Service {
	return &Service{store: store, history: hist}
}

// List returns all document names, sorted.
func (s *Service) List(_ context.Context) ([]string, error) {
	return s.store.List()
}

// Get reads a document and classifies it.
func (s *Service) Get(_ context.Context, name string) (*Document, error) {
	data, err := s.store.Read(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &Document{Name: name, Content: data, Kind: storage.ClassifyName(name)}, nil
}

// Create validates the name and writes an empty document, seeding its
// history entry.
func (s *Service) Create(_ context.Context, name string) error {
	if err := storage.ValidateName(name); err != nil {
		return err
	}
	if _, err := s.store.Read(name); err == nil {
		return apperr.ErrAlreadyExists
	}
	if err := s.history.Record(name, nil, false); err != nil {
		return err
	}
	return s.store.Write(name, []byte{})
}

// Save replaces a document's content. The current on-disk content is
// snapshotted into history first, so the stored versions are always the
// pre-overwrite ones.
func (s *Service) Save(_ context.Context, name string, content []byte) error {
	current, err := s.store.Read(name)
	exists := err == nil
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := s.history.Record(name, current, exists); err != nil {
		return err
	}
	return s.store.Write(name, content)
}

// Rename validates the new name and moves the document together with its
// history entry. It fails with apperr.ErrNotFound when the source is
// absent and apperr.ErrAlreadyExists when the target name is taken.
func (s *Service) Rename(_ context.Context, oldName, newName string) error {
	if err := storage.ValidateName(newName); err != nil {
		return err
	}
	if err := s.store.Rename(oldName, newName); err != nil {
		switch {
		case errors.Is(err, os.ErrNotExist):
			return apperr.ErrNotFound
		case errors.Is(err, os.ErrExist):
			return apperr.ErrAlreadyExists
		}
		return err
	}
	return s.history.Move(oldName, newName)
}

// Duplicate copies a document under its derived copy name, seeding a
// history entry for the copy, and returns the copy name.
func (s *Service) Duplicate(_ context.Context, name string) (string, error) {
	copyName, err := s.store.Duplicate(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", apperr.ErrNotFound
		}
		return "", err
	}
	if err := s.history.Record(copyName, nil, false); err != nil {
		return "", err
	}
	return copyName, nil
}

// Delete removes a document and drops its history entry.
func (s *Service) Delete(_ context.Context, name string) error {
	if err := s.store.Delete(name); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return apperr.ErrNotFound
		}
		return err
	}
	return s.history.Drop(name)
}

// Versions returns the recorded history snapshots for a document,
// oldest first. Unknown names yield an empty slice.
func (s *Service) Versions(_ context.Context, name string) ([]string, error) {
	return s.history.Versions(name)
}

// Upload stores raw uploaded bytes under the given name after
// validating it, seeding a history entry. Used for image uploads.
func (s *Service) Upload(_ context.Context, name string, content []byte) error {
	if err := storage.ValidateName(name); err != nil {
		return err
	}
	if err := s.history.Record(name, nil, false); err != nil {
		return err
	}
	return s.store.Write(name, content)
}
