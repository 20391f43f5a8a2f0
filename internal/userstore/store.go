// Package userstore persists user credentials in a YAML file mapping
// username to bcrypt hash. The file is read in full on every check and
// rewritten in full on registration.
package userstore

import (
	"errors"
	"fmt"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/starford/ansuz/internal/apperr"
)

// Store is a YAML-backed credential store.
type Store struct {
	path string
}

// NewStore creates a store persisted at path. The file is created lazily
// on the first registration.
func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("userstore: read %s: %w", s.path, err)
	}
	users := map[string]string{}
	if err := yaml.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("userstore: parse %s: %w", s.path, err)
	}
	return users, nil
}

func (s *Store) save(users map[string]string) error {
	data, err := yaml.Marshal(users)
	if err != nil {
		return fmt.Errorf("userstore: marshal: %w", err)
	}
	// Hashes are not secrets, but keep the file owner-only anyway.
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("userstore: write %s: %w", s.path, err)
	}
	return nil
}

// Verify checks a credential pair against the stored bcrypt hash. It
// fails with apperr.ErrInvalidCredentials when the username is unknown
// or the password does not match.
func (s *Store) Verify(username, password string) error {
	users, err := s.load()
	if err != nil {
		return err
	}
	hash, ok := users[username]
	if !ok {
		return apperr.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return apperr.ErrInvalidCredentials
		}
		return fmt.Errorf("userstore: compare hash: %w", err)
	}
	return nil
}

// Register validates and persists a new credential record. It fails with
// a validation error when either field is empty and with
// apperr.ErrAlreadyExists when the username is taken. There is no update
// or delete operation.
func (s *Store) Register(username, password string) error {
	if err := validation.Validate(username, validation.Required.Error("A username is required.")); err != nil {
		return err
	}
	if err := validation.Validate(password, validation.Required.Error("A password is required.")); err != nil {
		return err
	}

	users, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := users[username]; ok {
		return fmt.Errorf("userstore: register %s: %w", username, apperr.ErrAlreadyExists)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("userstore: hash password: %w", err)
	}
	users[username] = string(hash)
	return s.save(users)
}
