package userstore

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/starford/ansuz/internal/apperr"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "users.yml"))
}

func TestRegisterAndVerify(t *testing.T) {
	s := tempStore(t)
	if err := s.Register("admin", "secret"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := s.Verify("admin", "secret"); err != nil {
		t.Errorf("correct credentials rejected: %v", err)
	}
	if err := s.Verify("admin", "wrong"); !errors.Is(err, apperr.ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v, want ErrInvalidCredentials", err)
	}
	if err := s.Verify("nobody", "secret"); !errors.Is(err, apperr.ErrInvalidCredentials) {
		t.Errorf("unknown user err = %v, want ErrInvalidCredentials", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	s := tempStore(t)
	if err := s.Register("", "pw"); err == nil || err.Error() != "A username is required." {
		t.Errorf("empty username err = %v", err)
	}
	if err := s.Register("user", ""); err == nil || err.Error() != "A password is required." {
		t.Errorf("empty password err = %v", err)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	s := tempStore(t)
	if err := s.Register("admin", "secret"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	err := s.Register("admin", "other")
	if !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Errorf("err = %v, want ErrAlreadyExists", err)
	}
}

func TestPersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.yml")
	s1 := NewStore(path)
	if err := s1.Register("admin", "secret"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	s2 := NewStore(path)
	if err := s2.Verify("admin", "secret"); err != nil {
		t.Errorf("credentials lost across instances: %v", err)
	}
}
