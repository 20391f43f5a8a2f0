// Package testutil provides shared test helpers for setting up document
// and sidecar stores.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/starford/ansuz/internal/docservice"
	"github.com/starford/ansuz/internal/history"
	"github.com/starford/ansuz/internal/storage"
	"github.com/starford/ansuz/internal/userstore"
)

// TestDocuments creates a temporary documents directory with a
// storage.Provider over it.
func TestDocuments(t *testing.T) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// TestService wires a temporary document store and history sidecar into
// a docservice.Service.
func TestService(t *testing.T) *docservice.Service {
	t.Helper()
	_, store := TestDocuments(t)
	hist := history.NewStore(filepath.Join(t.TempDir(), "history.yml"))
	return docservice.NewService(store, hist)
}

// TestUsers creates a temporary credential store.
func TestUsers(t *testing.T) *userstore.Store {
	t.Helper()
	return userstore.NewStore(filepath.Join(t.TempDir(), "users.yml"))
}
