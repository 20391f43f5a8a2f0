// Package storage defines the document directory abstraction.
package storage

// Provider is the interface for document file operations. Documents live
// in a single flat directory and are identified by bare filename.
type Provider interface {
	// List returns the names of every regular file in the documents
	// directory, sorted lexicographically.
	List() ([]string, error)
	// Read returns the raw bytes of the named document.
	Read(name string) ([]byte, error)
	// Write atomically replaces or creates the named document.
	Write(name string, content []byte) error
	// Delete removes the named document.
	Delete(name string) error
	// Rename moves a document to a new name. It fails if the target
	// name is already taken.
	Rename(oldName, newName string) error
	// Duplicate copies a document under its derived copy name and
	// returns that name.
	Duplicate(name string) (string, error)
}
