// Package storage isolates hapsite's filesystem access behind a small document
// store abstraction so syncing and templating can be exercised without real files.
package storage

import (
	"context"
	"errors"
	"path"
	"strings"
)

// Store reads and writes documents addressed by slash-separated names relative
// to the store's root.
type Store interface {
	// Read returns the document bytes. Returns an error satisfying IsNotFound
	// if the document doesn't exist.
	Read(ctx context.Context, name string) ([]byte, error)

	// Write stores data under name, creating parent directories as needed
	// and overwriting any existing document.
	Write(ctx context.Context, name string, data []byte) error

	// Stat describes name. Returns an error satisfying IsNotFound if absent.
	Stat(ctx context.Context, name string) (Entry, error)

	// Walk calls fn for every file below dir in lexical order. Directories
	// are traversed but not reported.
	Walk(ctx context.Context, dir string, fn WalkFunc) error

	// Root describes the store's location for logs and error messages.
	Root() string
}

// WalkFunc is called by Store.Walk with the store-relative name of each file.
type WalkFunc func(name string, entry Entry) error

// Entry describes a stored document or directory.
type Entry struct {
	Name  string
	IsDir bool
	Size  int64
}

// ErrNotFound is returned when a document doesn't exist.
type ErrNotFound struct {
	Name string
}

func (e ErrNotFound) Error() string {
	return "document not found: " + e.Name
}

// IsNotFound returns true if err's chain contains ErrNotFound.
func IsNotFound(err error) bool {
	var nf ErrNotFound
	return errors.As(err, &nf)
}

// ErrInvalidName is returned for names that escape the store root.
var ErrInvalidName = errors.New("document name escapes store root")

// CleanName normalizes a store-relative name. The root is returned as "".
func CleanName(name string) (string, error) {
	name = strings.ReplaceAll(name, "\\", "/")
	if strings.HasPrefix(name, "/") {
		return "", ErrInvalidName
	}
	cleaned := path.Clean(name)
	if cleaned == "." {
		return "", nil
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidName
	}
	return cleaned, nil
}

// Join joins name elements into a store-relative name.
func Join(elem ...string) string {
	return strings.TrimPrefix(path.Join(elem...), "/")
}
