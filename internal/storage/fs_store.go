package storage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FSStore is a Store rooted at a directory on the local filesystem.
type FSStore struct {
	basePath string
}

// NewFSStore creates a store rooted at basePath. The directory is not created;
// read-only source stores must not materialize their roots.
func NewFSStore(basePath string) *FSStore {
	return &FSStore{basePath: filepath.Clean(basePath)}
}

// Root returns the base directory.
func (s *FSStore) Root() string { return s.basePath }

// Path returns the absolute-or-relative OS path for a store name.
func (s *FSStore) Path(name string) (string, error) {
	cleaned, err := CleanName(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s", err, name)
	}
	if cleaned == "" {
		return s.basePath, nil
	}
	return filepath.Join(s.basePath, filepath.FromSlash(cleaned)), nil
}

// Read returns the content of a file.
func (s *FSStore) Read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	// #nosec G304 - p is confined to basePath by CleanName
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound{Name: p}
		}
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	return data, nil
}

// Write creates or overwrites a file, creating parent directories idempotently.
func (s *FSStore) Write(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return fmt.Errorf("create directory %s: %w", filepath.Dir(p), err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil { // #nosec G306 - site input is world-readable
		return fmt.Errorf("write %s: %w", p, err)
	}
	return nil
}

// Stat describes a file or directory.
func (s *FSStore) Stat(ctx context.Context, name string) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}
	p, err := s.Path(name)
	if err != nil {
		return Entry{}, err
	}
	info, err := os.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return Entry{}, ErrNotFound{Name: p}
		}
		return Entry{}, fmt.Errorf("stat %s: %w", p, err)
	}
	cleaned, _ := CleanName(name)
	return Entry{Name: cleaned, IsDir: info.IsDir(), Size: info.Size()}, nil
}

// Walk visits every file below dir in lexical order.
func (s *FSStore) Walk(ctx context.Context, dir string, fn WalkFunc) error {
	root, err := s.Path(dir)
	if err != nil {
		return err
	}
	if _, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound{Name: root}
		}
		return fmt.Errorf("stat %s: %w", root, err)
	}
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.basePath, p)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		return fn(name, Entry{Name: name, Size: info.Size()})
	})
}
