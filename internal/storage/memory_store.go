package storage

import (
	"context"
	"slices"
	"strings"
	"sync"
)

// MemoryStore is an in-memory Store for tests. Directories exist implicitly
// whenever a document lives below them.
type MemoryStore struct {
	mu     sync.RWMutex
	name   string
	docs   map[string][]byte
	writes int
}

// NewMemoryStore creates a store pre-populated with the given documents.
func NewMemoryStore(name string, docs map[string]string) *MemoryStore {
	m := &MemoryStore{name: name, docs: make(map[string][]byte, len(docs))}
	for k, v := range docs {
		if cleaned, err := CleanName(k); err == nil {
			m.docs[cleaned] = []byte(v)
		}
	}
	return m
}

// Root returns the store's label.
func (m *MemoryStore) Root() string { return "mem://" + m.name }

// Read returns a copy of the document bytes.
func (m *MemoryStore) Read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cleaned, err := CleanName(name)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.docs[cleaned]
	if !ok {
		return nil, ErrNotFound{Name: m.Root() + "/" + cleaned}
	}
	return slices.Clone(data), nil
}

// Write stores a copy of data.
func (m *MemoryStore) Write(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cleaned, err := CleanName(name)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[cleaned] = slices.Clone(data)
	m.writes++
	return nil
}

// Stat reports files and implicit directories.
func (m *MemoryStore) Stat(ctx context.Context, name string) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}
	cleaned, err := CleanName(name)
	if err != nil {
		return Entry{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if data, ok := m.docs[cleaned]; ok {
		return Entry{Name: cleaned, Size: int64(len(data))}, nil
	}
	prefix := dirPrefix(cleaned)
	for k := range m.docs {
		if strings.HasPrefix(k, prefix) {
			return Entry{Name: cleaned, IsDir: true}, nil
		}
	}
	return Entry{}, ErrNotFound{Name: m.Root() + "/" + cleaned}
}

// Walk visits documents below dir in lexical order.
func (m *MemoryStore) Walk(ctx context.Context, dir string, fn WalkFunc) error {
	cleaned, err := CleanName(dir)
	if err != nil {
		return err
	}
	if _, err := m.Stat(ctx, cleaned); err != nil {
		return err
	}
	prefix := dirPrefix(cleaned)

	m.mu.RLock()
	var names []string
	for k := range m.docs {
		if strings.HasPrefix(k, prefix) || k == cleaned {
			names = append(names, k)
		}
	}
	sizes := make(map[string]int64, len(names))
	for _, n := range names {
		sizes[n] = int64(len(m.docs[n]))
	}
	m.mu.RUnlock()

	slices.Sort(names)
	for _, n := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(n, Entry{Name: n, Size: sizes[n]}); err != nil {
			return err
		}
	}
	return nil
}

// Documents returns a snapshot of all stored documents.
func (m *MemoryStore) Documents() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.docs))
	for k, v := range m.docs {
		out[k] = string(v)
	}
	return out
}

// Writes returns how many Write calls reached the store.
func (m *MemoryStore) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

func dirPrefix(cleaned string) string {
	if cleaned == "" {
		return ""
	}
	return cleaned + "/"
}
