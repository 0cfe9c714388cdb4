package contextdump

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	ferrors "github.com/humanagencyprotocol/hapsite/internal/foundation/errors"
	"github.com/humanagencyprotocol/hapsite/internal/storage"
)

// Stores maps descriptor roots to document stores.
type Stores map[string]storage.Store

// DocumentSet is an ordered mapping from logical document name to raw text.
type DocumentSet struct {
	names []string
	docs  map[string]string
}

// NewDocumentSet returns an empty set.
func NewDocumentSet() *DocumentSet {
	return &DocumentSet{docs: map[string]string{}}
}

// Add appends name (or replaces its text, keeping its position).
func (d *DocumentSet) Add(name, text string) {
	if _, ok := d.docs[name]; !ok {
		d.names = append(d.names, name)
	}
	d.docs[name] = text
}

// Get returns the document text.
func (d *DocumentSet) Get(name string) (string, bool) {
	text, ok := d.docs[name]
	return text, ok
}

// Names returns document names in insertion order.
func (d *DocumentSet) Names() []string {
	return append([]string(nil), d.names...)
}

// Len returns the number of documents.
func (d *DocumentSet) Len() int { return len(d.names) }

// Collect reads the described documents. Reads run concurrently; the set
// preserves descriptor order. A missing required document fails the whole
// collection, a missing optional one is left out.
func Collect(ctx context.Context, stores Stores, descriptors []Descriptor) (*DocumentSet, error) {
	type result struct {
		text  string
		found bool
	}
	results := make([]result, len(descriptors))

	for _, d := range descriptors {
		if _, ok := stores[d.Root]; !ok {
			return nil, ferrors.ConfigError("document references unknown root").
				WithContext("document", d.Name).
				WithContext("root", d.Root).
				Build()
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, d := range descriptors {
		store := stores[d.Root]
		g.Go(func() error {
			data, err := store.Read(gctx, d.Path)
			switch {
			case err == nil:
				results[i] = result{text: string(data), found: true}
				return nil
			case storage.IsNotFound(err) && !d.Required:
				return nil
			case storage.IsNotFound(err):
				return ferrors.WrapError(err, ferrors.CategoryContent, "required document is missing").
					WithContext("document", d.Name).
					Build()
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				return err
			default:
				return ferrors.WrapError(err, ferrors.CategoryFileSystem, "read document").
					WithContext("document", d.Name).
					Build()
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	set := NewDocumentSet()
	for i, d := range descriptors {
		if results[i].found {
			set.Add(d.Name, results[i].text)
		}
	}
	return set, nil
}
