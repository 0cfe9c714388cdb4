package transforms

import (
	"errors"
	"fmt"
	"sort"

	"github.com/humanagencyprotocol/hapsite/internal/frontmatter"
)

// Params carries the values a named transform may need.
type Params struct {
	Title   string
	Version string
	Date    string
}

// Factory builds a transform from params.
type Factory func(p Params) Transform

// ErrNoTitle is returned when a page title is neither configured nor derivable.
var ErrNoTitle = errors.New("no title configured and document has no leading H1")

// ErrUnknownTransform is returned by Lookup for unregistered names.
var ErrUnknownTransform = errors.New("unknown transform")

var reg = map[string]Factory{}

// Register adds a named factory (idempotent by name). Intended to be called from init().
func Register(name string, f Factory) {
	if f == nil {
		return
	}
	if _, ok := reg[name]; !ok {
		reg[name] = f
	}
}

// Lookup builds the named transform.
func Lookup(name string, p Params) (Transform, error) {
	f, ok := reg[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownTransform, name, Names())
	}
	return f(p), nil
}

// Names lists registered transforms in lexical order.
func Names() []string {
	names := make([]string, 0, len(reg))
	for n := range reg {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register("strip-title", func(p Params) Transform { return StripTitle(p.Title) })
	Register("frontmatter", func(p Params) Transform {
		return InjectFrontmatter(frontmatter.Block{Title: p.Title, Version: p.Version, Date: p.Date})
	})
	Register("demo-page", DemoPage)
}
