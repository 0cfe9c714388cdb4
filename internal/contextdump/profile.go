// Package contextdump assembles the plain-text context documents served to
// language models: literal prose interleaved with protocol documents, joined
// by "---" separator lines.
//
// Prose and document order are data. Each profile (one per served route)
// lists revisions keyed by protocol version; a revision names the prose
// blocks and documents it includes. The default profiles are embedded from
// profiles/ and can be overridden from a directory at runtime.
package contextdump

import (
	"strings"

	ferrors "github.com/humanagencyprotocol/hapsite/internal/foundation/errors"
)

// Profile describes one assembled output.
type Profile struct {
	Name  string `yaml:"name"`
	Route string `yaml:"route"`
	Title string `yaml:"title"`
	// Header and Footer are text/template sources rendered with TemplateData.
	Header    string     `yaml:"header"`
	Footer    string     `yaml:"footer"`
	Revisions []Revision `yaml:"revisions"`
}

// Revision is the per-version layout of a profile.
type Revision struct {
	Version string `yaml:"version,omitempty"`
	Default bool   `yaml:"default,omitempty"`
	// Label overrides the version shown in the header.
	Label    string    `yaml:"label,omitempty"`
	Date     string    `yaml:"date,omitempty"`
	Sections []Section `yaml:"sections"`
}

// Section is either a named prose block or a document reference.
type Section struct {
	Prose    string `yaml:"prose,omitempty"`
	Document string `yaml:"document,omitempty"`
	// Heading is placed above the document text.
	Heading  string `yaml:"heading,omitempty"`
	Optional bool   `yaml:"optional,omitempty"`
}

// Revision returns the revision for version: an exact match, else the
// revision marked default.
func (p *Profile) Revision(version string) (*Revision, error) {
	var fallback *Revision
	for i := range p.Revisions {
		r := &p.Revisions[i]
		if r.Version != "" && r.Version == version {
			return r, nil
		}
		if r.Default && fallback == nil {
			fallback = r
		}
	}
	if fallback != nil {
		return fallback, nil
	}
	return nil, ferrors.ConfigError("no revision matches version and no default revision is defined").
		WithContext("profile", p.Name).
		WithContext("version", version).
		Build()
}

// DisplayVersion is the version printed in the header.
func (r *Revision) DisplayVersion(version string) string {
	if r.Label != "" {
		return r.Label
	}
	return version
}

// Documents returns the document names the revision references, in order.
func (r *Revision) Documents() []string {
	var names []string
	for _, s := range r.Sections {
		if s.Document != "" {
			names = append(names, s.Document)
		}
	}
	return names
}

// DocumentRef locates a logical document in one of the aggregator's stores.
// Path may contain the {version} placeholder.
type DocumentRef struct {
	Root string `yaml:"root" toml:"root"`
	Path string `yaml:"path" toml:"path"`
}

// PathTable maps logical document names to their locations.
type PathTable map[string]DocumentRef

// DefaultPaths mirrors the site layout: protocol documents live in the
// versioned content directory, SDK documents in the synced sdk-docs folder.
func DefaultPaths() PathTable {
	return PathTable{
		"protocol":    {Root: "content", Path: "{version}/protocol.md"},
		"integration": {Root: "content", Path: "{version}/integration.md"},
		"service":     {Root: "content", Path: "{version}/service.md"},
		"governance":  {Root: "content", Path: "{version}/governance.md"},
		"review":      {Root: "content", Path: "{version}/review.md"},
		"readme":      {Root: "site", Path: "src/sdk-docs/README.md"},
		"api":         {Root: "site", Path: "src/sdk-docs/API.md"},
		"local-dev":   {Root: "site", Path: "src/sdk-docs/LOCAL_DEVELOPMENT.md"},
		"roadmap":     {Root: "site", Path: "src/sdk-docs/ROADMAP.md"},
		"demo":        {Root: "site", Path: "src/content/docs/demo.md"},
	}
}

// Merge returns a copy of t with other's entries added or replaced.
func (t PathTable) Merge(other PathTable) PathTable {
	out := make(PathTable, len(t)+len(other))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Descriptor identifies one document to read.
type Descriptor struct {
	Name     string
	Root     string
	Path     string
	Required bool
}

// Descriptors resolves the revision's document sections against paths. A
// document is required unless its section is marked optional.
func (r *Revision) Descriptors(paths PathTable, version string) ([]Descriptor, error) {
	var out []Descriptor
	for _, s := range r.Sections {
		if s.Document == "" {
			continue
		}
		ref, ok := paths[s.Document]
		if !ok {
			return nil, ferrors.ConfigError("document has no configured path").
				WithContext("document", s.Document).
				Build()
		}
		out = append(out, Descriptor{
			Name:     s.Document,
			Root:     ref.Root,
			Path:     strings.ReplaceAll(ref.Path, "{version}", version),
			Required: !s.Optional,
		})
	}
	return out, nil
}
