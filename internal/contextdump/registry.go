package contextdump

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"path"
	"slices"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	ferrors "github.com/humanagencyprotocol/hapsite/internal/foundation/errors"
)

//go:embed profiles
var embedded embed.FS

// ReservedRoutes are served by the HTTP server itself and cannot be used by a profile.
var ReservedRoutes = []string{"/", "/healthz", "/metrics"}

// Registry holds profiles and the prose blocks they reference.
type Registry struct {
	profiles map[string]*Profile
	prose    map[string]*template.Template
	headers  map[string]*template.Template
	footers  map[string]*template.Template
}

// DefaultRegistry loads the embedded profiles, then each overlay on top.
func DefaultRegistry(overlays ...fs.FS) (*Registry, error) {
	sub, err := fs.Sub(embedded, "profiles")
	if err != nil {
		return nil, err
	}
	return LoadRegistry(append([]fs.FS{sub}, overlays...)...)
}

// LoadRegistry reads "*.yaml" profiles and "prose/*.md" blocks from each
// filesystem in turn. Later filesystems replace profiles and prose blocks of
// the same name.
func LoadRegistry(fsyss ...fs.FS) (*Registry, error) {
	profiles := map[string]*Profile{}
	prose := map[string]string{}

	for _, fsys := range fsyss {
		files, err := fs.Glob(fsys, "*.yaml")
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			p, err := readProfile(fsys, f)
			if err != nil {
				return nil, err
			}
			profiles[p.Name] = p
		}

		blocks, err := fs.Glob(fsys, "prose/*.md")
		if err != nil {
			return nil, err
		}
		for _, b := range blocks {
			data, err := fs.ReadFile(fsys, b)
			if err != nil {
				return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "read prose block").WithContext("file", b).Build()
			}
			prose[strings.TrimSuffix(path.Base(b), ".md")] = string(data)
		}
	}

	reg := &Registry{
		profiles: profiles,
		prose:    map[string]*template.Template{},
		headers:  map[string]*template.Template{},
		footers:  map[string]*template.Template{},
	}
	for name, text := range prose {
		tpl, err := parseTemplate("prose/"+name, text)
		if err != nil {
			return nil, err
		}
		if err := dryRun(tpl, TemplateData{Site: DefaultSite()}); err != nil {
			return nil, err
		}
		reg.prose[name] = tpl
	}
	for _, name := range reg.Names() {
		p := profiles[name]
		if err := reg.validate(p); err != nil {
			return nil, err
		}
		header, err := parseTemplate(name+"/header", p.Header)
		if err != nil {
			return nil, err
		}
		footer, err := parseTemplate(name+"/footer", p.Footer)
		if err != nil {
			return nil, err
		}
		sample := TemplateData{Profile: name, Site: DefaultSite()}
		for _, tpl := range []*template.Template{header, footer} {
			if err := dryRun(tpl, sample); err != nil {
				return nil, err
			}
		}
		reg.headers[name] = header
		reg.footers[name] = footer
	}
	return reg, nil
}

func readProfile(fsys fs.FS, file string) (*Profile, error) {
	data, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "read profile").WithContext("file", file).Build()
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "parse profile").WithContext("file", file).Build()
	}
	if p.Name == "" {
		p.Name = strings.TrimSuffix(path.Base(file), path.Ext(file))
	}
	return &p, nil
}

func (r *Registry) validate(p *Profile) error {
	invalid := func(msg string) error {
		return ferrors.ValidationError(msg).WithContext("profile", p.Name).Build()
	}
	if !strings.HasPrefix(p.Route, "/") {
		return invalid("profile route must start with /")
	}
	if slices.Contains(ReservedRoutes, p.Route) {
		return invalid(fmt.Sprintf("route %s is reserved", p.Route))
	}
	if strings.ContainsAny(p.Route, " \t\r\n{}") {
		return invalid("profile route must not contain whitespace or braces")
	}
	for _, other := range r.profiles {
		if other != p && other.Route == p.Route {
			return invalid(fmt.Sprintf("route %s is served by more than one profile", p.Route))
		}
	}
	if len(p.Revisions) == 0 {
		return invalid("profile has no revisions")
	}
	defaults := 0
	for _, rev := range p.Revisions {
		if rev.Default {
			defaults++
		}
		if rev.Version == "" && !rev.Default {
			return invalid("revision needs a version or default: true")
		}
		for _, s := range rev.Sections {
			if (s.Prose == "") == (s.Document == "") {
				return invalid("section must set exactly one of prose or document")
			}
			if s.Prose != "" {
				if _, ok := r.prose[s.Prose]; !ok {
					return invalid(fmt.Sprintf("unknown prose block %q", s.Prose))
				}
			}
		}
	}
	if defaults > 1 {
		return invalid("more than one default revision")
	}
	return nil
}

func parseTemplate(name, text string) (*template.Template, error) {
	tpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "parse template").WithContext("template", name).Build()
	}
	return tpl, nil
}

// dryRun executes tpl once so that references to unknown fields fail at load
// time instead of on every request.
func dryRun(tpl *template.Template, data TemplateData) error {
	if err := tpl.Execute(io.Discard, data); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid template").
			WithContext("template", tpl.Name()).
			Build()
	}
	return nil
}

// Profile returns the named profile.
func (r *Registry) Profile(name string) (*Profile, error) {
	p, ok := r.profiles[name]
	if !ok {
		return nil, ferrors.NotFoundError("unknown context profile").WithContext("profile", name).Build()
	}
	return p, nil
}

// Names lists profile names in lexical order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.profiles))
	for n := range r.profiles {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Profiles returns all profiles ordered by name.
func (r *Registry) Profiles() []*Profile {
	out := make([]*Profile, 0, len(r.profiles))
	for _, n := range r.Names() {
		out = append(out, r.profiles[n])
	}
	return out
}
