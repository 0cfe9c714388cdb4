package contextdump

import (
	"bytes"
	"strings"
	"text/template"

	ferrors "github.com/humanagencyprotocol/hapsite/internal/foundation/errors"
)

// Separator joins the sections of an assembled context.
const Separator = "\n\n---\n\n"

// SiteInfo is the site metadata available to prose templates.
type SiteInfo struct {
	Title       string
	Description string
}

// DefaultSite matches the public website.
func DefaultSite() SiteInfo {
	return SiteInfo{
		Title:       "Human Agency Protocol",
		Description: "A global protocol for strengthening human agency in AI-native systems, without sharing content.",
	}
}

// TemplateData is passed to header, footer and prose templates.
type TemplateData struct {
	Profile string
	Version string
	// Label is the version shown to readers; it differs from Version when a
	// revision pins its own label.
	Label string
	Date  string
	Site  SiteInfo
}

// Assemble renders the profile's revision around docs. It does no I/O.
// Empty sections and absent optional documents are dropped so separators
// never double up; the result is trimmed.
func (r *Registry) Assemble(p *Profile, rev *Revision, docs *DocumentSet, version string, site SiteInfo) (string, error) {
	data := TemplateData{
		Profile: p.Name,
		Version: version,
		Label:   rev.DisplayVersion(version),
		Date:    rev.Date,
		Site:    site,
	}

	header, err := execute(r.headers[p.Name], data)
	if err != nil {
		return "", err
	}
	parts := []string{strings.TrimSpace("# " + p.Title + "\n\n" + header)}

	for _, s := range rev.Sections {
		var text string
		switch {
		case s.Prose != "":
			if text, err = execute(r.prose[s.Prose], data); err != nil {
				return "", err
			}
		default:
			doc, ok := docs.Get(s.Document)
			if !ok {
				if s.Optional {
					continue
				}
				return "", ferrors.ContentError("required document is missing").
					WithContext("document", s.Document).
					Build()
			}
			text = doc
			if s.Heading != "" && strings.TrimSpace(doc) != "" {
				text = s.Heading + "\n\n" + doc
			}
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		parts = append(parts, text)
	}

	footer, err := execute(r.footers[p.Name], data)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(footer) != "" {
		parts = append(parts, footer)
	}

	return strings.TrimSpace(strings.Join(parts, Separator)), nil
}

func execute(tpl *template.Template, data TemplateData) (string, error) {
	if tpl == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryRender, "render template").
			WithContext("template", tpl.Name()).
			Build()
	}
	return strings.TrimSpace(buf.String()), nil
}
