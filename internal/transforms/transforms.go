// Package transforms provides the text transformations applied to single
// documents while they are synced into the site tree.
package transforms

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/humanagencyprotocol/hapsite/internal/frontmatter"
	"github.com/humanagencyprotocol/hapsite/internal/markdown"
)

// Transform rewrites a document's text.
type Transform func(text string) (string, error)

// Chain applies transforms left to right, stopping at the first error.
func Chain(ts ...Transform) Transform {
	return func(text string) (string, error) {
		var err error
		for _, t := range ts {
			if t == nil {
				continue
			}
			if text, err = t(text); err != nil {
				return "", err
			}
		}
		return text, nil
	}
}

// StripTitle removes a leading heading whose text equals title, together with
// the blank lines that follow it. Anything before the heading is kept. Text
// that doesn't start with that heading is returned unchanged.
func StripTitle(title string) Transform {
	want := normalizeTitle(title)
	return func(text string) (string, error) {
		if want == "" {
			return text, nil
		}
		h, ok := markdown.LeadingHeading([]byte(text))
		if !ok || normalizeTitle(h.Text) != want {
			return text, nil
		}
		return text[:h.Start] + text[skipBlankLines(text, h.End):], nil
	}
}

// InjectFrontmatter prepends the block, merging with any frontmatter the text already has.
func InjectFrontmatter(block frontmatter.Block) Transform {
	return func(text string) (string, error) {
		out, err := frontmatter.Prepend(block, []byte(text))
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
}

// DemoPage strips the page title heading and injects the title/version/date
// block. Without a configured title the leading H1 provides it.
func DemoPage(p Params) Transform {
	return func(text string) (string, error) {
		title := p.Title
		if title == "" {
			h, ok := markdown.LeadingHeading([]byte(text))
			if !ok || h.Level != 1 {
				return "", ErrNoTitle
			}
			title = h.Text
		}
		return Chain(
			StripTitle(title),
			InjectFrontmatter(frontmatter.Block{Title: title, Version: p.Version, Date: p.Date}),
		)(text)
	}
}

func normalizeTitle(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// skipBlankLines returns the offset of the first line at or after pos that
// contains anything besides spaces and tabs.
func skipBlankLines(text string, pos int) int {
	for pos < len(text) {
		nl := strings.IndexByte(text[pos:], '\n')
		line := text[pos:]
		if nl >= 0 {
			line = text[pos : pos+nl]
		}
		if strings.TrimRight(line, " \t\r") != "" {
			return pos
		}
		if nl < 0 {
			return len(text)
		}
		pos += nl + 1
	}
	return pos
}
