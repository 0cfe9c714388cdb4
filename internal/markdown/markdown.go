// Package markdown wraps the goldmark parser for the few structural questions
// hapsite asks about markdown documents.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Heading describes a heading block and the source lines it occupies.
type Heading struct {
	Level int
	Text  string
	// Start and End delimit the heading's source lines, End including the
	// trailing newline when present.
	Start int
	End   int
}

// ParseBody parses a Markdown body (frontmatter already removed) into a Goldmark AST.
func ParseBody(body []byte) gmast.Node {
	return goldmark.New().Parser().Parse(text.NewReader(body))
}

// LeadingHeading returns the document's first block if it is a heading.
func LeadingHeading(body []byte) (Heading, bool) {
	root := ParseBody(body)
	first := root.FirstChild()
	h, ok := first.(*gmast.Heading)
	if !ok {
		return Heading{}, false
	}
	lines := h.Lines()
	if lines.Len() == 0 {
		// Empty ATX heading ("#") carries no text segment.
		return Heading{}, false
	}

	var buf bytes.Buffer
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(body))
	}

	start := lineStart(body, lines.At(0).Start)
	last := lines.At(lines.Len() - 1)
	stop := last.Stop
	if stop > last.Start {
		// Stay on the last content line even when the segment includes its newline.
		stop--
	}
	end := lineEnd(body, stop)
	if !bytes.HasPrefix(bytes.TrimLeft(body[start:], " "), []byte("#")) {
		// Setext heading: the underline is part of the heading.
		end = lineEnd(body, end)
	}

	return Heading{
		Level: h.Level,
		Text:  string(bytes.TrimSpace(buf.Bytes())),
		Start: start,
		End:   end,
	}, true
}

func lineStart(src []byte, pos int) int {
	if i := bytes.LastIndexByte(src[:pos], '\n'); i >= 0 {
		return i + 1
	}
	return 0
}

func lineEnd(src []byte, pos int) int {
	if pos >= len(src) {
		return len(src)
	}
	if i := bytes.IndexByte(src[pos:], '\n'); i >= 0 {
		return pos + i + 1
	}
	return len(src)
}
