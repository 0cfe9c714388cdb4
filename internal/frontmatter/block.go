package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Field is one key of an ordered frontmatter block.
type Field struct {
	Key   string
	Value any
}

// Block is the fixed metadata block injected into generated pages.
type Block struct {
	Title   string
	Version string
	Date    string
}

// Fields returns the block's keys in their fixed order.
func (b Block) Fields() []Field {
	return []Field{
		{Key: "title", Value: b.Title},
		{Key: "version", Value: b.Version},
		{Key: "date", Value: b.Date},
	}
}

// Render returns the delimited block using LF newlines.
func (b Block) Render() (string, error) {
	raw, err := SerializeOrdered(b.Fields(), Style{Newline: "\n"})
	if err != nil {
		return "", err
	}
	return string(Join(raw, nil, true, Style{Newline: "\n"})), nil
}

// Prepend places the block at the top of body. Frontmatter already present in
// body is merged: block keys come first and win, other keys follow sorted.
// A leading "---" that does not open a closed YAML mapping is a thematic
// break, and the whole input is kept as body.
func Prepend(b Block, body []byte) ([]byte, error) {
	fields := b.Fields()
	existing, rest, had, style, err := Split(body)
	switch {
	case errors.Is(err, ErrMissingClosingDelimiter):
		rest = body
	case err != nil:
		return nil, err
	case !had:
		rest = body
	default:
		parsed, perr := ParseYAML(existing)
		if perr != nil {
			rest = body
			break
		}
		keys := make([]string, 0, len(parsed))
		for k := range parsed {
			if k != "title" && k != "version" && k != "date" {
				keys = append(keys, k)
			}
		}
		slices.Sort(keys)
		for _, k := range keys {
			fields = append(fields, Field{Key: k, Value: parsed[k]})
		}
	}

	raw, err := SerializeOrdered(fields, style)
	if err != nil {
		return nil, err
	}
	return Join(raw, rest, true, style), nil
}

// SerializeOrdered serializes fields as a YAML mapping in the given order
// (without delimiters). Strings that would read back as another type, such as
// "0.1" or "2026-01-15", are quoted by the encoder.
func SerializeOrdered(fields []Field, style Style) ([]byte, error) {
	if len(fields) == 0 {
		return []byte{}, nil
	}

	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range fields {
		val, err := nodeFromAny(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Key, err)
		}
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Key}, val)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	out := buf.Bytes()
	if nl := style.Newline; nl != "" && nl != "\n" {
		out = bytes.ReplaceAll(out, []byte("\n"), []byte(nl))
	}
	return out, nil
}

func nodeFromAny(v any) (*yaml.Node, error) {
	switch vv := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: vv}, nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(vv)}, nil
	case int:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(vv)}, nil
	default:
		// Nested values from parsed frontmatter go through yaml's own encoder.
		var node yaml.Node
		if err := node.Encode(v); err != nil {
			return nil, err
		}
		return &node, nil
	}
}
