package transforms

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demoBlock = "---\ntitle: HAP Demo\nversion: \"0.1\"\ndate: \"2026-01-15\"\n---\n"

func TestStripTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		in    string
		want  string
	}{
		{
			name:  "removes heading and following blank lines",
			title: "HAP Demo",
			in:    "# HAP Demo\n\n\nRun the demo.\n",
			want:  "Run the demo.\n",
		},
		{
			name:  "leaves other headings alone",
			title: "HAP Demo",
			in:    "# Something Else\n\nRun the demo.\n",
			want:  "# Something Else\n\nRun the demo.\n",
		},
		{
			name:  "heading must lead the document",
			title: "HAP Demo",
			in:    "Intro\n\n# HAP Demo\n",
			want:  "Intro\n\n# HAP Demo\n",
		},
		{
			name:  "normalized unicode comparison",
			title: "Café",
			in:    "# Cafe\u0301\n\nBody",
			want:  "Body",
		},
		{
			name:  "crlf blank lines",
			title: "HAP Demo",
			in:    "# HAP Demo\r\n\r\nBody\r\n",
			want:  "Body\r\n",
		},
		{
			name:  "only the first occurrence",
			title: "HAP Demo",
			in:    "# HAP Demo\n# HAP Demo\n",
			want:  "# HAP Demo\n",
		},
		{
			name:  "blank lines before the heading are kept",
			title: "HAP Demo",
			in:    "\n\n# HAP Demo\n\nBody\n",
			want:  "\n\nBody\n",
		},
		{
			name:  "empty title is a no-op",
			title: "",
			in:    "# HAP Demo\n",
			want:  "# HAP Demo\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StripTitle(tt.title)(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDemoPage_WithLiteralHeading(t *testing.T) {
	out, err := DemoPage(Params{Title: "HAP Demo", Version: "0.1", Date: "2026-01-15"})("# HAP Demo\n\nRun `npm start`.\n")
	require.NoError(t, err)
	assert.Equal(t, demoBlock+"Run `npm start`.\n", out)
}

func TestDemoPage_WithoutHeadingOnlyPrepends(t *testing.T) {
	body := "Run `npm start`.\n"
	out, err := DemoPage(Params{Title: "HAP Demo", Version: "0.1", Date: "2026-01-15"})(body)
	require.NoError(t, err)
	assert.Equal(t, demoBlock+body, out)
}

func TestDemoPage_LeadingRuleWithoutHeading(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "rule without closing delimiter", in: "---\n\nRun the demo.\n"},
		{name: "rules around plain text", in: "---\nRun the demo.\n---\n\nMore.\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := DemoPage(Params{Title: "HAP Demo", Version: "0.1", Date: "2026-01-15"})(tt.in)
			require.NoError(t, err)
			assert.Equal(t, demoBlock+tt.in, out)
		})
	}
}

func TestDemoPage_DerivesTitleFromH1(t *testing.T) {
	out, err := DemoPage(Params{Version: "0.1", Date: "2026-01-15"})("# HAP Demo\n\nBody\n")
	require.NoError(t, err)
	assert.Equal(t, demoBlock+"Body\n", out)

	_, err = DemoPage(Params{Version: "0.1"})("No heading here\n")
	assert.True(t, errors.Is(err, ErrNoTitle))
}

func TestLookup(t *testing.T) {
	assert.Equal(t, []string{"demo-page", "frontmatter", "strip-title"}, Names())

	tr, err := Lookup("frontmatter", Params{Title: "HAP Demo", Version: "0.1", Date: "2026-01-15"})
	require.NoError(t, err)
	out, err := tr("# HAP Demo\n")
	require.NoError(t, err)
	assert.Equal(t, demoBlock+"# HAP Demo\n", out)

	_, err = Lookup("nope", Params{})
	assert.ErrorIs(t, err, ErrUnknownTransform)
}

func TestChainStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	called := false
	_, err := Chain(
		func(string) (string, error) { return "", boom },
		func(s string) (string, error) { called = true; return s, nil },
	)("x")
	assert.ErrorIs(t, err, boom)
	assert.False(t, called)
}
