package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeadingHeading_ATX(t *testing.T) {
	body := []byte("# HAP Demo\n\nRun the demo.\n")

	h, ok := LeadingHeading(body)
	require.True(t, ok)
	assert.Equal(t, 1, h.Level)
	assert.Equal(t, "HAP Demo", h.Text)
	assert.Equal(t, "# HAP Demo\n", string(body[h.Start:h.End]))
}

func TestLeadingHeading_Setext(t *testing.T) {
	body := []byte("HAP Demo\n========\n\nRun the demo.\n")

	h, ok := LeadingHeading(body)
	require.True(t, ok)
	assert.Equal(t, 1, h.Level)
	assert.Equal(t, "HAP Demo", h.Text)
	assert.Equal(t, "HAP Demo\n========\n", string(body[h.Start:h.End]))
}

func TestLeadingHeading_AfterBlankLines(t *testing.T) {
	body := []byte("\n\n## Getting Started\nText")

	h, ok := LeadingHeading(body)
	require.True(t, ok)
	assert.Equal(t, 2, h.Level)
	assert.Equal(t, "## Getting Started\n", string(body[h.Start:h.End]))
}

func TestLeadingHeading_NotFirstBlock(t *testing.T) {
	_, ok := LeadingHeading([]byte("Intro paragraph.\n\n# Later Heading\n"))
	assert.False(t, ok)

	_, ok = LeadingHeading([]byte(""))
	assert.False(t, ok)
}

func TestLeadingHeading_NoTrailingNewline(t *testing.T) {
	body := []byte("# Only")
	h, ok := LeadingHeading(body)
	require.True(t, ok)
	assert.Equal(t, len(body), h.End)
}

func TestLeadingHeading_ThematicBreakAfterATX(t *testing.T) {
	body := []byte("# Title\n---\nText\n")
	h, ok := LeadingHeading(body)
	require.True(t, ok)
	assert.Equal(t, "# Title\n", string(body[h.Start:h.End]))
}
