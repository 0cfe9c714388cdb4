package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteAndReadTree(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"a.md":          "A",
		"nested/b.md":   "B",
		"nested/c/d.md": "D",
	}
	WriteTree(t, dir, files)

	assert.Equal(t, files, ReadTree(t, dir))
	assert.Empty(t, ReadTree(t, filepath.Join(dir, "missing")))

	NewFileAssertions(t, dir).
		AssertFileExists("nested/b.md").
		AssertFileNotExists("nested/x.md").
		AssertFileEquals("a.md", "A").
		AssertFileContains("nested/c/d.md", "D")
}
