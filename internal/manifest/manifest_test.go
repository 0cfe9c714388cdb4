package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "github.com/humanagencyprotocol/hapsite/internal/foundation/errors"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "package.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadVersion(t *testing.T) {
	path := writeManifest(t, `{"name": "hap-website", "version": "0.3", "private": true}`)

	version, err := ReadVersion(path)
	require.NoError(t, err)
	assert.Equal(t, "0.3", version)
}

func TestReadVersionIsOpaque(t *testing.T) {
	path := writeManifest(t, `{"version": " 2026-preview "}`)

	version, err := ReadVersion(path)
	require.NoError(t, err)
	assert.Equal(t, "2026-preview", version)
}

func TestReadVersionErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		missing  bool
		category ferrors.ErrorCategory
	}{
		{name: "missing file", missing: true, category: ferrors.CategoryConfig},
		{name: "no version", content: `{"name": "hap-website"}`, category: ferrors.CategoryConfig},
		{name: "invalid json", content: `{"version": `, category: ferrors.CategoryConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "package.json")
			if !tt.missing {
				path = writeManifest(t, tt.content)
			}

			_, err := ReadVersion(path)
			require.Error(t, err)
			assert.True(t, ferrors.HasCategory(err, tt.category), "got %v", err)
		})
	}
}

func TestRead(t *testing.T) {
	path := writeManifest(t, `{"name": "hap-website", "version": "0.2"}`)

	pkg, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, &Package{Name: "hap-website", Version: "0.2"}, pkg)
}
