// Package manifest reads the content version from a JSON package manifest.
package manifest

import (
	"encoding/json"
	"os"
	"strings"

	ferrors "github.com/humanagencyprotocol/hapsite/internal/foundation/errors"
)

// Package is the subset of package.json that hapsite reads.
type Package struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Read decodes the manifest at path.
func Read(path string) (*Package, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path comes from configuration
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ferrors.ConfigError("package manifest not found").
				WithContext("path", path).
				UserAction().
				Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read package manifest").
			WithContext("path", path).
			Build()
	}
	return Parse(data, path)
}

// Parse decodes manifest data. source names the manifest in errors.
func Parse(data []byte, source string) (*Package, error) {
	var pkg Package
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "invalid package manifest").
			WithContext("path", source).
			Build()
	}
	pkg.Version = strings.TrimSpace(pkg.Version)
	return &pkg, nil
}

// ReadVersion returns the manifest's "version" field. The value is opaque:
// it names a content directory and is never parsed as semver.
func ReadVersion(path string) (string, error) {
	pkg, err := Read(path)
	if err != nil {
		return "", err
	}
	if pkg.Version == "" {
		return "", ferrors.ConfigError("package manifest has no version").
			WithContext("path", path).
			UserAction().
			Build()
	}
	return pkg.Version, nil
}
