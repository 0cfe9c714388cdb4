// Package config loads the hapsite configuration file.
//
// The file may be YAML (hapsite.yaml) or TOML (hapsite.toml); the format is
// chosen by extension. Environment variables from .env files are loaded
// first and ${VAR} references are expanded before decoding. Relative paths
// are resolved against the configuration file's directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	ferrors "github.com/humanagencyprotocol/hapsite/internal/foundation/errors"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "hapsite.yaml"

// Config represents the hapsite configuration.
type Config struct {
	// Manifest is the JSON package manifest whose "version" selects the content.
	Manifest string `yaml:"manifest" toml:"manifest"`
	// Version overrides the manifest version when set.
	Version string        `yaml:"version,omitempty" toml:"version"`
	Site    SiteConfig    `yaml:"site" toml:"site"`
	Roots   RootsConfig   `yaml:"roots" toml:"roots"`
	Sync    SyncConfig    `yaml:"sync" toml:"sync"`
	Context ContextConfig `yaml:"context" toml:"context"`
	Server  ServerConfig  `yaml:"server" toml:"server"`

	// baseDir is the directory relative paths are resolved against.
	baseDir string
}

// SiteConfig carries site metadata exposed to context templates.
type SiteConfig struct {
	Title       string `yaml:"title" toml:"title"`
	Description string `yaml:"description,omitempty" toml:"description"`
}

// RootsConfig names the directories content is read from and written to.
type RootsConfig struct {
	Content string `yaml:"content" toml:"content"`
	SDK     string `yaml:"sdk" toml:"sdk"`
	Demo    string `yaml:"demo" toml:"demo"`
	Site    string `yaml:"site" toml:"site"`
}

// SyncConfig configures the content synchronizer.
type SyncConfig struct {
	// Date is written into generated frontmatter; defaults to the run date.
	Date     string     `yaml:"date,omitempty" toml:"date"`
	Debounce Duration   `yaml:"debounce,omitempty" toml:"debounce"`
	Rules    []SyncRule `yaml:"rules" toml:"rules"`
}

// SyncRule maps one source into the site tree.
type SyncRule struct {
	Name      string `yaml:"name" toml:"name"`
	Root      string `yaml:"root" toml:"root"`
	Source    string `yaml:"source,omitempty" toml:"source"`
	Dest      string `yaml:"dest" toml:"dest"`
	Versioned bool   `yaml:"versioned,omitempty" toml:"versioned"`
	Mandatory bool   `yaml:"mandatory,omitempty" toml:"mandatory"`
	Transform string `yaml:"transform,omitempty" toml:"transform"`
	Title     string `yaml:"title,omitempty" toml:"title"`
}

// ContextConfig configures the context aggregator.
type ContextConfig struct {
	// ProfilesDir holds extra or overriding profiles (*.yaml, prose/*.md).
	ProfilesDir string                    `yaml:"profiles_dir,omitempty" toml:"profiles_dir"`
	Documents   map[string]DocumentConfig `yaml:"documents,omitempty" toml:"documents"`
}

// DocumentConfig locates a logical document. Path may contain {version}.
type DocumentConfig struct {
	Root string `yaml:"root" toml:"root"`
	Path string `yaml:"path" toml:"path"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr         string   `yaml:"addr" toml:"addr"`
	Metrics      *bool    `yaml:"metrics,omitempty" toml:"metrics"`
	ReadTimeout  Duration `yaml:"read_timeout,omitempty" toml:"read_timeout"`
	WriteTimeout Duration `yaml:"write_timeout,omitempty" toml:"write_timeout"`
}

// MetricsEnabled reports whether /metrics is served (default true).
func (s ServerConfig) MetricsEnabled() bool {
	return s.Metrics == nil || *s.Metrics
}

// Duration is a time.Duration decoded from strings such as "5s" in both YAML and TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// MarshalText renders the duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Load reads, expands, decodes, defaults and validates the configuration at path.
func Load(path string) (*Config, error) {
	loadEnvFiles(filepath.Dir(path))

	data, err := os.ReadFile(path) // #nosec G304 - path is operator supplied
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ferrors.ConfigError("configuration file not found").
				WithContext("path", path).
				UserAction().
				Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to read config file").Build()
	}

	cfg, err := Parse(data, formatFor(path))
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "resolve config directory").Build()
	}
	cfg.baseDir = abs
	return cfg, nil
}

// Format is a configuration file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

func formatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Parse decodes configuration data, applying defaults and validation.
// Relative paths resolve against the working directory until Load sets the
// file's directory.
func Parse(data []byte, format Format) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	switch format {
	case FormatTOML:
		if _, err := toml.Decode(expanded, &cfg); err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to parse TOML config").Build()
		}
	default:
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to parse YAML config").Build()
		}
	}

	if err := ApplyDefaults(&cfg); err != nil {
		return nil, err
	}
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	_ = ApplyDefaults(cfg)
	return cfg
}

// Resolve returns p relative to the configuration file's directory unless it is absolute.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.baseDir == "" {
		return p
	}
	return filepath.Join(c.baseDir, p)
}

// RootPaths returns every named root resolved to a filesystem path.
func (c *Config) RootPaths() map[string]string {
	return map[string]string{
		RootContent: c.Resolve(c.Roots.Content),
		RootSDK:     c.Resolve(c.Roots.SDK),
		RootDemo:    c.Resolve(c.Roots.Demo),
		RootSite:    c.Resolve(c.Roots.Site),
	}
}

// Init writes an example configuration file (the defaults) to path.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return ferrors.ValidationError("configuration file already exists (use --force to overwrite)").
			WithContext("path", path).
			UserAction().
			Build()
	}

	cfg := Default()
	var data []byte
	var err error
	if formatFor(path) == FormatTOML {
		var sb strings.Builder
		err = toml.NewEncoder(&sb).Encode(cfg)
		data = []byte(sb.String())
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil { // #nosec G306 - config is not secret
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write config file").
			WithContext("path", path).
			Build()
	}
	return nil
}
