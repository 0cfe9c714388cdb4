package config

import (
	"fmt"
	"net"
	"path"
	"strings"
	"time"

	ferrors "github.com/humanagencyprotocol/hapsite/internal/foundation/errors"
)

// ValidateConfig validates a defaulted configuration.
func ValidateConfig(cfg *Config) error {
	return newConfigurationValidator(cfg).validate()
}

// configurationValidator coordinates validation across configuration domains.
type configurationValidator struct {
	config *Config
}

func newConfigurationValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

func (cv *configurationValidator) validate() error {
	if err := cv.validateSync(); err != nil {
		return err
	}
	if err := cv.validateDocuments(); err != nil {
		return err
	}
	return cv.validateServer()
}

func invalid(msg string, kv ...any) error {
	b := ferrors.ValidationError(msg).UserAction()
	for i := 0; i+1 < len(kv); i += 2 {
		b = b.WithContext(fmt.Sprint(kv[i]), kv[i+1])
	}
	return b.Build()
}

func knownRoot(name string) bool {
	switch name {
	case RootContent, RootSDK, RootDemo, RootSite:
		return true
	}
	return false
}

func relativeName(p string) bool {
	if p == "" {
		return true
	}
	if strings.HasPrefix(p, "/") || strings.Contains(p, "\\") {
		return false
	}
	c := path.Clean(p)
	return c != ".." && !strings.HasPrefix(c, "../")
}

func (cv *configurationValidator) validateSync() error {
	if d := cv.config.Sync.Date; d != "" {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return invalid("sync.date must be YYYY-MM-DD", "date", d)
		}
	}
	seen := map[string]bool{}
	for i, r := range cv.config.Sync.Rules {
		if r.Name == "" {
			return invalid("sync rule has no name", "index", i)
		}
		if seen[r.Name] {
			return invalid("duplicate sync rule name", "rule", r.Name)
		}
		seen[r.Name] = true
		if !knownRoot(r.Root) {
			return invalid("sync rule has unknown root", "rule", r.Name, "root", r.Root)
		}
		if r.Root == RootSite {
			return invalid("sync rule cannot read from the site root", "rule", r.Name)
		}
		if r.Dest == "" || !relativeName(r.Dest) {
			return invalid("sync rule dest must be a relative path inside the site", "rule", r.Name, "dest", r.Dest)
		}
		if !relativeName(r.Source) {
			return invalid("sync rule source must be a relative path", "rule", r.Name, "source", r.Source)
		}
		if r.Source == "" && !r.Versioned {
			return invalid("sync rule needs a source unless versioned", "rule", r.Name)
		}
	}
	return nil
}

func (cv *configurationValidator) validateDocuments() error {
	for name, d := range cv.config.Context.Documents {
		if !knownRoot(d.Root) {
			return invalid("document has unknown root", "document", name, "root", d.Root)
		}
		if d.Path == "" || !relativeName(d.Path) {
			return invalid("document path must be a relative path", "document", name, "path", d.Path)
		}
	}
	return nil
}

func (cv *configurationValidator) validateServer() error {
	if _, _, err := net.SplitHostPort(cv.config.Server.Addr); err != nil {
		return invalid("server.addr must be host:port", "addr", cv.config.Server.Addr)
	}
	return nil
}
