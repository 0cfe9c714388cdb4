package syncer

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/humanagencyprotocol/hapsite/internal/logfields"
	"github.com/humanagencyprotocol/hapsite/internal/storage"
)

// DefaultDebounce coalesces bursts of editor writes into one sync.
const DefaultDebounce = 300 * time.Millisecond

// pathResolver is implemented by stores backed by the local filesystem.
type pathResolver interface {
	Path(name string) (string, error)
}

// Watch re-runs the sync whenever a watched source changes, until ctx is
// cancelled. Only filesystem-backed source stores can be watched. Sync
// errors are logged and do not stop the loop.
func (s *Synchronizer) Watch(ctx context.Context, version string, rules []Rule, debounce time.Duration) error {
	if err := s.Validate(rules); err != nil {
		return err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if cerr := w.Close(); cerr != nil {
			s.logger.Error("Error closing file watcher", logfields.Error(cerr))
		}
	}()

	dirs := s.watchDirs(version, rules)
	if len(dirs) == 0 {
		return fmt.Errorf("no watchable source directories")
	}
	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			s.logger.Warn("Cannot watch directory", logfields.Path(d), logfields.Error(err))
		}
	}
	s.logger.Info("Watching sources", slog.Int("dirs", len(dirs)), logfields.Version(version))

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				// New directories aren't covered by the parent's watch.
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					addTree(w, event.Name, s.logger)
				}
			}
			s.logger.Debug("Source change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("Source watcher error", logfields.Error(err))
		case <-timer.C:
			if _, err := s.Run(ctx, version, rules); err != nil && ctx.Err() == nil {
				s.logger.Error("Re-sync failed", logfields.Error(err))
			}
		}
	}
}

// watchDirs lists the directories whose changes affect the rules. Missing
// sources are covered by watching their nearest existing ancestor so that
// creating them triggers a sync.
func (s *Synchronizer) watchDirs(version string, rules []Rule) []string {
	var dirs []string
	add := func(d string) {
		if !slices.Contains(dirs, d) {
			dirs = append(dirs, d)
		}
	}
	for _, rule := range rules {
		pr, ok := s.sources[rule.Root].(pathResolver)
		if !ok {
			continue
		}
		name := rule.Source
		if rule.Versioned {
			name = storage.Join(version, rule.Source)
		}
		p, err := pr.Path(name)
		if err != nil {
			continue
		}
		info, err := os.Stat(p)
		switch {
		case err == nil && info.IsDir():
			_ = filepath.WalkDir(p, func(sub string, d fs.DirEntry, err error) error {
				if err == nil && d.IsDir() {
					add(sub)
				}
				return nil
			})
		case err == nil:
			add(filepath.Dir(p))
		default:
			if anc, ok := existingAncestor(p); ok {
				add(anc)
			}
		}
	}
	return dirs
}

func existingAncestor(p string) (string, bool) {
	for dir := filepath.Dir(p); ; dir = filepath.Dir(dir) {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir, true
		}
		if next := filepath.Dir(dir); next == dir {
			return "", false
		}
	}
}

func addTree(w *fsnotify.Watcher, root string, logger *slog.Logger) {
	_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if err := w.Add(p); err != nil {
			logger.Warn("Cannot watch directory", logfields.Path(p), logfields.Error(err))
		}
		return nil
	})
}
