package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"heartbids/utils"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the session whenever another process rewrites the file at path.
// It watches the parent directory because saves replace the file by rename.
// Blocks until ctx is done.
func (s *Service) Watch(ctx context.Context, path string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("session: watcher: %w", err)
	}
	defer w.Close()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("session: create %s: %w", dir, err)
	}
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("session: watch %s: %w", dir, err)
	}

	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if err := s.Reload(); err != nil {
				utils.Warn("session: reload failed", map[string]any{"path": path, "error": err.Error()})
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			utils.Warn("session: watcher error", map[string]any{"error": err.Error()})
		}
	}
}
