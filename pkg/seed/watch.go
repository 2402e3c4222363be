package seed

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads a fixture file whenever it is written or replaced.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	log     *zap.Logger
}

// NewWatcher starts watching path. The parent directory is watched so
// editors that replace the file by rename are noticed too.
func NewWatcher(path string, log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to watch file %s: %w", path, err)
	}

	return &Watcher{path: abs, watcher: w, log: log}, nil
}

// Run calls fn with every successfully parsed version of the file until
// ctx is cancelled. Parse and fn errors are logged and watching goes on.
func (w *Watcher) Run(ctx context.Context, fn func(*Fixture) error) error {
	defer func() { _ = w.watcher.Close() }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			w.log.Info("seed file modified, reloading", zap.String("path", w.path))
			f, err := Load(w.path)
			if err != nil {
				w.log.Error("failed to load seed file", zap.String("path", w.path), zap.Error(err))
				continue
			}
			if err := fn(f); err != nil {
				w.log.Error("failed to apply seed file", zap.String("path", w.path), zap.Error(err))
				continue
			}
			w.log.Info("seed file applied",
				zap.String("path", w.path),
				zap.Int("users", len(f.Users)),
				zap.Int("roles", len(f.Roles)),
				zap.Int("user_roles", len(f.UserRoles)),
			)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", zap.Error(err))
		}
	}
}

// Watch watches path and calls fn on every change until ctx is cancelled.
func Watch(ctx context.Context, path string, log *zap.Logger, fn func(*Fixture) error) error {
	w, err := NewWatcher(path, log)
	if err != nil {
		return err
	}
	return w.Run(ctx, fn)
}
