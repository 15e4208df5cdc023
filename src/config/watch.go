package config

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the configuration when its .env file changes.
type Watcher struct {
	path string
	opts LoadOptions
	fw   *fsnotify.Watcher
}

// NewWatcher starts watching the directory holding path. Editors replace
// files by rename, so the file itself is not watched.
func NewWatcher(path string, opts LoadOptions) (*Watcher, error) {
	if path == "" {
		return nil, fmt.Errorf("no config file to watch")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	opts.EnvPath = abs
	return &Watcher{path: abs, opts: opts, fw: fw}, nil
}

// Run blocks until ctx is done, calling onChange with each reloaded config.
func (w *Watcher) Run(ctx context.Context, onChange func(*Config)) {
	defer w.fw.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			cfg, err := LoadWithOptions(w.opts)
			if err != nil {
				log.Printf("Config reload failed: %v", err)
				continue
			}
			log.Printf("Config reloaded from %s (%s)", w.path, ev.Op)
			onChange(cfg)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			log.Printf("Config watcher error: %v", err)
		}
	}
}

// Watch is NewWatcher followed by Run.
func Watch(ctx context.Context, path string, opts LoadOptions, onChange func(*Config)) error {
	w, err := NewWatcher(path, opts)
	if err != nil {
		return err
	}
	w.Run(ctx, onChange)
	return nil
}
