package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultPollInterval is how often the watcher rescans the directory in case
// file events are missed
const DefaultPollInterval = 5 * time.Second

// Watcher reloads a Manager's presets when files in its directory change
type Watcher struct {
	manager      *Manager
	pollInterval time.Duration
	onReload     func()

	fingerprint string
}

// NewWatcher creates a watcher for the manager's preset directory.
// onReload, when non-nil, runs after each cache refresh.
func NewWatcher(manager *Manager, pollInterval time.Duration, onReload func()) *Watcher {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &Watcher{
		manager:      manager,
		pollInterval: pollInterval,
		onReload:     onReload,
	}
}

// Run watches until ctx is cancelled
func (w *Watcher) Run(ctx context.Context) (err error) {
	w.fingerprint = w.scan()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create preset watcher: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := watcher.Add(w.manager.Dir()); err != nil {
		return fmt.Errorf("failed to watch preset directory: %w", err)
	}

	log.Printf("Watching %s for preset changes", w.manager.Dir())

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !IsPresetFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				log.Printf("[PRESETS] %s %s", strings.ToLower(event.Op.String()), filepath.Base(event.Name))
				w.reload()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[WARN] Preset watcher error: %v", err)
		case <-ticker.C:
			// Backup polling in case file events are missed
			if fp := w.scan(); fp != w.fingerprint {
				log.Printf("[PRESETS] directory changed")
				w.reload()
			}
		}
	}
}

// Watch runs a watcher with default settings until ctx is cancelled
func (m *Manager) Watch(ctx context.Context) error {
	return NewWatcher(m, DefaultPollInterval, nil).Run(ctx)
}

func (w *Watcher) reload() {
	w.manager.RefreshCache()
	w.fingerprint = w.scan()
	if w.onReload != nil {
		w.onReload()
	}
}

// scan summarizes the preset files in the directory by name, size and
// modification time
func (w *Watcher) scan() string {
	entries, err := os.ReadDir(w.manager.Dir())
	if err != nil {
		return ""
	}

	var parts []string
	for _, entry := range entries {
		if entry.IsDir() || !IsPresetFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s:%d:%d", entry.Name(), info.Size(), info.ModTime().UnixNano()))
	}
	sort.Strings(parts)
	return strings.Join(parts, "|")
}
