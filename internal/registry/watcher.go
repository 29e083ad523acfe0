// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package registry

import (
	"context"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultDebounce batches bursts of filesystem events (a library install
// touches many files) into one rediscovery.
const defaultDebounce = 250 * time.Millisecond

// Watcher re-runs discovery when definition files or library directories
// change, so a completed installation is picked up without a restart.
type Watcher struct {
	w        *fsnotify.Watcher
	reg      *Registry
	debounce time.Duration
}

// NewWatcher watches the given directories for changes.
func NewWatcher(reg *Registry, dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}
	return &Watcher{w: w, reg: reg, debounce: defaultDebounce}, nil
}

// Run blocks until ctx is cancelled, re-running discovery after each burst
// of relevant filesystem events.
func (w *Watcher) Run(ctx context.Context) {
	defer func() { _ = w.w.Close() }()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.w.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-fire:
			timer = nil
			fire = nil
			slog.Debug("library change detected, rediscovering")
			if err := w.reg.Discover(ctx); err != nil {
				slog.Error("library rediscovery failed", "error", err)
			}

		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			slog.Warn("library watch error", "error", err)
		}
	}
}
