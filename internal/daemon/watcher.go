package daemon

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/adamavenir/huddle/internal/core"
	"github.com/fsnotify/fsnotify"
)

// Watcher re-syncs the dispatcher whenever the event log changes.
type Watcher struct {
	dispatcher *Dispatcher
	debounce   time.Duration
	logger     *slog.Logger
}

// NewWatcher creates a watcher for the dispatcher's project.
func NewWatcher(dispatcher *Dispatcher, debounce time.Duration) *Watcher {
	return &Watcher{
		dispatcher: dispatcher,
		debounce:   debounce,
		logger:     dispatcher.logger,
	}
}

// Run syncs once, then on every burst of writes to the event log, until ctx
// is done. Every sync runs on the calling goroutine.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(w.dispatcher.project.Dir); err != nil {
		return err
	}

	w.sync(ctx)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isEventLogChange(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.sync(ctx)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

func (w *Watcher) sync(ctx context.Context) {
	result, err := w.dispatcher.Sync(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Error("sync failed", "error", err)
		}
		return
	}
	if result.Applied > 0 || result.Skipped > 0 {
		w.logger.Info("applied events", "applied", result.Applied, "skipped", result.Skipped, "notified", result.Notified)
	}
}

func isEventLogChange(event fsnotify.Event) bool {
	if filepath.Base(event.Name) != core.EventsFileName {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
