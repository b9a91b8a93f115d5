package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"soturidash/internal/eventbus"
	"soturidash/internal/logging"
)

const reloadDebounce = 100 * time.Millisecond

// Watcher reloads the config file when it changes on disk
type Watcher struct {
	watcher *fsnotify.Watcher
	service ConfigService
	bus     eventbus.EventBus
	path    string
	closeCh chan struct{}
	once    sync.Once
}

// NewWatcher watches the file of service. The directory is watched rather
// than the file since editors replace files on save.
func NewWatcher(service ConfigService, bus eventbus.EventBus) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	path := filepath.Clean(service.Path())
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, err
	}

	return &Watcher{
		watcher: w,
		service: service,
		bus:     bus,
		path:    path,
		closeCh: make(chan struct{}),
	}, nil
}

// Close stops watching
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

// Run delivers every successfully parsed version of the file to onReload
// until ctx is done or the watcher is closed. Bursts of events are coalesced
// into one reload. Invalid files are logged and skipped.
func (w *Watcher) Run(ctx context.Context, onReload func(*Config)) {
	log := logging.Component("config").WithField("path", w.path)
	var pending <-chan time.Time

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.After(reloadDebounce)
		case <-pending:
			pending = nil
			cfg, err := w.service.LoadFromPath(w.path)
			if err != nil {
				log.WithError(err).Warn("Ignoring config change")
				continue
			}
			log.Info("Config reloaded")
			if onReload != nil {
				onReload(cfg)
			}
			if w.bus != nil {
				w.bus.Publish(eventbus.ConfigChangedEvent{Path: w.path})
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.WithError(err).Warn("Config watcher error")
		case <-w.closeCh:
			return
		case <-ctx.Done():
			return
		}
	}
}
