package cache

import (
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/motorlane/fleetbooks/store/csvstore"
)

// =============================================================================
// WATCHER - Invalidate cache entries when table files change on disk
// =============================================================================

// Watcher invalidates cached tables when their backing files are
// modified outside this process (manual edits, a second instance).
// Events are debounced because editors and atomic renames produce
// bursts of writes for a single logical change.
type Watcher struct {
	cache *TableCache
	fsw   *fsnotify.Watcher
	log   zerolog.Logger
	done  chan struct{}
}

const debounceInterval = 250 * time.Millisecond

// Watch starts watching the data directory of a CSV store. Close stops
// the watcher.
func Watch(dir string, cache *TableCache, log zerolog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{cache: cache, fsw: fsw, log: log, done: make(chan struct{})}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	pending := map[string]struct{}{}
	ticker := time.NewTicker(debounceInterval)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			name := csvstore.TableName(ev.Name)
			if name == "" {
				continue
			}
			pending[name] = struct{}{}
		case <-ticker.C:
			for name := range pending {
				w.cache.Invalidate(name)
				w.log.Info().Str("table", name).Msg("invalidated after file change")
			}
			pending = map[string]struct{}{}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("watch error")
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
