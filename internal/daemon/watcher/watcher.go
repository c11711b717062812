// Package watcher handles file system watching for the daemon.
package watcher

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/commitsense/commitsense/internal/ignore"
	"github.com/commitsense/commitsense/internal/log"
	"github.com/commitsense/commitsense/internal/models"
)

// DefaultDebounce is used when a non-positive delay is configured.
const DefaultDebounce = 100 * time.Millisecond

// Handler receives debounced file notifications.
type Handler interface {
	HandleFileEvent(action models.Action, absPath string)
}

// pending is a debounced notification waiting for its timer.
type pending struct {
	action models.Action
	timer  *time.Timer
}

// fired is a notification whose debounce window has elapsed.
type fired struct {
	action models.Action
	path   string
}

// Watcher recursively watches a workspace and forwards file changes to a Handler.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	root      string
	filter    *ignore.Filter
	handler   Handler
	delay     time.Duration

	fired    chan fired
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	debounce   map[string]*pending
	debounceMu sync.Mutex
}

// New creates a watcher for root. Directories the filter excludes are not watched.
func New(root string, filter *ignore.Filter, handler Handler, delay time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if filter == nil {
		filter = ignore.New(nil)
	}
	if delay <= 0 {
		delay = DefaultDebounce
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		fsWatcher: fsWatcher,
		root:      abs,
		filter:    filter,
		handler:   handler,
		delay:     delay,
		fired:     make(chan fired, 100),
		done:      make(chan struct{}),
		debounce:  make(map[string]*pending),
	}, nil
}

// Root returns the watched workspace root.
func (w *Watcher) Root() string {
	return w.root
}

// Start adds watches for the workspace tree and begins processing events.
func (w *Watcher) Start() error {
	if err := w.addTree(w.root); err != nil {
		return err
	}

	w.wg.Add(1)
	go w.processEvents()

	log.Info().Str("root", w.root).Int("watches", len(w.fsWatcher.WatchList())).Msg("watching workspace")
	return nil
}

// Stop stops the watcher and drops notifications that have not fired yet.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		_ = w.fsWatcher.Close()

		w.debounceMu.Lock()
		for path, p := range w.debounce {
			p.timer.Stop()
			delete(w.debounce, path)
		}
		w.debounceMu.Unlock()

		w.wg.Wait()
	})
}

// addTree watches dir and every non-excluded directory below it.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			log.Warn().Err(err).Str("path", path).Msg("skipping unreadable path")
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root {
			if rel, relErr := filepath.Rel(w.root, path); relErr == nil && w.filter.ExcludedDir(rel) {
				return filepath.SkipDir
			}
		}
		if err := w.fsWatcher.Add(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("failed to watch directory")
		}
		return nil
	})
}

// processEvents drains fsnotify and the debounce queue. Handler calls happen
// on this goroutine only, so notifications reach the handler one at a time.
func (w *Watcher) processEvents() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			log.Debug().Str("op", event.Op.String()).Str("path", event.Name).Msg("fsnotify")
			w.handleEvent(event)
		case f := <-w.fired:
			w.handler.HandleFileEvent(f.action, f.path)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("watcher error")
		}
	}
}

// handleEvent maps a raw notification to an action and debounces it.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	action, ok := actionFor(event.Op)
	if !ok {
		return
	}

	if action == models.ActionCreated {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			rel, relErr := filepath.Rel(w.root, event.Name)
			if relErr == nil && !w.filter.ExcludedDir(rel) {
				if err := w.addTree(event.Name); err != nil && !errors.Is(err, fs.ErrNotExist) {
					log.Warn().Err(err).Str("path", event.Name).Msg("failed to watch new directory")
				}
			}
			return
		}
	}

	w.debounceEvent(event.Name, action)
}

// actionFor maps fsnotify operations to log actions. Renames are reported
// on the old name, so they count as deletions; the new name arrives as a create.
func actionFor(op fsnotify.Op) (models.Action, bool) {
	switch {
	case op.Has(fsnotify.Remove), op.Has(fsnotify.Rename):
		return models.ActionDeleted, true
	case op.Has(fsnotify.Create):
		return models.ActionCreated, true
	case op.Has(fsnotify.Write):
		return models.ActionModified, true
	}
	return "", false
}

// merge folds a new action into a pending one for the same path.
// A create followed by writes stays a create, and a delete always wins.
func merge(prev, next models.Action) models.Action {
	if next == models.ActionDeleted {
		return next
	}
	if prev == models.ActionCreated {
		return prev
	}
	return next
}

// debounceEvent debounces events for the same path.
func (w *Watcher) debounceEvent(path string, action models.Action) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if p, ok := w.debounce[path]; ok {
		p.timer.Stop()
		action = merge(p.action, action)
	}

	p := &pending{action: action}
	p.timer = time.AfterFunc(w.delay, func() {
		w.debounceMu.Lock()
		if w.debounce[path] != p {
			w.debounceMu.Unlock()
			return
		}
		delete(w.debounce, path)
		w.debounceMu.Unlock()

		select {
		case w.fired <- fired{action: p.action, path: path}:
		case <-w.done:
		}
	})
	w.debounce[path] = p
}
