package watcher

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/commitsense/commitsense/internal/log"
)

// FileWatcher calls a function whenever a single file is written or replaced.
// The parent directory is watched so atomic rename-into-place saves are seen.
type FileWatcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
	onChange  func()
	delay     time.Duration

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	mu    sync.Mutex
	timer *time.Timer
}

// WatchFile starts watching path. onChange runs on the watcher goroutine.
func WatchFile(path string, delay time.Duration, onChange func()) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if delay <= 0 {
		delay = DefaultDebounce
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatcher.Add(filepath.Dir(abs)); err != nil {
		_ = fsWatcher.Close()
		return nil, err
	}

	fw := &FileWatcher{
		fsWatcher: fsWatcher,
		path:      abs,
		onChange:  onChange,
		delay:     delay,
		done:      make(chan struct{}),
	}
	fw.wg.Add(1)
	go fw.run()
	return fw, nil
}

// Stop stops watching.
func (fw *FileWatcher) Stop() {
	fw.stopOnce.Do(func() {
		close(fw.done)
		_ = fw.fsWatcher.Close()
		fw.mu.Lock()
		if fw.timer != nil {
			fw.timer.Stop()
		}
		fw.mu.Unlock()
		fw.wg.Wait()
	})
}

func (fw *FileWatcher) run() {
	defer fw.wg.Done()
	changed := make(chan struct{}, 1)
	for {
		select {
		case <-fw.done:
			return
		case event, ok := <-fw.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Name != fw.path || !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			fw.mu.Lock()
			if fw.timer != nil {
				fw.timer.Stop()
			}
			fw.timer = time.AfterFunc(fw.delay, func() {
				select {
				case changed <- struct{}{}:
				default:
				}
			})
			fw.mu.Unlock()
		case <-changed:
			fw.onChange()
		case err, ok := <-fw.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Str("path", fw.path).Msg("file watcher error")
		}
	}
}
