package catalog

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"jobmatch/internal/errors"
)

// fileWatcher watches a single catalog file and invokes a reload callback on
// change, debounced so editors that write in multiple events trigger one
// reload.
type fileWatcher struct {
	mu sync.Mutex

	file          string
	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan chan struct{}
	reload   func()
	logger   *errors.Logger
}

func newFileWatcher(file string, reload func(), logger *errors.Logger) (*fileWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Watch the directory rather than the file itself so atomic
	// rename-replace writes are still observed.
	if err := fsw.Add(filepath.Dir(file)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", file, err)
	}

	w := &fileWatcher{
		file:          file,
		fsWatcher:     fsw,
		debounceDelay: time.Second,
		stopChan:      make(chan struct{}),
		reload:        reload,
		logger:        logger,
	}

	go w.loop()

	if logger != nil {
		logger.Info("Catalog file watcher started", "file", file)
	}
	return w, nil
}

func (w *fileWatcher) loop() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.file) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.scheduleReload()
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.Warn("Catalog file watcher error", "error", err)
			}
		case <-w.stopChan:
			return
		}
	}
}

func (w *fileWatcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounceDelay, w.reload)
}

func (w *fileWatcher) stop() {
	w.mu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.mu.Unlock()

	close(w.stopChan)
	if err := w.fsWatcher.Close(); err != nil && w.logger != nil {
		w.logger.LogError(err, "Failed to close catalog file watcher")
	}
}
