package ingest

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// UploadCallback receives paths of files that appeared or changed in the
// watched directory, after debouncing.
type UploadCallback func(paths []string)

// Watcher watches a drop directory and hands new files to an upload
// callback. Rapid bursts of events for the same file (editors, partial
// copies) are debounced into one callback.
type Watcher struct {
	dir      string
	debounce time.Duration
	logger   *slog.Logger
	callback UploadCallback

	watcher   *fsnotify.Watcher
	stopCh    chan struct{}
	stoppedCh chan struct{}

	pendingMu sync.Mutex
	pending   map[string]struct{}
	timer     *time.Timer
}

// WatcherConfig holds watcher configuration.
type WatcherConfig struct {
	Dir           string
	DebounceDelay time.Duration
	Logger        *slog.Logger
	Callback      UploadCallback
}

// NewWatcher creates a watcher for the given drop directory.
func NewWatcher(cfg *WatcherConfig) (*Watcher, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	debounce := cfg.DebounceDelay
	if debounce == 0 {
		debounce = time.Second
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(cfg.Dir); err != nil {
		fsw.Close()
		return nil, err
	}

	return &Watcher{
		dir:       cfg.Dir,
		debounce:  debounce,
		logger:    logger,
		callback:  cfg.Callback,
		watcher:   fsw,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
		pending:   make(map[string]struct{}),
	}, nil
}

// Run processes events until Stop is called.
func (w *Watcher) Run() {
	defer close(w.stoppedCh)
	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if ignored(event.Name) {
				continue
			}
			w.enqueue(event.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "dir", w.dir, "err", err)
		}
	}
}

// Stop stops the watcher and waits for Run to exit.
func (w *Watcher) Stop() {
	close(w.stopCh)
	w.watcher.Close()
	<-w.stoppedCh
	w.pendingMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pendingMu.Unlock()
}

// ignored filters hidden files and common partial-download suffixes.
func ignored(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return true
	}
	switch filepath.Ext(name) {
	case ".tmp", ".part", ".crdownload", ".swp":
		return true
	}
	return false
}

// enqueue adds a path to the pending set and (re)arms the debounce timer.
func (w *Watcher) enqueue(path string) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()
	w.pending[path] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

// flush delivers the pending set to the callback.
func (w *Watcher) flush() {
	w.pendingMu.Lock()
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]struct{})
	w.pendingMu.Unlock()

	if len(paths) == 0 || w.callback == nil {
		return
	}
	w.callback(paths)
}
