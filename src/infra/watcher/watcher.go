package watcher

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"chronotune/src/music"
)

// Watcher monitors the library root for new audio files and emits one
// debounced event per burst of arrivals. Events inside the destination
// bucket directories are ignored so the organizer's own moves never
// re-trigger a run.
type Watcher struct {
	watcher       *fsnotify.Watcher
	watchPath     string
	excludedDirs  map[string]bool
	debounce      time.Duration
	debounceTimer *time.Timer
	debounceMutex sync.Mutex
	running       bool
	stopChan      chan struct{}
	eventChan     chan<- FileEvent
}

// NewWatcher creates a new file system watcher.
func NewWatcher(eventChan chan<- FileEvent, excludedDirs map[string]bool, debounceSeconds int) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher:      watcher,
		eventChan:    eventChan,
		excludedDirs: excludedDirs,
		debounce:     time.Duration(debounceSeconds) * time.Second,
		stopChan:     make(chan struct{}),
	}, nil
}

// Start begins watching the library root for file changes.
func (w *Watcher) Start(ctx context.Context, watchPath string) error {
	w.watchPath = watchPath
	slog.Info("Starting file watcher", "path", watchPath)

	if err := w.watcher.Add(watchPath); err != nil {
		return err
	}

	w.running = true
	go w.watchLoop(ctx)

	slog.Info("File watcher started successfully")
	return nil
}

// Stop stops the file watcher.
func (w *Watcher) Stop() {
	if !w.running {
		return
	}

	slog.Info("Stopping file watcher")
	w.running = false
	close(w.stopChan)

	w.debounceMutex.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
		w.debounceTimer = nil
	}
	w.debounceMutex.Unlock()

	w.watcher.Close()
}

// watchLoop processes file system events
func (w *Watcher) watchLoop(ctx context.Context) {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("File watcher error", "error", err)

		case <-w.stopChan:
			return

		case <-ctx.Done():
			return
		}
	}
}

// handleEvent processes a single file system event
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&fsnotify.Create != fsnotify.Create {
		return
	}

	if !music.IsSupportedFile(event.Name) {
		return
	}

	// Skip files landing in a bucket directory: those are our own moves.
	if w.excludedDirs[filepath.Base(filepath.Dir(event.Name))] {
		return
	}

	slog.Info("Detected new supported file", "file", filepath.Base(event.Name))

	// Start or reset the debounce timer
	w.debounceMutex.Lock()
	defer w.debounceMutex.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}

	w.debounceTimer = time.AfterFunc(w.debounce, func() {
		w.emitDebounceEvent()
	})
}

// emitDebounceEvent emits a file event after the debounce period
func (w *Watcher) emitDebounceEvent() {
	event := FileEvent{
		Path:      w.watchPath,
		EventType: FileCreated,
		Timestamp: time.Now(),
	}

	select {
	case w.eventChan <- event:
		slog.Info("Emitted file event after debounce", "path", event.Path)
	default:
		slog.Warn("Event channel full, dropping file event", "path", event.Path)
	}
}
