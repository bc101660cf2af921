package app

import (
	"os"
	"sync"
	"time"
)

// FileWatcher polls a file and calls back when its modification time moves
// forward, so the viewer can follow a pattern the command line tool keeps
// rewriting.
type FileWatcher struct {
	path          string
	mu            sync.Mutex // guards baseline
	baseline      time.Time
	checkInterval time.Duration
	stopCh        chan struct{}
	onChange      func(path string) // Called from the watch goroutine
}

// NewFileWatcher creates a watcher for path. The current modification time
// is the baseline; a missing file has a zero baseline.
func NewFileWatcher(path string, checkInterval time.Duration) *FileWatcher {
	w := &FileWatcher{
		path:          path,
		checkInterval: checkInterval,
		stopCh:        make(chan struct{}),
	}
	w.ResetBaseline()
	return w
}

// OnChange sets the callback to invoke when the file changes.
// The callback is called from a background goroutine - use appropriate
// synchronization if updating UI.
func (w *FileWatcher) OnChange(callback func(path string)) {
	w.onChange = callback
}

// Start begins watching in a background goroutine.
func (w *FileWatcher) Start() {
	// Create a fresh stop channel in case we're restarting
	w.stopCh = make(chan struct{})
	go w.watchLoop(w.stopCh)
}

// Stop stops the watcher goroutine.
func (w *FileWatcher) Stop() {
	close(w.stopCh)
}

// Path returns the watched file.
func (w *FileWatcher) Path() string {
	return w.path
}

func (w *FileWatcher) watchLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(w.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if w.Check() && w.onChange != nil {
				w.onChange(w.path)
			}
		}
	}
}

// Check reports whether the file changed since the baseline and, if so,
// moves the baseline forward.
func (w *FileWatcher) Check() bool {
	info, err := os.Stat(w.path)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if !info.ModTime().After(w.baseline) {
		return false
	}
	w.baseline = info.ModTime()
	return true
}

// ResetBaseline sets the baseline to the file's current modification time.
func (w *FileWatcher) ResetBaseline() {
	var mod time.Time
	if info, err := os.Stat(w.path); err == nil {
		mod = info.ModTime()
	}
	w.mu.Lock()
	w.baseline = mod
	w.mu.Unlock()
}
