// Package watcher polls a deck file for modification and notifies a
// callback so the viewer can rebuild without restarting.
package watcher

import (
	"context"
	"os"
	"time"
)

// Watcher polls a single file's modification time.
type Watcher struct {
	path     string
	interval time.Duration
	lastMod  time.Time
	onChange func()
}

// New creates a watcher. onChange is invoked from the watch goroutine
// whenever the file's mtime moves forward.
func New(path string, interval time.Duration, onChange func()) *Watcher {
	w := &Watcher{
		path:     path,
		interval: interval,
		onChange: onChange,
	}
	if info, err := os.Stat(path); err == nil {
		w.lastMod = info.ModTime()
	}
	return w
}

// Watch runs the polling loop until the context is cancelled.
func (w *Watcher) Watch(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if w.check() {
				w.onChange()
			}
		}
	}
}

// check reports whether the file changed since the last poll. A stat
// failure is treated as no change so a transient editor rename does
// not trigger a rebuild on a half-written file.
func (w *Watcher) check() bool {
	info, err := os.Stat(w.path)
	if err != nil {
		return false
	}
	if info.ModTime().After(w.lastMod) {
		w.lastMod = info.ModTime()
		return true
	}
	return false
}
