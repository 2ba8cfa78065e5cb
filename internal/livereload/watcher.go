package livereload

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"
)

type fileState struct {
	modTime time.Time
	size    int64
}

// Watcher polls the served tree and reports changed paths. Polling keeps the
// dependency surface flat and is cheap at demo-directory sizes.
type Watcher struct {
	root     string
	interval time.Duration
	onChange func(path string)
	logger   *slog.Logger

	snapshot map[string]fileState
}

func NewWatcher(root string, interval time.Duration, onChange func(path string), logger *slog.Logger) *Watcher {
	return &Watcher{
		root:     root,
		interval: interval,
		onChange: onChange,
		logger:   logger,
	}
}

// Run polls until ctx is canceled. The first scan seeds the snapshot without
// reporting anything, so a server start never triggers a reload.
func (w *Watcher) Run(ctx context.Context) {
	w.snapshot = w.scan()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			current := w.scan()
			if changed, path := diff(w.snapshot, current); changed {
				w.snapshot = current
				w.logger.Info("file change detected", "path", path)
				w.onChange(path)
			}
		}
	}
}

func (w *Watcher) scan() map[string]fileState {
	snapshot := make(map[string]fileState)

	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// A file can disappear mid-walk; the next tick sees the result.
			return nil
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		snapshot[path] = fileState{modTime: info.ModTime(), size: info.Size()}
		return nil
	})
	if err != nil {
		w.logger.Warn("watch scan failed", "error", err)
	}

	return snapshot
}

// diff reports the first difference between two snapshots: a modified or
// added file in current, or a file deleted since previous.
func diff(previous, current map[string]fileState) (bool, string) {
	for path, state := range current {
		old, ok := previous[path]
		if !ok || old.modTime != state.modTime || old.size != state.size {
			return true, path
		}
	}
	for path := range previous {
		if _, ok := current[path]; !ok {
			return true, path
		}
	}
	return false, ""
}
