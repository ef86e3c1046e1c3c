package source

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rotisserie/eris"

	"github.com/ukaji3/cardrank-go/pkg/cardrank/models"
)

// DefaultDebounce is the quiet period Watch waits for after the last change.
const DefaultDebounce = 250 * time.Millisecond

// Watch re-reads path with Open each time it is written or re-created and
// passes the outcome to onChange. Bursts of events within debounce collapse
// into one read; a non-positive debounce selects DefaultDebounce.
//
// The parent directory is watched so that editors replacing the file are seen.
// Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, opts Options, debounce time.Duration, onChange func(models.Table, error)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return NewSourceError(path, "watch", eris.Wrap(err, "create watcher"))
	}
	defer w.Close()

	target := filepath.Clean(path)
	if err := w.Add(filepath.Dir(target)); err != nil {
		return NewSourceError(path, "watch", eris.Wrap(err, "watch directory"))
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			t, err := Open(ctx, path, opts)
			onChange(t, err)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			onChange(models.Table{}, NewSourceError(path, "watch", err))
		}
	}
}
