package driver

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Debounce is how long Watch waits for changes to settle before it runs
// another batch.
var Debounce = 200 * time.Millisecond

// Watch runs a batch over paths, then again whenever a .java file below
// them changes, until ctx is done. report receives the outcome of every
// batch.
func (d *Driver) Watch(ctx context.Context, paths []string, report func(*Summary, error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	for _, p := range paths {
		if err := watchTree(w, p); err != nil {
			return err
		}
	}

	report(d.Run(ctx, paths))

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := watchTree(w, ev.Name); err != nil {
						log.Warningf("watch %s: %s", ev.Name, err)
					}
					continue
				}
			}
			if !strings.HasSuffix(ev.Name, ".java") || ev.Op == fsnotify.Chmod {
				continue
			}
			log.Debugf("change: %s", ev)
			pending = time.After(Debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warningf("watch: %s", err)
		case <-pending:
			pending = nil
			report(d.Run(ctx, paths))
		}
	}
}

// watchTree adds path and, for a directory, every directory below it.
func watchTree(w *fsnotify.Watcher, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return w.Add(filepath.Dir(path))
	}
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != path && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.Add(p)
	})
}
