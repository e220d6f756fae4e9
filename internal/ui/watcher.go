package ui

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// StyleWatcher reports changes to a stylesheet file so the editor can reload it between
// frames. The parent directory is watched because editors often replace files on save.
type StyleWatcher struct {
	w       *fsnotify.Watcher
	name    string
	changed chan struct{}
	errs    chan error
	done    chan struct{}
}

// WatchStylesheet starts watching path.
func WatchStylesheet(path string) (*StyleWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("ui: watch: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("ui: watch %s: %w", path, err)
	}
	sw := &StyleWatcher{
		w:       w,
		name:    filepath.Base(abs),
		changed: make(chan struct{}, 1),
		errs:    make(chan error, 1),
		done:    make(chan struct{}),
	}
	go sw.loop()
	return sw, nil
}

func (sw *StyleWatcher) loop() {
	defer close(sw.done)
	for {
		select {
		case ev, ok := <-sw.w.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != sw.name || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			select {
			case sw.changed <- struct{}{}:
			default:
			}
		case err, ok := <-sw.w.Errors:
			if !ok {
				return
			}
			select {
			case sw.errs <- err:
			default:
			}
		}
	}
}

// Changed reports, without blocking, whether the file changed since the last call.
func (sw *StyleWatcher) Changed() bool {
	select {
	case <-sw.changed:
		return true
	default:
		return false
	}
}

// Err returns a pending watcher error, if any.
func (sw *StyleWatcher) Err() error {
	select {
	case err := <-sw.errs:
		return err
	default:
		return nil
	}
}

// Close stops watching.
func (sw *StyleWatcher) Close() error {
	err := sw.w.Close()
	<-sw.done
	return err
}
