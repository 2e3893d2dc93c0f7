package main

import (
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// watchFile flags reload when the DOT file changes. The parent directory is
// watched rather than the file: editors replace files by rename, which would
// drop a direct watch. Events are debounced so a burst of writes reloads
// once.
func watchFile(path string, logger *charmlog.Logger, reload *atomic.Bool) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	go func() {
		debounce := time.NewTimer(0)
		<-debounce.C // drain initial timer

		dirty := false
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(path) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				logger.Debugf("watch: %s", event)
				dirty = true
				debounce.Reset(100 * time.Millisecond)

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Errorf("watch: %v", err)

			case <-debounce.C:
				if dirty {
					dirty = false
					reload.Store(true)
				}
			}
		}
	}()
	return watcher, nil
}
