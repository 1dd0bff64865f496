package config

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// SettingsWatcher re-reads the settings file when something else writes it
// (another racebell process, or the user editing it by hand). It watches
// the parent directory because SaveSettings replaces the file by rename,
// which would drop a watch on the file itself.
type SettingsWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	onChange func(Settings)
	done     chan struct{}
}

func WatchSettings(path string, onChange func(Settings)) (*SettingsWatcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return nil, err
	}

	sw := &SettingsWatcher{
		watcher:  watcher,
		path:     absPath,
		onChange: onChange,
		done:     make(chan struct{}),
	}

	go sw.watch()
	return sw, nil
}

func (sw *SettingsWatcher) watch() {
	var debounce *time.Timer

	for {
		select {
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if event.Name != sw.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			// Debounce rapid events from editors writing in several steps
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(100*time.Millisecond, func() {
				sw.onChange(LoadSettings(sw.path))
			})

		case _, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			// Keep watching; a transient error is not worth tearing down for

		case <-sw.done:
			return
		}
	}
}

func (sw *SettingsWatcher) Close() error {
	close(sw.done)
	return sw.watcher.Close()
}
