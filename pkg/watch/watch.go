/*
Copyright 2026 The Mimetypes Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

     http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package watch reloads a mimedb.Database when the shared-mime-info
// package directories it was built from change on disk, coalescing
// bursts of filesystem events (a package manager update touches several
// files in one go) into a single reload.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/seanpm2001/playground-mimetypes/pkg/mimedb"
	"github.com/seanpm2001/playground-mimetypes/pkg/xdgdirs"
)

// ReloadFunc rebuilds and returns a fresh Database from the search
// directories the Watcher was given. It is called once up front and
// again after every coalesced burst of filesystem events.
type ReloadFunc func(ctx context.Context) (*mimedb.Database, error)

// DefaultDebounce is the window used to coalesce a burst of filesystem
// events (writes, creates, renames) into a single reload.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches every mime/packages directory and mime/subclasses file
// under a set of XDG search directories and triggers a ReloadFunc after
// a debounce window whenever something under them changes. The most
// recently loaded Database is available via Current.
type Watcher struct {
	reload    ReloadFunc
	debounce  time.Duration
	fsWatcher *fsnotify.Watcher

	mu      sync.RWMutex
	current *mimedb.Database

	done chan struct{}
}

// New creates a Watcher over dirs (typically xdgdirs.SearchDirs), adding
// each directory's mime/packages subdirectory and mime/subclasses file to
// the underlying fsnotify watch list. Directories that don't exist yet
// are skipped rather than treated as an error, since shared-mime-info
// search paths routinely include directories no package has populated.
func New(dirs []string, reload ReloadFunc) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating fsnotify watcher")
	}
	w := &Watcher{
		reload:    reload,
		debounce:  DefaultDebounce,
		fsWatcher: fsWatcher,
		done:      make(chan struct{}),
	}
	for _, dir := range dirs {
		w.addDir(dir)
	}
	return w, nil
}

func (w *Watcher) addDir(dir string) {
	paths := []string{
		filepath.Join(dir, "mime", "packages"),
		filepath.Join(dir, "mime", "subclasses"),
	}
	for _, p := range paths {
		// Add fails silently for paths that don't exist; that's the
		// common case across most XDG search directories.
		_ = w.fsWatcher.Add(p)
	}
}

// SetDebounce overrides DefaultDebounce. Must be called before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Current returns the most recently loaded Database, or nil before the
// first successful load.
func (w *Watcher) Current() *mimedb.Database {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Start performs the initial load and then runs the debounced watch loop
// in a background goroutine until ctx is done or Close is called.
func (w *Watcher) Start(ctx context.Context) error {
	db, err := w.reload(ctx)
	if err != nil {
		return errors.Wrap(err, "initial mime database load")
	}
	w.mu.Lock()
	w.current = db
	w.mu.Unlock()

	go w.loop(ctx)
	return nil
}

func (w *Watcher) loop(ctx context.Context) {
	var timer *time.Timer
	var pending <-chan time.Time
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			pending = timer.C

		case <-pending:
			pending = nil
			if db, err := w.reload(ctx); err == nil {
				w.mu.Lock()
				w.current = db
				w.mu.Unlock()
			}

		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}

		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// Close stops the watch loop and releases the underlying fsnotify
// watcher's resources.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsWatcher.Close()
}

// ReloadFromXDG is a ReloadFunc that globs every mime/packages/*.xml file
// and mime/subclasses cache across the current XDG search directories
// (xdgdirs.SearchDirs) and feeds them to a freshly constructed
// mimedb.Database.
func ReloadFromXDG() ReloadFunc {
	return func(ctx context.Context) (*mimedb.Database, error) {
		packages, err := xdgdirs.PackageFiles()
		if err != nil {
			return nil, err
		}
		db := mimedb.New()
		if err := db.LoadAll(ctx, packages, xdgdirs.SubclassFiles()); err != nil {
			return nil, err
		}
		return db, nil
	}
}
