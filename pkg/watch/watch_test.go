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

package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/seanpm2001/playground-mimetypes/pkg/mimedb"
)

func mustDir(t *testing.T, elem ...string) string {
	t.Helper()
	p := filepath.Join(elem...)
	if err := os.MkdirAll(p, 0o755); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestStartPerformsInitialLoad(t *testing.T) {
	root := t.TempDir()
	mustDir(t, root, "mime", "packages")

	calls := 0
	reload := func(ctx context.Context) (*mimedb.Database, error) {
		calls++
		return mimedb.New(), nil
	}
	w, err := New([]string{root}, reload)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()
	w.SetDebounce(20 * time.Millisecond)

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls after Start = %d, want 1", calls)
	}
	if w.Current() == nil {
		t.Error("Current() is nil after a successful Start")
	}
}

func TestStartPropagatesInitialLoadError(t *testing.T) {
	root := t.TempDir()
	mustDir(t, root, "mime", "packages")

	wantErr := os.ErrNotExist
	reload := func(ctx context.Context) (*mimedb.Database, error) {
		return nil, wantErr
	}
	w, err := New([]string{root}, reload)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	if err := w.Start(context.Background()); err == nil {
		t.Fatal("expected Start to propagate the reload error")
	}
}

func TestWatcherReloadsAfterFileChange(t *testing.T) {
	root := t.TempDir()
	pkgDir := mustDir(t, root, "mime", "packages")

	reloaded := make(chan struct{}, 10)
	calls := 0
	reload := func(ctx context.Context) (*mimedb.Database, error) {
		calls++
		if calls > 1 {
			select {
			case reloaded <- struct{}{}:
			default:
			}
		}
		return mimedb.New(), nil
	}

	w, err := New([]string{root}, reload)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()
	w.SetDebounce(10 * time.Millisecond)

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if err := os.WriteFile(filepath.Join(pkgDir, "added.xml"), []byte("<mime-info/>"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-reloaded:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a debounced reload after a filesystem event")
	}
}

func TestCloseStopsTheLoop(t *testing.T) {
	root := t.TempDir()
	mustDir(t, root, "mime", "packages")

	w, err := New([]string{root}, func(ctx context.Context) (*mimedb.Database, error) {
		return mimedb.New(), nil
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
