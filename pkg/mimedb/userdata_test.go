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

package mimedb

import (
	"testing"

	"github.com/seanpm2001/playground-mimetypes/pkg/glob"
	"github.com/seanpm2001/playground-mimetypes/pkg/mimetype"
	"github.com/seanpm2001/playground-mimetypes/pkg/userstore"
)

func baseDatabase(t *testing.T) *Database {
	db := New()
	txt := mimetype.MimeType{Type: "text/plain", Comment: "plain text document"}
	txt.SetGlobPatterns([]glob.Pattern{mustGlob(t, "*.txt", 50)})
	db.AddMimeType(txt)
	db.DetermineLevels()
	return db
}

func TestWriteUserModifiedMimeTypesOnlyWritesDiffs(t *testing.T) {
	base := baseDatabase(t)
	live := baseDatabase(t)

	modified := live.FindByType("text/plain")
	modified.Comment = "a user-edited comment"
	live.AddMimeType(modified)
	live.DetermineLevels()

	store := userstore.NewMemory()
	defer store.Close()

	if err := live.WriteUserModifiedMimeTypes(store, base); err != nil {
		t.Fatalf("WriteUserModifiedMimeTypes: %v", err)
	}
	raw, err := store.Get(userDataKey)
	if err != nil {
		t.Fatalf("Get(userDataKey): %v", err)
	}
	if raw == "" {
		t.Fatal("expected a non-empty override blob")
	}
}

func TestWriteUserModifiedMimeTypesNoDiffWritesEmptyBlob(t *testing.T) {
	base := baseDatabase(t)
	live := baseDatabase(t)
	store := userstore.NewMemory()
	defer store.Close()

	if err := live.WriteUserModifiedMimeTypes(store, base); err != nil {
		t.Fatalf("WriteUserModifiedMimeTypes: %v", err)
	}
	raw, err := store.Get(userDataKey)
	if err != nil {
		t.Fatalf("Get(userDataKey): %v", err)
	}
	if raw != "" {
		t.Errorf("expected an empty override blob when nothing differs, got %q", raw)
	}
}

func TestReadUserModifiedMimeTypesMergesOverrides(t *testing.T) {
	store := userstore.NewMemory()
	defer store.Close()

	overrides := []userOverride{{
		Type:    "text/plain",
		Comment: "custom comment",
		Globs:   []globDTO{{Pattern: "*.txt", Weight: 50}, {Pattern: "*.log", Weight: 50}},
	}}
	blob, err := encodeOverrides(overrides)
	if err != nil {
		t.Fatalf("encodeOverrides: %v", err)
	}
	if err := store.Set(userDataKey, blob); err != nil {
		t.Fatalf("Set: %v", err)
	}

	db := baseDatabase(t)
	if err := db.ReadUserModifiedMimeTypes(store); err != nil {
		t.Fatalf("ReadUserModifiedMimeTypes: %v", err)
	}
	got := db.FindByType("text/plain")
	if got.Comment != "custom comment" {
		t.Errorf("Comment = %q, want custom comment", got.Comment)
	}
	if got.MatchesFileBySuffix("x.log") == 0 {
		t.Error("expected the overridden glob list to include *.log")
	}
}

func TestReadUserModifiedMimeTypesMissingBlobIsNotAnError(t *testing.T) {
	store := userstore.NewMemory()
	defer store.Close()
	db := baseDatabase(t)
	if err := db.ReadUserModifiedMimeTypes(store); err != nil {
		t.Errorf("ReadUserModifiedMimeTypes with no stored blob: %v", err)
	}
}

func TestClearUserModifiedMimeTypes(t *testing.T) {
	store := userstore.NewMemory()
	defer store.Close()
	store.Set(userDataKey, "something")
	if err := baseDatabase(t).ClearUserModifiedMimeTypes(store); err != nil {
		t.Fatalf("ClearUserModifiedMimeTypes: %v", err)
	}
	if _, err := store.Get(userDataKey); err != userstore.ErrNotFound {
		t.Errorf("Get after Clear: err = %v, want ErrNotFound", err)
	}
}

func TestSyncUserModifiedMimeTypesRoundTrips(t *testing.T) {
	base := baseDatabase(t)
	live := baseDatabase(t)
	modified := live.FindByType("text/plain")
	modified.Comment = "a user-edited comment"
	live.AddMimeType(modified)
	live.DetermineLevels()

	store := userstore.NewMemory()
	defer store.Close()
	if err := live.SyncUserModifiedMimeTypes(store, base); err != nil {
		t.Fatalf("SyncUserModifiedMimeTypes: %v", err)
	}
	if got := live.FindByType("text/plain").Comment; got != "a user-edited comment" {
		t.Errorf("Comment after sync = %q, want the user-edited comment", got)
	}
}
