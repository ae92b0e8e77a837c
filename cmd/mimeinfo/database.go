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

package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/seanpm2001/playground-mimetypes/pkg/mimedb"
	"github.com/seanpm2001/playground-mimetypes/pkg/userstore"
	"github.com/seanpm2001/playground-mimetypes/pkg/xdgdirs"
)

// openDatabase loads every shared-mime-info package file reachable from
// cfg.SearchPaths (falling back to the XDG search paths when none are
// configured), layers in the subclasses cache as a supplementary source
// of parent edges, and finally merges any user-modified-types overrides
// recorded in the configured userstore backend.
func openDatabase(ctx context.Context, cfg Config) (*mimedb.Database, userstore.Store, error) {
	packages, subclasses, err := resolveSources(cfg)
	if err != nil {
		return nil, nil, err
	}

	db := mimedb.New()
	if err := db.LoadAll(ctx, packages, subclasses); err != nil {
		return nil, nil, err
	}

	store, err := cfg.openUserstore()
	if err != nil {
		return nil, nil, err
	}
	if err := db.ReadUserModifiedMimeTypes(store); err != nil {
		store.Close()
		return nil, nil, err
	}
	return db, store, nil
}

// loadBaseDatabase loads the same package/subclass sources openDatabase
// would, but without merging any stored user overrides — the reference
// point set-suffix and set-globs diff a mutated database against before
// writing a new override snapshot.
func loadBaseDatabase(ctx context.Context, cfg Config) (*mimedb.Database, error) {
	packages, subclasses, err := resolveSources(cfg)
	if err != nil {
		return nil, err
	}
	db := mimedb.New()
	if err := db.LoadAll(ctx, packages, subclasses); err != nil {
		return nil, err
	}
	return db, nil
}

func resolveSources(cfg Config) (packages, subclasses []string, err error) {
	if len(cfg.SearchPaths) == 0 {
		packages, err = xdgdirs.PackageFiles()
		if err != nil {
			return nil, nil, err
		}
		return packages, xdgdirs.SubclassFiles(), nil
	}

	for _, dir := range cfg.SearchPaths {
		matches, err := packageFilesUnder(dir)
		if err != nil {
			return nil, nil, err
		}
		packages = append(packages, matches...)
		if p, ok := subclassesFileUnder(dir); ok {
			subclasses = append(subclasses, p)
		}
	}
	return packages, subclasses, nil
}

// packageFilesUnder globs dir/mime/packages/*.xml directly, mirroring
// xdgdirs.PackageFiles but scoped to a single caller-supplied directory
// (used for an explicit --search-path override rather than the XDG list).
func packageFilesUnder(dir string) ([]string, error) {
	return filepath.Glob(filepath.Join(dir, "mime", "packages", "*.xml"))
}

func subclassesFileUnder(dir string) (string, bool) {
	p := filepath.Join(dir, "mime", "subclasses")
	if _, err := os.Stat(p); err != nil {
		return "", false
	}
	return p, true
}
