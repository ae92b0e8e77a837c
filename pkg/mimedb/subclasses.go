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
	"io"
	"os"

	"github.com/MatthiasKunnen/xdg/sharedmimeinfo"
	"github.com/pkg/errors"
)

// LoadSubclassesFile ingests one or more mime/subclasses cache files (in
// XDG search-path precedence order) as a supplementary source of
// parent→child edges, alongside the ones the XML packages themselves
// declare via sub-class-of. Only edges touching types already known to
// db are added; a parent named by the cache but never seen in any XML
// package is created as a bare entry so the edge still contributes to
// level computation.
func (db *Database) LoadSubclassesFile(paths []string) error {
	var files []*os.File
	var readers []io.Reader
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return errors.Wrapf(err, "opening subclasses file %s", p)
		}
		files = append(files, f)
		readers = append(readers, f)
	}

	sub, err := sharedmimeinfo.LoadFromReaders(readers)
	if err != nil {
		return errors.Wrap(err, "parsing subclasses cache")
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	ids := make([]string, 0, len(db.typeMap))
	for id := range db.typeMap {
		ids = append(ids, id)
	}
	for _, id := range ids {
		for _, broad := range sub.BroaderOnce(id) {
			parent := db.resolveAlias(broad)
			pe, ok := db.typeMap[parent]
			if !ok {
				pe = &entry{level: Dangling, order: db.seq}
				db.seq++
				db.typeMap[parent] = pe
			}
			if !containsStr(pe.children, id) {
				pe.children = append(pe.children, id)
			}
		}
	}
	return nil
}
