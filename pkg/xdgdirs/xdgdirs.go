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

// Package xdgdirs locates shared-mime-info package files and subclass
// caches on disk, following the XDG Base Directory Specification via
// github.com/MatthiasKunnen/xdg/basedir.
package xdgdirs

import (
	"os"
	"path/filepath"

	"github.com/MatthiasKunnen/xdg/basedir"
)

// SearchDirs returns the ordered list of directories to search for
// shared-mime-info data: the user's data home first, then each system
// data directory, matching the precedence basedir.DataHome/DataDirs
// documents.
func SearchDirs() []string {
	dirs := make([]string, 0, 1+len(basedir.DataDirs))
	dirs = append(dirs, basedir.DataHome)
	dirs = append(dirs, basedir.DataDirs...)
	return dirs
}

// PackageFiles globs every mime/packages/*.xml file across SearchDirs,
// in search-path precedence order. Directories that don't exist are
// skipped rather than treated as an error.
func PackageFiles() ([]string, error) {
	var out []string
	for _, dir := range SearchDirs() {
		matches, err := filepath.Glob(filepath.Join(dir, "mime", "packages", "*.xml"))
		if err != nil {
			return nil, err
		}
		out = append(out, matches...)
	}
	return out, nil
}

// SubclassFiles returns the mime/subclasses cache file path under each
// search directory that actually exists, in precedence order — the
// format github.com/MatthiasKunnen/xdg/sharedmimeinfo.LoadFromReaders
// consumes.
func SubclassFiles() []string {
	var out []string
	for _, dir := range SearchDirs() {
		p := filepath.Join(dir, "mime", "subclasses")
		if _, err := os.Stat(p); err == nil {
			out = append(out, p)
		}
	}
	return out
}
