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
	"bufio"
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/seanpm2001/playground-mimetypes/pkg/glob"
	"github.com/seanpm2001/playground-mimetypes/pkg/mimetype"
	"github.com/seanpm2001/playground-mimetypes/pkg/userstore"
)

// userDataKey is the single key the user-modified-types blob is stored
// under. The format is opaque to everything but this file: one JSON
// object per line (matchers are never part of an override — users
// modify filename associations and comments, not magic rules).
const userDataKey = "user-modified-mime-types"

// userOverride is the serializable subset of a MimeType a user override
// can carry.
type userOverride struct {
	Type            string    `json:"type"`
	Comment         string    `json:"comment,omitempty"`
	Aliases         []string  `json:"aliases,omitempty"`
	SubClassesOf    []string  `json:"subClassesOf,omitempty"`
	Globs           []globDTO `json:"globs,omitempty"`
	PreferredSuffix string    `json:"preferredSuffix,omitempty"`
}

type globDTO struct {
	Pattern string `json:"pattern"`
	Weight  int    `json:"weight"`
}

func overrideFromMimeType(mt mimetype.MimeType) userOverride {
	o := userOverride{
		Type:            mt.Type,
		Comment:         mt.Comment,
		Aliases:         mt.Aliases,
		SubClassesOf:    mt.SubClassesOf,
		PreferredSuffix: mt.PreferredSuffix,
	}
	for _, gp := range mt.GlobPatterns {
		o.Globs = append(o.Globs, globDTO{Pattern: gp.Raw(), Weight: gp.Weight()})
	}
	return o
}

// applyTo merges o onto the base record: anything present in base is
// kept except for fields the override actually carries.
func (o userOverride) applyTo(base mimetype.MimeType) (mimetype.MimeType, error) {
	out := base.Clone()
	out.Type = o.Type
	if o.Comment != "" {
		out.Comment = o.Comment
	}
	if len(o.Aliases) > 0 {
		out.Aliases = o.Aliases
	}
	if len(o.SubClassesOf) > 0 {
		out.SubClassesOf = o.SubClassesOf
	}
	if len(o.Globs) > 0 {
		patterns := make([]glob.Pattern, 0, len(o.Globs))
		for _, g := range o.Globs {
			p, err := glob.Compile(g.Pattern, g.Weight)
			if err != nil {
				return mimetype.MimeType{}, errors.Wrapf(err, "user override %s: glob %q", o.Type, g.Pattern)
			}
			patterns = append(patterns, p)
		}
		out.SetGlobPatterns(patterns)
	}
	if o.PreferredSuffix != "" {
		out.SetPreferredSuffix(o.PreferredSuffix)
	}
	return out, nil
}

func encodeOverrides(overrides []userOverride) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, o := range overrides {
		if err := enc.Encode(o); err != nil {
			return "", errors.Wrap(err, "encoding user override")
		}
	}
	return buf.String(), nil
}

func decodeOverrides(blob string) ([]userOverride, error) {
	var out []userOverride
	sc := bufio.NewScanner(bytes.NewReader([]byte(blob)))
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var o userOverride
		if err := json.Unmarshal(line, &o); err != nil {
			return nil, errors.Wrap(err, "decoding user override")
		}
		out = append(out, o)
	}
	return out, sc.Err()
}

// ReadUserModifiedMimeTypes merges the overrides stored in store on top
// of db's current entries. A missing blob is not an error.
func (db *Database) ReadUserModifiedMimeTypes(store userstore.Store) error {
	raw, err := store.Get(userDataKey)
	if err == userstore.ErrNotFound {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "reading user-modified mime types")
	}
	overrides, err := decodeOverrides(raw)
	if err != nil {
		return err
	}
	for _, o := range overrides {
		base := db.FindByType(o.Type)
		merged, err := o.applyTo(base)
		if err != nil {
			return err
		}
		db.AddMimeType(merged)
	}
	db.DetermineLevels()
	return nil
}

// WriteUserModifiedMimeTypes snapshots, into store, only the entries of
// db that differ from the corresponding entry in base (or that base
// doesn't have at all).
func (db *Database) WriteUserModifiedMimeTypes(store userstore.Store, base *Database) error {
	db.mu.RLock()
	var overrides []userOverride
	for id, e := range db.typeMap {
		baseEntry, ok := base.typeMap[id]
		if ok && mimeTypesEqual(e.mt, baseEntry.mt) {
			continue
		}
		overrides = append(overrides, overrideFromMimeType(e.mt))
	}
	db.mu.RUnlock()

	blob, err := encodeOverrides(overrides)
	if err != nil {
		return err
	}
	if err := store.Set(userDataKey, blob); err != nil {
		return errors.Wrap(err, "writing user-modified mime types")
	}
	return nil
}

// SyncUserModifiedMimeTypes snapshots db's overrides relative to base
// into store, then re-reads them, normalizing db's state to exactly
// what a fresh read would observe.
func (db *Database) SyncUserModifiedMimeTypes(store userstore.Store, base *Database) error {
	if err := db.WriteUserModifiedMimeTypes(store, base); err != nil {
		return err
	}
	return db.ReadUserModifiedMimeTypes(store)
}

// ClearUserModifiedMimeTypes removes the stored override blob. It is
// not an error if none was present.
func (db *Database) ClearUserModifiedMimeTypes(store userstore.Store) error {
	if err := store.Delete(userDataKey); err != nil {
		return errors.Wrap(err, "clearing user-modified mime types")
	}
	return nil
}

func mimeTypesEqual(a, b mimetype.MimeType) bool {
	if a.Type != b.Type || a.Comment != b.Comment || a.PreferredSuffix != b.PreferredSuffix {
		return false
	}
	if !stringSlicesEqual(a.Aliases, b.Aliases) || !stringSlicesEqual(a.SubClassesOf, b.SubClassesOf) {
		return false
	}
	if len(a.GlobPatterns) != len(b.GlobPatterns) {
		return false
	}
	for i := range a.GlobPatterns {
		if a.GlobPatterns[i].Raw() != b.GlobPatterns[i].Raw() || a.GlobPatterns[i].Weight() != b.GlobPatterns[i].Weight() {
			return false
		}
	}
	return true
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
