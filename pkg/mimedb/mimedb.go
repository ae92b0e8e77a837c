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

// Package mimedb holds the registry of known MIME types: their aliases,
// their subclass hierarchy, and the search policies that turn a filename
// or a byte prefix into a ranked type.
package mimedb

import (
	"context"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/seanpm2001/playground-mimetypes/pkg/filematch"
	"github.com/seanpm2001/playground-mimetypes/pkg/glob"
	"github.com/seanpm2001/playground-mimetypes/pkg/infoparser"
	"github.com/seanpm2001/playground-mimetypes/pkg/magic"
	"github.com/seanpm2001/playground-mimetypes/pkg/mimetype"
)

// Dangling marks a hierarchy entry whose level hasn't been (re)computed
// since the last invalidation.
const Dangling = 32767

// TextPlainType is the canonical id used as the priority floor for
// text-like content that would otherwise lose to a purely binary match
// in findByData.
const TextPlainType = "text/plain"

type entry struct {
	mt       mimetype.MimeType
	level    int
	order    int
	children []string
}

// Database is a registry of MIME types keyed by canonical id, with an
// alias map, a parent→children relation, and computed hierarchy levels
// used to break ties between competing matches. The zero value is not
// usable; construct with New.
type Database struct {
	mu       sync.RWMutex
	typeMap  map[string]*entry
	aliasMap map[string]string
	maxLevel int
	seq      int
}

// New returns an empty Database ready for ingestion.
func New() *Database {
	return &Database{
		typeMap:  make(map[string]*entry),
		aliasMap: make(map[string]string),
	}
}

// resolveAlias returns the canonical id for id, or id itself if it names
// no known alias.
func (db *Database) resolveAlias(id string) string {
	if canonical, ok := db.aliasMap[id]; ok {
		return canonical
	}
	return id
}

// AddMimeType ingests t, resolving its id through the alias map first.
// A new id is inserted with a Dangling level; an existing id has its
// record replaced in place, preserving the entry's level and hierarchy
// position. Reports false only when t.Type is empty.
func (db *Database) AddMimeType(t mimetype.MimeType) bool {
	if t.Type == "" {
		return false
	}
	db.mu.Lock()
	defer db.mu.Unlock()

	id := db.resolveAlias(t.Type)
	e, exists := db.typeMap[id]
	if !exists {
		e = &entry{level: Dangling, order: db.seq}
		db.seq++
		db.typeMap[id] = e
	}
	e.mt = t
	for _, alias := range t.Aliases {
		db.aliasMap[alias] = id
	}
	for _, parent := range t.SubClassesOf {
		parent = db.resolveAlias(parent)
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
	return true
}

func containsStr(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// DetermineLevels recomputes every entry's hierarchy depth: all levels
// are reset to Dangling, then a depth-first walk from each entry over
// the parent→children relation assigns level = max(level, depth) on
// visit. Idempotent; safe to call after any batch of ingestion.
func (db *Database) DetermineLevels() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.determineLevelsLocked()
}

func (db *Database) determineLevelsLocked() {
	for _, e := range db.typeMap {
		e.level = Dangling
	}
	db.maxLevel = 0
	visiting := make(map[string]bool, len(db.typeMap))
	for id := range db.typeMap {
		db.walkLocked(id, 0, visiting)
	}
}

func (db *Database) walkLocked(id string, depth int, visiting map[string]bool) {
	if visiting[id] {
		return // cycle in parentChildrenMap; stop rather than loop forever
	}
	e, ok := db.typeMap[id]
	if !ok {
		return
	}
	if e.level == Dangling || depth > e.level {
		e.level = depth
	}
	if depth > db.maxLevel {
		db.maxLevel = depth
	}
	visiting[id] = true
	for _, child := range e.children {
		db.walkLocked(child, depth+1, visiting)
	}
	delete(visiting, id)
}

// entriesByLevelDesc returns a snapshot of entries ordered from deepest
// specialization to shallowest, breaking ties by insertion order.
func (db *Database) entriesByLevelDesc() []*entry {
	out := make([]*entry, 0, len(db.typeMap))
	for _, e := range db.typeMap {
		out = append(out, e)
	}
	sortEntriesByLevelDesc(out)
	return out
}

func sortEntriesByLevelDesc(entries []*entry) {
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0; j-- {
			a, b := entries[j-1], entries[j]
			if a.level < b.level || (a.level == b.level && a.order > b.order) {
				entries[j-1], entries[j] = entries[j], entries[j-1]
				continue
			}
			break
		}
	}
}

// FindByType resolves id through the alias map and returns its stored
// record. An absent id yields an invalid, zero-value MimeType rather
// than an error.
func (db *Database) FindByType(id string) mimetype.MimeType {
	db.mu.RLock()
	defer db.mu.RUnlock()
	e, ok := db.typeMap[db.resolveAlias(id)]
	if !ok {
		return mimetype.MimeType{}
	}
	return e.mt
}

// FindByName ranks every entry's filename-suffix match against name,
// deepest specialization first, and returns the highest-priority type
// along with its priority. Returns an invalid type at priority 0 when
// nothing matches.
func (db *Database) FindByName(name string) (mimetype.MimeType, int) {
	db.mu.Lock()
	db.determineLevelsLocked()
	entries := db.entriesByLevelDesc()
	db.mu.Unlock()

	var best mimetype.MimeType
	bestPriority := 0
	for _, e := range entries {
		if p := e.mt.MatchesFileBySuffix(name); p > bestPriority {
			bestPriority = p
			best = e.mt
		}
	}
	return best, bestPriority
}

// FindByData ranks every entry's content match against data. If data is
// empty or looks like text, the winning priority is floored at the
// registered text/plain type's priority so text content never loses to
// a coincidental binary match.
func (db *Database) FindByData(data []byte) (mimetype.MimeType, int) {
	db.mu.Lock()
	db.determineLevelsLocked()
	entries := db.entriesByLevelDesc()
	textEntry, hasText := db.typeMap[db.resolveAlias(TextPlainType)]
	db.mu.Unlock()

	var best mimetype.MimeType
	bestPriority := 0
	for _, e := range entries {
		if p := e.mt.MatchesData(data); p > bestPriority {
			bestPriority = p
			best = e.mt
		}
	}
	if (len(data) == 0 || isTextFile(data)) && hasText {
		floor := textEntry.mt.MatchesData(data)
		if floor == 0 {
			floor = glob.DefaultWeight
		}
		if floor > bestPriority {
			bestPriority = floor
			best = textEntry.mt
		}
	}
	return best, bestPriority
}

// FindByFile combines suffix and content scoring over ctx (per
// mimetype.MimeType.MatchesFile's early-exit rule) across every entry,
// breaking ties by deeper hierarchy level, then by insertion order.
func (db *Database) FindByFile(ctx *filematch.Context) (mimetype.MimeType, int) {
	db.mu.Lock()
	db.determineLevelsLocked()
	entries := db.entriesByLevelDesc()
	db.mu.Unlock()

	var best *entry
	bestPriority := 0
	for _, e := range entries {
		p := e.mt.MatchesFile(ctx)
		if p > bestPriority {
			bestPriority = p
			best = e
		}
	}
	if best == nil {
		return mimetype.MimeType{}, 0
	}
	return best.mt, bestPriority
}

// isTextFile reports whether data's prefix looks like a text document:
// no byte may be a control character outside {\t, \n, \r, \f} and the
// printable range starting at 0x20.
func isTextFile(data []byte) bool {
	for _, b := range data {
		if b >= 0x20 {
			continue
		}
		switch b {
		case '\t', '\n', '\r', '\f':
			continue
		}
		return false
	}
	return true
}

// FilterStrings returns one file-dialog filter caption per type that has
// glob patterns, in the form "<comment> (<glob1> <glob2> …)".
func (db *Database) FilterStrings() []string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	var out []string
	for _, e := range db.typeMap {
		if s := e.mt.FilterString(); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Suffixes unions the derived suffix list across every registered type.
func (db *Database) Suffixes() []string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	seen := make(map[string]bool)
	var out []string
	for _, e := range db.typeMap {
		for _, s := range e.mt.Suffixes {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

// GlobPatterns flattens the glob pattern lists of every registered type.
func (db *Database) GlobPatterns() []string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	var out []string
	for _, e := range db.typeMap {
		for _, gp := range e.mt.GlobPatterns {
			out = append(out, gp.Raw())
		}
	}
	return out
}

// SetPreferredSuffix looks up id and delegates to its MimeType's
// SetPreferredSuffix, reporting false if the type is unknown or the
// suffix isn't one of its own.
func (db *Database) SetPreferredSuffix(id, suffix string) bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	e, ok := db.typeMap[db.resolveAlias(id)]
	if !ok {
		return false
	}
	return e.mt.SetPreferredSuffix(suffix)
}

// SetGlobPatterns looks up id and replaces its MimeType's glob patterns,
// reporting false if the type is unknown.
func (db *Database) SetGlobPatterns(id string, patterns []glob.Pattern) bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	e, ok := db.typeMap[db.resolveAlias(id)]
	if !ok {
		return false
	}
	e.mt.SetGlobPatterns(patterns)
	return true
}

// SetMagicRuleMatchers looks up id and replaces the rule-based subset of
// its MimeType's matchers (leaving other matcher kinds, e.g. a
// SnifferMatcher, untouched), reporting false if the type is unknown.
func (db *Database) SetMagicRuleMatchers(id string, matchers []*magic.RuleMatcher) bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	e, ok := db.typeMap[db.resolveAlias(id)]
	if !ok {
		return false
	}
	e.mt.SetMagicRuleMatchers(matchers)
	return true
}

// AddMimeTypes parses a single shared-mime-info XML document from r
// (§6, add_mime_types) and ingests every record it contains, recomputing
// hierarchy levels once at the end. A malformed document aborts with the
// infoparser.ParseError and leaves any already-ingested records in place.
func (db *Database) AddMimeTypes(ctx context.Context, r io.Reader) error {
	if err := infoparser.Parse(ctx, r, func(t mimetype.MimeType) {
		db.AddMimeType(t)
	}); err != nil {
		return err
	}
	db.DetermineLevels()
	return nil
}

// LoadAll parses every shared-mime-info XML package file in packagePaths
// concurrently (via golang.org/x/sync/errgroup) and ingests the emitted
// records, then layers in subclassPaths's supplementary parent edges (see
// LoadSubclassesFile) and recomputes hierarchy levels once at the end.
// Ingestion itself is serialized by Database's own mutex, so concurrent
// parses are safe to feed into the same Database.
func (db *Database) LoadAll(ctx context.Context, packagePaths, subclassPaths []string) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, path := range packagePaths {
		path := path
		g.Go(func() error {
			return infoparser.ParseFile(gctx, path, func(t mimetype.MimeType) {
				db.AddMimeType(t)
			})
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if len(subclassPaths) > 0 {
		if err := db.LoadSubclassesFile(subclassPaths); err != nil {
			return err
		}
	}
	db.DetermineLevels()
	return nil
}
