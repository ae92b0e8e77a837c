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

// Package mimetype defines the MimeType record: a canonical type id, its
// aliases and parents, its glob patterns and content matchers, and the
// per-type scoring functions the database dispatcher relies on.
package mimetype

import (
	"fmt"
	"strings"

	"github.com/seanpm2001/playground-mimetypes/pkg/filematch"
	"github.com/seanpm2001/playground-mimetypes/pkg/glob"
	"github.com/seanpm2001/playground-mimetypes/pkg/magic"
)

// MimeType is a record carrying everything known about one MIME type. It
// carries plain value semantics; Clone returns an independent copy (§5,
// §9 — the Go-idiomatic alternative to the source's implicitly-shared,
// copy-on-write body).
type MimeType struct {
	Type            string
	Comment         string
	LocaleComments  map[string]string
	Aliases         []string
	SubClassesOf    []string
	GlobPatterns    []glob.Pattern
	Matchers        []magic.Matcher
	Suffixes        []string
	PreferredSuffix string
}

// IsValid reports whether t names a type. The zero value (and the
// sentinel returned on a lookup miss) is invalid.
func (t MimeType) IsValid() bool { return t.Type != "" }

// Clone returns a deep-enough copy of t: slices and maps are copied so
// mutating the clone's glob/alias/parent lists doesn't affect t, but
// shared Matchers are kept by reference, per §4.2 ("matchers are shared
// by reference across the types that reference them").
func (t MimeType) Clone() MimeType {
	c := t
	c.LocaleComments = cloneStringMap(t.LocaleComments)
	c.Aliases = append([]string(nil), t.Aliases...)
	c.SubClassesOf = append([]string(nil), t.SubClassesOf...)
	c.GlobPatterns = append([]glob.Pattern(nil), t.GlobPatterns...)
	c.Matchers = append([]magic.Matcher(nil), t.Matchers...)
	c.Suffixes = append([]string(nil), t.Suffixes...)
	return c
}

func cloneStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// MatchesType reports whether id names t, either as its canonical type or
// one of its aliases.
func (t MimeType) MatchesType(id string) bool {
	if t.Type == id {
		return true
	}
	for _, a := range t.Aliases {
		if a == id {
			return true
		}
	}
	return false
}

// MatchesFileBySuffix returns the highest weight among glob patterns that
// exactly match name, or 0 if none do.
func (t MimeType) MatchesFileBySuffix(name string) int {
	best := 0
	for _, gp := range t.GlobPatterns {
		if gp.MatchString(name) && gp.Weight() > best {
			best = gp.Weight()
		}
	}
	return best
}

// MatchesData returns the highest priority among matchers that match
// data, or 0 on an empty buffer or an empty matcher list.
func (t MimeType) MatchesData(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	best := 0
	for _, m := range t.Matchers {
		if p := m.Priority(); p > best && m.Matches(data) {
			best = p
		}
	}
	return best
}

// MatchesFile combines suffix and content scoring: a full-weight glob
// match short-circuits before content is ever read (§4.4).
func (t MimeType) MatchesFile(ctx *filematch.Context) int {
	suffix := t.MatchesFileBySuffix(ctx.FileName())
	if suffix >= glob.MaxWeight {
		return suffix
	}
	content := t.MatchesData(ctx.Data())
	if content > suffix {
		return content
	}
	return suffix
}

// SetGlobPatterns replaces t's glob patterns and rebuilds the derived
// suffix list from scratch, preserving the previously preferred suffix
// if it remains among the new suffixes (§4.4).
func (t *MimeType) SetGlobPatterns(patterns []glob.Pattern) {
	t.GlobPatterns = patterns
	old := t.PreferredSuffix
	t.Suffixes = nil
	t.PreferredSuffix = ""
	for _, p := range patterns {
		suffix, ok := p.Suffix()
		if !ok {
			continue
		}
		t.Suffixes = append(t.Suffixes, suffix)
		if t.PreferredSuffix == "" {
			t.PreferredSuffix = suffix
		}
	}
	if t.PreferredSuffix != old && contains(t.Suffixes, old) {
		t.PreferredSuffix = old
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// SetPreferredSuffix sets the preferred suffix, failing (SuffixConfigError,
// §7) if s is not among the type's derived suffixes.
func (t *MimeType) SetPreferredSuffix(s string) bool {
	if !contains(t.Suffixes, s) {
		return false
	}
	t.PreferredSuffix = s
	return true
}

// MagicRuleMatchers returns the subset of t's matchers that are
// rule-based, via a dynamic kind test against *magic.RuleMatcher — the Go
// stand-in for the source's dynamic_cast-based filter (§4.4, §9).
func (t MimeType) MagicRuleMatchers() []*magic.RuleMatcher {
	var out []*magic.RuleMatcher
	for _, m := range t.Matchers {
		if rm, ok := m.(*magic.RuleMatcher); ok {
			out = append(out, rm)
		}
	}
	return out
}

// SetMagicRuleMatchers replaces exactly the rule-based matchers in t,
// leaving any other matcher kind (e.g. a SnifferMatcher) untouched.
func (t *MimeType) SetMagicRuleMatchers(matchers []*magic.RuleMatcher) {
	kept := t.Matchers[:0:0]
	for _, m := range t.Matchers {
		if _, ok := m.(*magic.RuleMatcher); !ok {
			kept = append(kept, m)
		}
	}
	for _, m := range matchers {
		kept = append(kept, m)
	}
	t.Matchers = kept
}

// LocaleComment returns the comment localized for locale, falling back to
// the default comment if no translation is recorded. Locale resolution
// itself (picking "locale" from the caller's environment) is an external
// collaborator; see pkg/locale.
func (t MimeType) LocaleComment(locale string) string {
	if locale != "" {
		if c, ok := t.LocaleComments[locale]; ok {
			return c
		}
	}
	return t.Comment
}

// FilterString renders a file-dialog filter caption of the form
// "<comment> (<glob1> <glob2> …)", or "" for types with no globs (§4.5,
// §9, ported from QMimeType::filterString).
func (t MimeType) FilterString() string {
	if len(t.GlobPatterns) == 0 {
		return ""
	}
	var raws []string
	for _, gp := range t.GlobPatterns {
		raws = append(raws, gp.Raw())
	}
	return fmt.Sprintf("%s (%s)", t.Comment, strings.Join(raws, " "))
}

// String renders a multi-line debug summary, mirroring the original's
// QMimeTypeData::debug dump (§9).
func (t MimeType) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Type: %s", t.Type)
	if len(t.Aliases) > 0 {
		fmt.Fprintf(&b, " Aliases: %s", strings.Join(t.Aliases, ","))
	}
	fmt.Fprintf(&b, ", magic: %d\n", len(t.Matchers))
	fmt.Fprintf(&b, "Comment: %s\n", t.Comment)
	if len(t.SubClassesOf) > 0 {
		fmt.Fprintf(&b, "SubClassesOf: %s\n", strings.Join(t.SubClassesOf, ","))
	}
	if len(t.GlobPatterns) > 0 {
		b.WriteString("Glob: ")
		for _, gp := range t.GlobPatterns {
			fmt.Fprintf(&b, "%s(%d)", gp.Raw(), gp.Weight())
		}
		b.WriteByte('\n')
		if len(t.Suffixes) > 0 {
			fmt.Fprintf(&b, "Suffixes: %s preferred: %s\n", strings.Join(t.Suffixes, ","), t.PreferredSuffix)
		}
	}
	return b.String()
}
