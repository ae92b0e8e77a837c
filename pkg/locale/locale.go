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

// Package locale resolves a caller's preferred language against the set
// of locale tags a MimeType carries localized comments for. Locale
// lookup is an external collaborator to the core database; this package
// is the concrete resolver the rest of the module wires in.
package locale

import (
	"os"
	"strings"

	"golang.org/x/text/language"

	"github.com/seanpm2001/playground-mimetypes/pkg/mimetype"
)

// Resolver picks the best available locale tag for a caller's preference
// list, using BCP 47 matching rather than exact string comparison so
// "fr-CA" resolves against an "fr" comment.
type Resolver struct {
	matcher language.Matcher
	tags    []string
}

// NewResolver builds a Resolver over the given set of available locale
// tags (e.g. the keys of a MimeType's LocaleComments). An empty or
// unparsable tag is skipped rather than rejected outright.
func NewResolver(available []string) *Resolver {
	r := &Resolver{}
	var parsed []language.Tag
	for _, a := range available {
		tag, err := language.Parse(a)
		if err != nil {
			continue
		}
		parsed = append(parsed, tag)
		r.tags = append(r.tags, a)
	}
	if len(parsed) == 0 {
		return r
	}
	r.matcher = language.NewMatcher(parsed)
	return r
}

// Best returns the available tag that best matches preferred, or "" if
// the resolver has no available tags. preferred is tried in order;
// language.NewMatcher handles fallback to related tags and, failing
// that, its own default (the first available tag).
func (r *Resolver) Best(preferred ...string) string {
	if r.matcher == nil {
		return ""
	}
	var want []language.Tag
	for _, p := range preferred {
		tag, err := language.Parse(p)
		if err != nil {
			continue
		}
		want = append(want, tag)
	}
	if len(want) == 0 {
		return r.tags[0]
	}
	_, index, _ := r.matcher.Match(want...)
	return r.tags[index]
}

// SystemPreferences reads the caller's preferred languages from the
// LANGUAGE and LANG environment variables, in that order, falling back to
// nothing (the resolver's own default) if neither is set.
func SystemPreferences() []string {
	var prefs []string
	if v := os.Getenv("LANGUAGE"); v != "" {
		prefs = append(prefs, strings.Split(v, ":")...)
	}
	if v := os.Getenv("LANG"); v != "" {
		prefs = append(prefs, strings.SplitN(v, ".", 2)[0])
	}
	return prefs
}

// BestComment resolves the best locale for mt's LocaleComments against
// preferred and returns the corresponding comment, falling back to mt's
// default comment when no locale-specific translation is recorded.
func BestComment(mt mimetype.MimeType, preferred ...string) string {
	if len(mt.LocaleComments) == 0 {
		return mt.Comment
	}
	available := make([]string, 0, len(mt.LocaleComments))
	for tag := range mt.LocaleComments {
		available = append(available, tag)
	}
	best := NewResolver(available).Best(preferred...)
	return mt.LocaleComment(best)
}
