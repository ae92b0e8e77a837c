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

package magic

import (
	"github.com/gabriel-vasile/mimetype"
)

// Matcher is the capability a MIME type record collects content matchers
// through. RuleMatcher is the only kind the core constructs from XML, but
// SnifferMatcher and any caller-supplied implementation satisfy the same
// interface, per design note §9 ("a small interface with a fixed set of
// implementations").
type Matcher interface {
	// Matches reports whether data satisfies the matcher.
	Matches(data []byte) bool
	// Priority is the matcher's weight in the outer [0,100] competition.
	Priority() int
}

// RuleMatcher is an ordered conjunction of Rules carrying a single
// priority. Matching short-circuits on the first failing rule. An empty
// rule list never matches. RuleMatchers are immutable after construction
// and safe to share by reference across MimeType records.
type RuleMatcher struct {
	rules    []Rule
	priority int
}

// NewRuleMatcher builds a RuleMatcher from rules and priority, clamping
// priority to [0,100].
func NewRuleMatcher(rules []Rule, priority int) *RuleMatcher {
	if priority < 0 {
		priority = 0
	} else if priority > 100 {
		priority = 100
	}
	return &RuleMatcher{rules: append([]Rule(nil), rules...), priority: priority}
}

// Rules returns the matcher's rules in evaluation order.
func (m *RuleMatcher) Rules() []Rule { return m.rules }

func (m *RuleMatcher) Matches(data []byte) bool {
	if len(m.rules) == 0 {
		return false
	}
	for _, r := range m.rules {
		if !r.Matches(data) {
			return false
		}
	}
	return true
}

func (m *RuleMatcher) Priority() int { return m.priority }

// SnifferMatcher is the "binary-heuristic" matcher kind design note §9
// anticipates: instead of a hand-rolled text/binary heuristic inside the
// rule engine, it defers to a real content-sniffing library. It matches
// when the sniffed MIME type equals want (or, per mimetype's own parent
// chain, is a descendant of it), which lets a single SnifferMatcher stand
// in for an entire family of related formats (e.g. any of the Office Open
// XML formats) without enumerating magic rules for each.
type SnifferMatcher struct {
	want     string
	priority int
}

// NewSnifferMatcher returns a Matcher backed by github.com/gabriel-vasile/mimetype.
func NewSnifferMatcher(want string, priority int) *SnifferMatcher {
	return &SnifferMatcher{want: want, priority: priority}
}

func (m *SnifferMatcher) Matches(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	return mimetype.Detect(data).Is(m.want)
}

func (m *SnifferMatcher) Priority() int { return m.priority }
