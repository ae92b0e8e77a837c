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

// Package glob implements weighted, shell-style filename patterns used to
// rank MIME type candidates by filename before falling back to content
// sniffing.
package glob

import (
	"regexp"
	"strings"
)

const (
	// MaxWeight causes matchesFile's early exit: a glob match at this
	// weight wins without the caller ever reading file content.
	MaxWeight = 100
	// DefaultWeight is used for globs declared without an explicit weight.
	DefaultWeight = 50
)

// Pattern is an anchored, exact-match regex translated from a shell glob,
// plus the weight it contributes to the outer priority competition.
type Pattern struct {
	raw    string
	weight int
	re     *regexp.Regexp
}

// Compile translates a shell glob (`*`, `?`, literal characters) into an
// anchored regex and pairs it with weight.
func Compile(pattern string, weight int) (Pattern, error) {
	re, err := regexp.Compile(translate(pattern))
	if err != nil {
		return Pattern{}, err
	}
	return Pattern{raw: pattern, weight: weight, re: re}, nil
}

// translate converts a shell glob into an anchored regex body: `*` becomes
// `.*`, `?` becomes `.`, and `.` is escaped so literal dots in extensions
// don't become wildcards.
func translate(pattern string) string {
	var b strings.Builder
	b.WriteByte('^')
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		case '.':
			b.WriteString(`\.`)
		default:
			if strings.ContainsRune(`\+()|[]{}^$`, r) {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('$')
	return b.String()
}

// Raw returns the original, untranslated shell glob.
func (p Pattern) Raw() string { return p.raw }

// Weight returns the pattern's priority weight.
func (p Pattern) Weight() int { return p.weight }

// MatchString reports whether name exactly matches the pattern.
func (p Pattern) MatchString(name string) bool {
	if p.re == nil {
		return false
	}
	return p.re.MatchString(name)
}

// suffixPattern recognizes globs of the exact shape "*.<word>", the only
// shape that contributes to a MimeType's derived suffix list (§3, §4.4).
var suffixPattern = regexp.MustCompile(`^\*\.[\w+]+$`)

// Suffix returns the extracted suffix (without the leading "*.") and true
// if p matches the "*.<word>" schema exactly.
func (p Pattern) Suffix() (string, bool) {
	if !suffixPattern.MatchString(p.raw) {
		return "", false
	}
	return p.raw[2:], true
}
