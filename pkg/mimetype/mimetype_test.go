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

package mimetype

import (
	"bytes"
	"io"
	"testing"

	"github.com/seanpm2001/playground-mimetypes/pkg/diag"
	"github.com/seanpm2001/playground-mimetypes/pkg/filematch"
	"github.com/seanpm2001/playground-mimetypes/pkg/glob"
	"github.com/seanpm2001/playground-mimetypes/pkg/magic"
)

func mustGlob(t *testing.T, pattern string, weight int) glob.Pattern {
	t.Helper()
	p, err := glob.Compile(pattern, weight)
	if err != nil {
		t.Fatalf("glob.Compile(%q): %v", pattern, err)
	}
	return p
}

func mustRule(t *testing.T, kind magic.Kind, value string, start, end int) magic.Rule {
	t.Helper()
	r, err := magic.NewRule(kind, value, start, end, diag.Nop)
	if err != nil {
		t.Fatalf("magic.NewRule: %v", err)
	}
	return r
}

func pngType(t *testing.T) MimeType {
	mt := MimeType{Type: "image/png", Comment: "PNG image"}
	mt.SetGlobPatterns([]glob.Pattern{mustGlob(t, "*.png", 50)})
	rule := mustRule(t, magic.String, "\x89PNG", 0, 0)
	mt.Matchers = []magic.Matcher{magic.NewRuleMatcher([]magic.Rule{rule}, 50)}
	return mt
}

func TestMatchesFileBySuffix(t *testing.T) {
	mt := pngType(t)
	if mt.MatchesFileBySuffix("x.png") != 50 {
		t.Errorf("expected weight 50 for x.png")
	}
	if mt.MatchesFileBySuffix("x.jpg") != 0 {
		t.Errorf("expected weight 0 for non-matching name")
	}
}

func TestMatchesDataAndFile(t *testing.T) {
	mt := pngType(t)
	data := append([]byte("\x89PNG"), []byte("\r\n\x1a\n")...)
	if mt.MatchesData(data) != 50 {
		t.Errorf("expected content priority 50")
	}

	ctxByName := filematch.NewContext("x.png", func() (filematch.ByteSource, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	})
	if got := mt.MatchesFile(ctxByName); got != 50 {
		t.Errorf("MatchesFile by name = %d, want 50", got)
	}
}

func TestMatchesFileEarlyExitSkipsContent(t *testing.T) {
	mt := pngType(t)
	mt.GlobPatterns[0] = mustGlob(t, "*.png", glob.MaxWeight)
	called := false
	ctx := filematch.NewContext("x.png", func() (filematch.ByteSource, error) {
		called = true
		return io.NopCloser(bytes.NewReader(nil)), nil
	})
	if got := mt.MatchesFile(ctx); got != glob.MaxWeight {
		t.Errorf("MatchesFile = %d, want %d", got, glob.MaxWeight)
	}
	if called {
		t.Error("expected content to not be read when suffix weight is MaxWeight")
	}
}

func TestMatchesType(t *testing.T) {
	mt := MimeType{Type: "text/plain", Aliases: []string{"text/x-plain"}}
	if !mt.MatchesType("text/plain") || !mt.MatchesType("text/x-plain") {
		t.Error("expected canonical type and alias to both match")
	}
	if mt.MatchesType("text/html") {
		t.Error("did not expect unrelated type to match")
	}
}

func TestSetGlobPatternsPreservesPreferredSuffix(t *testing.T) {
	mt := MimeType{Type: "text/x-c"}
	mt.SetGlobPatterns([]glob.Pattern{mustGlob(t, "*.c", 50), mustGlob(t, "*.h", 50)})
	if mt.PreferredSuffix != "c" {
		t.Fatalf("PreferredSuffix = %q, want c", mt.PreferredSuffix)
	}
	if !mt.SetPreferredSuffix("h") {
		t.Fatal("expected SetPreferredSuffix(h) to succeed")
	}
	mt.SetGlobPatterns([]glob.Pattern{mustGlob(t, "*.h", 50), mustGlob(t, "*.c", 50)})
	if mt.PreferredSuffix != "h" {
		t.Errorf("PreferredSuffix = %q, want h to be preserved", mt.PreferredSuffix)
	}
}

func TestSetPreferredSuffixRejectsUnknown(t *testing.T) {
	mt := MimeType{Type: "text/x-c"}
	mt.SetGlobPatterns([]glob.Pattern{mustGlob(t, "*.c", 50)})
	if mt.SetPreferredSuffix("h") {
		t.Error("expected SetPreferredSuffix(h) to fail: h is not a derived suffix")
	}
}

func TestMagicRuleMatchersFilter(t *testing.T) {
	mt := pngType(t)
	mt.Matchers = append(mt.Matchers, magic.NewSnifferMatcher("image/png", 40))
	ruleMatchers := mt.MagicRuleMatchers()
	if len(ruleMatchers) != 1 {
		t.Fatalf("got %d rule matchers, want 1", len(ruleMatchers))
	}
	mt.SetMagicRuleMatchers(nil)
	if len(mt.MagicRuleMatchers()) != 0 {
		t.Error("expected rule matchers cleared")
	}
	if len(mt.Matchers) != 1 {
		t.Errorf("expected SnifferMatcher to remain untouched, got %d matchers", len(mt.Matchers))
	}
}

func TestCloneIsIndependent(t *testing.T) {
	mt := pngType(t)
	clone := mt.Clone()
	clone.Aliases = append(clone.Aliases, "image/x-png")
	if len(mt.Aliases) != 0 {
		t.Error("mutating the clone's aliases must not affect the original")
	}
}

func TestFilterString(t *testing.T) {
	mt := pngType(t)
	if got, want := mt.FilterString(), "PNG image (*.png)"; got != want {
		t.Errorf("FilterString() = %q, want %q", got, want)
	}
	binary := MimeType{Type: "application/octet-stream", Comment: "binary"}
	if got := binary.FilterString(); got != "" {
		t.Errorf("FilterString() for type with no globs = %q, want empty", got)
	}
}

func TestLocaleComment(t *testing.T) {
	mt := MimeType{
		Type:           "text/plain",
		Comment:        "plain text document",
		LocaleComments: map[string]string{"fr": "document texte brut"},
	}
	if got := mt.LocaleComment("fr"); got != "document texte brut" {
		t.Errorf("LocaleComment(fr) = %q", got)
	}
	if got := mt.LocaleComment("de"); got != mt.Comment {
		t.Errorf("LocaleComment(de) = %q, want fallback to default comment", got)
	}
}
