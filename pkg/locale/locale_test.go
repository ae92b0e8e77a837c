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

package locale

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/seanpm2001/playground-mimetypes/pkg/mimetype"
)

func TestResolverBestExactMatch(t *testing.T) {
	r := NewResolver([]string{"en", "fr", "de"})
	if got := r.Best("fr"); got != "fr" {
		t.Errorf("Best(fr) = %q, want fr", got)
	}
}

func TestResolverBestRegionalFallback(t *testing.T) {
	r := NewResolver([]string{"en", "fr"})
	if got := r.Best("fr-CA"); got != "fr" {
		t.Errorf("Best(fr-CA) = %q, want fr", got)
	}
}

func TestResolverBestNoPreferenceUsesDefault(t *testing.T) {
	r := NewResolver([]string{"en", "fr"})
	if got := r.Best(); got != "en" {
		t.Errorf("Best() = %q, want en (first available)", got)
	}
}

func TestResolverEmptyAvailable(t *testing.T) {
	r := NewResolver(nil)
	if got := r.Best("fr"); got != "" {
		t.Errorf("Best(fr) on empty resolver = %q, want empty", got)
	}
}

func TestBestCommentFallsBackToDefault(t *testing.T) {
	mt := mimetype.MimeType{Type: "text/plain", Comment: "plain text document"}
	if got := BestComment(mt, "fr"); got != "plain text document" {
		t.Errorf("BestComment = %q", got)
	}
}

func TestBestCommentPicksLocalized(t *testing.T) {
	mt := mimetype.MimeType{
		Type:    "text/plain",
		Comment: "plain text document",
		LocaleComments: map[string]string{
			"fr": "document texte brut",
			"de": "Klartextdokument",
		},
	}
	if got := BestComment(mt, "fr-CA"); got != "document texte brut" {
		t.Errorf("BestComment(fr-CA) = %q", got)
	}
}

func TestResolverAvailableTagsUnordered(t *testing.T) {
	want := []string{"en", "fr", "de"}
	r := NewResolver(want)
	got := append([]string(nil), r.tags...)
	sortStrings(got)
	sortedWant := append([]string(nil), want...)
	sortStrings(sortedWant)
	if diff := cmp.Diff(sortedWant, got); diff != "" {
		t.Errorf("available tags mismatch (-want +got):\n%s", diff)
	}
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
