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
	"strings"
	"testing"

	"github.com/seanpm2001/playground-mimetypes/pkg/diag"
)

func mustRule(t *testing.T, kind Kind, value string, start, end int) Rule {
	t.Helper()
	r, err := NewRule(kind, value, start, end, diag.Nop)
	if err != nil {
		t.Fatalf("NewRule(%v, %q, %d, %d): %v", kind, value, start, end, err)
	}
	return r
}

func TestStringRuleAnchoredAtZero(t *testing.T) {
	r := mustRule(t, String, "\x89PNG", 0, 0)
	if !r.Matches([]byte("\x89PNG\r\n\x1a\n")) {
		t.Error("expected anchored PNG signature to match")
	}
	if r.Matches([]byte("x\x89PNG")) {
		t.Error("anchored rule should not match when signature is not at position 0")
	}
}

func TestStringRuleRange(t *testing.T) {
	buf := []byte(strings.Repeat(".", 10) + "END" + strings.Repeat(".", 10))
	r := mustRule(t, String, "END", 10, 20)
	if !r.Matches(buf) {
		t.Error("expected END within [10,20] to match")
	}
	r2 := mustRule(t, String, "END", 14, 20)
	if r2.Matches(buf) {
		t.Error("expected END starting before the window to not match")
	}
}

func TestByteRuleELF(t *testing.T) {
	r := mustRule(t, Byte, `\0x7f\0x45\0x4c\0x46`, 0, 0)
	elf := []byte{0x7f, 0x45, 0x4c, 0x46, 0x02, 0x01}
	if !r.Matches(elf) {
		t.Error("expected ELF header to match")
	}
	if r.Matches(elf[1:]) {
		t.Error("expected shifted-by-one buffer to not match at endPos=0")
	}
}

func TestByteRuleHexVariants(t *testing.T) {
	for _, val := range []string{`\0x7f`, `\0X7F`, `\7f`} {
		r := mustRule(t, Byte, val, 0, 0)
		if !r.Matches([]byte{0x7f}) {
			t.Errorf("value %q: expected match", val)
		}
	}
}

func TestByteRuleMalformedNeverMatches(t *testing.T) {
	r := mustRule(t, Byte, `\zz`, 0, 0)
	if r.Matches([]byte{0x00}) {
		t.Error("malformed byte rule should never match")
	}
}

func TestHostEndiannessTreatedAsBigEndian(t *testing.T) {
	// host32 with value "0x01020304" must behave exactly like big32 on
	// construction, per design note §9 / original Qt source.
	host := mustRule(t, Host32, "0x01020304", 0, 0)
	big := mustRule(t, Big32, "0x01020304", 0, 0)
	buf := []byte{0x01, 0x02, 0x03, 0x04}
	if host.Matches(buf) != big.Matches(buf) {
		t.Error("host32 should match exactly like big32")
	}
	if !host.Matches(buf) {
		t.Error("expected host32(0x01020304) to match big-endian encoded bytes")
	}
}

func TestNumericRuleBoundary(t *testing.T) {
	buf := []byte{0xAA, 0xBB, 0x01, 0x02}
	r := mustRule(t, Big16, "0x0102", 2, 10) // endPos far beyond len-width
	if !r.Matches(buf) {
		t.Error("expected match at last aligned position despite endPos overrun")
	}
}

func TestEmptyBufferNeverMatches(t *testing.T) {
	for _, kind := range []Kind{String, Byte, Big16, Little32, Host16} {
		r := mustRule(t, kind, "\x01", 0, 0)
		if r.Matches(nil) {
			t.Errorf("kind %v matched an empty buffer", kind)
		}
	}
}

func TestMatcherIdempotence(t *testing.T) {
	r := mustRule(t, String, "GIF87a", 0, 0)
	buf := []byte("GIF87a")
	first := r.Matches(buf)
	second := r.Matches(buf)
	if first != second || !first {
		t.Errorf("matcher is not idempotent: %v then %v", first, second)
	}
}

func TestOffsetRoundTrip(t *testing.T) {
	cases := [][2]int{{0, 0}, {10, 20}, {4, 4}}
	for _, c := range cases {
		s := Offset(c[0], c[1])
		start, end, err := ParseOffset(s)
		if err != nil {
			t.Fatalf("ParseOffset(%q): %v", s, err)
		}
		if start != c[0] || end != c[1] {
			t.Errorf("round trip of %v produced (%d,%d)", c, start, end)
		}
	}
}

func TestParseOffsetSingleInteger(t *testing.T) {
	start, end, err := ParseOffset("42")
	if err != nil {
		t.Fatal(err)
	}
	if start != 42 || end != 42 {
		t.Errorf("got (%d,%d), want (42,42)", start, end)
	}
}

func TestParseOffsetRejectsMultipleColons(t *testing.T) {
	if _, _, err := ParseOffset("1:2:3"); err == nil {
		t.Error("expected error for offset with more than one ':'")
	}
}

func TestRuleMatcherShortCircuitsAndConjoins(t *testing.T) {
	rules := []Rule{
		mustRule(t, String, "PK", 0, 0),
		mustRule(t, Byte, `\03\04`, 2, 2),
	}
	m := NewRuleMatcher(rules, 80)
	if !m.Matches([]byte{'P', 'K', 0x03, 0x04}) {
		t.Error("expected conjunction to match")
	}
	if m.Matches([]byte{'P', 'K', 0x00, 0x00}) {
		t.Error("expected conjunction to fail when second rule fails")
	}
	if m.Priority() != 80 {
		t.Errorf("Priority() = %d, want 80", m.Priority())
	}
}

func TestRuleMatcherEmptyNeverMatches(t *testing.T) {
	m := NewRuleMatcher(nil, 100)
	if m.Matches([]byte("anything")) {
		t.Error("empty rule list must never match")
	}
}

func TestSnifferMatcher(t *testing.T) {
	m := NewSnifferMatcher("application/zip", 60)
	zipHeader := []byte{'P', 'K', 0x03, 0x04, 0, 0, 0, 0}
	if !m.Matches(zipHeader) {
		t.Error("expected SnifferMatcher to recognize a zip header")
	}
	if m.Matches([]byte("plain text content")) {
		t.Error("did not expect plain text to match application/zip")
	}
	if m.Priority() != 60 {
		t.Errorf("Priority() = %d, want 60", m.Priority())
	}
}
