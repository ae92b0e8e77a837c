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

// Package magic implements the typed byte-pattern predicates ("magic"
// rules) that shared-mime-info definitions use to recognize file content.
package magic

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/seanpm2001/playground-mimetypes/pkg/diag"
)

// Kind identifies the wire representation and comparison strategy of a Rule.
type Kind int

const (
	Unknown Kind = iota
	String
	Byte
	Big16
	Big32
	Little16
	Little32
	Host16
	Host32
)

var kindNames = [...]string{
	Unknown:  "unknown",
	String:   "string",
	Byte:     "byte",
	Big16:    "big16",
	Big32:    "big32",
	Little16: "little16",
	Little32: "little32",
	Host16:   "host16",
	Host32:   "host32",
}

// String returns the shared-mime-info wire tag for k, e.g. "big32".
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// KindFromString parses a wire tag, returning Unknown for anything it
// doesn't recognize. Matching is case-sensitive, per the shared-mime-info
// wire format.
func KindFromString(s string) Kind {
	for k, name := range kindNames {
		if name == s {
			return Kind(k)
		}
	}
	return Unknown
}

// Rule is a single typed predicate over a byte buffer, evaluated within an
// inclusive [StartPos, EndPos] search window.
//
// Host16 and Host32 are parsed identically to Big16/Big32: the shared-mime-info
// ecosystem treats the "host" tags as big-endian on construction, which is
// arguably wrong against the spec's intent of host-native interpretation,
// but this port preserves that behavior for compatibility with existing
// mime databases built against it. See DESIGN.md.
type Rule struct {
	kind     Kind
	value    string
	startPos int
	endPos   int

	pattern []byte // String
	bytes   []byte // Byte
	value16 uint16 // Big16/Little16/Host16, stored host-order post-swap
	value32 uint32 // Big32/Little32/Host32, stored host-order post-swap
}

// NewRule constructs and normalizes a Rule from its wire attributes.
// A malformed Byte sequence or numeric value is reported to sink and leaves
// the rule permanently non-matching, rather than failing construction; this
// mirrors the source format's permissive behavior (see §4.1).
func NewRule(kind Kind, value string, startPos, endPos int, sink diag.Sink) (Rule, error) {
	if startPos < 0 || endPos < startPos {
		return Rule{}, errors.Errorf("magic: invalid offset range [%d,%d]", startPos, endPos)
	}
	r := Rule{kind: kind, value: value, startPos: startPos, endPos: endPos}

	switch kind {
	case String:
		r.pattern = []byte(value)
	case Byte:
		bs, ok := parseByteSequence(value)
		if !ok {
			sink.Warnf("magic: could not parse byte sequence %q, rule will never match", value)
			bs = nil
		}
		r.bytes = bs
	case Big16, Little16, Host16, Big32, Little32, Host32:
		n, err := strconv.ParseUint(value, 0, 64)
		if err != nil {
			sink.Warnf("magic: could not convert %q to an integer: %v", value, err)
			break
		}
		switch kind {
		case Big16, Host16:
			r.value16 = swap16(uint16(n), false)
		case Little16:
			r.value16 = swap16(uint16(n), true)
		case Big32, Host32:
			r.value32 = swap32(uint32(n), false)
		case Little32:
			r.value32 = swap32(uint32(n), true)
		}
	default:
		// Unknown rules never match; nothing to normalize.
	}
	return r, nil
}

// parseByteSequence parses a `\`-separated sequence of hex byte literals,
// e.g. `\0x7f\0x45\0x4c\0x46`. The leading "0x"/"0X" is optional on each
// token once the backslash separator has been consumed.
func parseByteSequence(s string) ([]byte, bool) {
	tokens := strings.Split(s, `\`)
	out := make([]byte, 0, len(tokens))
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		tok = strings.TrimPrefix(strings.TrimPrefix(tok, "0x"), "0X")
		n, err := strconv.ParseUint(tok, 16, 8)
		if err != nil {
			return nil, false
		}
		out = append(out, byte(n))
	}
	return out, true
}

// swap16 reinterprets n (read in host order) as big- or little-endian and
// returns the value in host byte order, ready for direct comparison against
// an unaligned host-order read of the buffer.
func swap16(n uint16, little bool) uint16 {
	var b [2]byte
	if little {
		binary.LittleEndian.PutUint16(b[:], n)
	} else {
		binary.BigEndian.PutUint16(b[:], n)
	}
	return binary.NativeEndian.Uint16(b[:])
}

func swap32(n uint32, little bool) uint32 {
	var b [4]byte
	if little {
		binary.LittleEndian.PutUint32(b[:], n)
	} else {
		binary.BigEndian.PutUint32(b[:], n)
	}
	return binary.NativeEndian.Uint32(b[:])
}

// Kind, StartPos and EndPos expose the rule's wire attributes.
func (r Rule) Kind() Kind    { return r.kind }
func (r Rule) Value() string { return r.value }
func (r Rule) StartPos() int { return r.startPos }
func (r Rule) EndPos() int   { return r.endPos }

// Matches reports whether data satisfies the rule.
func (r Rule) Matches(data []byte) bool {
	if len(data) == 0 || r.startPos >= len(data) {
		return false
	}
	switch r.kind {
	case String:
		return matchString(r, data)
	case Byte:
		return matchBytes(r, data)
	case Big16, Little16, Host16:
		return match16(r, data)
	case Big32, Little32, Host32:
		return match32(r, data)
	default:
		return false
	}
}

func matchString(r Rule, data []byte) bool {
	if r.startPos+len(r.pattern) > len(data) {
		return false
	}
	// Fast path: the common case of an anchored match at position 0.
	if r.startPos == 0 && r.startPos == r.endPos {
		return bytes.HasPrefix(data, r.pattern)
	}
	end := r.endPos - r.startPos + len(r.pattern) + r.startPos
	if end > len(data) {
		end = len(data)
	}
	return bytes.Contains(data[r.startPos:end], r.pattern)
}

func matchBytes(r Rule, data []byte) bool {
	n := len(r.bytes)
	if n == 0 {
		return false
	}
	for start := r.startPos; start <= r.endPos; start++ {
		if start+n > len(data) {
			return false
		}
		if bytes.Equal(data[start:start+n], r.bytes) {
			return true
		}
	}
	return false
}

func match16(r Rule, data []byte) bool {
	end := r.endPos + 1
	if max := len(data) - 2 + 1; max < end {
		end = max
	}
	for p := r.startPos; p < end; p++ {
		if binary.NativeEndian.Uint16(data[p:p+2]) == r.value16 {
			return true
		}
	}
	return false
}

func match32(r Rule, data []byte) bool {
	end := r.endPos + 1
	if max := len(data) - 4 + 1; max < end {
		end = max
	}
	for p := r.startPos; p < end; p++ {
		if binary.NativeEndian.Uint32(data[p:p+4]) == r.value32 {
			return true
		}
	}
	return false
}

// Offset renders (start, end) in the "<start>:<end>" wire format.
func Offset(start, end int) string {
	return fmt.Sprintf("%d:%d", start, end)
}

// ParseOffset parses the "<start>:<end>" or "<start>" wire format.
// The single-integer form is equivalent to using the same value for
// both ends.
func ParseOffset(s string) (start, end int, err error) {
	parts := strings.Split(s, ":")
	switch len(parts) {
	case 1:
		n, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0, 0, errors.Wrapf(err, "magic: invalid offset %q", s)
		}
		return n, n, nil
	case 2:
		start, err = strconv.Atoi(parts[0])
		if err != nil {
			return 0, 0, errors.Wrapf(err, "magic: invalid offset %q", s)
		}
		end, err = strconv.Atoi(parts[1])
		if err != nil {
			return 0, 0, errors.Wrapf(err, "magic: invalid offset %q", s)
		}
		return start, end, nil
	default:
		return 0, 0, errors.Errorf("magic: invalid offset %q, expected exactly one ':'", s)
	}
}
