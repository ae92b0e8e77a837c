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

// Package infoparser reads the shared-mime-info XML grammar and emits
// completed mimetype.MimeType records to a consumer callback, one per
// mime-type element.
package infoparser

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"

	"github.com/seanpm2001/playground-mimetypes/pkg/diag"
	"github.com/seanpm2001/playground-mimetypes/pkg/glob"
	"github.com/seanpm2001/playground-mimetypes/pkg/magic"
	"github.com/seanpm2001/playground-mimetypes/pkg/mimetype"
)

// state names the parser's position in the grammar's state machine (§4.6).
type state int

const (
	stateBeginning state = iota
	stateMimeInfo
	stateMimeType
	stateComment
	stateGlobPattern
	stateSubClass
	stateAlias
	stateMagic
	stateMagicMatchRule
	stateOtherMimeTypeSubTag
)

// ParseError reports a malformed document: bad XML, an element that has
// no admissible transition from the current state, a missing required
// attribute, or an unparsable offset or weight. Ingestion aborts on the
// first ParseError.
type ParseError struct {
	Offset int64
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("infoparser: offset %d: %s", e.Offset, e.Msg)
}

func parseErrorf(d *xml.Decoder, format string, args ...any) error {
	return &ParseError{Offset: d.InputOffset(), Msg: fmt.Sprintf(format, args...)}
}

// Consumer receives each completed MimeType record as its mime-type
// element closes.
type Consumer func(mimetype.MimeType)

// Option configures a parse run.
type Option func(*parser)

// WithDiagSink routes RuleConstructionWarning-class diagnostics (from
// malformed magic rules) to sink instead of discarding them.
func WithDiagSink(sink diag.Sink) Option {
	return func(p *parser) { p.sink = sink }
}

type pendingMagic struct {
	priority int
	rules    []magic.Rule
}

type parser struct {
	dec     *xml.Decoder
	consume Consumer
	sink    diag.Sink

	stack []state
	cur   state

	mt      mimetype.MimeType
	comment struct {
		lang string
		buf  []byte
	}
	globs    []glob.Pattern
	curMagic *pendingMagic
}

// Parse reads a shared-mime-info document from r, invoking consume once
// per completed mime-type element. It stops and returns the first
// ParseError encountered, or ctx's error if ctx is done.
func Parse(ctx context.Context, r io.Reader, consume Consumer, opts ...Option) error {
	p := &parser{
		dec:     xml.NewDecoder(r),
		consume: consume,
		sink:    diag.Nop,
		cur:     stateBeginning,
	}
	for _, opt := range opts {
		opt(p)
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		tok, err := p.dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return &ParseError{Offset: p.dec.InputOffset(), Msg: err.Error()}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if err := p.startElement(t); err != nil {
				return err
			}
		case xml.EndElement:
			if err := p.endElement(t); err != nil {
				return err
			}
		case xml.CharData:
			if p.cur == stateComment {
				p.comment.buf = append(p.comment.buf, t...)
			}
		}
	}
}

// ParseFile opens path and parses it as a shared-mime-info package file.
func ParseFile(ctx context.Context, path string, consume Consumer, opts ...Option) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "infoparser: opening %s", path)
	}
	defer f.Close()
	return Parse(ctx, f, consume, opts...)
}

func attr(t xml.StartElement, local string) (string, bool) {
	for _, a := range t.Attr {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

func (p *parser) push(next state) {
	p.stack = append(p.stack, p.cur)
	p.cur = next
}

func (p *parser) startElement(t xml.StartElement) error {
	name := t.Name.Local
	switch p.cur {
	case stateBeginning:
		if name == "mime-info" {
			p.push(stateMimeInfo)
			return nil
		}
	case stateMimeInfo:
		if name == "mime-type" {
			typ, ok := attr(t, "type")
			if !ok || typ == "" {
				return parseErrorf(p.dec, "mime-type missing required type attribute")
			}
			p.mt = mimetype.MimeType{Type: typ, LocaleComments: map[string]string{}}
			p.globs = nil
			p.push(stateMimeType)
			return nil
		}
	case stateMimeType:
		switch name {
		case "comment":
			lang, _ := attr(t, "lang")
			p.comment.lang = lang
			p.comment.buf = nil
			p.push(stateComment)
			return nil
		case "glob":
			pattern, ok := attr(t, "pattern")
			if !ok {
				return parseErrorf(p.dec, "glob missing required pattern attribute")
			}
			weight := glob.DefaultWeight
			if w, ok := attr(t, "weight"); ok {
				n, err := strconv.Atoi(w)
				if err != nil {
					return parseErrorf(p.dec, "glob weight %q is not an integer", w)
				}
				weight = n
			}
			gp, err := glob.Compile(pattern, weight)
			if err != nil {
				return parseErrorf(p.dec, "glob pattern %q: %v", pattern, err)
			}
			p.globs = append(p.globs, gp)
			p.push(stateGlobPattern)
			return nil
		case "sub-class-of":
			typ, ok := attr(t, "type")
			if !ok {
				return parseErrorf(p.dec, "sub-class-of missing required type attribute")
			}
			p.mt.SubClassesOf = append(p.mt.SubClassesOf, typ)
			p.push(stateSubClass)
			return nil
		case "alias":
			typ, ok := attr(t, "type")
			if !ok {
				return parseErrorf(p.dec, "alias missing required type attribute")
			}
			p.mt.Aliases = append(p.mt.Aliases, typ)
			p.push(stateAlias)
			return nil
		case "magic":
			priority := glob.DefaultWeight
			if pr, ok := attr(t, "priority"); ok {
				n, err := strconv.Atoi(pr)
				if err != nil {
					return parseErrorf(p.dec, "magic priority %q is not an integer", pr)
				}
				priority = n
			}
			p.curMagic = &pendingMagic{priority: priority}
			p.push(stateMagic)
			return nil
		default:
			p.push(stateOtherMimeTypeSubTag)
			return nil
		}
	case stateMagic, stateMagicMatchRule:
		if name == "match" {
			rule, err := p.buildRule(t)
			if err != nil {
				return err
			}
			p.curMagic.rules = append(p.curMagic.rules, rule)
			p.push(stateMagicMatchRule)
			return nil
		}
	case stateOtherMimeTypeSubTag:
		// unrecognized sub-elements of mime-type, and their own children,
		// are ignored wholesale (§6).
		p.push(stateOtherMimeTypeSubTag)
		return nil
	}
	return parseErrorf(p.dec, "element %q not admissible in current state", name)
}

func (p *parser) buildRule(t xml.StartElement) (magic.Rule, error) {
	kindStr, ok := attr(t, "type")
	if !ok {
		return magic.Rule{}, parseErrorf(p.dec, "match missing required type attribute")
	}
	value, ok := attr(t, "value")
	if !ok {
		return magic.Rule{}, parseErrorf(p.dec, "match missing required value attribute")
	}
	offset, ok := attr(t, "offset")
	if !ok {
		offset = "0"
	}
	start, end, err := magic.ParseOffset(offset)
	if err != nil {
		return magic.Rule{}, parseErrorf(p.dec, "match offset %q: %v", offset, err)
	}
	rule, err := magic.NewRule(magic.KindFromString(kindStr), value, start, end, p.sink)
	if err != nil {
		return magic.Rule{}, parseErrorf(p.dec, "match offset %q: %v", offset, err)
	}
	return rule, nil
}

func (p *parser) endElement(t xml.EndElement) error {
	closing := p.cur
	if len(p.stack) == 0 {
		return parseErrorf(p.dec, "unmatched end element %q", t.Name.Local)
	}
	p.cur = p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]

	switch closing {
	case stateComment:
		text := string(p.comment.buf)
		if p.comment.lang == "" {
			p.mt.Comment = text
		} else {
			p.mt.LocaleComments[p.comment.lang] = text
		}
	case stateMagic:
		if p.curMagic != nil && len(p.curMagic.rules) > 0 {
			p.mt.Matchers = append(p.mt.Matchers, magic.NewRuleMatcher(p.curMagic.rules, p.curMagic.priority))
		}
		p.curMagic = nil
	case stateMimeType:
		p.mt.SetGlobPatterns(p.globs)
		p.consume(p.mt)
	}
	return nil
}
