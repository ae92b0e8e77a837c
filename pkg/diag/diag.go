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

// Package diag defines the diagnostic sink used to report non-fatal,
// locally-recovered failures (a malformed magic rule, a missing file)
// without aborting the caller.
package diag

import "go.uber.org/zap"

// Sink receives non-fatal diagnostics. RuleConstructionWarning (§7 of the
// design) and similar recoverable conditions are reported through it
// rather than returned as errors.
type Sink interface {
	Warnf(format string, args ...any)
}

// Nop is a Sink that discards everything. Useful in tests and for callers
// that don't care about diagnostics.
var Nop Sink = nopSink{}

type nopSink struct{}

func (nopSink) Warnf(string, ...any) {}

// Zap adapts a *zap.Logger to Sink.
type Zap struct {
	L *zap.SugaredLogger
}

// NewZap wraps l as a Sink. If l is nil, a production logger is built.
func NewZap(l *zap.Logger) Zap {
	if l == nil {
		l, _ = zap.NewProduction()
	}
	return Zap{L: l.Sugar()}
}

func (z Zap) Warnf(format string, args ...any) {
	z.L.Warnf(format, args...)
}
