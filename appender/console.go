// Copyright 2025 The Ember Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package appender provides the shipped log event destinations: the
// process console and size-rotated files. Appenders format events
// through a layout and write the bytes; write failures are reported on
// the internal status channel rather than surfaced to logging callers.
package appender

import (
	"io"
	"os"
	"sync"

	"github.com/emberlog/ember"
	"github.com/emberlog/ember/internal/status"
	"github.com/emberlog/ember/layout"
)

// Console writes formatted events to a stream, stderr by default.
// Writes are serialized so concurrent loggers never interleave lines.
type Console struct {
	name   string
	layout layout.Layout

	mu sync.Mutex
	w  io.Writer
}

// NewConsole returns a console appender writing to stderr with the
// default text layout.
func NewConsole(name string) *Console {
	return &Console{name: name, layout: layout.NewText(), w: os.Stderr}
}

// NewConsoleWithLayout returns a console appender writing to w with l.
// A nil w selects stderr; a nil l selects the default text layout.
func NewConsoleWithLayout(name string, l layout.Layout, w io.Writer) *Console {
	if l == nil {
		l = layout.NewText()
	}
	if w == nil {
		w = os.Stderr
	}
	return &Console{name: name, layout: l, w: w}
}

// Name returns the appender's configured name.
func (c *Console) Name() string { return c.name }

// Start is a no-op; the stream is always ready.
func (c *Console) Start() error { return nil }

// Stop is a no-op; the process owns the stream.
func (c *Console) Stop() error { return nil }

// Append formats and writes one event.
func (c *Console) Append(ev *ember.LogEvent) {
	line := c.layout.Format(ev)
	c.mu.Lock()
	_, err := c.w.Write(line)
	c.mu.Unlock()
	if err != nil {
		status.L.Errorf("appender %q: write: %v", c.name, err)
	}
}
