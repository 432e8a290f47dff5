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

package appender

import (
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/emberlog/ember"
	"github.com/emberlog/ember/internal/status"
	"github.com/emberlog/ember/layout"
)

// FileOptions configures a File appender. Zero values fall back to
// lumberjack's defaults (100 MB per file, no age or count limit).
type FileOptions struct {
	// MaxSizeMB is the size a file may reach before rotation.
	MaxSizeMB int
	// MaxBackups is the number of rotated files to retain.
	MaxBackups int
	// MaxAgeDays is the retention window for rotated files.
	MaxAgeDays int
	// Compress gzips rotated files.
	Compress bool
}

// File writes formatted events to a log file with size-based rotation.
// Rotation and retention are handled by the backing writer; the
// appender only formats and writes.
type File struct {
	name   string
	layout layout.Layout

	mu  sync.Mutex
	out *lumberjack.Logger
}

// NewFile returns a file appender writing to path with the default
// text layout.
func NewFile(name, path string, opts FileOptions) *File {
	return NewFileWithLayout(name, path, opts, nil)
}

// NewFileWithLayout returns a file appender writing to path with l.
// A nil l selects the default text layout.
func NewFileWithLayout(name, path string, opts FileOptions, l layout.Layout) *File {
	if l == nil {
		l = layout.NewText()
	}
	return &File{
		name:   name,
		layout: l,
		out: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   opts.Compress,
		},
	}
}

// Name returns the appender's configured name.
func (f *File) Name() string { return f.name }

// Start is a no-op; the file is opened lazily on first write.
func (f *File) Start() error { return nil }

// Stop closes the current log file. Events appended afterwards reopen
// it, so a stray late write is not lost, but callers should treat a
// stopped appender as out of service.
func (f *File) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.out.Close()
}

// Append formats and writes one event.
func (f *File) Append(ev *ember.LogEvent) {
	line := f.layout.Format(ev)
	f.mu.Lock()
	_, err := f.out.Write(line)
	f.mu.Unlock()
	if err != nil {
		status.L.Errorf("appender %q: write: %v", f.name, err)
	}
}

// Rotate forces an immediate rotation of the current log file.
func (f *File) Rotate() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.out.Rotate()
}

var (
	_ ember.Appender = (*Console)(nil)
	_ ember.Appender = (*File)(nil)
)
