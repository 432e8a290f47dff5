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
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/emberlog/ember"
)

func testEvent(msg string) *ember.LogEvent {
	return &ember.LogEvent{
		LoggerName: "app",
		Level:      ember.LevelInfo,
		Message:    msg,
		Time:       time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC),
	}
}

func TestConsoleAppend(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	c := NewConsoleWithLayout("console", nil, &buf)
	if err := c.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	c.Append(testEvent("hello"))
	if err := c.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	got := buf.String()
	want := "2025-03-14T09:26:53.000Z INFO app: hello\n"
	if got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestConsoleConcurrentAppends(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	c := NewConsoleWithLayout("console", nil, &buf)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Append(testEvent("line"))
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != n {
		t.Fatalf("got %d lines, want %d", len(lines), n)
	}
	for _, l := range lines {
		if !strings.HasSuffix(l, "INFO app: line") {
			t.Fatalf("interleaved line %q", l)
		}
	}
}

func TestFileAppend(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "app.log")
	f := NewFile("file", path, FileOptions{MaxSizeMB: 1})
	if err := f.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	f.Append(testEvent("to disk"))
	if err := f.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if want := "INFO app: to disk\n"; !strings.HasSuffix(string(raw), want) {
		t.Fatalf("log contents %q, want suffix %q", raw, want)
	}
}

func TestFileRotate(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	f := NewFile("file", path, FileOptions{MaxSizeMB: 1, MaxBackups: 2})
	f.Append(testEvent("before"))
	if err := f.Rotate(); err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	f.Append(testEvent("after"))
	if err := f.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) < 2 {
		t.Fatalf("got %d files after rotation, want the live file plus a backup", len(entries))
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(raw), "after") {
		t.Fatalf("live log %q missing post-rotation write", raw)
	}
}
