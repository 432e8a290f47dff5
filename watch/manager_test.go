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

package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testInterval = 20 * time.Millisecond

// writeFile creates or replaces path with content. Each call uses a
// different content length in tests so the size component of the
// signature changes even on filesystems with coarse mtime granularity.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func startManager(t *testing.T, path string) (*Manager, chan string) {
	t.Helper()
	fired := make(chan string, 16)
	m := NewManager()
	if err := m.SetInterval(testInterval); err != nil {
		t.Fatalf("SetInterval: %v", err)
	}
	m.Watch(path, FileWatcherFunc(func(p string) { fired <- p }))
	m.Start()
	t.Cleanup(m.Stop)
	return m, fired
}

func awaitFire(t *testing.T, fired chan string) string {
	t.Helper()
	select {
	case p := <-fired:
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("no change notification within deadline")
		return ""
	}
}

func expectQuiet(t *testing.T, fired chan string, d time.Duration) {
	t.Helper()
	select {
	case p := <-fired:
		t.Fatalf("unexpected notification for %q", p)
	case <-time.After(d):
	}
}

func TestDetectsModification(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "ember.yaml")
	writeFile(t, path, "one")
	_, fired := startManager(t, path)

	writeFile(t, path, "one two")
	if got := awaitFire(t, fired); got != path {
		t.Fatalf("notified path = %q, want %q", got, path)
	}
}

func TestUnchangedFileDoesNotRefire(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "ember.yaml")
	writeFile(t, path, "one")
	_, fired := startManager(t, path)

	writeFile(t, path, "one two")
	awaitFire(t, fired)

	// The baseline advanced to the new signature; an unchanged file
	// must stay silent across several further polls.
	expectQuiet(t, fired, 6*testInterval)
}

func TestEachModificationFires(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "ember.yaml")
	writeFile(t, path, "one")
	_, fired := startManager(t, path)

	writeFile(t, path, "one two")
	awaitFire(t, fired)
	writeFile(t, path, "one two three")
	awaitFire(t, fired)
}

func TestDeletionIsAChange(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "ember.yaml")
	writeFile(t, path, "one")
	_, fired := startManager(t, path)

	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	awaitFire(t, fired)
}

func TestSetIntervalAfterStart(t *testing.T) {
	t.Parallel()
	m := NewManager()
	m.Start()
	t.Cleanup(m.Stop)
	if err := m.SetInterval(time.Second); err != ErrStarted {
		t.Fatalf("SetInterval after Start = %v, want ErrStarted", err)
	}
	if got := m.Interval(); got != DefaultInterval {
		t.Fatalf("Interval() = %v, want the running interval %v", got, DefaultInterval)
	}
}

func TestStopPreventsNewChecks(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "ember.yaml")
	writeFile(t, path, "one")
	m, fired := startManager(t, path)

	m.Stop()
	writeFile(t, path, "one two")
	expectQuiet(t, fired, 6*testInterval)
}

func TestRestartAfterStop(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "ember.yaml")
	writeFile(t, path, "one")
	m, fired := startManager(t, path)

	m.Stop()
	m.Start()
	writeFile(t, path, "one two")
	awaitFire(t, fired)
}

func TestPanickingWatcherIsIsolated(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "ember.yaml")
	writeFile(t, path, "one")

	fired := make(chan string, 16)
	m := NewManager()
	if err := m.SetInterval(testInterval); err != nil {
		t.Fatalf("SetInterval: %v", err)
	}
	m.Watch(path, FileWatcherFunc(func(string) { panic("boom") }))
	m.Watch(path, FileWatcherFunc(func(p string) { fired <- p }))
	m.Start()
	t.Cleanup(m.Stop)

	writeFile(t, path, "one two")
	awaitFire(t, fired)
}

func TestStopWatching(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "ember.yaml")
	writeFile(t, path, "one")
	m, fired := startManager(t, path)

	if got := m.WatchedPaths(); len(got) != 1 || got[0] != path {
		t.Fatalf("WatchedPaths() = %v, want [%q]", got, path)
	}
	m.StopWatching(path)
	if got := m.WatchedPaths(); len(got) != 0 {
		t.Fatalf("WatchedPaths() after StopWatching = %v, want empty", got)
	}
	writeFile(t, path, "one two")
	expectQuiet(t, fired, 6*testInterval)
}
