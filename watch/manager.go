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

// Package watch detects changes to configuration files by polling.
// A Manager checks every registered file on a fixed interval and
// invokes the file's watchers when its signature (existence,
// modification time, size) differs from the last observation. Polling
// keeps the detector portable and gives a hard latency bound of about
// two intervals; it trades immediacy for never missing an editor that
// replaces the file instead of writing it in place.
package watch

import (
	"errors"
	"os"
	"sync"
	"time"

	"github.com/emberlog/ember/internal/status"
)

// DefaultInterval is the poll interval used when none is set.
const DefaultInterval = 5 * time.Second

// ErrStarted is returned by SetInterval after the manager started.
var ErrStarted = errors.New("watch: manager already started")

// FileWatcher receives change notifications for a watched file.
// FileModified runs synchronously on the scheduler goroutine; a panic
// is recovered, logged, and does not disturb other watchers or files.
type FileWatcher interface {
	FileModified(path string)
}

// FileWatcherFunc adapts a function to the FileWatcher interface.
type FileWatcherFunc func(path string)

// FileModified calls the function.
func (f FileWatcherFunc) FileModified(path string) { f(path) }

// signature is the observed change marker of a file. Comparing
// signatures rather than keeping the previous content means a poll is
// one stat call per file.
type signature struct {
	exists  bool
	modTime time.Time
	size    int64
}

func statSignature(path string) signature {
	fi, err := os.Stat(path)
	if err != nil {
		// Missing and unreadable files both count as absent; the next
		// successful stat after the file reappears fires a change.
		return signature{}
	}
	return signature{exists: true, modTime: fi.ModTime(), size: fi.Size()}
}

func (s signature) equal(o signature) bool {
	return s.exists == o.exists && s.size == o.size && s.modTime.Equal(o.modTime)
}

type watchedFile struct {
	watchers []FileWatcher
	last     signature
}

// Manager polls registered files on a fixed interval and notifies
// their watchers on change. The interval is fixed once Start is
// called. Safe for concurrent use.
type Manager struct {
	mu        sync.Mutex
	interval  time.Duration
	scheduler Scheduler
	ownSched  bool
	task      Cancellable
	files     map[string]*watchedFile
}

// NewManager returns a stopped manager with the default interval.
func NewManager() *Manager {
	return &Manager{
		interval: DefaultInterval,
		files:    make(map[string]*watchedFile),
	}
}

// SetInterval sets the poll interval. It must be called before Start;
// afterwards the call is rejected and the running interval is kept.
func (m *Manager) SetInterval(d time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.task != nil {
		return ErrStarted
	}
	if d <= 0 {
		d = DefaultInterval
	}
	m.interval = d
	return nil
}

// Interval returns the poll interval.
func (m *Manager) Interval() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.interval
}

// SetScheduler injects the periodic-task backend. When no scheduler is
// injected before Start, the manager creates its own and shuts it down
// on Stop. Setting a scheduler after Start is ignored.
func (m *Manager) SetScheduler(s Scheduler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.task != nil {
		return
	}
	m.scheduler = s
	m.ownSched = false
}

// Watch registers a watcher for path and captures the file's current
// signature as the comparison baseline, so the first poll compares
// against a known state rather than against "absent". A path may have
// any number of watchers; each change notifies all of them.
func (m *Manager) Watch(path string, w FileWatcher) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wf, ok := m.files[path]
	if !ok {
		wf = &watchedFile{last: statSignature(path)}
		m.files[path] = wf
	}
	wf.watchers = append(wf.watchers, w)
}

// StopWatching removes all watchers for path.
func (m *Manager) StopWatching(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, path)
}

// WatchedPaths returns a snapshot of the registered paths.
func (m *Manager) WatchedPaths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.files))
	for p := range m.files {
		out = append(out, p)
	}
	return out
}

// Start schedules the recurring poll. Idempotent: a started manager
// stays started.
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.task != nil {
		return
	}
	if m.scheduler == nil {
		m.scheduler = NewTickerScheduler()
		m.ownSched = true
	}
	m.task = m.scheduler.ScheduleAtFixedRate(m.interval, m.checkFiles)
}

// Stop cancels the recurring poll and, if the manager owns its
// scheduler, shuts the scheduler down. No new check begins after Stop
// returns; a check already in progress may finish. The manager can be
// started again.
func (m *Manager) Stop() {
	m.mu.Lock()
	task := m.task
	m.task = nil
	sched := m.scheduler
	own := m.ownSched
	if own {
		m.scheduler = nil
		m.ownSched = false
	}
	m.mu.Unlock()

	if task != nil {
		task.Cancel()
	}
	if own && sched != nil {
		sched.Shutdown()
	}
}

// checkFiles is one poll cycle: compare every registered file's
// signature against its baseline, notify watchers of changed files,
// and advance the baselines so an unchanged file never re-fires.
func (m *Manager) checkFiles() {
	type pending struct {
		path     string
		watchers []FileWatcher
	}
	var changed []pending

	m.mu.Lock()
	for path, wf := range m.files {
		cur := statSignature(path)
		if cur.equal(wf.last) {
			continue
		}
		wf.last = cur
		ws := make([]FileWatcher, len(wf.watchers))
		copy(ws, wf.watchers)
		changed = append(changed, pending{path: path, watchers: ws})
	}
	m.mu.Unlock()

	for _, p := range changed {
		status.L.Debugf("watched file %q changed", p.path)
		for _, w := range p.watchers {
			notify(w, p.path)
		}
	}
}

// notify isolates one watcher invocation so a panic cannot stop the
// remaining watchers or files in the same cycle.
func notify(w FileWatcher, path string) {
	defer func() {
		if r := recover(); r != nil {
			status.L.Errorf("watcher for %q panicked: %v", path, r)
		}
	}()
	w.FileModified(path)
}
