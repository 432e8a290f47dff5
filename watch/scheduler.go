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
	"sync"
	"time"
)

// Scheduler is the periodic-task backend a Manager runs its poll cycle
// on. Any implementation offering fixed-rate scheduling plus
// cancellation will do; Manager creates a TickerScheduler when none is
// injected.
type Scheduler interface {
	// ScheduleAtFixedRate runs task every interval until the returned
	// handle is cancelled or the scheduler shuts down.
	ScheduleAtFixedRate(interval time.Duration, task func()) Cancellable

	// Shutdown cancels all scheduled tasks and releases the
	// scheduler's resources. Tasks already executing may finish.
	Shutdown()
}

// Cancellable revokes one scheduled task. After Cancel returns, no new
// run of the task begins; a run already in progress may complete.
type Cancellable interface {
	Cancel()
}

// TickerScheduler is the default Scheduler: one goroutine and one
// time.Ticker per scheduled task.
type TickerScheduler struct {
	mu     sync.Mutex
	closed bool
	tasks  map[*tickerTask]struct{}
}

// NewTickerScheduler returns an empty scheduler.
func NewTickerScheduler() *TickerScheduler {
	return &TickerScheduler{tasks: make(map[*tickerTask]struct{})}
}

// ScheduleAtFixedRate starts a goroutine that runs task every interval.
// Scheduling on a shut-down scheduler returns a handle whose Cancel is
// a no-op and runs nothing.
func (s *TickerScheduler) ScheduleAtFixedRate(interval time.Duration, task func()) Cancellable {
	t := &tickerTask{done: make(chan struct{})}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(t.done)
		return t
	}
	s.tasks[t] = struct{}{}
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-t.done:
				return
			case <-ticker.C:
				// Re-check so a cancel that raced the tick wins.
				select {
				case <-t.done:
					return
				default:
				}
				task()
			}
		}
	}()
	return t
}

// Shutdown cancels every scheduled task.
func (s *TickerScheduler) Shutdown() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	tasks := make([]*tickerTask, 0, len(s.tasks))
	for t := range s.tasks {
		tasks = append(tasks, t)
	}
	s.tasks = nil
	s.mu.Unlock()

	for _, t := range tasks {
		t.Cancel()
	}
}

type tickerTask struct {
	once sync.Once
	done chan struct{}
}

// Cancel stops the task's goroutine. Idempotent.
func (t *tickerTask) Cancel() {
	t.once.Do(func() { close(t.done) })
}
