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

package ember

import (
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// ErrShutdownInProgress is returned by AddShutdownCallback once the
// registry has begun running callbacks.
var ErrShutdownInProgress = errors.New("ember: shutdown already in progress")

// SignalShutdownRegistry runs registered callbacks when the process
// receives SIGINT or SIGTERM, giving contexts a chance to stop their
// configurations and flush appenders. Callbacks run once, in LIFO
// order, on the signal-handling goroutine; the registry does not
// terminate the process afterwards.
type SignalShutdownRegistry struct {
	mu        sync.Mutex
	started   bool
	shutdown  bool
	nextID    int
	callbacks map[int]func()
	order     []int
	sigCh     chan os.Signal
}

// NewSignalShutdownRegistry returns a registry that is armed lazily:
// the signal handler is installed on the first registration.
func NewSignalShutdownRegistry() *SignalShutdownRegistry {
	return &SignalShutdownRegistry{callbacks: make(map[int]func())}
}

// AddShutdownCallback registers fn to run at shutdown. It returns a
// handle whose Cancel revokes the registration, or
// ErrShutdownInProgress when callbacks are already running.
func (r *SignalShutdownRegistry) AddShutdownCallback(fn func()) (Cancellable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.shutdown {
		return nil, ErrShutdownInProgress
	}
	if !r.started {
		r.sigCh = make(chan os.Signal, 1)
		signal.Notify(r.sigCh, os.Interrupt, syscall.SIGTERM)
		go r.await()
		r.started = true
	}
	id := r.nextID
	r.nextID++
	r.callbacks[id] = fn
	r.order = append(r.order, id)
	return &shutdownHandle{registry: r, id: id}, nil
}

// Run executes the registered callbacks immediately, as if a signal
// had arrived. Subsequent registrations fail. It is safe to call more
// than once; later calls are no-ops.
func (r *SignalShutdownRegistry) Run() {
	r.mu.Lock()
	if r.shutdown {
		r.mu.Unlock()
		return
	}
	r.shutdown = true
	if r.started {
		signal.Stop(r.sigCh)
	}
	fns := make([]func(), 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		if fn, ok := r.callbacks[r.order[i]]; ok {
			fns = append(fns, fn)
		}
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func (r *SignalShutdownRegistry) await() {
	if _, ok := <-r.sigCh; ok {
		r.Run()
	}
}

type shutdownHandle struct {
	registry *SignalShutdownRegistry
	id       int
}

// Cancel revokes the registration. Cancelling after shutdown started
// has no effect.
func (h *shutdownHandle) Cancel() {
	h.registry.mu.Lock()
	defer h.registry.mu.Unlock()
	delete(h.registry.callbacks, h.id)
}
