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

// Package config provides the concrete Configuration implementations
// behind a LoggerContext: an embeddable base, a YAML file-backed
// configuration that can monitor its own source for changes, and a
// factory that resolves configurations from a location with
// environment overrides.
package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/emberlog/ember"
)

// Base is the common machinery of a Configuration: name, source,
// properties, listener and filter registries, appenders, and
// per-logger level routing. Concrete configurations embed it and add
// their own Start/Stop behavior on top.
type Base struct {
	name         string
	source       ember.ConfigurationSource
	props        *ember.Properties
	shutdownHook bool
	rootLevel    ember.Level
	loggerLevels map[string]ember.Level

	mu        sync.Mutex
	listeners []ember.ConfigurationListener
	filters   []ember.Filter
	appenders []ember.Appender
}

// NewBase returns a base configuration with the given name, root-level
// error threshold, and no appenders.
func NewBase(name string) *Base {
	return &Base{
		name:         name,
		props:        ember.NewProperties(),
		rootLevel:    ember.LevelError,
		loggerLevels: make(map[string]ember.Level),
	}
}

// Name returns the configuration's name.
func (b *Base) Name() string { return b.name }

// Start opens the configured appenders. The first appender failure
// aborts the start; appenders already started are stopped again.
func (b *Base) Start() error {
	b.mu.Lock()
	apps := make([]ember.Appender, len(b.appenders))
	copy(apps, b.appenders)
	b.mu.Unlock()

	for i, a := range apps {
		if err := a.Start(); err != nil {
			for j := i - 1; j >= 0; j-- {
				apps[j].Stop()
			}
			return fmt.Errorf("config %q: start appender %q: %w", b.name, a.Name(), err)
		}
	}
	return nil
}

// Stop closes the configured appenders. All appenders are stopped even
// when some fail; the first failure is returned.
func (b *Base) Stop() error {
	b.mu.Lock()
	apps := make([]ember.Appender, len(b.appenders))
	copy(apps, b.appenders)
	b.mu.Unlock()

	var first error
	for _, a := range apps {
		if err := a.Stop(); err != nil && first == nil {
			first = fmt.Errorf("config %q: stop appender %q: %w", b.name, a.Name(), err)
		}
	}
	return first
}

// AddListener registers a source-change listener.
func (b *Base) AddListener(l ember.ConfigurationListener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, l)
}

// RemoveListener deregisters a previously added listener.
func (b *Base) RemoveListener(l ember.ConfigurationListener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, cur := range b.listeners {
		if cur == l {
			b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
			return
		}
	}
}

// NotifyListeners tells every registered listener that r's source has
// changed. Listeners run synchronously in registration order.
func (b *Base) NotifyListeners(r ember.Reconfigurable) {
	b.mu.Lock()
	ls := make([]ember.ConfigurationListener, len(b.listeners))
	copy(ls, b.listeners)
	b.mu.Unlock()

	for _, l := range ls {
		l.OnChange(r)
	}
}

// AddFilter attaches a context-wide filter.
func (b *Base) AddFilter(f ember.Filter) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.filters = append(b.filters, f)
}

// RemoveFilter detaches a previously attached filter.
func (b *Base) RemoveFilter(f ember.Filter) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, cur := range b.filters {
		if cur == f {
			b.filters = append(b.filters[:i], b.filters[i+1:]...)
			return
		}
	}
}

// Filters returns a snapshot of the attached filters in order.
func (b *Base) Filters() []ember.Filter {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]ember.Filter, len(b.filters))
	copy(out, b.filters)
	return out
}

// Properties returns the configuration's property map.
func (b *Base) Properties() *ember.Properties { return b.props }

// ShutdownHookEnabled reports whether the owning context should
// register a process shutdown hook.
func (b *Base) ShutdownHookEnabled() bool { return b.shutdownHook }

// SetShutdownHookEnabled sets the shutdown-hook flag. Call before the
// configuration is handed to a context.
func (b *Base) SetShutdownHookEnabled(on bool) { b.shutdownHook = on }

// Source describes where the configuration came from.
func (b *Base) Source() ember.ConfigurationSource { return b.source }

// AddAppender attaches an appender. Call before the configuration is
// handed to a context; appenders added after Start are not started.
func (b *Base) AddAppender(a ember.Appender) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.appenders = append(b.appenders, a)
}

// Appenders returns a snapshot of the configured appenders.
func (b *Base) Appenders() []ember.Appender {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]ember.Appender, len(b.appenders))
	copy(out, b.appenders)
	return out
}

// SetLoggerLevel sets the threshold for the named logger subtree. The
// empty name sets the root level.
func (b *Base) SetLoggerLevel(name string, level ember.Level) {
	if name == "" {
		b.rootLevel = level
		return
	}
	b.loggerLevels[name] = level
}

// LoggerLevel returns the effective threshold for name: the level
// configured for the longest dot-separated ancestor, or the root level
// when no ancestor is configured. "a.b.c" consults "a.b.c", then
// "a.b", then "a", then root.
func (b *Base) LoggerLevel(name string) ember.Level {
	for name != "" {
		if lv, ok := b.loggerLevels[name]; ok {
			return lv
		}
		dot := strings.LastIndexByte(name, '.')
		if dot < 0 {
			break
		}
		name = name[:dot]
	}
	return b.rootLevel
}

var _ ember.Configuration = (*Base)(nil)
