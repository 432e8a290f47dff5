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
	"fmt"
	"os"
	"sync"
)

// builtinConfiguration backs the two configurations the runtime core
// must be able to produce without external collaborators: the terminal
// no-op configuration installed by Stop, and the bootstrap default a
// context runs with before its first reconfiguration. Richer
// implementations live in the config package.
type builtinConfiguration struct {
	name  string
	level Level
	props *Properties

	mu        sync.Mutex
	listeners []ConfigurationListener
	filters   []Filter
	appenders []Appender
}

func (c *builtinConfiguration) Name() string       { return c.name }
func (c *builtinConfiguration) Start() error       { return nil }
func (c *builtinConfiguration) Stop() error        { return nil }
func (c *builtinConfiguration) Properties() *Properties {
	return c.props
}
func (c *builtinConfiguration) ShutdownHookEnabled() bool   { return false }
func (c *builtinConfiguration) Source() ConfigurationSource { return ConfigurationSource{} }

func (c *builtinConfiguration) LoggerLevel(string) Level { return c.level }

func (c *builtinConfiguration) AddListener(l ConfigurationListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

func (c *builtinConfiguration) RemoveListener(l ConfigurationListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, cur := range c.listeners {
		if cur == l {
			c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
			return
		}
	}
}

func (c *builtinConfiguration) AddFilter(f Filter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters = append(c.filters, f)
}

func (c *builtinConfiguration) RemoveFilter(f Filter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, cur := range c.filters {
		if cur == f {
			c.filters = append(c.filters[:i], c.filters[i+1:]...)
			return
		}
	}
}

func (c *builtinConfiguration) Filters() []Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Filter, len(c.filters))
	copy(out, c.filters)
	return out
}

func (c *builtinConfiguration) Appenders() []Appender {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Appender, len(c.appenders))
	copy(out, c.appenders)
	return out
}

// NewNullConfiguration returns the terminal no-op Configuration: every
// level is off and no appenders are attached. Stop installs one so
// loggers that outlive their context drop events instead of touching a
// stopped configuration.
func NewNullConfiguration() Configuration {
	return &builtinConfiguration{
		name:  "Null",
		level: LevelOff,
		props: NewProperties(),
	}
}

// NewDefaultConfiguration returns the bootstrap configuration a context
// uses before its first reconfiguration: error-level events are written
// to standard error as plain lines. It keeps startup failures visible
// without requiring any external collaborator.
func NewDefaultConfiguration() Configuration {
	return &builtinConfiguration{
		name:      "Default",
		level:     LevelError,
		props:     NewProperties(),
		appenders: []Appender{&stderrAppender{}},
	}
}

// stderrAppender is the minimal appender behind the default
// configuration. It deliberately avoids the layout package so the root
// package stays a leaf.
type stderrAppender struct {
	mu sync.Mutex
}

func (a *stderrAppender) Name() string { return "DefaultConsole" }
func (a *stderrAppender) Start() error { return nil }
func (a *stderrAppender) Stop() error  { return nil }

func (a *stderrAppender) Append(ev *LogEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fmt.Fprintf(os.Stderr, "%s %s %s: %s\n",
		ev.Time.Format("2006-01-02T15:04:05.000Z07:00"), ev.Level, ev.LoggerName, ev.Message)
}
