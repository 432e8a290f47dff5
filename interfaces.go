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

// Configuration is the active set of routing, filtering, and output
// rules governing log event processing. Exactly one Configuration is
// active per LoggerContext at any instant; the context replaces it
// atomically during a reconfiguration.
//
// Implementations live outside the runtime core (see the config
// package). A Configuration must tolerate Start and Stop being called
// exactly once each, in that order, by the owning context.
type Configuration interface {
	// Name returns a human-readable identifier for diagnostics.
	Name() string

	// Start activates the configuration: appenders are opened, and a
	// file-backed configuration begins monitoring its source if it was
	// told to. The context swaps the shared reference only after Start
	// returns nil.
	Start() error

	// Stop deactivates the configuration and releases its resources.
	// Readers that already hold the reference may keep using it until
	// they next observe the swap; Stop must leave the instance safe
	// for such stragglers.
	Stop() error

	// AddListener registers a listener to be told when the underlying
	// source changes. The owning context registers itself here.
	AddListener(ConfigurationListener)

	// RemoveListener deregisters a previously added listener.
	RemoveListener(ConfigurationListener)

	// AddFilter attaches a context-wide filter. Filters added through
	// this method are lost when a reconfiguration occurs.
	AddFilter(Filter)

	// RemoveFilter detaches a previously attached filter.
	RemoveFilter(Filter)

	// Filters returns a snapshot of the attached filters in order.
	Filters() []Filter

	// Properties returns the configuration's contextual property map.
	// The context merges hostName and contextName into it with
	// insert-if-absent semantics during a swap.
	Properties() *Properties

	// ShutdownHookEnabled reports whether the context should register
	// a process shutdown hook while this configuration is active.
	ShutdownHookEnabled() bool

	// Source describes where the configuration came from.
	Source() ConfigurationSource

	// LoggerLevel returns the effective threshold for the named logger.
	LoggerLevel(name string) Level

	// Appenders returns a snapshot of the configured appenders.
	Appenders() []Appender
}

// ConfigurationSource describes the origin of a Configuration.
// A zero value means the configuration was built in memory.
type ConfigurationSource struct {
	// URI is the location the configuration was resolved from, or ""
	// for programmatic configurations.
	URI string
	// File is the local file path backing the configuration, if any.
	File string
}

// String returns the URI, the file path, or "in-memory".
func (s ConfigurationSource) String() string {
	switch {
	case s.URI != "":
		return s.URI
	case s.File != "":
		return s.File
	default:
		return "in-memory"
	}
}

// ConfigurationFactory resolves a Configuration from a source location.
// Resolution failure returns a nil Configuration and an error; the
// caller keeps its previous configuration, so a broken source never
// interrupts logging.
type ConfigurationFactory interface {
	Resolve(contextName, sourceURI string) (Configuration, error)
}

// Reconfigurable is implemented by configurations that can produce a
// fresh instance of themselves from their original source, typically
// after the source changed on disk. A nil result signals a failed
// attempt; the previous configuration stays active.
type Reconfigurable interface {
	Reconfigure() Configuration
}

// ConfigurationListener is notified when a configuration's source has
// changed and a reconfiguration should take place. The LoggerContext
// is the primary implementation.
type ConfigurationListener interface {
	OnChange(Reconfigurable)
}

// FilterResult is a Filter's verdict on a log event.
type FilterResult int8

const (
	// FilterNeutral defers the decision to the next filter, or accepts
	// the event when no filter objects.
	FilterNeutral FilterResult = iota
	// FilterAccept passes the event immediately, skipping later filters.
	FilterAccept
	// FilterDeny drops the event immediately.
	FilterDeny
)

// Filter decides whether a log event proceeds to the appenders.
type Filter interface {
	Decide(*LogEvent) FilterResult
}

// Appender delivers formatted log events to a destination. Append is
// called synchronously on the logging goroutine and may be called
// concurrently; implementations serialize their own writes and report
// delivery problems through the status logger rather than to callers.
type Appender interface {
	Name() string
	Start() error
	Stop() error
	Append(*LogEvent)
}

// Cancellable is a registration handle that can be revoked.
type Cancellable interface {
	Cancel()
}

// ShutdownCallbackRegistry is an optional process-level capability for
// running callbacks when the process is shutting down. The context
// registers a stop callback here when the active configuration enables
// the shutdown hook and a registry was supplied.
type ShutdownCallbackRegistry interface {
	// AddShutdownCallback registers fn to run at shutdown and returns
	// a handle for cancelling the registration. It fails if shutdown
	// is already in progress.
	AddShutdownCallback(fn func()) (Cancellable, error)
}
