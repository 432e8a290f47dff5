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
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/emberlog/ember/internal/hostinfo"
	"github.com/emberlog/ember/internal/status"
)

// ErrNilConfiguration is returned by SetConfiguration when no
// configuration is supplied.
var ErrNilConfiguration = errors.New("ember: no configuration was provided")

// PropertyChangeEvent describes a completed configuration swap. Old may
// be nil for the very first swap of a context.
type PropertyChangeEvent struct {
	Context *LoggerContext
	Old     Configuration
	New     Configuration
}

// PropertyChangeListener observes completed configuration swaps.
// Listeners are notified synchronously, in registration order, after
// the new configuration is live.
type PropertyChangeListener interface {
	PropertyChange(PropertyChangeEvent)
}

// configHolder wraps the Configuration interface value so the shared
// reference can live in an atomic.Pointer.
type configHolder struct {
	cfg Configuration
}

// LoggerContext is the anchor of the logging runtime. It owns the
// registry of named loggers and the single active Configuration, and
// it orchestrates start, stop, and atomic reconfiguration while
// application goroutines keep logging.
//
// Reads — Configuration, Logger, HasLogger — are lock-free and never
// observe a partially constructed configuration. State transitions
// (Start, Stop, SetConfiguration, OnChange) serialize on an internal
// lock; at most one is in flight per context.
type LoggerContext struct {
	name atomic.Pointer[string]

	// config is the shared reference to the active configuration.
	// It is swapped only after the new configuration started
	// successfully, so readers always get a fully usable instance.
	config atomic.Pointer[configHolder]

	state atomic.Int32

	// configLock serializes lifecycle transitions. Start uses TryLock
	// and silently drops the call on contention; Stop, SetConfiguration
	// and OnChange block.
	configLock sync.Mutex

	loggers sync.Map // string -> *Logger

	listenerMu sync.Mutex
	listeners  []PropertyChangeListener

	externalContext atomic.Pointer[any]
	configSource    atomic.Pointer[string]

	factory          ConfigurationFactory
	shutdownRegistry ShutdownCallbackRegistry
	shutdownHandle   Cancellable // guarded by configLock
	registry         *ContextRegistry
}

// ContextOption configures a LoggerContext during construction.
type ContextOption func(*LoggerContext)

// WithConfigSource sets the location the context resolves its
// configuration from on Start and Reconfigure.
func WithConfigSource(uri string) ContextOption {
	return func(c *LoggerContext) { c.configSource.Store(&uri) }
}

// WithConfigurationFactory sets the factory used to resolve
// configurations. Without one, Start keeps the built-in default
// configuration and Reconfigure is a logged no-op.
func WithConfigurationFactory(f ConfigurationFactory) ContextOption {
	return func(c *LoggerContext) { c.factory = f }
}

// WithExternalContext attaches an opaque owner handle, cleared on Stop.
func WithExternalContext(v any) ContextOption {
	return func(c *LoggerContext) { c.externalContext.Store(&v) }
}

// WithShutdownRegistry supplies the optional process shutdown-hook
// capability. A hook is registered only while the active configuration
// asks for one.
func WithShutdownRegistry(r ShutdownCallbackRegistry) ContextOption {
	return func(c *LoggerContext) { c.shutdownRegistry = r }
}

// NewContext creates a LoggerContext in the Uninitialized state with
// the built-in default configuration active. Call Start to resolve and
// install the real configuration.
func NewContext(name string, opts ...ContextOption) *LoggerContext {
	c := &LoggerContext{}
	c.name.Store(&name)
	empty := ""
	c.configSource.Store(&empty)
	c.config.Store(&configHolder{cfg: NewDefaultConfiguration()})
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Name returns the context name.
func (c *LoggerContext) Name() string { return *c.name.Load() }

// SetName renames the context.
func (c *LoggerContext) SetName(name string) { c.name.Store(&name) }

// State returns the current lifecycle state.
func (c *LoggerContext) State() State { return State(c.state.Load()) }

func (c *LoggerContext) setState(s State) { c.state.Store(int32(s)) }

// ExternalContext returns the opaque owner handle, or nil.
func (c *LoggerContext) ExternalContext() any {
	if p := c.externalContext.Load(); p != nil {
		return *p
	}
	return nil
}

// SetExternalContext replaces the opaque owner handle.
func (c *LoggerContext) SetExternalContext(v any) { c.externalContext.Store(&v) }

// ConfigSource returns the configured resolution location, which may
// differ from the source of the currently active configuration.
func (c *LoggerContext) ConfigSource() string { return *c.configSource.Load() }

// Configuration returns the active configuration. The read is a single
// atomic load: it never blocks and always reflects the most recently
// completed swap.
func (c *LoggerContext) Configuration() Configuration {
	return c.config.Load().cfg
}

// Start brings the context to the Started state, resolving a
// configuration from the configured source. The transition lock is
// only tried, never awaited: when another start or reconfiguration is
// in flight the call returns immediately and the duplicate is dropped.
func (c *LoggerContext) Start() {
	status.L.Debugf("starting logger context %q", c.Name())
	if !c.configLock.TryLock() {
		return
	}
	defer c.configLock.Unlock()
	if s := c.State(); s != StateUninitialized && s != StateStopped {
		return
	}
	c.setState(StateStarting)
	c.reconfigureLocked(c.ConfigSource())
	if c.Configuration().ShutdownHookEnabled() {
		c.setUpShutdownHookLocked()
	}
	c.setState(StateStarted)
	status.L.Debugf("logger context %q started", c.Name())
}

// StartWithConfiguration is Start with an explicit configuration: the
// supplied instance is installed instead of resolving one from the
// source. Like Start, a contended transition lock drops the call.
func (c *LoggerContext) StartWithConfiguration(cfg Configuration) {
	if !c.configLock.TryLock() {
		return
	}
	defer c.configLock.Unlock()
	if s := c.State(); s != StateUninitialized && s != StateStopped {
		return
	}
	c.setState(StateStarting)
	if _, err := c.setConfigurationLocked(cfg); err != nil {
		status.L.Errorf("context %q: starting with explicit configuration failed: %v", c.Name(), err)
	}
	if c.Configuration().ShutdownHookEnabled() {
		c.setUpShutdownHookLocked()
	}
	c.setState(StateStarted)
}

// Stop takes the context to Stopped: the shutdown hook is cancelled,
// the terminal no-op configuration is installed and propagated to all
// loggers, the previous configuration is stopped, the external context
// handle is cleared, and the context is removed from its registry.
// Stop blocks until any in-flight transition completes. Stopping an
// already stopped context is a no-op. The context may be started again.
func (c *LoggerContext) Stop() {
	status.L.Debugf("stopping logger context %q", c.Name())
	c.configLock.Lock()
	defer c.configLock.Unlock()
	if c.State() == StateStopped {
		return
	}
	c.setState(StateStopping)

	if c.shutdownHandle != nil {
		c.shutdownHandle.Cancel()
		c.shutdownHandle = nil
	}

	prev := c.config.Swap(&configHolder{cfg: NewNullConfiguration()}).cfg
	c.UpdateLoggers(nil)
	prev.RemoveListener(c)
	if err := prev.Stop(); err != nil {
		status.L.Errorf("context %q: stopping configuration %s: %v", c.Name(), prev.Name(), err)
	}

	c.externalContext.Store(nil)
	if c.registry != nil {
		c.registry.Remove(c)
	}
	c.setState(StateStopped)
	status.L.Debugf("logger context %q stopped", c.Name())
}

// SetConfiguration atomically replaces the active configuration with
// cfg and returns the previous one. It blocks until any in-flight
// transition finishes. The sequence under the lock is: register as a
// change listener on cfg, merge the contextual hostName and
// contextName properties without overwriting caller-supplied values,
// start cfg, swap the shared reference, propagate it to every live
// logger, detach from and stop the previous configuration, and finally
// notify property-change listeners in registration order.
//
// If cfg fails to start, nothing is swapped and the previous
// configuration stays fully active.
func (c *LoggerContext) SetConfiguration(cfg Configuration) (Configuration, error) {
	if cfg == nil {
		return nil, ErrNilConfiguration
	}
	c.configLock.Lock()
	defer c.configLock.Unlock()
	return c.setConfigurationLocked(cfg)
}

func (c *LoggerContext) setConfigurationLocked(cfg Configuration) (Configuration, error) {
	if cfg == nil {
		return nil, ErrNilConfiguration
	}
	prev := c.Configuration()

	cfg.AddListener(c)

	props := cfg.Properties()
	host, err := hostinfo.Hostname(context.Background())
	if err != nil {
		status.L.Debugf("context %q: %v, using hostName %q", c.Name(), err, "unknown")
		host = "unknown"
	}
	props.SetDefault("hostName", host)
	props.SetDefault("contextName", c.Name())

	if err := cfg.Start(); err != nil {
		cfg.RemoveListener(c)
		return nil, fmt.Errorf("start configuration %s: %w", cfg.Name(), err)
	}

	c.config.Store(&configHolder{cfg: cfg})
	c.UpdateLoggers(nil)

	if prev != nil {
		prev.RemoveListener(c)
		if err := prev.Stop(); err != nil {
			status.L.Errorf("context %q: stopping previous configuration %s: %v", c.Name(), prev.Name(), err)
		}
	}

	c.firePropertyChange(PropertyChangeEvent{Context: c, Old: prev, New: cfg})
	return prev, nil
}

// Reconfigure resolves a configuration from the stored source via the
// installed factory and installs it. Resolution failure is logged and
// leaves the previous configuration active; reconfiguration never
// interrupts logging.
func (c *LoggerContext) Reconfigure() error {
	c.configLock.Lock()
	defer c.configLock.Unlock()
	return c.reconfigureLocked(c.ConfigSource())
}

// SetConfigSource updates the resolution location and reconfigures the
// context against it.
func (c *LoggerContext) SetConfigSource(uri string) error {
	c.configLock.Lock()
	defer c.configLock.Unlock()
	c.configSource.Store(&uri)
	return c.reconfigureLocked(uri)
}

func (c *LoggerContext) reconfigureLocked(uri string) error {
	status.L.Debugf("reconfiguration started for context %q at %q", c.Name(), uri)
	if c.factory == nil {
		status.L.Warnf("context %q has no configuration factory, keeping configuration %s",
			c.Name(), c.Configuration().Name())
		return nil
	}
	cfg, err := c.factory.Resolve(c.Name(), uri)
	if err != nil || cfg == nil {
		status.L.Errorf("context %q: resolving configuration from %q failed, keeping %s: %v",
			c.Name(), uri, c.Configuration().Name(), err)
		return err
	}
	if _, err := c.setConfigurationLocked(cfg); err != nil {
		status.L.Errorf("context %q: installing configuration from %q failed, keeping %s: %v",
			c.Name(), uri, c.Configuration().Name(), err)
		return err
	}
	status.L.Debugf("reconfiguration complete for context %q from %s",
		c.Name(), c.Configuration().Source())
	return nil
}

// OnChange is the callback target for watched configuration sources.
// It asks the reconfigurable for a fresh configuration; a nil result
// means the attempt failed and the active configuration is left
// untouched. Calls serialize on the same lock as SetConfiguration, so
// change notifications are effectively single-flight per context.
func (c *LoggerContext) OnChange(r Reconfigurable) {
	status.L.Debugf("change detected, reconfiguring context %q", c.Name())
	newCfg := r.Reconfigure()
	if newCfg == nil {
		status.L.Errorf("context %q: reconfiguration produced no configuration, keeping %s",
			c.Name(), c.Configuration().Name())
		return
	}
	if _, err := c.SetConfiguration(newCfg); err != nil {
		status.L.Errorf("context %q: applying changed configuration failed: %v", c.Name(), err)
	}
}

// UpdateLoggers points every live logger at cfg, or at the active
// configuration when cfg is nil. Each logger's update is an independent
// atomic pointer store.
func (c *LoggerContext) UpdateLoggers(cfg Configuration) {
	if cfg == nil {
		cfg = c.Configuration()
	}
	c.loggers.Range(func(_, v any) bool {
		v.(*Logger).updateConfiguration(cfg)
		return true
	})
}

func (c *LoggerContext) setUpShutdownHookLocked() {
	if c.shutdownRegistry == nil || c.shutdownHandle != nil {
		return
	}
	handle, err := c.shutdownRegistry.AddShutdownCallback(func() {
		status.L.Debugf("shutdown hook stopping logger context %q", c.Name())
		c.Stop()
	})
	if err != nil {
		status.L.Errorf("context %q: unable to register shutdown hook: %v", c.Name(), err)
		return
	}
	c.shutdownHandle = handle
}

// Logger returns the logger with the given name, creating it with the
// default message factory if needed. Lookups are lock-free; concurrent
// creators race and exactly one instance wins.
func (c *LoggerContext) Logger(name string) *Logger {
	return c.LoggerWithFactory(name, nil)
}

// RootLogger returns the logger with the empty name, the root of the
// name hierarchy.
func (c *LoggerContext) RootLogger() *Logger { return c.Logger("") }

// LoggerWithFactory returns the named logger, creating it with mf if
// absent. A logger's factory is fixed at first creation: requesting an
// existing logger with a different factory kind returns the existing
// instance and emits a non-fatal warning.
func (c *LoggerContext) LoggerWithFactory(name string, mf MessageFactory) *Logger {
	if v, ok := c.loggers.Load(name); ok {
		lg := v.(*Logger)
		c.checkMessageFactory(lg, mf)
		return lg
	}
	factory := mf
	if factory == nil {
		factory = defaultMessageFactory
	}
	lg := newLogger(c, name, factory)
	if actual, loaded := c.loggers.LoadOrStore(name, lg); loaded {
		lg = actual.(*Logger)
		c.checkMessageFactory(lg, mf)
	}
	return lg
}

// checkMessageFactory warns when a caller requests an existing logger
// with a different message factory. The mismatch never fails the call.
func (c *LoggerContext) checkMessageFactory(lg *Logger, requested MessageFactory) {
	if requested == nil || requested.Kind() == lg.factory.Kind() {
		return
	}
	status.L.Warnf("logger %q in context %q already uses message factory %q, ignoring requested %q",
		lg.name, c.Name(), lg.factory.Kind(), requested.Kind())
}

// HasLogger reports whether a logger with the given name exists.
// It never creates one.
func (c *LoggerContext) HasLogger(name string) bool {
	_, ok := c.loggers.Load(name)
	return ok
}

// HasLoggerWithFactory reports whether a logger exists with the given
// name and the kind of the given factory.
func (c *LoggerContext) HasLoggerWithFactory(name string, mf MessageFactory) bool {
	kind := defaultMessageFactory.Kind()
	if mf != nil {
		kind = mf.Kind()
	}
	return c.HasLoggerWithKind(name, kind)
}

// HasLoggerWithKind reports whether a logger exists with the given
// name and message-factory kind.
func (c *LoggerContext) HasLoggerWithKind(name, kind string) bool {
	v, ok := c.loggers.Load(name)
	return ok && v.(*Logger).factory.Kind() == kind
}

// Loggers returns a snapshot of the live loggers.
func (c *LoggerContext) Loggers() []*Logger {
	var out []*Logger
	c.loggers.Range(func(_, v any) bool {
		out = append(out, v.(*Logger))
		return true
	})
	return out
}

// AddFilter attaches a filter to the active configuration. Filters
// added this way are lost when a reconfiguration occurs.
func (c *LoggerContext) AddFilter(f Filter) { c.Configuration().AddFilter(f) }

// RemoveFilter detaches a filter from the active configuration.
func (c *LoggerContext) RemoveFilter(f Filter) { c.Configuration().RemoveFilter(f) }

// AddPropertyChangeListener registers a listener for completed
// configuration swaps. Listeners run in registration order.
func (c *LoggerContext) AddPropertyChangeListener(l PropertyChangeListener) {
	c.listenerMu.Lock()
	defer c.listenerMu.Unlock()
	c.listeners = append(c.listeners, l)
}

// RemovePropertyChangeListener deregisters a previously added listener.
func (c *LoggerContext) RemovePropertyChangeListener(l PropertyChangeListener) {
	c.listenerMu.Lock()
	defer c.listenerMu.Unlock()
	for i, cur := range c.listeners {
		if cur == l {
			c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
			return
		}
	}
}

// firePropertyChange notifies listeners in registration order. A
// panicking listener is logged and the remaining listeners still run.
func (c *LoggerContext) firePropertyChange(ev PropertyChangeEvent) {
	c.listenerMu.Lock()
	snapshot := make([]PropertyChangeListener, len(c.listeners))
	copy(snapshot, c.listeners)
	c.listenerMu.Unlock()

	for _, l := range snapshot {
		notifyListener(c, l, ev)
	}
}

func notifyListener(c *LoggerContext, l PropertyChangeListener, ev PropertyChangeEvent) {
	defer func() {
		if r := recover(); r != nil {
			status.L.Errorf("context %q: property change listener panicked: %v", c.Name(), r)
		}
	}()
	l.PropertyChange(ev)
}
