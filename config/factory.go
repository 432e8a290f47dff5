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

package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/emberlog/ember"
	"github.com/emberlog/ember/appender"
	"github.com/emberlog/ember/internal/status"
	"github.com/emberlog/ember/layout"
)

// AppenderBuilder constructs an appender from its file spec.
type AppenderBuilder func(spec AppenderSpec) (ember.Appender, error)

// envOverrides are the process-environment knobs the factory honors.
// They take effect only where the call site leaves a gap: the file is
// a fallback for an empty source URI, and the interval replaces a
// file's own monitorInterval when set.
type envOverrides struct {
	ConfigFile      string `env:"EMBER_CONFIG_FILE"`
	MonitorInterval string `env:"EMBER_MONITOR_INTERVAL"`
}

// Factory resolves configurations from file locations. The zero value
// is not usable; NewFactory installs the console and file appender
// kinds and reads the environment overrides once.
type Factory struct {
	env envOverrides

	mu       sync.Mutex
	builders map[string]AppenderBuilder
}

// NewFactory returns a factory with the built-in appender kinds
// ("console", "file") registered.
func NewFactory() *Factory {
	f := &Factory{builders: make(map[string]AppenderBuilder)}
	if err := cleanenv.ReadEnv(&f.env); err != nil {
		status.L.Warnf("read environment overrides: %v", err)
	}
	f.RegisterAppender("console", buildConsole)
	f.RegisterAppender("file", buildFile)
	return f
}

// RegisterAppender makes b the constructor for the given appender
// kind, replacing any previous registration. Registration happens at
// startup; there is no discovery mechanism.
func (f *Factory) RegisterAppender(kind string, b AppenderBuilder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.builders[kind] = b
}

func (f *Factory) buildAppender(spec AppenderSpec) (ember.Appender, error) {
	f.mu.Lock()
	b, ok := f.builders[spec.Kind]
	f.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("appender %q: unknown kind %q", spec.Name, spec.Kind)
	}
	a, err := b(spec)
	if err != nil {
		return nil, fmt.Errorf("appender %q: %w", spec.Name, err)
	}
	return a, nil
}

// Resolve loads the configuration at sourceURI for the named context.
// An empty sourceURI falls back to the EMBER_CONFIG_FILE environment
// variable, and with neither set the bootstrap default configuration
// is returned. Read, parse, validation, and construction failures
// return a nil Configuration and the error; the caller keeps whatever
// configuration it already has.
func (f *Factory) Resolve(contextName, sourceURI string) (ember.Configuration, error) {
	uri := sourceURI
	if uri == "" {
		uri = f.env.ConfigFile
	}
	if uri == "" {
		status.L.Debugf("context %q: no configuration source, using default", contextName)
		return ember.NewDefaultConfiguration(), nil
	}

	cfg, err := f.loadFile(filePath(uri), uri)
	if err != nil {
		return nil, err
	}
	if f.env.MonitorInterval != "" {
		if err := f.applyMonitorOverride(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (f *Factory) applyMonitorOverride(cfg *FileConfiguration) error {
	d, err := time.ParseDuration(f.env.MonitorInterval)
	if err != nil {
		return fmt.Errorf("EMBER_MONITOR_INTERVAL: %w", err)
	}
	cfg.monitorInterval = d
	return nil
}

// filePath strips a file scheme so both "file:///etc/ember.yaml" and
// plain paths resolve.
func filePath(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}

var _ ember.ConfigurationFactory = (*Factory)(nil)

func buildConsole(spec AppenderSpec) (ember.Appender, error) {
	l, err := layoutFor(spec.Charset)
	if err != nil {
		return nil, err
	}
	return appender.NewConsoleWithLayout(spec.Name, l, nil), nil
}

func buildFile(spec AppenderSpec) (ember.Appender, error) {
	if spec.Path == "" {
		return nil, fmt.Errorf("file appender requires a path")
	}
	l, err := layoutFor(spec.Charset)
	if err != nil {
		return nil, err
	}
	return appender.NewFileWithLayout(spec.Name, spec.Path, appender.FileOptions{
		MaxSizeMB:  spec.MaxSizeMB,
		MaxBackups: spec.MaxBackups,
		MaxAgeDays: spec.MaxAgeDays,
		Compress:   spec.Compress,
	}, l), nil
}

func layoutFor(charset string) (layout.Layout, error) {
	enc, ok := layout.ParseCharset(charset)
	if !ok {
		return nil, fmt.Errorf("unsupported charset %q", charset)
	}
	return layout.NewTextWithEncoding(enc), nil
}
