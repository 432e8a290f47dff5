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
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/emberlog/ember"
	"github.com/emberlog/ember/internal/status"
	"github.com/emberlog/ember/watch"
)

// document is the YAML shape of a configuration file.
type document struct {
	Name            string            `yaml:"name"`
	MonitorInterval string            `yaml:"monitorInterval"`
	ShutdownHook    bool              `yaml:"shutdownHook"`
	Properties      map[string]string `yaml:"properties"`
	Root            struct {
		Level string `yaml:"level"`
	} `yaml:"root"`
	Loggers []struct {
		Name  string `yaml:"name"`
		Level string `yaml:"level"`
	} `yaml:"loggers"`
	Appenders []AppenderSpec `yaml:"appenders"`
}

// AppenderSpec is one entry of a file's appenders list. Kind selects
// the registered constructor; the remaining fields are interpreted by
// the constructor and ignored when they do not apply.
type AppenderSpec struct {
	Kind       string `yaml:"kind"`
	Name       string `yaml:"name"`
	Charset    string `yaml:"charset"`
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
	Compress   bool   `yaml:"compress"`
}

// schemaJSON constrains a configuration document before it is applied,
// so a half-edited file is rejected as a unit instead of half-loading.
const schemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["name"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "monitorInterval": {"type": "string"},
    "shutdownHook": {"type": "boolean"},
    "properties": {
      "type": "object",
      "additionalProperties": {"type": "string"}
    },
    "root": {
      "type": "object",
      "properties": {"level": {"type": "string"}}
    },
    "loggers": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "level": {"type": "string"}
        }
      }
    },
    "appenders": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["kind", "name"],
        "properties": {
          "kind": {"type": "string", "minLength": 1},
          "name": {"type": "string", "minLength": 1}
        }
      }
    }
  },
  "additionalProperties": false
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
)

func configSchema() *jsonschema.Schema {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(schemaJSON))
		if err != nil {
			panic(fmt.Sprintf("config: built-in schema: %v", err))
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("ember-config.schema.json", doc); err != nil {
			panic(fmt.Sprintf("config: built-in schema: %v", err))
		}
		schema = c.MustCompile("ember-config.schema.json")
	})
	return schema
}

// FileConfiguration is a Configuration loaded from a YAML file. When
// the document sets monitorInterval, Start registers the backing file
// with an owned watch.Manager and a detected change notifies the
// configuration's listeners, which in turn drives the owning context
// to reconfigure.
type FileConfiguration struct {
	*Base
	path            string
	monitorInterval time.Duration
	factory         *Factory

	watchMu sync.Mutex
	manager *watch.Manager
}

// Start opens the appenders and, when monitoring is requested, begins
// polling the backing file.
func (f *FileConfiguration) Start() error {
	if err := f.Base.Start(); err != nil {
		return err
	}
	if f.monitorInterval <= 0 {
		return nil
	}

	m := watch.NewManager()
	if err := m.SetInterval(f.monitorInterval); err != nil {
		return fmt.Errorf("config %q: %w", f.Name(), err)
	}
	m.Watch(f.path, watch.FileWatcherFunc(func(path string) {
		status.L.Infof("configuration file %q changed, notifying listeners", path)
		f.NotifyListeners(f)
	}))
	m.Start()

	f.watchMu.Lock()
	f.manager = m
	f.watchMu.Unlock()
	return nil
}

// Stop ends source monitoring and closes the appenders.
func (f *FileConfiguration) Stop() error {
	f.watchMu.Lock()
	m := f.manager
	f.manager = nil
	f.watchMu.Unlock()
	if m != nil {
		m.Stop()
	}
	return f.Base.Stop()
}

// Reconfigure re-reads the backing file and returns the resulting
// fresh configuration. A file that no longer parses or validates
// returns nil, which tells the listener to keep the configuration it
// has.
func (f *FileConfiguration) Reconfigure() ember.Configuration {
	fresh, err := f.factory.loadFile(f.path, f.Source().URI)
	if err != nil {
		status.L.Errorf("reload %q: %v", f.path, err)
		return nil
	}
	return fresh
}

var (
	_ ember.Configuration  = (*FileConfiguration)(nil)
	_ ember.Reconfigurable = (*FileConfiguration)(nil)
)

// buildFileConfiguration turns a validated document into a
// FileConfiguration. Appenders are constructed through the factory's
// kind registry; an unknown kind fails the whole load.
func (fa *Factory) buildFileConfiguration(doc *document, path, uri string) (*FileConfiguration, error) {
	base := NewBase(doc.Name)
	base.source = ember.ConfigurationSource{URI: uri, File: path}
	base.SetShutdownHookEnabled(doc.ShutdownHook)

	for k, v := range doc.Properties {
		base.Properties().Set(k, v)
	}

	if doc.Root.Level != "" {
		lv, err := ember.ParseLevel(doc.Root.Level)
		if err != nil {
			return nil, fmt.Errorf("root: %w", err)
		}
		base.SetLoggerLevel("", lv)
	}
	for _, lg := range doc.Loggers {
		lv, err := ember.ParseLevel(lg.Level)
		if err != nil {
			return nil, fmt.Errorf("logger %q: %w", lg.Name, err)
		}
		base.SetLoggerLevel(lg.Name, lv)
	}

	for _, spec := range doc.Appenders {
		a, err := fa.buildAppender(spec)
		if err != nil {
			return nil, err
		}
		base.AddAppender(a)
	}

	cfg := &FileConfiguration{Base: base, path: path, factory: fa}
	if doc.MonitorInterval != "" {
		d, err := time.ParseDuration(doc.MonitorInterval)
		if err != nil {
			return nil, fmt.Errorf("monitorInterval: %w", err)
		}
		cfg.monitorInterval = d
	}
	return cfg, nil
}

// loadFile reads, validates, and decodes one configuration file.
func (fa *Factory) loadFile(path, uri string) (*FileConfiguration, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read configuration: %w", err)
	}

	// Validate against the schema on a generic decode first so a
	// structurally broken document is rejected with a precise error
	// before any of it takes effect. The schema library works on JSON
	// values, so the decoded document is round-tripped through JSON.
	var generic any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("parse configuration %q: %w", path, err)
	}
	asJSON, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("parse configuration %q: %w", path, err)
	}
	jsonDoc, err := jsonschema.UnmarshalJSON(bytes.NewReader(asJSON))
	if err != nil {
		return nil, fmt.Errorf("parse configuration %q: %w", path, err)
	}
	if err := configSchema().Validate(jsonDoc); err != nil {
		return nil, fmt.Errorf("validate configuration %q: %w", path, err)
	}

	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse configuration %q: %w", path, err)
	}
	return fa.buildFileConfiguration(&doc, path, uri)
}
