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

// Package ember is the runtime core of a hot-reloadable logging
// framework. A LoggerContext owns a registry of named loggers and a
// single active Configuration; the configuration can be replaced
// atomically — on request or when a watched configuration file changes
// on disk — while application goroutines keep logging without
// interruption.
//
// The core deliberately knows nothing about configuration file formats
// or concrete output destinations. Those are collaborators behind the
// Configuration, ConfigurationFactory, and Appender interfaces; see
// the config and appender packages for the shipped implementations and
// the watch package for the polling change detector.
//
// # Basics
//
//	registry := ember.NewContextRegistry()
//	ctx := ember.NewContext("app",
//		ember.WithConfigSource("ember.yaml"),
//		ember.WithConfigurationFactory(config.NewFactory()),
//	)
//	registry.Register(ctx)
//	ctx.Start()
//	defer ctx.Stop()
//
//	log := ctx.Logger("app.service")
//	log.Info("listening on %s", addr)
//
// Logger handles stay valid across reconfigurations: each log call
// reads the logger's current configuration view with one atomic load.
package ember
