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
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Logger is a named handle for emitting log events. Loggers are created
// by and bound to exactly one LoggerContext and are never destroyed:
// reconfiguring the context only changes the configuration view each
// logger reads on its hot path.
//
// All methods are safe for concurrent use. A log call reads the current
// configuration with a single atomic load and never blocks on a
// reconfiguration in progress.
type Logger struct {
	name    string
	factory MessageFactory
	ctx     *LoggerContext

	// view holds the logger's snapshot of the active configuration and
	// its resolved level threshold. It is replaced wholesale by
	// updateConfiguration, so readers see either the old view or the
	// new one, never a mixture.
	view atomic.Pointer[loggerView]
}

type loggerView struct {
	config Configuration
	level  Level
}

func newLogger(ctx *LoggerContext, name string, factory MessageFactory) *Logger {
	l := &Logger{name: name, factory: factory, ctx: ctx}
	l.updateConfiguration(ctx.Configuration())
	return l
}

// Name returns the logger's name.
func (l *Logger) Name() string { return l.name }

// MessageFactory returns the factory captured when the logger was
// first created.
func (l *Logger) MessageFactory() MessageFactory { return l.factory }

// Context returns the LoggerContext that owns this logger.
func (l *Logger) Context() *LoggerContext { return l.ctx }

// Level returns the logger's current effective threshold.
func (l *Logger) Level() Level { return l.view.Load().level }

// IsEnabled reports whether an event at the given level would be
// processed under the current configuration.
func (l *Logger) IsEnabled(level Level) bool {
	return level >= l.view.Load().level && level < LevelOff
}

// updateConfiguration points the logger at cfg. The store is a single
// atomic pointer assignment; in-flight log calls finish against the
// view they already loaded.
func (l *Logger) updateConfiguration(cfg Configuration) {
	l.view.Store(&loggerView{config: cfg, level: cfg.LoggerLevel(l.name)})
}

// Log emits an event at the given level after threshold and filter
// checks. Trace correlation is captured from ctx when a span is active.
// The call is synchronous: it returns after every appender has seen
// the event.
func (l *Logger) Log(ctx context.Context, level Level, format string, args ...any) {
	v := l.view.Load()
	if level < v.level || level >= LevelOff {
		return
	}
	ev := &LogEvent{
		LoggerName:  l.name,
		Level:       level,
		Message:     l.factory.NewMessage(format, args...),
		Time:        time.Now(),
		SpanContext: trace.SpanContextFromContext(ctx),
	}
	if denied(v.config.Filters(), ev) {
		return
	}
	for _, app := range v.config.Appenders() {
		app.Append(ev)
	}
}

// denied runs the filter chain. The first non-neutral verdict wins;
// all-neutral means accept.
func denied(filters []Filter, ev *LogEvent) bool {
	for _, f := range filters {
		switch f.Decide(ev) {
		case FilterDeny:
			return true
		case FilterAccept:
			return false
		}
	}
	return false
}

// Trace logs at LevelTrace.
func (l *Logger) Trace(format string, args ...any) {
	l.Log(context.Background(), LevelTrace, format, args...)
}

// Debug logs at LevelDebug.
func (l *Logger) Debug(format string, args ...any) {
	l.Log(context.Background(), LevelDebug, format, args...)
}

// Info logs at LevelInfo.
func (l *Logger) Info(format string, args ...any) {
	l.Log(context.Background(), LevelInfo, format, args...)
}

// Warn logs at LevelWarn.
func (l *Logger) Warn(format string, args ...any) {
	l.Log(context.Background(), LevelWarn, format, args...)
}

// Error logs at LevelError.
func (l *Logger) Error(format string, args ...any) {
	l.Log(context.Background(), LevelError, format, args...)
}

// Fatal logs at LevelFatal. The process is not terminated.
func (l *Logger) Fatal(format string, args ...any) {
	l.Log(context.Background(), LevelFatal, format, args...)
}

// TraceContext logs at LevelTrace with trace correlation from ctx.
func (l *Logger) TraceContext(ctx context.Context, format string, args ...any) {
	l.Log(ctx, LevelTrace, format, args...)
}

// DebugContext logs at LevelDebug with trace correlation from ctx.
func (l *Logger) DebugContext(ctx context.Context, format string, args ...any) {
	l.Log(ctx, LevelDebug, format, args...)
}

// InfoContext logs at LevelInfo with trace correlation from ctx.
func (l *Logger) InfoContext(ctx context.Context, format string, args ...any) {
	l.Log(ctx, LevelInfo, format, args...)
}

// WarnContext logs at LevelWarn with trace correlation from ctx.
func (l *Logger) WarnContext(ctx context.Context, format string, args ...any) {
	l.Log(ctx, LevelWarn, format, args...)
}

// ErrorContext logs at LevelError with trace correlation from ctx.
func (l *Logger) ErrorContext(ctx context.Context, format string, args ...any) {
	l.Log(ctx, LevelError, format, args...)
}
