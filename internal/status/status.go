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

// Package status is the framework's internal diagnostic logger. It
// reports on the framework itself (reconfigurations, watcher activity,
// delivery problems) and must never depend on the configuration it is
// reporting about, so it writes structured lines to standard error via
// log/slog.
//
// Debug, info, and warning output is throttled so a misbehaving source
// cannot flood stderr during a reconfiguration storm; errors always
// pass.
package status

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/time/rate"
)

// burst is the number of throttled messages allowed back to back
// before the sustained rate applies.
const burst = 20

// Logger emits the framework's own diagnostics.
type Logger struct {
	s       *slog.Logger
	level   *slog.LevelVar
	limiter *rate.Limiter
}

// L is the process-wide status logger. Warn level by default; raise or
// lower it with SetLevel.
var L = NewLogger()

// NewLogger returns a status logger writing to standard error at
// slog.LevelWarn, throttled to ten non-error messages per second.
func NewLogger() *Logger {
	lv := new(slog.LevelVar)
	lv.Set(slog.LevelWarn)
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lv})
	return &Logger{
		s:       slog.New(h).With(slog.String("component", "ember")),
		level:   lv,
		limiter: rate.NewLimiter(rate.Limit(10), burst),
	}
}

// SetLevel changes the minimum severity of emitted diagnostics.
func (l *Logger) SetLevel(level slog.Level) { l.level.Set(level) }

// Debugf logs a throttled debug message.
func (l *Logger) Debugf(format string, args ...any) {
	if !l.s.Enabled(context.Background(), slog.LevelDebug) || !l.limiter.Allow() {
		return
	}
	l.s.Debug(fmt.Sprintf(format, args...))
}

// Infof logs a throttled informational message.
func (l *Logger) Infof(format string, args ...any) {
	if !l.s.Enabled(context.Background(), slog.LevelInfo) || !l.limiter.Allow() {
		return
	}
	l.s.Info(fmt.Sprintf(format, args...))
}

// Warnf logs a throttled warning.
func (l *Logger) Warnf(format string, args ...any) {
	if !l.s.Enabled(context.Background(), slog.LevelWarn) || !l.limiter.Allow() {
		return
	}
	l.s.Warn(fmt.Sprintf(format, args...))
}

// Errorf logs an error. Errors are never throttled.
func (l *Logger) Errorf(format string, args ...any) {
	l.s.Error(fmt.Sprintf(format, args...))
}
