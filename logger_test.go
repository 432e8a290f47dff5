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
	"sync"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

// captureAppender records every event it receives.
type captureAppender struct {
	mu     sync.Mutex
	events []*LogEvent
}

func (a *captureAppender) Name() string { return "capture" }
func (a *captureAppender) Start() error { return nil }
func (a *captureAppender) Stop() error  { return nil }

func (a *captureAppender) Append(ev *LogEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, ev)
}

func (a *captureAppender) all() []*LogEvent {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]*LogEvent, len(a.events))
	copy(out, a.events)
	return out
}

type verdictFilter struct {
	verdict FilterResult
	calls   int
}

func (f *verdictFilter) Decide(*LogEvent) FilterResult {
	f.calls++
	return f.verdict
}

func loggerWithCapture(t *testing.T, level Level) (*Logger, *captureAppender) {
	t.Helper()
	cfg := newFakeConfig("capture", level)
	sink := &captureAppender{}
	cfg.appenders = []Appender{sink}
	ctx := NewContext("test")
	if _, err := ctx.SetConfiguration(cfg); err != nil {
		t.Fatalf("SetConfiguration: %v", err)
	}
	return ctx.Logger("svc"), sink
}

func TestLogThreshold(t *testing.T) {
	t.Parallel()
	lg, sink := loggerWithCapture(t, LevelWarn)

	lg.Info("below threshold")
	lg.Warn("at threshold")
	lg.Error("above threshold")

	got := sink.all()
	if len(got) != 2 {
		t.Fatalf("appended %d events, want 2", len(got))
	}
	if got[0].Level != LevelWarn || got[1].Level != LevelError {
		t.Fatalf("levels = %v, %v; want WARN, ERROR", got[0].Level, got[1].Level)
	}
}

func TestLogFormatsMessage(t *testing.T) {
	t.Parallel()
	lg, sink := loggerWithCapture(t, LevelInfo)
	lg.Info("user %s logged in from %d sessions", "ada", 3)

	got := sink.all()
	if len(got) != 1 {
		t.Fatalf("appended %d events, want 1", len(got))
	}
	if want := "user ada logged in from 3 sessions"; got[0].Message != want {
		t.Fatalf("message = %q, want %q", got[0].Message, want)
	}
	if got[0].LoggerName != "svc" {
		t.Fatalf("logger name = %q, want %q", got[0].LoggerName, "svc")
	}
}

func TestLogOffLevelNeverLogs(t *testing.T) {
	t.Parallel()
	lg, sink := loggerWithCapture(t, LevelAll)
	lg.Log(context.Background(), LevelOff, "must not appear")
	if got := sink.all(); len(got) != 0 {
		t.Fatalf("appended %d events at OFF, want 0", len(got))
	}
}

func TestFilterDeny(t *testing.T) {
	t.Parallel()
	lg, sink := loggerWithCapture(t, LevelInfo)
	lg.Context().AddFilter(&verdictFilter{verdict: FilterDeny})

	lg.Info("dropped")
	if got := sink.all(); len(got) != 0 {
		t.Fatalf("denied event reached the appender: %d events", len(got))
	}
}

func TestFilterAcceptShortCircuits(t *testing.T) {
	t.Parallel()
	lg, sink := loggerWithCapture(t, LevelInfo)
	deny := &verdictFilter{verdict: FilterDeny}
	lg.Context().AddFilter(&verdictFilter{verdict: FilterAccept})
	lg.Context().AddFilter(deny)

	lg.Info("accepted early")
	if got := sink.all(); len(got) != 1 {
		t.Fatalf("appended %d events, want 1", len(got))
	}
	if deny.calls != 0 {
		t.Fatal("filter after an ACCEPT verdict was still consulted")
	}
}

func TestFilterNeutralChainAccepts(t *testing.T) {
	t.Parallel()
	lg, sink := loggerWithCapture(t, LevelInfo)
	lg.Context().AddFilter(&verdictFilter{verdict: FilterNeutral})
	lg.Context().AddFilter(&verdictFilter{verdict: FilterNeutral})

	lg.Info("all neutral")
	if got := sink.all(); len(got) != 1 {
		t.Fatalf("appended %d events, want 1", len(got))
	}
}

func TestLogCapturesSpanContext(t *testing.T) {
	t.Parallel()
	lg, sink := loggerWithCapture(t, LevelInfo)

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: trace.TraceID{0x01},
		SpanID:  trace.SpanID{0x02},
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)
	lg.InfoContext(ctx, "traced")

	got := sink.all()
	if len(got) != 1 {
		t.Fatalf("appended %d events, want 1", len(got))
	}
	if !got[0].SpanContext.IsValid() || got[0].SpanContext.TraceID() != sc.TraceID() {
		t.Fatal("event did not capture the caller's span context")
	}
}

func TestStringFactoryIgnoresVerbs(t *testing.T) {
	t.Parallel()
	cfg := newFakeConfig("capture", LevelInfo)
	sink := &captureAppender{}
	cfg.appenders = []Appender{sink}
	ctx := NewContext("test")
	if _, err := ctx.SetConfiguration(cfg); err != nil {
		t.Fatalf("SetConfiguration: %v", err)
	}

	lg := ctx.LoggerWithFactory("raw", StringMessageFactory{})
	lg.Info("100% raw input", "extra")

	got := sink.all()
	if len(got) != 1 {
		t.Fatalf("appended %d events, want 1", len(got))
	}
	if want := "100% raw input extra"; got[0].Message != want {
		t.Fatalf("message = %q, want %q", got[0].Message, want)
	}
}
