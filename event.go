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
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// LogEvent is a single log occurrence flowing from a Logger through the
// active Configuration's filters to its appenders. Events are built on
// the calling goroutine and handed to appenders synchronously; an event
// must not be retained past the Append call that received it.
type LogEvent struct {
	// LoggerName is the name of the Logger that produced the event.
	LoggerName string
	// Level is the severity of the event.
	Level Level
	// Message is the fully formatted message text.
	Message string
	// Time is the instant the event was created.
	Time time.Time
	// SpanContext carries trace correlation captured from the caller's
	// context.Context, if any. Layouts may render the trace and span
	// IDs; a zero SpanContext means no trace was active.
	SpanContext trace.SpanContext
}

// MessageFactory turns the arguments of a logging call into the final
// message text. A Logger captures the factory it was created with and
// keeps it for its whole lifetime; requesting the same logger name with
// a different factory kind returns the existing logger and emits a
// non-fatal warning.
type MessageFactory interface {
	// Kind identifies the factory implementation. It is part of the
	// logger registry key, so two factories of the same kind are
	// interchangeable for logger lookup.
	Kind() string

	// NewMessage formats a message from a format string and arguments.
	NewMessage(format string, args ...any) string
}

// FormattedMessageFactory formats messages with fmt.Sprintf semantics.
// It is the default factory used when none is supplied.
type FormattedMessageFactory struct{}

// Kind returns "formatted".
func (FormattedMessageFactory) Kind() string { return "formatted" }

// NewMessage formats the message using fmt.Sprintf. A format string
// with no arguments is returned verbatim to avoid needless scanning.
func (FormattedMessageFactory) NewMessage(format string, args ...any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// StringMessageFactory ignores printf verbs and space-joins the format
// string with the stringified arguments. Useful for callers that log
// raw user input and must never trip on stray '%' characters.
type StringMessageFactory struct{}

// Kind returns "string".
func (StringMessageFactory) Kind() string { return "string" }

// NewMessage joins the format string and arguments with spaces.
func (StringMessageFactory) NewMessage(format string, args ...any) string {
	if len(args) == 0 {
		return format
	}
	parts := make([]any, 0, len(args)+1)
	parts = append(parts, format)
	parts = append(parts, args...)
	return strings.TrimSuffix(fmt.Sprintln(parts...), "\n")
}

// defaultMessageFactory is used when a logger is requested without an
// explicit factory.
var defaultMessageFactory MessageFactory = FormattedMessageFactory{}
