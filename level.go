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
)

// Level is the severity of a log event. Higher values are more severe.
// The ordering follows the conventional trace-to-fatal scale, with
// LevelOff as a sentinel that disables all logging when used as a
// threshold.
type Level int

const (
	// LevelAll enables every event when used as a threshold.
	LevelAll Level = iota - 1
	// LevelTrace designates finer-grained events than LevelDebug.
	LevelTrace
	// LevelDebug designates fine-grained diagnostic events.
	LevelDebug
	// LevelInfo designates informational progress messages.
	LevelInfo
	// LevelWarn designates potentially harmful situations.
	LevelWarn
	// LevelError designates error events that still allow the
	// application to continue running.
	LevelError
	// LevelFatal designates severe errors that presumably lead the
	// application to abort. Ember never terminates the process itself.
	LevelFatal
	// LevelOff disables all logging when used as a threshold.
	LevelOff
)

// String returns the upper-case name of the level.
// It implements fmt.Stringer.
func (l Level) String() string {
	switch l {
	case LevelAll:
		return "ALL"
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	case LevelOff:
		return "OFF"
	default:
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
}

// ParseLevel converts a case-insensitive level name into a Level.
// Unrecognized names return LevelInfo and a non-nil error so callers
// can log the problem and continue with a sane default.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ALL":
		return LevelAll, nil
	case "TRACE":
		return LevelTrace, nil
	case "DEBUG":
		return LevelDebug, nil
	case "INFO", "":
		return LevelInfo, nil
	case "WARN", "WARNING":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	case "FATAL":
		return LevelFatal, nil
	case "OFF":
		return LevelOff, nil
	default:
		return LevelInfo, fmt.Errorf("unknown level name %q", s)
	}
}
