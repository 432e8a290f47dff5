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

// Package layout turns log events into bytes. A Layout formats one
// event into a line and a StringEncoder converts the line to the
// charset the destination expects.
package layout

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/emberlog/ember"
)

// Layout renders one event to the byte form an appender writes.
type Layout interface {
	Format(ev *ember.LogEvent) []byte
}

// timeFormat is the timestamp layout of text lines. Millisecond
// precision matches what log consumers typically index on.
const timeFormat = "2006-01-02T15:04:05.000Z07:00"

// Text is the default human-readable layout:
//
//	2025-01-02T15:04:05.000Z INFO app.service: message
//
// with " trace=... span=..." appended when the event carries a valid
// span context. Output bytes are produced through a StringEncoder, so
// a Text layout can target any charset x/text knows about.
type Text struct {
	enc *StringEncoder
}

// NewText returns a Text layout emitting UTF-8.
func NewText() *Text {
	return &Text{enc: NewStringEncoder(nil)}
}

// NewTextWithEncoding returns a Text layout emitting enc. Lines that
// contain characters the charset cannot represent come out with those
// characters substituted, never with an error.
func NewTextWithEncoding(enc encoding.Encoding) *Text {
	return &Text{enc: NewStringEncoder(enc)}
}

// ParseCharset maps a configuration charset name to an encoding for
// NewTextWithEncoding. The empty string and "UTF-8" select UTF-8.
func ParseCharset(name string) (encoding.Encoding, bool) {
	switch name {
	case "", "UTF-8", "utf-8":
		return nil, true
	case "ISO-8859-1", "iso-8859-1", "latin1":
		return charmap.ISO8859_1, true
	case "UTF-16", "utf-16":
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM), true
	case "UTF-16LE", "utf-16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), true
	case "UTF-16BE", "utf-16be":
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), true
	}
	return nil, false
}

// Format renders ev into a newline-terminated line.
func (t *Text) Format(ev *ember.LogEvent) []byte {
	b := Buffer()
	defer ReleaseBuffer(b)

	b.WriteString(ev.Time.Format(timeFormat))
	b.WriteByte(' ')
	b.WriteString(ev.Level.String())
	b.WriteByte(' ')
	b.WriteString(ev.LoggerName)
	b.WriteString(": ")
	b.WriteString(ev.Message)
	if ev.SpanContext.IsValid() {
		b.WriteString(" trace=")
		b.WriteString(ev.SpanContext.TraceID().String())
		b.WriteString(" span=")
		b.WriteString(ev.SpanContext.SpanID().String())
	}
	b.WriteByte('\n')

	return t.enc.Bytes(b.String())
}
