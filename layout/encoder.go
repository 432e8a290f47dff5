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

package layout

import (
	"bytes"
	"sync"
	"unicode/utf16"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/emberlog/ember/internal/status"
)

// StringEncoder converts formatted log lines into the bytes an
// appender writes. The target encoding is fixed at construction.
//
// Latin-1 output takes a custom fast path: code units at or below 255
// are the output bytes, so the conversion is a straight copy with a
// lossy '?' substitution for anything outside the range. Every other
// charset delegates to the encoding's general converter with
// unrepresentable runes substituted, so encoding never fails.
type StringEncoder struct {
	enc        encoding.Encoding
	singleByte bool
}

// substitute is the byte written for characters the single-byte fast
// path cannot represent.
const substitute = '?'

// NewStringEncoder returns an encoder targeting enc. A nil enc selects
// UTF-8, in which case Bytes is a plain string-to-bytes conversion.
func NewStringEncoder(enc encoding.Encoding) *StringEncoder {
	return &StringEncoder{
		enc:        enc,
		singleByte: enc == charmap.ISO8859_1,
	}
}

// Bytes encodes s into the target encoding.
func (e *StringEncoder) Bytes(s string) []byte {
	if e.enc == nil {
		return []byte(s)
	}
	if e.singleByte {
		buf, n := encodeSingleByte(utf16.Encode([]rune(s)))
		return buf[:n]
	}
	out, err := encoding.ReplaceUnsupported(e.enc.NewEncoder()).Bytes([]byte(s))
	if err != nil {
		// ReplaceUnsupported leaves only malformed input as a failure
		// mode; pass the raw bytes through rather than dropping the line.
		status.L.Errorf("encode log line: %v", err)
		return []byte(s)
	}
	return out
}

// encodeSingleByte converts a sequence of UTF-16 code units to Latin-1
// bytes. The buffer is pre-sized to the unit count; units at or below
// 255 map one-to-one, a lone unit above 255 becomes one substitute
// byte, and a valid surrogate pair consumes two units but writes one
// substitute byte. The returned count, not the buffer length, is the
// number of bytes written; the tail beyond it is untouched and zero.
func encodeSingleByte(units []uint16) ([]byte, int) {
	buf := make([]byte, len(units))
	bi := 0
	for ui := 0; ui < len(units); {
		u := units[ui]
		if u <= 0xFF {
			buf[bi] = byte(u)
			bi++
			ui++
			continue
		}
		if isHighSurrogate(u) && ui+1 < len(units) && isLowSurrogate(units[ui+1]) {
			ui += 2
		} else {
			ui++
		}
		buf[bi] = substitute
		bi++
	}
	return buf, bi
}

func isHighSurrogate(u uint16) bool { return u >= 0xD800 && u <= 0xDBFF }
func isLowSurrogate(u uint16) bool  { return u >= 0xDC00 && u <= 0xDFFF }

// bufferPool recycles the text buffers layouts format into. The pool
// stands in for per-thread ownership: a buffer is exclusively the
// caller's between Buffer and ReleaseBuffer and must not be retained
// past the release or shared between goroutines.
var bufferPool = sync.Pool{
	New: func() any {
		b := new(bytes.Buffer)
		b.Grow(initialBufferSize)
		return b
	},
}

// initialBufferSize is the capacity given to fresh format buffers.
const initialBufferSize = 1024

// Buffer returns a reusable text buffer, reset to length zero. The
// buffer belongs to the calling goroutine for the duration of one
// formatting call; hand it back with ReleaseBuffer.
func Buffer() *bytes.Buffer {
	b := bufferPool.Get().(*bytes.Buffer)
	b.Reset()
	return b
}

// ReleaseBuffer returns a buffer obtained from Buffer to the pool.
// The caller must not touch the buffer afterwards.
func ReleaseBuffer(b *bytes.Buffer) {
	bufferPool.Put(b)
}
