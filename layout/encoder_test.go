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
	"testing"
	"unicode/utf16"

	"golang.org/x/text/encoding/charmap"
)

func TestBytesUTF8Passthrough(t *testing.T) {
	t.Parallel()
	e := NewStringEncoder(nil)
	in := "héllo, 世界"
	got := e.Bytes(in)
	if !bytes.Equal(got, []byte(in)) {
		t.Fatalf("Bytes(%q) = %v, want raw UTF-8 %v", in, got, []byte(in))
	}
}

func TestBytesLatin1ASCII(t *testing.T) {
	t.Parallel()
	e := NewStringEncoder(charmap.ISO8859_1)
	got := e.Bytes("ABC")
	want := []byte{0x41, 0x42, 0x43}
	if !bytes.Equal(got, want) {
		t.Fatalf("Bytes(\"ABC\") = %v, want %v", got, want)
	}
}

func TestBytesLatin1Substitution(t *testing.T) {
	t.Parallel()
	e := NewStringEncoder(charmap.ISO8859_1)
	// U+0100 is the first code point outside Latin-1.
	got := e.Bytes("A\u0100B")
	want := []byte{0x41, 0x3F, 0x42}
	if !bytes.Equal(got, want) {
		t.Fatalf("Bytes(\"A\\u0100B\") = %v, want %v", got, want)
	}
}

func TestBytesLatin1HighRange(t *testing.T) {
	t.Parallel()
	e := NewStringEncoder(charmap.ISO8859_1)
	// U+00E9 é is a single code unit 0xE9, inside the byte range.
	got := e.Bytes("caf\u00e9")
	want := []byte{'c', 'a', 'f', 0xE9}
	if !bytes.Equal(got, want) {
		t.Fatalf("Bytes(\"café\") = %v, want %v", got, want)
	}
}

func TestSingleByteSurrogatePair(t *testing.T) {
	t.Parallel()
	// U+1F600 encodes as a surrogate pair: two input units, one
	// substitute byte out.
	units := utf16.Encode([]rune("A\U0001F600B"))
	if len(units) != 4 {
		t.Fatalf("test setup: got %d code units, want 4", len(units))
	}
	buf, n := encodeSingleByte(units)
	if len(buf) != 4 {
		t.Fatalf("buffer presized to %d, want %d", len(buf), 4)
	}
	if n != 3 {
		t.Fatalf("count = %d, want 3", n)
	}
	want := []byte{'A', '?', 'B'}
	if !bytes.Equal(buf[:n], want) {
		t.Fatalf("encoded = %v, want %v", buf[:n], want)
	}
	if buf[3] != 0 {
		t.Fatalf("tail byte = %#x, want zero", buf[3])
	}
}

func TestSingleByteLoneSurrogate(t *testing.T) {
	t.Parallel()
	// An unpaired high surrogate is a single unit above 255: one
	// substitute byte, no unit skipped.
	units := []uint16{'A', 0xD800, 'B'}
	buf, n := encodeSingleByte(units)
	want := []byte{'A', '?', 'B'}
	if n != 3 || !bytes.Equal(buf[:n], want) {
		t.Fatalf("encoded = %v (n=%d), want %v (n=3)", buf[:n], n, want)
	}
}

func TestSingleByteEmpty(t *testing.T) {
	t.Parallel()
	buf, n := encodeSingleByte(nil)
	if n != 0 || len(buf) != 0 {
		t.Fatalf("encodeSingleByte(nil) = %v (n=%d), want empty", buf, n)
	}
}

func TestBytesDelegateEncoding(t *testing.T) {
	t.Parallel()
	e := NewStringEncoder(charmap.Windows1252)
	if got := e.Bytes("plain"); !bytes.Equal(got, []byte("plain")) {
		t.Fatalf("Bytes(\"plain\") = %v, want ASCII passthrough", got)
	}
	// A rune Windows-1252 cannot represent must come out substituted
	// as a single byte, never dropped and never an error.
	got := e.Bytes("\u4e16")
	if len(got) != 1 {
		t.Fatalf("Bytes(\"\\u4e16\") = %v, want one substituted byte", got)
	}
}

func TestBufferPoolReset(t *testing.T) {
	t.Parallel()
	b := Buffer()
	b.WriteString("leftover")
	ReleaseBuffer(b)

	b2 := Buffer()
	defer ReleaseBuffer(b2)
	if b2.Len() != 0 {
		t.Fatalf("pooled buffer not reset: len = %d, contents %q", b2.Len(), b2.String())
	}
}
