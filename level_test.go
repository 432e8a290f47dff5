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

import "testing"

func TestParseLevel(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"DEBUG", LevelDebug},
		{"Info", LevelInfo},
		{" warn ", LevelWarn},
		{"WARNING", LevelWarn},
		{"error", LevelError},
		{"fatal", LevelFatal},
		{"off", LevelOff},
		{"all", LevelAll},
	}
	for _, c := range cases {
		got, err := ParseLevel(c.in)
		if err != nil || got != c.want {
			t.Fatalf("ParseLevel(%q) = (%v, %v), want (%v, nil)", c.in, got, err, c.want)
		}
	}
}

func TestParseLevelUnknown(t *testing.T) {
	t.Parallel()
	got, err := ParseLevel("loud")
	if err == nil {
		t.Fatal("ParseLevel(\"loud\") accepted an unknown name")
	}
	if got != LevelInfo {
		t.Fatalf("ParseLevel(\"loud\") = %v, want the INFO fallback", got)
	}
}

func TestLevelString(t *testing.T) {
	t.Parallel()
	if got := LevelWarn.String(); got != "WARN" {
		t.Fatalf("LevelWarn.String() = %q, want %q", got, "WARN")
	}
	if got := Level(42).String(); got != "LEVEL(42)" {
		t.Fatalf("Level(42).String() = %q, want %q", got, "LEVEL(42)")
	}
}

func TestLevelOrdering(t *testing.T) {
	t.Parallel()
	order := []Level{LevelAll, LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError, LevelFatal, LevelOff}
	for i := 1; i < len(order); i++ {
		if order[i-1] >= order[i] {
			t.Fatalf("%v is not below %v", order[i-1], order[i])
		}
	}
}
