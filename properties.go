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

import "sync"

// Properties is a concurrency-safe string map with insert-if-absent
// semantics. The LoggerContext merges contextual values (host name,
// context name) into a Configuration's Properties during a swap and
// must never overwrite values the configuration already carries.
type Properties struct {
	mu sync.RWMutex
	m  map[string]string
}

// NewProperties returns an empty Properties map.
func NewProperties() *Properties {
	return &Properties{m: make(map[string]string)}
}

// Get returns the value for key and whether it is present.
func (p *Properties) Get(key string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.m[key]
	return v, ok
}

// Set stores value under key, replacing any existing value.
func (p *Properties) Set(key, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.m[key] = value
}

// SetDefault stores value under key only if the key is absent.
// It reports whether the value was stored.
func (p *Properties) SetDefault(key, value string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.m[key]; ok {
		return false
	}
	p.m[key] = value
	return true
}

// Len returns the number of entries.
func (p *Properties) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.m)
}

// Snapshot returns a copy of the current entries.
func (p *Properties) Snapshot() map[string]string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]string, len(p.m))
	for k, v := range p.m {
		out[k] = v
	}
	return out
}
