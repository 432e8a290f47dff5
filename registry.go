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

// ContextRegistry is an explicit, owned registry of LoggerContexts.
// There is no hidden global: construct one, hand it to the components
// that need to look contexts up, and shut it down when done. A stopped
// context removes itself from the registry it was registered in.
type ContextRegistry struct {
	mu       sync.RWMutex
	contexts map[string]*LoggerContext
}

// NewContextRegistry returns an empty registry.
func NewContextRegistry() *ContextRegistry {
	return &ContextRegistry{contexts: make(map[string]*LoggerContext)}
}

// Register adds ctx under its name, replacing any previous entry with
// the same name, and binds ctx to this registry for removal on Stop.
func (r *ContextRegistry) Register(ctx *LoggerContext) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ctx.registry = r
	r.contexts[ctx.Name()] = ctx
}

// Get returns the context registered under name, or nil.
func (r *ContextRegistry) Get(name string) *LoggerContext {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.contexts[name]
}

// GetOrCreate returns the context registered under name, creating,
// registering, and starting a new one if absent.
func (r *ContextRegistry) GetOrCreate(name string, opts ...ContextOption) *LoggerContext {
	r.mu.Lock()
	ctx, ok := r.contexts[name]
	if !ok {
		ctx = NewContext(name, opts...)
		ctx.registry = r
		r.contexts[name] = ctx
	}
	r.mu.Unlock()
	if !ok {
		ctx.Start()
	}
	return ctx
}

// Remove deletes ctx from the registry if it is the registered entry
// for its name.
func (r *ContextRegistry) Remove(ctx *LoggerContext) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.contexts[ctx.Name()] == ctx {
		delete(r.contexts, ctx.Name())
	}
}

// Contexts returns a snapshot of the registered contexts.
func (r *ContextRegistry) Contexts() []*LoggerContext {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*LoggerContext, 0, len(r.contexts))
	for _, ctx := range r.contexts {
		out = append(out, ctx)
	}
	return out
}

// Shutdown stops every registered context.
func (r *ContextRegistry) Shutdown() {
	for _, ctx := range r.Contexts() {
		ctx.Stop()
	}
}
