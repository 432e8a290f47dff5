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

// State is the lifecycle phase of a LoggerContext.
//
// The legal transition sequence is
//
//	Uninitialized → Starting → Started → Stopping → Stopped → Starting → …
//
// Starting and Stopping are transient and only ever observed while the
// context's transition lock is held by another goroutine.
type State int32

const (
	// StateUninitialized is the state before the first Start.
	StateUninitialized State = iota
	// StateStarting is the transient state during Start.
	StateStarting
	// StateStarted is the normal operating state.
	StateStarted
	// StateStopping is the transient state during Stop.
	StateStopping
	// StateStopped is the state after Stop; the context may be
	// started again.
	StateStopped
)

// String returns the lower-case state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateStarting:
		return "starting"
	case StateStarted:
		return "started"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
