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

// Package hostinfo resolves the local host name for contextual
// configuration properties. On Google Compute Engine the kernel host
// name can be a bare instance ID, so when the OS lookup fails or comes
// back empty the metadata server is consulted before giving up.
package hostinfo

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/compute/metadata"
)

// Hostname returns the best available name for the local host. The
// caller decides what to substitute on error; the framework uses the
// literal "unknown".
func Hostname(ctx context.Context) (string, error) {
	name, err := os.Hostname()
	if err == nil && name != "" {
		return name, nil
	}

	if metadata.OnGCE() {
		instance, mdErr := metadata.InstanceNameWithContext(ctx)
		if mdErr == nil && instance != "" {
			return instance, nil
		}
	}

	if err == nil {
		err = fmt.Errorf("empty host name")
	}
	return "", fmt.Errorf("resolve host name: %w", err)
}
