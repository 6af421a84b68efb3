/*-
 * Copyright 2025 The SODA Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package decoder

import (
	"fmt"
	"sync"
)

var errNoDriver = fmt.Errorf("no driver registered")

// Registry maps vendor names onto decoder drivers. It is populated at
// process start; lookups for unknown vendors fall back to the generic
// driver when one is installed.
type Registry struct {
	mu       sync.RWMutex
	drivers  map[string]Driver
	fallback Driver
}

func NewRegistry() *Registry {
	return &Registry{
		drivers: make(map[string]Driver),
	}
}

// Register installs a driver for a vendor. Later registrations replace
// earlier ones.
func (r *Registry) Register(vendor string, d Driver) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.drivers[vendor] = d
}

// SetFallback installs the driver used for vendors without a registration.
func (r *Registry) SetFallback(d Driver) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.fallback = d
}

// Get returns the driver for a vendor, or the fallback, or an error when
// neither exists.
func (r *Registry) Get(vendor string) (Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if d, ok := r.drivers[vendor]; ok {
		return d, nil
	}

	if r.fallback != nil {
		return r.fallback, nil
	}

	return nil, fmt.Errorf("%w: %s", errNoDriver, vendor)
}
