// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package protocol

import (
	"fmt"
	"log"
	"sort"
)

// Backend provides access to devices of one kind of channel.
type Backend struct {
	// List returns the names of the readers currently attached.
	List func() ([]string, error)
	// Open connects to the named reader.
	Open func(reader string) (Card, error)
}

var backends = make(map[string]Backend)

// Register makes a backend available by name. It is meant to be called from
// init functions and exits the process on a duplicate name.
func Register(name string, b Backend) {
	if _, ok := backends[name]; ok {
		log.Fatalf("Register(%q, _) duplicate backend registration", name)
	}
	backends[name] = b
}

func Lookup(name string) (Backend, error) {
	b, ok := backends[name]
	if !ok {
		return Backend{}, fmt.Errorf("backend %q not registered", name)
	}
	return b, nil
}

// Backends returns the registered backend names in sorted order.
func Backends() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
