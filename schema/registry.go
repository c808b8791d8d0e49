// Copyright 2026 Blink Labs Software
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

package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blinklabs-io/soltx/keys"
)

// Registry maps program ids to their schemas. It is an explicit
// collaborator passed to decoding code paths, never global state.
type Registry struct {
	schemas map[keys.Pubkey]*Schema
}

// NewRegistry builds a registry from the given schemas
func NewRegistry(schemas ...*Schema) *Registry {
	r := &Registry{schemas: make(map[keys.Pubkey]*Schema, len(schemas))}
	for _, s := range schemas {
		r.schemas[s.ProgramID] = s
	}
	return r
}

// LoadRegistry reads every .json schema document in dir. A document that
// fails to parse fails the whole load, with the file name in the error.
func LoadRegistry(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	r := &Registry{schemas: make(map[keys.Pubkey]*Schema)}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		s, err := LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		r.schemas[s.ProgramID] = s
	}
	return r, nil
}

// Add registers a schema, replacing any existing one for the same program
func (r *Registry) Add(s *Schema) {
	r.schemas[s.ProgramID] = s
}

// Lookup returns the schema for a program id, or nil when none is
// registered. The signature matches the lookup collaborator parameter
// taken by transaction display decoding.
func (r *Registry) Lookup(programID keys.Pubkey) *Schema {
	return r.schemas[programID]
}

// Len returns the number of registered schemas
func (r *Registry) Len() int {
	return len(r.schemas)
}
