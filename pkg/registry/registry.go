// Copyright 2026 cloudmorph LLC
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

// Package registry maps transform names to factories so the CLI and the
// handler can look transforms up by name. Transform packages register
// themselves at init time, typically from a blank import in the binary
// that wants them.
package registry

import (
	"sort"

	"github.com/cloudmorph/cloudmorph/pkg/template"
	"github.com/cloudmorph/cloudmorph/pkg/transform"
)

// 🏭 Factory builds a transform over a template with the options mapping
// parsed by the caller.
type Factory func(tmpl template.Template, options map[string]any) (*transform.Transform, error)

// 📦 Registration describes one named transform.
type Registration struct {
	// Name is the lookup key, e.g. "tagger".
	Name string

	// Description is the help text shown by `cloudmorph list`.
	Description string

	// New builds the transform.
	New Factory
}

// 🗺️ transforms maps names to registrations. Registration happens at
// init time only; lookups never race with writes.
var transforms = make(map[string]Registration)

// 📝 Register registers a named transform. It panics on an empty name, a
// nil factory, or a duplicate name: all three are programmer errors in
// the registering package.
func Register(r Registration) {
	if r.Name == "" {
		panic("registry: transform name is required")
	}
	if r.New == nil {
		panic("registry: transform " + r.Name + " has no factory")
	}
	if _, ok := transforms[r.Name]; ok {
		panic("registry: transform " + r.Name + " registered twice")
	}
	transforms[r.Name] = r
}

// 🎯 Get returns the registration for name.
func Get(name string) (Registration, bool) {
	r, ok := transforms[name]
	return r, ok
}

// 📋 List returns all registrations sorted by name.
func List() []Registration {
	out := make([]Registration, 0, len(transforms))
	for _, r := range transforms {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
