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

// Package template defines the document model for CloudFormation-style
// templates: a free-form mapping with six recognized mapping sections.
package template

// Recognized mapping sections of a template.
const (
	SectionMetadata   = "Metadata"
	SectionParameters = "Parameters"
	SectionMappings   = "Mappings"
	SectionConditions = "Conditions"
	SectionResources  = "Resources"
	SectionOutputs    = "Outputs"
)

// Top-level keys that are not mapping sections but still belong to the
// template header.
const (
	KeyDescription = "Description"
	KeyTransform   = "Transform"
)

// Sections lists the mapping sections in the order a transform pass
// visits them.
var Sections = []string{
	SectionMetadata,
	SectionParameters,
	SectionMappings,
	SectionConditions,
	SectionResources,
	SectionOutputs,
}

// Template is a full template document. It is the shape produced by
// decoding YAML or JSON into a generic mapping; transforms mutate it
// in place.
type Template map[string]any

// Section returns the named section, or nil when it is absent or not a
// mapping.
func (t Template) Section(name string) map[string]any {
	s, _ := t[name].(map[string]any)
	return s
}

// EnsureSection returns the named section, creating an empty one when it
// is absent.
func (t Template) EnsureSection(name string) map[string]any {
	if s, ok := t[name].(map[string]any); ok {
		return s
	}
	s := map[string]any{}
	t[name] = s
	return s
}

// Resources returns the Resources section, or nil when absent.
func (t Template) Resources() map[string]any {
	return t.Section(SectionResources)
}

// ResourceType returns the declared Type of a resource entry, or the
// empty string when the entry has none.
func ResourceType(res map[string]any) string {
	s, _ := res["Type"].(string)
	return s
}

// PruneSections removes the named sections when they are present and
// empty. The default pass uses it to drop sections it created on demand
// that ended the pass with no entries; pre-existing sections are never
// pruned.
func (t Template) PruneSections(names []string) {
	for _, name := range names {
		if s, ok := t[name].(map[string]any); ok && len(s) == 0 {
			delete(t, name)
		}
	}
}

// Clone returns a deep copy of the template. Mappings and sequences are
// copied; scalar values are shared.
func (t Template) Clone() Template {
	if t == nil {
		return nil
	}
	return Template(cloneMap(t))
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return cloneMap(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
