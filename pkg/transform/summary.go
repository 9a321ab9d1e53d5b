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

package transform

// Summary describes what one pass changed.
type Summary struct {
	// SectionEntries counts entries merged into each section by name.
	SectionEntries map[string]int

	// ResourcesProcessed counts resource entries the resource rule ran
	// on.
	ResourcesProcessed int

	// ResourcesReplaced counts entries the rule replaced wholesale.
	ResourcesReplaced int

	// ResourcesRemoved counts entries removed because the rule emptied
	// them.
	ResourcesRemoved int

	// Subtransforms counts subtransforms that ran.
	Subtransforms int
}

// Changed reports whether the pass recorded any mutation.
func (s Summary) Changed() bool {
	if s.ResourcesProcessed > 0 || s.ResourcesRemoved > 0 || s.Subtransforms > 0 {
		return true
	}
	for _, n := range s.SectionEntries {
		if n > 0 {
			return true
		}
	}
	return false
}
