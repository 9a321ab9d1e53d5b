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

// Package transform applies in-place transformations to template
// documents. A Transform owns one template for exactly one pass: section
// rules contribute entries to merge into the template's sections, a
// resource rule rewrites matching resource entries, and the whole pass
// can be swapped out through the Pass interface.
package transform

import (
	"context"
	"slices"

	"gitlab.com/tozd/go/errors"

	"github.com/cloudmorph/cloudmorph/pkg/template"
)

// ErrAlreadyApplied is returned when Apply is called a second time on
// the same Transform.
var ErrAlreadyApplied = errors.Base("transform already applied")

// SectionRule produces entries to merge into one template section.
// Entries are merged shallowly: a returned key replaces an existing
// entry of the same name outright. The rule receives the full template
// and may also mutate it directly; returning nil means there is nothing
// to merge.
type SectionRule func(ctx context.Context, tmpl template.Template) (map[string]any, error)

// ResourceRule is invoked on every resource entry whose declared type
// matches the configured TypeSpec. The rule may mutate the entry in
// place, or return a replacement that is stored under the same logical
// name. An entry that ends up empty is removed from the section.
type ResourceRule func(ctx context.Context, logicalID string, res map[string]any) (map[string]any, error)

// Hook runs between phases of the default pass.
type Hook func(ctx context.Context, tmpl template.Template) error

// Hooks are optional callbacks around the phases of the default pass.
// Nil hooks are skipped.
type Hooks struct {
	AtStart             Hook
	BeforeSubtransforms Hook
	AfterSubtransforms  Hook
	BeforeSections      Hook
	AfterSections       Hook
	BeforeResources     Hook
	AfterResources      Hook
	AtEnd               Hook
}

// Factory builds a subtransform over the given template.
type Factory func(tmpl template.Template) (*Transform, error)

// Rules is the capability table of one transform: every hook point the
// default pass consults, resolved once at construction time.
type Rules struct {
	// Description, when non-nil and returning a non-empty string, sets
	// the template's Description.
	Description func() string

	// Transforms, when non-nil, returns macro names to append to the
	// template's Transform list.
	Transforms func() []string

	// Sections maps a section name (template.Sections) to the rule that
	// contributes entries to it. Absent sections are skipped.
	Sections map[string]SectionRule

	// Resource is applied to each matching entry of the Resources
	// section. Nil disables resource processing.
	Resource ResourceRule

	// ResourceType filters which resources Resource applies to. Nil
	// matches every resource.
	ResourceType TypeSpec

	// Subtransforms are applied, in order, before anything else.
	Subtransforms []Factory

	Hooks Hooks
}

// Transform owns one template for a single transformation pass.
type Transform struct {
	tmpl    template.Template
	options map[string]any
	rules   Rules
	pass    Pass
	applied bool
	summary Summary
}

// Option configures a Transform.
type Option func(*Transform)

// WithOptions attaches an opaque options mapping, typically parsed from
// command-line arguments. The core does not interpret it; rules reach it
// through Options.
func WithOptions(options map[string]any) Option {
	return func(t *Transform) {
		t.options = options
	}
}

// WithPass replaces the default pass wholesale. Custom passes can still
// reuse the built-in phases through MergeSections and ProcessResources.
func WithPass(p Pass) Option {
	return func(t *Transform) {
		t.pass = p
	}
}

// New creates a Transform over tmpl. The template is mutated in place by
// Apply; it is not copied.
func New(tmpl template.Template, rules Rules, opts ...Option) (*Transform, error) {
	if tmpl == nil {
		return nil, errors.New("template is required")
	}
	for name := range rules.Sections {
		if !slices.Contains(template.Sections, name) {
			return nil, errors.Errorf("unknown section %q in rules", name)
		}
	}
	t := &Transform{
		tmpl:  tmpl,
		rules: rules,
		pass:  DefaultPass(),
		summary: Summary{
			SectionEntries: map[string]int{},
		},
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.pass == nil {
		t.pass = DefaultPass()
	}
	return t, nil
}

// Apply runs the pass exactly once and returns the mutated template.
// A second call fails with ErrAlreadyApplied and leaves the template
// untouched. The Transform is marked applied before the pass runs, so a
// failing rule still spends the instance; the partially mutated template
// remains reachable through Template.
func (t *Transform) Apply(ctx context.Context) (template.Template, error) {
	if t.applied {
		return nil, errors.WithStack(ErrAlreadyApplied)
	}
	t.applied = true

	if err := t.pass.Run(ctx, t); err != nil {
		return nil, err
	}
	return t.tmpl, nil
}

// Template returns the template owned by this Transform: the unmodified
// input before Apply, the (possibly partially) mutated document after.
func (t *Transform) Template() template.Template {
	return t.tmpl
}

// Options returns the opaque options mapping given at construction, or
// nil.
func (t *Transform) Options() map[string]any {
	return t.options
}

// Applied reports whether Apply has been called.
func (t *Transform) Applied() bool {
	return t.applied
}

// Summary describes what the pass changed so far.
func (t *Transform) Summary() Summary {
	return t.summary
}
