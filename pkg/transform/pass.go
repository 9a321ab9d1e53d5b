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

import (
	"context"
	"maps"

	"gitlab.com/tozd/go/errors"

	"github.com/cloudmorph/cloudmorph/pkg/template"
)

// Pass runs one whole transformation over a Transform's template. The
// default pass is one implementation; when the section/resource rule
// composition cannot express a transform, callers supply their own
// through WithPass.
type Pass interface {
	Run(ctx context.Context, t *Transform) error
}

// PassFunc adapts a function to the Pass interface.
type PassFunc func(ctx context.Context, t *Transform) error

// Run satisfies Pass.
func (f PassFunc) Run(ctx context.Context, t *Transform) error { return f(ctx, t) }

// DefaultPass returns the built-in pass: subtransforms, then header
// fields, then section merges in section order, then resource
// processing, then pruning of sections the pass created and left empty,
// with hooks around each phase.
func DefaultPass() Pass {
	return defaultPass{}
}

type defaultPass struct{}

func (defaultPass) Run(ctx context.Context, t *Transform) error {
	hooks := t.rules.Hooks

	// Sections absent at the start of the pass may be created on demand
	// by a rule; if they end the pass empty they are pruned again.
	// Sections present in the input are never pruned.
	var created []string
	for _, name := range template.Sections {
		if _, ok := t.tmpl[name]; !ok {
			created = append(created, name)
		}
	}

	if err := t.runHooks(ctx, hooks.AtStart, hooks.BeforeSubtransforms); err != nil {
		return err
	}
	if err := t.runSubtransforms(ctx); err != nil {
		return err
	}
	if err := t.runHooks(ctx, hooks.AfterSubtransforms, hooks.BeforeSections); err != nil {
		return err
	}

	if err := t.applyHeader(); err != nil {
		return err
	}
	if err := t.MergeSections(ctx); err != nil {
		return err
	}
	if err := t.runHooks(ctx, hooks.AfterSections, hooks.BeforeResources); err != nil {
		return err
	}

	if err := t.ProcessResources(ctx); err != nil {
		return err
	}
	if err := t.runHooks(ctx, hooks.AfterResources); err != nil {
		return err
	}

	t.tmpl.PruneSections(created)

	return t.runHooks(ctx, hooks.AtEnd)
}

// MergeSections invokes each configured section rule in section order
// and merges the returned entries into the template. Exposed so custom
// passes can reuse the phase.
func (t *Transform) MergeSections(ctx context.Context) error {
	for _, name := range template.Sections {
		rule := t.rules.Sections[name]
		if rule == nil {
			continue
		}
		updates, err := rule(ctx, t.tmpl)
		if err != nil {
			return errors.Errorf("section %s rule: %w", name, err)
		}
		if len(updates) == 0 {
			continue
		}
		maps.Copy(t.tmpl.EnsureSection(name), updates)
		t.summary.SectionEntries[name] += len(updates)
	}
	return nil
}

// ProcessResources applies the resource rule to every entry of the
// Resources section whose type matches the configured TypeSpec. Entries
// left empty by the rule are removed. Exposed so custom passes can reuse
// the phase.
func (t *Transform) ProcessResources(ctx context.Context) error {
	if t.rules.Resource == nil {
		return nil
	}
	resources := t.tmpl.Resources()
	if resources == nil {
		return nil
	}

	var remove []string
	for id, raw := range resources {
		res, ok := raw.(map[string]any)
		if !ok {
			return errors.Errorf("resource %s: not a mapping", id)
		}
		matched, err := Matches(template.ResourceType(res), t.rules.ResourceType)
		if err != nil {
			return errors.Errorf("resource %s: %w", id, err)
		}
		if !matched {
			continue
		}

		replacement, err := t.rules.Resource(ctx, id, res)
		if err != nil {
			return errors.Errorf("resource %s rule: %w", id, err)
		}
		t.summary.ResourcesProcessed++

		final := res
		if replacement != nil {
			resources[id] = replacement
			final = replacement
			t.summary.ResourcesReplaced++
		}
		if len(final) == 0 {
			remove = append(remove, id)
		}
	}
	for _, id := range remove {
		delete(resources, id)
		t.summary.ResourcesRemoved++
	}
	return nil
}

// applyHeader sets the Description and extends the Transform list from
// the rules, when configured.
func (t *Transform) applyHeader() error {
	if t.rules.Description != nil {
		if desc := t.rules.Description(); desc != "" {
			t.tmpl[template.KeyDescription] = desc
		}
	}
	if t.rules.Transforms == nil {
		return nil
	}
	names := t.rules.Transforms()
	if len(names) == 0 {
		return nil
	}

	var list []any
	switch v := t.tmpl[template.KeyTransform].(type) {
	case nil:
	case string:
		list = []any{v}
	case []any:
		list = v
	default:
		return errors.Errorf("template Transform is neither a string nor a list")
	}
	for _, name := range names {
		list = append(list, name)
	}
	t.tmpl[template.KeyTransform] = list
	return nil
}

func (t *Transform) runSubtransforms(ctx context.Context) error {
	for i, factory := range t.rules.Subtransforms {
		sub, err := factory(t.tmpl)
		if err != nil {
			return errors.Errorf("subtransform %d: %w", i, err)
		}
		out, err := sub.Apply(ctx)
		if err != nil {
			return errors.Errorf("subtransform %d: %w", i, err)
		}
		t.tmpl = out
		t.summary.Subtransforms++
	}
	return nil
}

func (t *Transform) runHooks(ctx context.Context, hooks ...Hook) error {
	for _, h := range hooks {
		if h == nil {
			continue
		}
		if err := h(ctx, t.tmpl); err != nil {
			return errors.Errorf("hook: %w", err)
		}
	}
	return nil
}
