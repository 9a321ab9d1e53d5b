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

// Package tagger is the built-in tagging transform: it appends tags to
// the Properties.Tags list of matching resources.
//
// Options:
//
//	tags:  mapping of tag key to value (required)
//	types: list of resource types to tag; "*" globs allowed; absent
//	       means every resource
package tagger

import (
	"context"
	"sort"
	"strings"

	"gitlab.com/tozd/go/errors"

	"github.com/cloudmorph/cloudmorph/pkg/registry"
	"github.com/cloudmorph/cloudmorph/pkg/template"
	"github.com/cloudmorph/cloudmorph/pkg/transform"
)

func init() {
	registry.Register(registry.Registration{
		Name:        "tagger",
		Description: "append tags to the Properties.Tags of matching resources",
		New:         New,
	})
}

// New builds the tagging transform from an options mapping.
func New(tmpl template.Template, options map[string]any) (*transform.Transform, error) {
	tags, err := tagList(options)
	if err != nil {
		return nil, err
	}
	spec, err := typeSpec(options)
	if err != nil {
		return nil, err
	}

	rules := transform.Rules{
		ResourceType: spec,
		Resource: func(ctx context.Context, logicalID string, res map[string]any) (map[string]any, error) {
			return nil, appendTags(res, tags)
		},
	}
	return transform.New(tmpl, rules, transform.WithOptions(options))
}

type tag struct {
	key   string
	value any
}

func tagList(options map[string]any) ([]tag, error) {
	raw, ok := options["tags"].(map[string]any)
	if !ok || len(raw) == 0 {
		return nil, errors.New("tagger: options must carry a non-empty tags mapping")
	}
	tags := make([]tag, 0, len(raw))
	for k, v := range raw {
		tags = append(tags, tag{key: k, value: v})
	}
	// Deterministic output regardless of options map order.
	sort.Slice(tags, func(i, j int) bool { return tags[i].key < tags[j].key })
	return tags, nil
}

func typeSpec(options map[string]any) (transform.TypeSpec, error) {
	raw, ok := options["types"]
	if !ok {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, errors.Errorf("tagger: types must be a list, got %T", raw)
	}

	specs := make([]transform.TypeSpec, 0, len(list))
	for _, e := range list {
		s, ok := e.(string)
		if !ok {
			return nil, errors.Errorf("tagger: type entry must be a string, got %T", e)
		}
		if strings.ContainsAny(s, "*?[") {
			specs = append(specs, transform.Glob(s))
		} else {
			specs = append(specs, transform.Literal(s))
		}
	}
	return transform.AnyOf(specs...), nil
}

// appendTags adds missing tags to the resource's Properties.Tags list.
// Existing tag keys win over configured ones.
func appendTags(res map[string]any, tags []tag) error {
	props, ok := res["Properties"].(map[string]any)
	if !ok {
		if res["Properties"] != nil {
			return errors.New("tagger: Properties is not a mapping")
		}
		props = map[string]any{}
		res["Properties"] = props
	}

	existing, ok := props["Tags"].([]any)
	if !ok && props["Tags"] != nil {
		return errors.New("tagger: Properties.Tags is not a list")
	}

	seen := map[string]bool{}
	for _, e := range existing {
		if m, ok := e.(map[string]any); ok {
			if k, ok := m["Key"].(string); ok {
				seen[k] = true
			}
		}
	}

	for _, t := range tags {
		if seen[t.key] {
			continue
		}
		existing = append(existing, map[string]any{"Key": t.key, "Value": t.value})
	}
	props["Tags"] = existing
	return nil
}
