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

// Package handler is an event-driven entry point for running transforms
// inside a function runtime. An event carries the template inline or as
// an S3 location; the transformed template is returned and, when an
// output location is set, uploaded.
package handler

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/cloudmorph/cloudmorph/pkg/codec"
	"github.com/cloudmorph/cloudmorph/pkg/registry"
	"github.com/cloudmorph/cloudmorph/pkg/source/s3"
	"github.com/cloudmorph/cloudmorph/pkg/template"
)

// Location names an S3 object. Field names follow the CloudFormation
// event convention.
type Location struct {
	Bucket string `json:"Bucket"`
	Key    string `json:"Key"`
}

// Event is one transformation request. Exactly one of TemplateBody and
// TemplateLocation must be set.
type Event struct {
	// Transform is the registry name of the transform to run.
	Transform string `json:"Transform"`

	// Options is handed to the transform unchanged.
	Options map[string]any `json:"Options,omitempty"`

	// TemplateBody is the template inline: a YAML/JSON string or an
	// already-decoded mapping.
	TemplateBody any `json:"TemplateBody,omitempty"`

	// TemplateLocation points at the template in S3.
	TemplateLocation *Location `json:"TemplateLocation,omitempty"`

	// OutputLocation, when set, receives the transformed template.
	OutputLocation *Location `json:"OutputLocation,omitempty"`
}

// Options configures a Handler.
type Options struct {
	// Client is the S3 client for template locations. When nil, one is
	// built from the ambient AWS configuration on first use.
	Client *awss3.Client
}

// Handler runs registry transforms on event templates.
type Handler struct {
	client *awss3.Client
}

// New creates a Handler.
func New(opts Options) *Handler {
	return &Handler{client: opts.Client}
}

// Handle runs one event and returns the transformed template.
func (h *Handler) Handle(ctx context.Context, ev Event) (template.Template, error) {
	reg, ok := registry.Get(ev.Transform)
	if !ok {
		return nil, errors.Errorf("unknown transform %q", ev.Transform)
	}

	tmpl, name, err := h.load(ctx, ev)
	if err != nil {
		return nil, err
	}

	tr, err := reg.New(tmpl, ev.Options)
	if err != nil {
		return nil, errors.Errorf("building transform %q: %w", ev.Transform, err)
	}
	out, err := tr.Apply(ctx)
	if err != nil {
		return nil, errors.Errorf("applying transform %q: %w", ev.Transform, err)
	}

	zerolog.Ctx(ctx).Info().
		Str("transform", ev.Transform).
		Str("template", name).
		Int("resources_processed", tr.Summary().ResourcesProcessed).
		Msg("transform applied")

	if ev.OutputLocation != nil {
		if err := h.store(ctx, *ev.OutputLocation, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (h *Handler) load(ctx context.Context, ev Event) (template.Template, string, error) {
	switch {
	case ev.TemplateBody != nil && ev.TemplateLocation != nil:
		return nil, "", errors.New("event carries both TemplateBody and TemplateLocation")

	case ev.TemplateBody != nil:
		switch body := ev.TemplateBody.(type) {
		case string:
			tmpl, err := codec.Default().Decode([]byte(body))
			if err != nil {
				return nil, "", err
			}
			return tmpl, "TemplateBody", nil
		case map[string]any:
			return template.Template(body), "TemplateBody", nil
		default:
			return nil, "", errors.Errorf("unsupported TemplateBody type %T", ev.TemplateBody)
		}

	case ev.TemplateLocation != nil:
		obj, err := h.object(ctx, *ev.TemplateLocation)
		if err != nil {
			return nil, "", err
		}
		data, err := obj.Fetch(ctx)
		if err != nil {
			return nil, "", err
		}
		tmpl, err := codec.ForFile(obj.Name()).Decode(data)
		if err != nil {
			return nil, "", err
		}
		return tmpl, obj.Name(), nil

	default:
		return nil, "", errors.New("event carries neither TemplateBody nor TemplateLocation")
	}
}

func (h *Handler) store(ctx context.Context, loc Location, tmpl template.Template) error {
	obj, err := h.object(ctx, loc)
	if err != nil {
		return err
	}
	data, err := codec.ForFile(loc.Key).Encode(tmpl)
	if err != nil {
		return err
	}
	return obj.Store(ctx, data)
}

func (h *Handler) object(ctx context.Context, loc Location) (*s3.Object, error) {
	if loc.Bucket == "" || loc.Key == "" {
		return nil, errors.Errorf("incomplete location %+v", loc)
	}
	if h.client == nil {
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, errors.Errorf("loading AWS config: %w", err)
		}
		h.client = awss3.NewFromConfig(cfg)
	}
	return s3.NewWithClient(h.client, fmt.Sprintf("%s/%s", loc.Bucket, loc.Key))
}
