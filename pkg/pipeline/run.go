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

package pipeline

import (
	"context"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/cloudmorph/cloudmorph/pkg/codec"
	"github.com/cloudmorph/cloudmorph/pkg/registry"
	"github.com/cloudmorph/cloudmorph/pkg/source"
	"github.com/cloudmorph/cloudmorph/pkg/transform"
)

// Result describes one transformed template.
type Result struct {
	Input   string
	Output  string
	Summary transform.Summary
}

// Run applies the pipeline's transform to every input template. Results
// are returned in input order; the first failure aborts the run.
func Run(ctx context.Context, cfg *Config) ([]Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	reg, ok := registry.Get(cfg.Transform)
	if !ok {
		return nil, errors.Errorf("unknown transform %q", cfg.Transform)
	}

	inputs, err := expandInputs(cfg.Inputs)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().
		Str("transform", cfg.Transform).
		Int("inputs", len(inputs)).
		Bool("async", cfg.Async).
		Msg("running pipeline")

	results := make([]Result, len(inputs))

	if !cfg.Async {
		for i, input := range inputs {
			res, err := applyOne(ctx, reg, cfg, input)
			if err != nil {
				return nil, err
			}
			results[i] = res
		}
		return results, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, input := range inputs {
		i, input := i, input
		g.Go(func() error {
			res, err := applyOne(ctx, reg, cfg, input)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// expandInputs resolves doublestar globs in local entries.
// Scheme-prefixed entries pass through verbatim.
func expandInputs(inputs []string) ([]string, error) {
	var out []string
	for _, input := range inputs {
		if strings.Contains(input, "://") || !strings.ContainsAny(input, "*?[{") {
			out = append(out, input)
			continue
		}
		matches, err := doublestar.FilepathGlob(input)
		if err != nil {
			return nil, errors.Errorf("bad input glob %q: %w", input, err)
		}
		if len(matches) == 0 {
			return nil, errors.Errorf("input glob %q matched no files", input)
		}
		out = append(out, matches...)
	}
	return out, nil
}

func applyOne(ctx context.Context, reg registry.Registration, cfg *Config, input string) (Result, error) {
	src, err := source.Resolve(ctx, input)
	if err != nil {
		return Result{}, errors.Errorf("input %s: %w", input, err)
	}
	data, err := src.Fetch(ctx)
	if err != nil {
		return Result{}, errors.Errorf("input %s: %w", input, err)
	}

	c := codec.ForFile(src.Name())
	tmpl, err := c.Decode(data)
	if err != nil {
		return Result{}, errors.Errorf("input %s: %w", input, err)
	}

	tr, err := reg.New(tmpl, cfg.Options)
	if err != nil {
		return Result{}, errors.Errorf("input %s: building transform: %w", input, err)
	}
	out, err := tr.Apply(ctx)
	if err != nil {
		return Result{}, errors.Errorf("input %s: applying transform: %w", input, err)
	}

	encoded, err := c.Encode(out)
	if err != nil {
		return Result{}, errors.Errorf("input %s: %w", input, err)
	}

	dest := outputLocation(cfg.Output, src.Name())
	sink, err := source.ResolveSink(ctx, dest)
	if err != nil {
		return Result{}, errors.Errorf("output %s: %w", dest, err)
	}
	if err := sink.Store(ctx, encoded); err != nil {
		return Result{}, errors.Errorf("output %s: %w", dest, err)
	}

	return Result{Input: input, Output: dest, Summary: tr.Summary()}, nil
}

func outputLocation(output, name string) string {
	if output == "-" {
		return "-"
	}
	return filepath.Join(output, filepath.Base(name))
}
