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

// Package pipeline applies one named transform to a batch of templates.
// A pipeline file names the transform, its options, the input locations
// (globs allowed for local paths) and the output destination.
package pipeline

import (
	"gitlab.com/tozd/go/errors"
)

// Config is a parsed pipeline file.
type Config struct {
	// Transform is the registry name of the transform to apply.
	Transform string

	// Options is the opaque options mapping handed to the transform.
	Options map[string]any

	// Inputs are template locations. Local entries may be doublestar
	// globs; scheme-prefixed entries (github://, s3://) are taken
	// verbatim.
	Inputs []string

	// Output is a local directory to write transformed templates into,
	// or "-" for stdout.
	Output string

	// Async processes inputs concurrently. Each template is still one
	// synchronous pass.
	Async bool
}

// Validate checks if the configuration is valid.
func (cfg *Config) Validate() error {
	if cfg.Transform == "" {
		return errors.New("transform is required")
	}
	if len(cfg.Inputs) == 0 {
		return errors.New("at least one input is required")
	}
	if cfg.Output == "" {
		return errors.New("output is required")
	}
	if cfg.Async && cfg.Output == "-" {
		return errors.New("async output cannot be stdout")
	}
	return nil
}
