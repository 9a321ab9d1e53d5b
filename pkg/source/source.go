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

// Package source resolves template locations to readers and writers.
// Locations are plain paths ("-" for stdin/stdout) or scheme-prefixed
// URLs ("github://owner/repo@ref/path", "s3://bucket/key"); providers
// register themselves by scheme at init time.
package source

import (
	"context"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🔌 Source fetches a template's raw bytes.
type Source interface {
	// 📄 Fetch retrieves the template contents.
	Fetch(ctx context.Context) ([]byte, error)

	// 📝 Name returns the location's display name, used for codec
	// selection and logging.
	Name() string
}

// 🔌 Sink writes transformed output. Not every provider can write; the
// CLI reports an error when the output location's provider cannot.
type Sink interface {
	// 📤 Store writes the serialized template.
	Store(ctx context.Context, data []byte) error
}

// 🏭 Factory creates a source or sink for a location. The location is
// passed without its scheme prefix. A provider that cannot write
// returns a nil Sink.
type Factory func(ctx context.Context, location string) (Source, Sink, error)

// 🗺️ providers maps scheme names to factories.
var providers = make(map[string]Factory)

// 📝 Register registers a provider factory for a scheme.
func Register(scheme string, factory Factory) {
	providers[scheme] = factory
}

// 🎯 Resolve returns the source for a location. Locations without a
// registered scheme resolve to the local provider.
func Resolve(ctx context.Context, location string) (Source, error) {
	src, _, err := resolve(ctx, location)
	return src, err
}

// 🎯 ResolveSink returns the sink for a location.
func ResolveSink(ctx context.Context, location string) (Sink, error) {
	_, sink, err := resolve(ctx, location)
	if err != nil {
		return nil, err
	}
	if sink == nil {
		return nil, errors.Errorf("location %q is not writable", location)
	}
	return sink, nil
}

func resolve(ctx context.Context, location string) (Source, Sink, error) {
	scheme, rest := split(location)
	factory, ok := providers[scheme]
	if !ok {
		return nil, nil, errors.Errorf("unknown location scheme %q", scheme)
	}
	return factory(ctx, rest)
}

func split(location string) (scheme, rest string) {
	before, after, found := strings.Cut(location, "://")
	if !found || before == "" {
		return "local", location
	}
	return before, after
}
