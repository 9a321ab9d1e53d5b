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

// Package local reads and writes templates on the local filesystem,
// with "-" standing for stdin and stdout.
package local

import (
	"context"
	"io"
	"os"

	"gitlab.com/tozd/go/errors"

	"github.com/cloudmorph/cloudmorph/pkg/source"
)

func init() {
	source.Register("local", New)
}

// Stdio is the location naming stdin as a source and stdout as a sink.
const Stdio = "-"

// 🏭 New creates a local source and sink for a path.
func New(ctx context.Context, location string) (source.Source, source.Sink, error) {
	if location == "" {
		return nil, nil, errors.New("empty location")
	}
	l := &localFile{path: location}
	return l, l, nil
}

type localFile struct {
	path string
}

func (l *localFile) Name() string {
	return l.path
}

func (l *localFile) Fetch(ctx context.Context) ([]byte, error) {
	if l.path == Stdio {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, errors.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, errors.Errorf("reading template file: %w", err)
	}
	return data, nil
}

func (l *localFile) Store(ctx context.Context, data []byte) error {
	if l.path == Stdio {
		if _, err := os.Stdout.Write(data); err != nil {
			return errors.Errorf("writing stdout: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(l.path, data, 0o644); err != nil {
		return errors.Errorf("writing template file: %w", err)
	}
	return nil
}
