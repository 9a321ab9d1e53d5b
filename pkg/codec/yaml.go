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

package codec

import (
	"strings"

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/cloudmorph/cloudmorph/pkg/template"
)

func init() {
	Register(YAMLCodec{})
}

// 🔧 YAMLCodec implements the Codec interface for YAML templates.
type YAMLCodec struct{}

// 🔍 CanHandle checks if this codec handles the given file.
func (YAMLCodec) CanHandle(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

// 📝 Decode parses a YAML template document.
func (YAMLCodec) Decode(data []byte) (template.Template, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Errorf("parsing YAML template: %w", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return template.Template(raw), nil
}

// 📝 Encode serializes a template document as YAML.
func (YAMLCodec) Encode(tmpl template.Template) ([]byte, error) {
	out, err := yaml.Marshal(tmpl)
	if err != nil {
		return nil, errors.Errorf("encoding YAML template: %w", err)
	}
	return out, nil
}
