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
	"encoding/json"
	"strings"

	"gitlab.com/tozd/go/errors"

	"github.com/cloudmorph/cloudmorph/pkg/template"
)

func init() {
	Register(JSONCodec{})
}

// 🔧 JSONCodec implements the Codec interface for JSON templates.
// CloudFormation's conventional ".template" extension is treated as
// JSON.
type JSONCodec struct{}

// 🔍 CanHandle checks if this codec handles the given file.
func (JSONCodec) CanHandle(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".json") || strings.HasSuffix(name, ".template")
}

// 📝 Decode parses a JSON template document. Templates are open
// documents, so unknown fields are left as-is rather than rejected.
func (JSONCodec) Decode(data []byte) (template.Template, error) {
	var tmpl template.Template
	if err := json.Unmarshal(data, &tmpl); err != nil {
		return nil, errors.Errorf("parsing JSON template: %w", err)
	}
	if tmpl == nil {
		tmpl = template.Template{}
	}
	return tmpl, nil
}

// 📝 Encode serializes a template document as indented JSON.
func (JSONCodec) Encode(tmpl template.Template) ([]byte, error) {
	out, err := json.MarshalIndent(tmpl, "", "  ")
	if err != nil {
		return nil, errors.Errorf("encoding JSON template: %w", err)
	}
	return append(out, '\n'), nil
}
