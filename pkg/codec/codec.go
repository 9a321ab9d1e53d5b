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

// Package codec decodes and encodes template documents. Codecs are
// selected by filename; YAML is the default for nameless inputs such as
// stdin.
package codec

import (
	"github.com/cloudmorph/cloudmorph/pkg/template"
)

// 🔌 Codec is the interface for template (de)serializers.
type Codec interface {
	// 🔍 CanHandle checks if this codec handles the given file.
	CanHandle(filename string) bool

	// 📝 Decode parses a template document from bytes.
	Decode(data []byte) (template.Template, error)

	// 📝 Encode serializes a template document.
	Encode(tmpl template.Template) ([]byte, error)
}

// 🗺️ codecs is the list of available codecs.
var codecs []Codec

// 📝 Register registers a codec.
func Register(c Codec) {
	codecs = append(codecs, c)
}

// 🎯 ForFile returns the codec that handles the given file, falling back
// to YAML.
func ForFile(filename string) Codec {
	for _, c := range codecs {
		if c.CanHandle(filename) {
			return c
		}
	}
	return Default()
}

// Default returns the YAML codec.
func Default() Codec {
	return YAMLCodec{}
}
