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
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// LoadConfig loads a pipeline file from the given path. The format is
// determined by the file extension:
// - .json for JSON
// - .yaml or .yml for YAML
// - .hcl for HCL
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading pipeline file: %w", err)
	}

	var cfg *Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		cfg, err = loadJSON(data)
	case ".yaml", ".yml":
		cfg, err = loadYAML(data)
	case ".hcl":
		cfg, err = loadHCL(data, path)
	default:
		return nil, errors.Errorf("unsupported pipeline file extension %q", ext)
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating pipeline: %w", err)
	}
	return cfg, nil
}

type rawConfig struct {
	Transform string         `yaml:"transform" json:"transform"`
	Options   map[string]any `yaml:"options,omitempty" json:"options,omitempty"`
	Inputs    []string       `yaml:"inputs" json:"inputs"`
	Output    string         `yaml:"output" json:"output"`
	Async     bool           `yaml:"async,omitempty" json:"async,omitempty"`
}

func (r rawConfig) config() *Config {
	return &Config{
		Transform: r.Transform,
		Options:   r.Options,
		Inputs:    r.Inputs,
		Output:    r.Output,
		Async:     r.Async,
	}
}

func loadYAML(data []byte) (*Config, error) {
	var raw rawConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil {
		return nil, errors.Errorf("parsing YAML pipeline: %w", err)
	}
	return raw.config(), nil
}

func loadJSON(data []byte) (*Config, error) {
	var raw rawConfig
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&raw); err != nil {
		return nil, errors.Errorf("parsing JSON pipeline: %w", err)
	}
	return raw.config(), nil
}

func loadHCL(data []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL pipeline: %s", diags.Error())
	}

	type hclConfig struct {
		Transform string    `hcl:"transform"`
		Options   cty.Value `hcl:"options,optional"`
		Inputs    []string  `hcl:"inputs"`
		Output    string    `hcl:"output"`
		Async     bool      `hcl:"async,optional"`
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var hclCfg hclConfig
	if diags := gohcl.DecodeBody(file.Body, evalCtx, &hclCfg); diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL pipeline: %s", diags.Error())
	}

	options, err := ctyToOptions(hclCfg.Options)
	if err != nil {
		return nil, err
	}

	return &Config{
		Transform: hclCfg.Transform,
		Options:   options,
		Inputs:    hclCfg.Inputs,
		Output:    hclCfg.Output,
		Async:     hclCfg.Async,
	}, nil
}

// ctyToOptions converts the options attribute to the plain Go mapping
// transforms expect.
func ctyToOptions(v cty.Value) (map[string]any, error) {
	if v == cty.NilVal || v.IsNull() {
		return nil, nil
	}
	converted, err := ctyToGo(v)
	if err != nil {
		return nil, err
	}
	m, ok := converted.(map[string]any)
	if !ok {
		return nil, errors.Errorf("options must be an object, got %s", v.Type().FriendlyName())
	}
	return m, nil
}

func ctyToGo(v cty.Value) (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil
	case ty == cty.Bool:
		return v.True(), nil
	case ty == cty.Number:
		bf := v.AsBigFloat()
		if i, acc := bf.Int64(); acc == 0 {
			return int(i), nil
		}
		f, _ := bf.Float64()
		return f, nil
	case ty.IsObjectType() || ty.IsMapType():
		out := map[string]any{}
		for key, elem := range v.AsValueMap() {
			converted, err := ctyToGo(elem)
			if err != nil {
				return nil, err
			}
			out[key] = converted
		}
		return out, nil
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		var out []any
		for _, elem := range v.AsValueSlice() {
			converted, err := ctyToGo(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, converted)
		}
		return out, nil
	default:
		return nil, errors.Errorf("unsupported option value type %s", ty.FriendlyName())
	}
}
