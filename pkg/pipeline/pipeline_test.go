package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudmorph/cloudmorph/pkg/codec"
	"github.com/cloudmorph/cloudmorph/pkg/registry"
	"github.com/cloudmorph/cloudmorph/pkg/template"
	"github.com/cloudmorph/cloudmorph/pkg/transform"

	_ "github.com/cloudmorph/cloudmorph/pkg/source/local"
)

func init() {
	// A minimal transform for pipeline tests: stamps Metadata with the
	// value of the "stamp" option.
	registry.Register(registry.Registration{
		Name:        "test-stamp",
		Description: "stamps Metadata.Stamp",
		New: func(tmpl template.Template, options map[string]any) (*transform.Transform, error) {
			return transform.New(tmpl, transform.Rules{
				Sections: map[string]transform.SectionRule{
					template.SectionMetadata: func(ctx context.Context, tmpl template.Template) (map[string]any, error) {
						return map[string]any{"Stamp": options["stamp"]}, nil
					},
				},
			}, transform.WithOptions(options))
		},
	})
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: "pipeline.yaml",
			content: `
transform: test-stamp
options:
  stamp: from-yaml
  count: 3
inputs:
  - stacks/*.yaml
output: out
`,
		},
		{
			name: "json",
			file: "pipeline.json",
			content: `{
  "transform": "test-stamp",
  "options": {"stamp": "from-json", "count": 3},
  "inputs": ["stacks/*.yaml"],
  "output": "out"
}`,
		},
		{
			name: "hcl",
			file: "pipeline.hcl",
			content: `
transform = "test-stamp"
options = {
  stamp = "from-hcl"
  count = 3
}
inputs = ["stacks/*.yaml"]
output = "out"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			writeFile(t, path, tt.content)

			cfg, err := LoadConfig(path)
			require.NoError(t, err)
			assert.Equal(t, "test-stamp", cfg.Transform)
			assert.Equal(t, []string{"stacks/*.yaml"}, cfg.Inputs)
			assert.Equal(t, "out", cfg.Output)
			assert.EqualValues(t, 3, cfg.Options["count"])
			assert.Contains(t, cfg.Options["stamp"], "from-")
		})
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "unknown_yaml_field", file: "a.yaml", content: "transform: x\ninputs: [y]\noutput: o\nbogus: true\n"},
		{name: "unknown_json_field", file: "a.json", content: `{"transform":"x","inputs":["y"],"output":"o","bogus":true}`},
		{name: "missing_transform", file: "b.yaml", content: "inputs: [y]\noutput: o\n"},
		{name: "missing_inputs", file: "c.yaml", content: "transform: x\noutput: o\n"},
		{name: "missing_output", file: "d.yaml", content: "transform: x\ninputs: [y]\n"},
		{name: "async_stdout", file: "e.yaml", content: "transform: x\ninputs: [y]\noutput: '-'\nasync: true\n"},
		{name: "bad_extension", file: "f.toml", content: "x = 1\n"},
		{name: "bad_hcl", file: "g.hcl", content: "transform = \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			writeFile(t, path, tt.content)
			_, err := LoadConfig(path)
			require.Error(t, err)
		})
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	inDir := filepath.Join(dir, "stacks")
	outDir := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(inDir, 0o755))
	require.NoError(t, os.MkdirAll(outDir, 0o755))

	writeFile(t, filepath.Join(inDir, "a.yaml"), "Resources:\n  A:\n    Type: X\n")
	writeFile(t, filepath.Join(inDir, "b.yaml"), "Resources:\n  B:\n    Type: Y\n")

	for _, async := range []bool{false, true} {
		name := "sync"
		if async {
			name = "async"
		}
		t.Run(name, func(t *testing.T) {
			results, err := Run(context.Background(), &Config{
				Transform: "test-stamp",
				Options:   map[string]any{"stamp": "ok"},
				Inputs:    []string{filepath.Join(inDir, "*.yaml")},
				Output:    outDir,
				Async:     async,
			})
			require.NoError(t, err)
			require.Len(t, results, 2)

			for _, res := range results {
				assert.Equal(t, 1, res.Summary.SectionEntries["Metadata"])

				data, err := os.ReadFile(res.Output)
				require.NoError(t, err)
				tmpl, err := codec.Default().Decode(data)
				require.NoError(t, err)
				assert.Equal(t, "ok", tmpl.Section("Metadata")["Stamp"])
			}
		})
	}
}

func TestRun_UnknownTransform(t *testing.T) {
	_, err := Run(context.Background(), &Config{
		Transform: "does-not-exist",
		Inputs:    []string{"x.yaml"},
		Output:    "-",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does-not-exist")
}

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.yaml"), "{}\n")
	writeFile(t, filepath.Join(dir, "b.yaml"), "{}\n")

	t.Run("glob", func(t *testing.T) {
		got, err := expandInputs([]string{filepath.Join(dir, "*.yaml")})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("scheme_passthrough", func(t *testing.T) {
		got, err := expandInputs([]string{"s3://bucket/stacks/*.yaml"})
		require.NoError(t, err)
		assert.Equal(t, []string{"s3://bucket/stacks/*.yaml"}, got)
	})

	t.Run("plain_path_passthrough", func(t *testing.T) {
		got, err := expandInputs([]string{filepath.Join(dir, "missing.yaml")})
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("no_match", func(t *testing.T) {
		_, err := expandInputs([]string{filepath.Join(dir, "*.json")})
		require.Error(t, err)
	})
}
