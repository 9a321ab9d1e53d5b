package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudmorph/cloudmorph/pkg/codec"
	_ "github.com/cloudmorph/cloudmorph/pkg/source/local"
	_ "github.com/cloudmorph/cloudmorph/pkg/transforms/tagger"
)

func TestParseOptions(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		pairs   []string
		want    map[string]any
		wantErr bool
	}{
		{
			name: "empty",
			want: nil,
		},
		{
			name:  "typed_values",
			pairs: []string{"count=3", "force=true", "name=web"},
			want:  map[string]any{"count": 3, "force": true, "name": "web"},
		},
		{
			name:  "value_containing_equals",
			pairs: []string{"expr=a=b"},
			want:  map[string]any{"expr": "a=b"},
		},
		{
			name:    "missing_equals",
			pairs:   []string{"count"},
			wantErr: true,
		},
		{
			name:    "empty_key",
			pairs:   []string{"=3"},
			wantErr: true,
		},
		{
			name:  "file_with_override",
			file:  "count: 1\nregion: us-east-1\n",
			pairs: []string{"count=2"},
			want:  map[string]any{"count": 2, "region": "us-east-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var file string
			if tt.file != "" {
				file = filepath.Join(t.TempDir(), "options.yaml")
				require.NoError(t, os.WriteFile(file, []byte(tt.file), 0o644))
			}

			got, err := parseOptions(context.Background(), file, tt.pairs)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyCmd(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "stack.yaml")
	output := filepath.Join(dir, "out.yaml")
	require.NoError(t, os.WriteFile(input, []byte(`
Resources:
  Bucket:
    Type: AWS::S3::Bucket
`), 0o644))

	cmd := NewApplyCmd()
	cmd.SetArgs([]string{"tagger", input, "-o", output, "--opt", "tags={team: infra}"})
	cmd.SetErr(&bytes.Buffer{})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	tmpl, err := codec.ForFile(output).Decode(data)
	require.NoError(t, err)

	res, ok := tmpl.Resources()["Bucket"].(map[string]any)
	require.True(t, ok)
	props, ok := res["Properties"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{map[string]any{"Key": "team", "Value": "infra"}}, props["Tags"])
}

func TestApplyCmd_UnknownTransform(t *testing.T) {
	cmd := NewApplyCmd()
	cmd.SetArgs([]string{"nope", "-"})
	cmd.SetErr(&bytes.Buffer{})
	require.Error(t, cmd.ExecuteContext(context.Background()))
}
