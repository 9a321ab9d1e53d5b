package tagger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudmorph/cloudmorph/pkg/registry"
	"github.com/cloudmorph/cloudmorph/pkg/template"
)

func TestTagger(t *testing.T) {
	tmpl := template.Template{
		"Resources": map[string]any{
			"Bucket": map[string]any{
				"Type": "AWS::S3::Bucket",
				"Properties": map[string]any{
					"Tags": []any{
						map[string]any{"Key": "team", "Value": "storage"},
					},
				},
			},
			"Queue": map[string]any{"Type": "AWS::SQS::Queue"},
			"Role":  map[string]any{"Type": "AWS::IAM::Role"},
		},
	}

	tr, err := New(tmpl, map[string]any{
		"tags": map[string]any{
			"env":  "prod",
			"team": "platform",
		},
		"types": []any{"AWS::S3::*", "AWS::SQS::Queue"},
	})
	require.NoError(t, err)

	got, err := tr.Apply(context.Background())
	require.NoError(t, err)

	bucket := got.Resources()["Bucket"].(map[string]any)
	assert.Equal(t, []any{
		// The existing team tag wins over the configured one.
		map[string]any{"Key": "team", "Value": "storage"},
		map[string]any{"Key": "env", "Value": "prod"},
	}, bucket["Properties"].(map[string]any)["Tags"])

	queue := got.Resources()["Queue"].(map[string]any)
	assert.Equal(t, []any{
		map[string]any{"Key": "env", "Value": "prod"},
		map[string]any{"Key": "team", "Value": "platform"},
	}, queue["Properties"].(map[string]any)["Tags"])

	// IAM role does not match any type spec.
	role := got.Resources()["Role"].(map[string]any)
	assert.Nil(t, role["Properties"])
}

func TestTagger_AllResourcesWhenNoTypes(t *testing.T) {
	tmpl := template.Template{
		"Resources": map[string]any{
			"Role": map[string]any{"Type": "AWS::IAM::Role"},
		},
	}

	tr, err := New(tmpl, map[string]any{
		"tags": map[string]any{"env": "dev"},
	})
	require.NoError(t, err)

	got, err := tr.Apply(context.Background())
	require.NoError(t, err)

	role := got.Resources()["Role"].(map[string]any)
	assert.Equal(t, []any{
		map[string]any{"Key": "env", "Value": "dev"},
	}, role["Properties"].(map[string]any)["Tags"])
}

func TestTagger_InvalidOptions(t *testing.T) {
	tests := []struct {
		name    string
		options map[string]any
	}{
		{name: "missing_tags", options: map[string]any{}},
		{name: "empty_tags", options: map[string]any{"tags": map[string]any{}}},
		{name: "types_not_a_list", options: map[string]any{"tags": map[string]any{"a": "b"}, "types": "AWS::S3::Bucket"}},
		{name: "type_entry_not_a_string", options: map[string]any{"tags": map[string]any{"a": "b"}, "types": []any{42}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(template.Template{}, tt.options)
			require.Error(t, err)
		})
	}
}

func TestTagger_Registered(t *testing.T) {
	r, ok := registry.Get("tagger")
	require.True(t, ok)
	assert.NotEmpty(t, r.Description)
}
