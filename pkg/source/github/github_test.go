package github

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		name      string
		location  string
		wantOwner string
		wantRepo  string
		wantRef   string
		wantPath  string
		wantError bool
	}{
		{
			name:      "with_ref",
			location:  "acme/stacks@v1.2.0/templates/app.yaml",
			wantOwner: "acme",
			wantRepo:  "stacks",
			wantRef:   "v1.2.0",
			wantPath:  "templates/app.yaml",
		},
		{
			name:      "default_branch",
			location:  "acme/stacks/app.yaml",
			wantOwner: "acme",
			wantRepo:  "stacks",
			wantPath:  "app.yaml",
		},
		{
			name:      "nested_path",
			location:  "acme/stacks@main/a/b/c.json",
			wantOwner: "acme",
			wantRepo:  "stacks",
			wantRef:   "main",
			wantPath:  "a/b/c.json",
		},
		{
			name:      "missing_path",
			location:  "acme/stacks",
			wantError: true,
		},
		{
			name:      "empty_owner",
			location:  "/stacks/app.yaml",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, ref, path, err := parseLocation(tt.location)
			if tt.wantError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOwner, owner)
			assert.Equal(t, tt.wantRepo, repo)
			assert.Equal(t, tt.wantRef, ref)
			assert.Equal(t, tt.wantPath, path)
		})
	}
}
