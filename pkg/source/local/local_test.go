package local

import (
	"context"
	"io/fs"
	"path/filepath"
	"testing"

	"gitlab.com/tozd/go/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudmorph/cloudmorph/pkg/source"
)

func TestLocalRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "stack.yaml")

	sink, err := source.ResolveSink(ctx, path)
	require.NoError(t, err)
	require.NoError(t, sink.Store(ctx, []byte("Resources: {}\n")))

	src, err := source.Resolve(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, path, src.Name())

	data, err := src.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Resources: {}\n", string(data))
}

func TestLocalFetch_Missing(t *testing.T) {
	src, err := source.Resolve(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	_, err = src.Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestNew_EmptyLocation(t *testing.T) {
	_, _, err := New(context.Background(), "")
	require.Error(t, err)
}
