package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isometry/gh-webhook-gateway/internal/storage"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()

	_, err := kv.Get(ctx, "absent")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, kv.Put(ctx, "key", []byte("value")))
	got, err := kv.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), got)

	// The stored value is isolated from later mutation of the returned slice.
	got[0] = 'X'
	again, err := kv.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), again)

	require.NoError(t, kv.Delete(ctx, "key"))
	_, err = kv.Get(ctx, "key")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// Deleting an absent key is not an error.
	assert.NoError(t, kv.Delete(ctx, "key"))
}
