package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestFileStoreRoundTrip(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, value := range []string{"T1", "7", "", `with "quotes" and spaces`} {
		require.NoError(t, fs.Set(ctx, KeySession, strPtr(value)))

		got, ok, err := fs.Get(ctx, KeySession)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, value, got)
	}
}

func TestFileStoreMissingKey(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, ok, err := fs.Get(context.Background(), KeyUserID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStoreNilValueErases(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, fs.Set(ctx, KeySession, strPtr("T1")))
	require.NoError(t, fs.Set(ctx, KeySession, nil))

	_, ok, err := fs.Get(ctx, KeySession)
	require.NoError(t, err)
	assert.False(t, ok)

	// Erasing an absent key is not an error.
	require.NoError(t, fs.Set(ctx, KeySession, nil))
}

func TestMemStoreRoundTrip(t *testing.T) {
	ms := NewMemStore()
	ctx := context.Background()

	require.NoError(t, ms.Set(ctx, KeyUserID, strPtr("42")))
	got, ok, err := ms.Get(ctx, KeyUserID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "42", got)

	require.NoError(t, ms.Set(ctx, KeyUserID, nil))
	_, ok, err = ms.Get(ctx, KeyUserID)
	require.NoError(t, err)
	assert.False(t, ok)
}
