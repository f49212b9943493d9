package tracking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreGetUnknown(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "CMP-00000")
	assert.ErrorIs(t, err, ErrCaseNotFound)
}

func TestMemoryStoreCreateAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, sampleCase()))

	got, err := store.Get(ctx, "CMP-12345")
	require.NoError(t, err)
	assert.Equal(t, StatusNew, got.Status)
}

func TestMemoryStoreSaveUnknown(t *testing.T) {
	store := NewMemoryStore()

	err := store.Save(context.Background(), sampleCase())
	assert.ErrorIs(t, err, ErrCaseNotFound)
}

func TestMemoryStoreIsolation(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	original := sampleCase()
	require.NoError(t, store.Create(ctx, original))

	// Mutating the caller's copy must not affect the stored record.
	original.Status = StatusResolved
	original.AuthorizedUsers[0] = "intruder"

	got, err := store.Get(ctx, "CMP-12345")
	require.NoError(t, err)
	assert.Equal(t, StatusNew, got.Status)
	assert.Equal(t, []string{"user123"}, got.AuthorizedUsers)

	// Mutating a returned copy must not affect the stored record either.
	got.Progress = 99
	again, err := store.Get(ctx, "CMP-12345")
	require.NoError(t, err)
	assert.Equal(t, 55, again.Progress)
}
