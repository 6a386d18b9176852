package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharedListRepository_UpsertCreatesThenUpdates(t *testing.T) {
	db := newTestDB(t)
	repo := NewSharedListRepository(db.Connection())

	record, created, err := repo.Upsert(42, "october")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(42), record.AccountID)
	assert.Equal(t, "october", record.ListName)
	assert.False(t, record.CreatedAt.IsZero())

	// Republishing replaces the name on the same row.
	record, created, err = repo.Upsert(42, "november")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "november", record.ListName)

	name, err := repo.LatestNameForAccount(42)
	require.NoError(t, err)
	assert.Equal(t, "november", name)

	// The replaced name is free again.
	inUse, err := repo.IsNameInUse("october", 0)
	require.NoError(t, err)
	assert.False(t, inUse)
}

func TestSharedListRepository_NameIsCaseInsensitivelyUnique(t *testing.T) {
	db := newTestDB(t)
	repo := NewSharedListRepository(db.Connection())

	_, _, err := repo.Upsert(1, "october")
	require.NoError(t, err)

	// A different account claiming a case variant hits the unique index.
	_, _, err = repo.Upsert(2, "October")
	assert.ErrorIs(t, err, ErrNameInUse)

	_, _, err = repo.Upsert(2, "OCTOBER")
	assert.ErrorIs(t, err, ErrNameInUse)

	// The owner republishing a case variant of its own name is fine.
	record, created, err := repo.Upsert(1, "OcToBeR")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "OcToBeR", record.ListName)
}

func TestSharedListRepository_IsNameInUse(t *testing.T) {
	db := newTestDB(t)
	repo := NewSharedListRepository(db.Connection())

	inUse, err := repo.IsNameInUse("october", 0)
	require.NoError(t, err)
	assert.False(t, inUse)

	_, _, err = repo.Upsert(1, "october")
	require.NoError(t, err)

	inUse, err = repo.IsNameInUse("OCTOBER", 0)
	require.NoError(t, err)
	assert.True(t, inUse)

	// Excluding the owning account treats the name as free.
	inUse, err = repo.IsNameInUse("october", 1)
	require.NoError(t, err)
	assert.False(t, inUse)

	inUse, err = repo.IsNameInUse("october", 2)
	require.NoError(t, err)
	assert.True(t, inUse)
}

func TestSharedListRepository_LatestNameForAccount_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewSharedListRepository(db.Connection())

	_, err := repo.LatestNameForAccount(999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSharedListRepository_ResolveAccountByName(t *testing.T) {
	db := newTestDB(t)
	repo := NewSharedListRepository(db.Connection())

	_, err := repo.ResolveAccountByName("ghost")
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = repo.Upsert(7, "My Horror Picks")
	require.NoError(t, err)

	accountID, err := repo.ResolveAccountByName("my horror picks")
	require.NoError(t, err)
	assert.Equal(t, int64(7), accountID)
}
