package businessdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_CreateRecord(t *testing.T) {
	store := NewMemoryStore("customers")

	recordID, err := store.CreateRecord(t.Context(), "customers", map[string]any{"Email": "a@b.c"})
	require.NoError(t, err)
	require.NotEmpty(t, recordID)

	record, ok := store.Record("customers", recordID)
	require.True(t, ok)
	assert.Equal(t, "a@b.c", record["Email"])

	_, err = store.CreateRecord(t.Context(), "ghost", nil)
	assert.ErrorIs(t, err, ErrDatabaseNotFound)
}

func TestMemoryStore_UpdateRecord(t *testing.T) {
	store := NewMemoryStore("customers")

	recordID, err := store.CreateRecord(t.Context(), "customers", map[string]any{"Email": "a@b.c"})
	require.NoError(t, err)

	err = store.UpdateRecord(t.Context(), "customers", recordID, map[string]any{"Email": "new@b.c", "Name": "Ada"})
	require.NoError(t, err)

	record, _ := store.Record("customers", recordID)
	assert.Equal(t, "new@b.c", record["Email"])
	assert.Equal(t, "Ada", record["Name"])

	err = store.UpdateRecord(t.Context(), "customers", "missing", nil)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	err = store.UpdateRecord(t.Context(), "ghost", recordID, nil)
	assert.ErrorIs(t, err, ErrDatabaseNotFound)
}

func TestMemoryStore_DeleteRecord(t *testing.T) {
	store := NewMemoryStore("customers")

	recordID, err := store.CreateRecord(t.Context(), "customers", nil)
	require.NoError(t, err)

	require.NoError(t, store.DeleteRecord(t.Context(), "customers", recordID))

	_, ok := store.Record("customers", recordID)
	assert.False(t, ok)

	// Deleting an already-deleted record is not an error.
	assert.NoError(t, store.DeleteRecord(t.Context(), "customers", recordID))

	assert.ErrorIs(t, store.DeleteRecord(t.Context(), "ghost", "x"), ErrDatabaseNotFound)
}

func TestMemoryStore_CreateDatabase(t *testing.T) {
	store := NewMemoryStore()

	store.CreateDatabase("orders")

	_, err := store.CreateRecord(t.Context(), "orders", map[string]any{"Total": 10})
	assert.NoError(t, err)
}
