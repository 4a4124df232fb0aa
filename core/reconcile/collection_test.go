package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollection_RefreshContract(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore().Seed(RemoteWhitelist,
		Record{Email: "a@x.com", Handle: "Alice", Identifier: "11"},
	)
	c := NewCollection(RemoteWhitelist, store)

	assert.True(t, c.Stale(), "a new collection has not been loaded")
	_, _, err := c.Find(FieldHandle, "Alice")
	assert.ErrorIs(t, err, ErrStaleCollection)

	require.NoError(t, c.Refresh(ctx))
	row, ok, err := c.Find(FieldHandle, "Alice")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, c.Delete(ctx, row))
	assert.True(t, c.Stale())
	_, err = c.Rows()
	assert.ErrorIs(t, err, ErrStaleCollection)

	require.NoError(t, c.Refresh(ctx))
	_, ok, err = c.Find(FieldHandle, "Alice")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCollection_FindReturnsFirstMatch(t *testing.T) {
	store := NewMemoryStore().Seed(RemoteWhitelist,
		Record{Email: "a@x.com", Handle: "Alice", Identifier: "11"},
		Record{Email: "a@x.com", Handle: "Alice2", Identifier: "12"},
	)
	c := NewCollection(RemoteWhitelist, store)
	require.NoError(t, c.Refresh(context.Background()))

	tests := []struct {
		name   string
		field  Field
		value  string
		want   string
		wantOK bool
	}{
		{"by email", FieldEmail, "a@x.com", "Alice", true},
		{"by handle", FieldHandle, "Alice2", "Alice2", true},
		{"by identifier", FieldIdentifier, "12", "Alice2", true},
		{"no match", FieldHandle, "Bob", "", false},
		{"empty never matches", FieldIdentifier, "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, ok, err := c.Find(tt.field, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, row.Record.Handle)
		})
	}
}

func TestCollection_RequestsAreReadOnly(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore().Seed(Requests, Record{Email: "b@x.com", Handle: "Bob"})
	c := NewCollection(Requests, store)
	require.NoError(t, c.Refresh(ctx))

	err := c.Append(ctx, []Record{{Handle: "Mallory"}})
	assert.ErrorIs(t, err, ErrReadOnlyCollection)

	rows, err := c.Rows()
	require.NoError(t, err)
	err = c.Delete(ctx, rows[0])
	assert.ErrorIs(t, err, ErrReadOnlyCollection)

	assert.ErrorIs(t, store.Append(ctx, Requests, []Record{{Handle: "Mallory"}}), ErrReadOnlyCollection)
	assert.ErrorIs(t, store.Delete(ctx, Requests, 0), ErrReadOnlyCollection)
}

func TestMemoryStore_DeleteKeepsIndices(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore().Seed(RemoteBans,
		Record{Handle: "A"}, Record{Handle: "B"}, Record{Handle: "C"},
	)

	require.NoError(t, store.Delete(ctx, RemoteBans, 1))
	rows, err := store.Fetch(ctx, RemoteBans)
	require.NoError(t, err)

	assert.Equal(t, []Row{{Index: 0, Record: Record{Handle: "A"}}, {Index: 2, Record: Record{Handle: "C"}}}, rows)
	assert.Error(t, store.Delete(ctx, RemoteBans, 7))
}

func TestCloneStore_PreservesIndices(t *testing.T) {
	ctx := context.Background()
	src := NewMemoryStore().Seed(RemoteWhitelist,
		Record{Handle: "A"}, Record{Handle: "B"}, Record{Handle: "C"},
	)
	require.NoError(t, src.Delete(ctx, RemoteWhitelist, 0))

	clone, err := CloneStore(ctx, src)
	require.NoError(t, err)

	want, _ := src.Fetch(ctx, RemoteWhitelist)
	got, _ := clone.Fetch(ctx, RemoteWhitelist)
	assert.Equal(t, want, got)

	require.NoError(t, clone.Delete(ctx, RemoteWhitelist, 2))
	assert.Len(t, src.Records(RemoteWhitelist), 2, "clone mutations do not reach the source")
}
