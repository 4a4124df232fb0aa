package dbstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"whitelist-sync/core/database"
	"whitelist-sync/core/reconcile"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupStore(t *testing.T) (*Store, *gorm.DB) {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return NewStore(db), db
}

func TestStore_FetchAppendDelete(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, reconcile.RemoteWhitelist, []reconcile.Record{
		{Email: "a@x.com", Handle: "Alice", Identifier: "11"},
		{Email: "b@x.com", Handle: "Bob", Identifier: "12"},
		{Email: "c@x.com", Handle: "Carol", Identifier: "13"},
	}))

	rows, err := store.Fetch(ctx, reconcile.RemoteWhitelist)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, reconcile.Row{Index: 1, Record: reconcile.Record{Email: "b@x.com", Handle: "Bob", Identifier: "12"}}, rows[1])

	// Indices from one fetch stay valid across several deletes.
	require.NoError(t, store.Delete(ctx, reconcile.RemoteWhitelist, 0))
	require.NoError(t, store.Delete(ctx, reconcile.RemoteWhitelist, 2))

	rows, err = store.Fetch(ctx, reconcile.RemoteWhitelist)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Bob", rows[0].Record.Handle)
	assert.Equal(t, 0, rows[0].Index)

	assert.Error(t, store.Delete(ctx, reconcile.RemoteWhitelist, 5))
}

func TestStore_RequestsAreReadOnly(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddRequest(ctx, " d@x.com ", "Dave"))
	assert.Error(t, store.AddRequest(ctx, "e@x.com", "  "))

	rows, err := store.Fetch(ctx, reconcile.Requests)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, reconcile.Record{Email: "d@x.com", Handle: "Dave"}, rows[0].Record)

	assert.ErrorIs(t, store.Append(ctx, reconcile.Requests, []reconcile.Record{{Handle: "x"}}), reconcile.ErrReadOnlyCollection)
	assert.ErrorIs(t, store.Delete(ctx, reconcile.Requests, 0), reconcile.ErrReadOnlyCollection)
}

func TestStore_UnknownCollection(t *testing.T) {
	store, _ := setupStore(t)
	_, err := store.Fetch(context.Background(), "elsewhere")
	assert.ErrorContains(t, err, "unknown collection")
}

func TestStore_EngineRunIsIdempotent(t *testing.T) {
	store, db := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, reconcile.RemoteWhitelist, []reconcile.Record{
		{Email: "a@x.com", Handle: "Alice", Identifier: "11"},
		{Email: "a@x.com", Handle: "AliceAlt", Identifier: "21"},
	}))
	require.NoError(t, store.AddRequest(ctx, "b@x.com", "Bob"))

	resolver := reconcile.ResolverFunc(func(_ context.Context, handle string) (string, error) {
		return "12", nil
	})
	engine := reconcile.NewEngine(store, resolver, zap.NewNop(), reconcile.Options{EvictBanned: true})
	localBans := []reconcile.Record{{Handle: "Alice", Identifier: "11"}}

	first, err := engine.Run(ctx, localBans)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Summary.BansAppended)
	assert.Equal(t, 1, first.Summary.Admitted)

	second, err := engine.Run(ctx, localBans)
	require.NoError(t, err)
	assert.Empty(t, second.Actions)
	assert.Equal(t, first.Snapshot, second.Snapshot)

	var bans int64
	require.NoError(t, db.Model(&BanEntry{}).Count(&bans).Error)
	assert.Equal(t, int64(2), bans)
}

func TestStore_FetchError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)

	mock.ExpectQuery("SELECT \\* FROM `ban_entries`").WillReturnError(errors.New("connection reset"))

	_, err = NewStore(db).Fetch(context.Background(), reconcile.RemoteBans)
	assert.ErrorContains(t, err, "failed to read ban_entries")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntry_TimestampsAreSet(t *testing.T) {
	store, db := setupStore(t)
	require.NoError(t, store.Append(context.Background(), reconcile.RemoteBans, []reconcile.Record{{Handle: "Mallory"}}))

	var ban BanEntry
	require.NoError(t, db.First(&ban).Error)
	assert.WithinDuration(t, time.Now(), ban.CreatedAt, time.Minute)
}
