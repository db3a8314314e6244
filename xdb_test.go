package xdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xdb-io/xdb/ids"
	"github.com/xdb-io/xdb/persistence"
)

func openTestDB(t *testing.T, optFns ...Option) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "store.json")
	all := append([]Option{WithAutoSnapshot(false)}, optFns...)
	db, err := Open(path, all...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestLifecycle(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	id, err := db.Insert(ctx, "users", Document{"username": "bot", "score": 100.0})
	require.NoError(t, err)
	require.Len(t, id, 16)

	n, err := db.Count(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	ok, err := db.Update(ctx, "users", id, Document{"score": 200.0, "rank": "gold", "_id": "HACKED"})
	require.NoError(t, err)
	require.True(t, ok)

	docs, err := db.Find(ctx, "users", Filter{"_id": id}, 0)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, Document{"username": "bot", "score": 200.0, "rank": "gold", "_id": id}, docs[0])

	ok, err = db.Delete(ctx, "users", id)
	require.NoError(t, err)
	assert.True(t, ok)

	n, err = db.Count(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestInsertNil(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Insert(context.Background(), "users", nil)
	assert.ErrorIs(t, err, ErrNilDocument)
}

func TestUpsert(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	id, err := db.Upsert(ctx, "users", "", Document{"score": 1.0})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	same, err := db.Upsert(ctx, "users", id, Document{"score": 2.0})
	require.NoError(t, err)
	assert.Equal(t, id, same)

	n, err := db.Count(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = db.Upsert(ctx, "users", "", nil)
	assert.ErrorIs(t, err, ErrNilDocument)
}

func TestDropAll(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	_, err := db.Insert(ctx, "users", Document{"a": 1.0})
	require.NoError(t, err)
	_, err = db.Insert(ctx, "items", Document{"b": 2.0})
	require.NoError(t, err)

	require.NoError(t, db.DropAll(ctx))

	for _, coll := range []string{"users", "items", "other"} {
		n, err := db.Count(ctx, coll)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	}
}

func TestReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")

	db, err := Open(path, WithAutoSnapshot(false))
	require.NoError(t, err)
	id, err := db.Insert(ctx, "users", Document{"username": "bot"})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db2, err := Open(path, WithAutoSnapshot(false))
	require.NoError(t, err)
	defer db2.Close()

	docs, err := db2.Find(ctx, "users", Filter{"_id": id}, 0)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "bot", docs[0]["username"])
}

func TestForceSnapshotWithArchive(t *testing.T) {
	ctx := context.Background()
	archive := persistence.NewMemoryArchive()
	db := openTestDB(t, WithSnapshotArchive(archive, true))

	_, err := db.Insert(ctx, "users", Document{"a": 1.0})
	require.NoError(t, err)

	name, err := db.ForceSnapshot(ctx)
	require.NoError(t, err)
	assert.Contains(t, name, "snapshot_")

	names, err := archive.List(ctx, "snapshot_")
	require.NoError(t, err)
	assert.Equal(t, []string{name + ".gz"}, names)
}

func TestCustomIDGenerator(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t, WithIDGenerator(ids.UUID))

	id, err := db.Insert(ctx, "users", Document{"a": 1.0})
	require.NoError(t, err)

	_, err = uuid.Parse(id)
	assert.NoError(t, err)
}
