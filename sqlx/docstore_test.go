package sqlx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

func newStore(t *testing.T) *DocStore {
	t.Helper()
	name := "docs_" + t.Name()
	db, err := Register(context.Background(), name, DataSource{Driver: "sqlite3", URL: "file:" + name + "?mode=memory&cache=shared"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = CloseDataSource(name) })
	store, err := NewDocStore(context.Background(), db)
	require.NoError(t, err)
	return store
}

func TestDocStore(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	id, err := store.NextID(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	require.NoError(t, store.Put(ctx, "users", 2, doc{ID: 2, Email: "b@clan.dev"}))
	require.NoError(t, store.Put(ctx, "users", 1, doc{ID: 1, Email: "a@clan.dev"}))
	require.NoError(t, store.Put(ctx, "orders", 1, doc{ID: 1}))

	id, err = store.NextID(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)

	users, err := List[doc](ctx, store, "users")
	require.NoError(t, err)
	assert.Equal(t, []doc{{1, "a@clan.dev"}, {2, "b@clan.dev"}}, users)

	require.NoError(t, store.Put(ctx, "users", 1, doc{ID: 1, Email: "new@clan.dev"}))
	var got doc
	require.NoError(t, store.Get(ctx, "users", 1, &got))
	assert.Equal(t, "new@clan.dev", got.Email)

	found, err := FindBy[doc](ctx, store, "users", "email", "b@clan.dev")
	require.NoError(t, err)
	assert.Equal(t, int64(2), found.ID)

	_, err = FindBy[doc](ctx, store, "users", "email", "nobody@clan.dev")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Get(ctx, "users", 99, &got), ErrNotFound)
}

func TestDocStore_Placeholders(t *testing.T) {
	pg := &DocStore{db: stdDB{driver: "postgres"}, table: "documents"}
	assert.Equal(t, "SELECT body FROM documents WHERE kind = $1 AND id = $2", pg.bind("SELECT body FROM documents WHERE kind = ? AND id = ?"))
	assert.Contains(t, pg.upsert(), "VALUES ($1, $2, $3) ON CONFLICT")

	my := &DocStore{db: stdDB{driver: "mysql"}, table: "documents"}
	assert.Equal(t, "INSERT INTO documents (kind, id, body) VALUES (?, ?, ?) ON DUPLICATE KEY UPDATE body = VALUES(body)", my.upsert())
}
