package userdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSqliteStore(t *testing.T) {
	ctx := context.Background()
	file := filepath.Join(t.TempDir(), "data", "app.db")
	store, err := Open(ctx, file, true)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.LookupPasswordHash(ctx, "alice")
	require.ErrorIs(t, err, UserNotFound{Name: "alice"})

	require.NoError(t, store.SetPasswordHash(ctx, "alice", "pbkdf2:sha256:1000$a$b"))
	require.NoError(t, store.SetPasswordHash(ctx, "bob", "pbkdf2:sha256:1000$c$d"))
	require.NoError(t, store.SetPasswordHash(ctx, "alice", "pbkdf2:sha256:1000$e$f"))

	hash, err := store.LookupPasswordHash(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "pbkdf2:sha256:1000$e$f", hash)

	// lookups are exact
	_, err = store.LookupPasswordHash(ctx, "ALICE")
	assert.ErrorAs(t, err, &UserNotFound{})

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, users)

	require.NoError(t, store.DeleteUser(ctx, "bob"))
	assert.ErrorIs(t, store.DeleteUser(ctx, "bob"), UserNotFound{Name: "bob"})
}

func TestSqliteReadOnly(t *testing.T) {
	ctx := context.Background()
	file := filepath.Join(t.TempDir(), "app.db")
	rw, err := Open(ctx, file, true)
	require.NoError(t, err)
	require.NoError(t, rw.SetPasswordHash(ctx, "alice", "pbkdf2:sha256:1000$a$b"))
	require.NoError(t, rw.Close())

	ro, err := Open(ctx, file, false)
	require.NoError(t, err)
	defer ro.Close()
	hash, err := ro.LookupPasswordHash(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "pbkdf2:sha256:1000$a$b", hash)
	assert.Error(t, ro.SetPasswordHash(ctx, "bob", "x"))
}

func TestOpenRejectsEmptyDSN(t *testing.T) {
	_, err := Open(context.Background(), "", false)
	assert.ErrorAs(t, err, &UnsupportedDSN{})
}

func TestIsPostgres(t *testing.T) {
	assert.True(t, IsPostgres("postgres://user:pw@localhost/books"))
	assert.True(t, IsPostgres("postgresql://localhost/books"))
	assert.False(t, IsPostgres("/var/lib/calibre-web/app.db"))
}
