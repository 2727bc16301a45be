package userdb

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func acquireMockStore(t *testing.T) (*sqlStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})
	return newPostgresStore(db), mock
}

func TestPostgresLookup(t *testing.T) {
	store, mock := acquireMockStore(t)
	q := `^SELECT\s+password\s+FROM\s+users\s+WHERE\s+name\s*=\s*\$1$`

	mock.ExpectQuery(q).WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"password"}).AddRow("pbkdf2:sha256$a$b"))
	mock.ExpectQuery(q).WithArgs("mallory").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(q).WithArgs("bob").
		WillReturnError(errors.New("db down"))

	hash, err := store.LookupPasswordHash(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "pbkdf2:sha256$a$b", hash)

	_, err = store.LookupPasswordHash(context.Background(), "mallory")
	assert.ErrorIs(t, err, UserNotFound{Name: "mallory"})

	_, err = store.LookupPasswordHash(context.Background(), "bob")
	assert.ErrorContains(t, err, "db down")
	assert.False(t, errors.As(err, &UserNotFound{}))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSetPasswordHash(t *testing.T) {
	store, mock := acquireMockStore(t)
	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+users\s*\(name,\s*password\)\s*VALUES\s*\(\$1,\s*\$2\)\s*ON\s+CONFLICT`).
		WithArgs("alice", "hash").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, store.SetPasswordHash(context.Background(), "alice", "hash"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDeleteUser(t *testing.T) {
	store, mock := acquireMockStore(t)
	q := `^DELETE\s+FROM\s+users\s+WHERE\s+name\s*=\s*\$1$`
	mock.ExpectExec(q).WithArgs("alice").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs("alice").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.DeleteUser(context.Background(), "alice"))
	assert.ErrorIs(t, store.DeleteUser(context.Background(), "alice"), UserNotFound{Name: "alice"})
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListUsers(t *testing.T) {
	store, mock := acquireMockStore(t)
	mock.ExpectQuery(`^SELECT\s+name\s+FROM\s+users\s+ORDER\s+BY\s+name\s+ASC$`).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("alice").AddRow("bob"))

	users, err := store.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, users)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	var dirs []string
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		dirs = append(dirs, dir)
		return nil
	}
	require.NoError(t, migrate(context.Background(), db))
	assert.Equal(t, []string{"migrations"}, dirs)

	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	assert.ErrorContains(t, migrate(context.Background(), db), "boom")
}

func TestMigrationsAreEmbedded(t *testing.T) {
	entries, err := migrations.ReadDir("migrations")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "00001_create_users.sql", entries[0].Name())
}
