package userdb

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

var postgresQueries = queries{
	lookup: `SELECT password FROM users WHERE name = $1`,
	upsert: `INSERT INTO users (name, password) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET password = EXCLUDED.password, updated_at = now()`,
	delete: `DELETE FROM users WHERE name = $1`,
	list:   `SELECT name FROM users ORDER BY name ASC`,
}

// gooseUpContext is replaced in tests
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

func openPostgres(ctx context.Context, dsn string, readwrite bool) (*sqlStore, error) {
	conn, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to open users database, cause %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to ping users database, cause %w", err)
	}
	if readwrite {
		if err := migrate(ctx, conn); err != nil {
			conn.Close()
			return nil, err
		}
	}
	return newPostgresStore(conn), nil
}

func newPostgresStore(db *sql.DB) *sqlStore {
	return &sqlStore{db: db, q: postgresQueries}
}

func migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("unable to configure migrations, cause %w", err)
	}
	if err := gooseUpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("unable to migrate users database, cause %w", err)
	}
	return nil
}
