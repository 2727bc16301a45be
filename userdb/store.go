package userdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

type (
	// Store keeps one password hash per user name
	Store interface {
		LookupPasswordHash(ctx context.Context, name string) (string, error)
		SetPasswordHash(ctx context.Context, name, hash string) error
		DeleteUser(ctx context.Context, name string) error
		ListUsers(ctx context.Context) ([]string, error)
		Close() error
	}

	queries struct {
		lookup string
		upsert string
		delete string
		list   string
	}

	sqlStore struct {
		db *sql.DB
		q  queries
	}
)

// Open connects to the users database. Postgres URLs use pgx, anything else
// is taken as the path to a sqlite file. Schema changes only happen when
// readwrite is true.
func Open(ctx context.Context, dsn string, readwrite bool) (Store, error) {
	switch {
	case dsn == "":
		return nil, UnsupportedDSN{DSN: dsn}
	case IsPostgres(dsn):
		return openPostgres(ctx, dsn, readwrite)
	default:
		return openSqlite(ctx, dsn, readwrite)
	}
}

func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func (s *sqlStore) LookupPasswordHash(ctx context.Context, name string) (string, error) {
	var hash string
	err := s.db.QueryRowContext(ctx, s.q.lookup, name).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", UserNotFound{Name: name}
	} else if err != nil {
		return "", fmt.Errorf("unable to lookup password for %v, cause %w", name, err)
	}
	return hash, nil
}

func (s *sqlStore) SetPasswordHash(ctx context.Context, name, hash string) error {
	_, err := s.db.ExecContext(ctx, s.q.upsert, name, hash)
	if err != nil {
		return fmt.Errorf("unable to store password for %v, cause %w", name, err)
	}
	return nil
}

func (s *sqlStore) DeleteUser(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, s.q.delete, name)
	if err != nil {
		return fmt.Errorf("unable to remove user %v, cause %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to check if user %v was removed, cause %w", name, err)
	}
	if n == 0 {
		return UserNotFound{Name: name}
	}
	return nil
}

func (s *sqlStore) ListUsers(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, s.q.list)
	if err != nil {
		return nil, fmt.Errorf("unable to list users, cause %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("unable to scan user name, cause %w", err)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}
