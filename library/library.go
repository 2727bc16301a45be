// Package library reads the catalog kept by calibre in metadata.db.
//
// The database is never written, calibre itself owns it.
package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const (
	DefaultLimit = 100
	MetadataFile = "metadata.db"
)

type (
	Book struct {
		ID           int64     `json:"id"`
		Title        string    `json:"title"`
		Timestamp    time.Time `json:"timestamp"`
		UUID         string    `json:"uuid"`
		HasCover     bool      `json:"has_cover"`
		LastModified time.Time `json:"last_modified"`
		// Path is relative to the library directory
		Path string `json:"path"`
	}

	Catalog struct {
		db *sql.DB
	}
)

const bookColumns = `id, title, timestamp, uuid, has_cover, last_modified, path`

func Open(ctx context.Context, file string) (*Catalog, error) {
	conn, err := sql.Open("sqlite3", fmt.Sprintf("file:%v?_busy_timeout=5000&mode=ro", file))
	if err != nil {
		return nil, fmt.Errorf("unable to open catalog %v, cause %w", file, err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to ping catalog %v, cause %w", file, err)
	}
	return &Catalog{db: conn}, nil
}

// Recent returns the books modified most recently, a limit outside
// (0, DefaultLimit] is replaced by DefaultLimit.
func (c *Catalog) Recent(ctx context.Context, limit int) ([]Book, error) {
	if limit <= 0 || limit > DefaultLimit {
		limit = DefaultLimit
	}
	rows, err := c.db.QueryContext(ctx, `select `+bookColumns+` from books order by last_modified desc limit ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("unable to list books, cause %w", err)
	}
	defer rows.Close()
	out := []Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (c *Catalog) Book(ctx context.Context, id int64) (Book, error) {
	row := c.db.QueryRowContext(ctx, `select `+bookColumns+` from books where id = ?`, id)
	b, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Book{}, BookNotFound{ID: id}
	}
	return b, err
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanBook(s scanner) (Book, error) {
	var b Book
	err := s.Scan(&b.ID, &b.Title, &b.Timestamp, &b.UUID, &b.HasCover, &b.LastModified, &b.Path)
	if errors.Is(err, sql.ErrNoRows) {
		return b, err
	} else if err != nil {
		return b, fmt.Errorf("unable to read book, cause %w", err)
	}
	return b, nil
}
