package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/andrebq/bookshelf/library"
	"github.com/andrebq/bookshelf/userdb"
)

type (
	TestLog interface {
		Fatal(...interface{})
		Log(...interface{})
	}
)

// calibre creates more columns, only the ones read by the catalog plus
// their neighbours with NOT NULL constraints are kept here
const calibreBooks = `create table books (
	id integer primary key autoincrement,
	title text not null default 'Unknown' collate nocase,
	sort text collate nocase,
	timestamp timestamp default current_timestamp,
	path text not null default '',
	flags integer not null default 1,
	uuid text,
	has_cover bool default 0,
	last_modified timestamp not null default '2000-01-01 00:00:00+00:00'
)`

// AcquireUserDB returns a writable sqlite users database with the given
// name -> stored hash entries.
func AcquireUserDB(ctx context.Context, t TestLog, users map[string]string) (userdb.Store, func()) {
	dir, err := os.MkdirTemp("", "bookshelf-tests")
	if err != nil {
		t.Fatal(err)
	}
	store, err := userdb.Open(ctx, filepath.Join(dir, "app.db"), true)
	if err != nil {
		os.RemoveAll(dir)
		t.Fatal(err)
	}
	for name, hash := range users {
		if err := store.SetPasswordHash(ctx, name, hash); err != nil {
			t.Fatal(err)
		}
	}
	return store, func() {
		if err := store.Close(); err != nil {
			t.Log("unable to close users database", err)
		}
		if err := os.RemoveAll(dir); err != nil {
			t.Log("unable to cleanup temp dir", dir)
		}
	}
}

// AcquireLibrary creates a calibre-like library directory holding books and
// returns its catalog together with the directory path.
func AcquireLibrary(ctx context.Context, t TestLog, books []library.Book) (*library.Catalog, string, func()) {
	dir, err := os.MkdirTemp("", "bookshelf-tests")
	if err != nil {
		t.Fatal(err)
	}
	cleanupDir := func() {
		if err := os.RemoveAll(dir); err != nil {
			t.Log("unable to cleanup temp dir", dir)
		}
	}
	if err := populateLibrary(ctx, dir, books); err != nil {
		cleanupDir()
		t.Fatal(err)
	}
	catalog, err := library.Open(ctx, filepath.Join(dir, library.MetadataFile))
	if err != nil {
		cleanupDir()
		t.Fatal(err)
	}
	return catalog, dir, func() {
		if err := catalog.Close(); err != nil {
			t.Log("unable to close catalog", err)
		}
		cleanupDir()
	}
}

func populateLibrary(ctx context.Context, dir string, books []library.Book) error {
	conn, err := sql.Open("sqlite3", fmt.Sprintf("file:%v?mode=rwc", filepath.Join(dir, library.MetadataFile)))
	if err != nil {
		return err
	}
	defer conn.Close()
	if _, err := conn.ExecContext(ctx, calibreBooks); err != nil {
		return fmt.Errorf("unable to create books table, cause %w", err)
	}
	for _, b := range books {
		_, err := conn.ExecContext(ctx, `insert into books (id, title, timestamp, uuid, has_cover, last_modified, path) values (?, ?, ?, ?, ?, ?, ?)`,
			b.ID, b.Title, b.Timestamp, b.UUID, b.HasCover, b.LastModified, b.Path)
		if err != nil {
			return fmt.Errorf("unable to insert book %v, cause %w", b.Title, err)
		}
		bookDir := filepath.Join(dir, filepath.FromSlash(b.Path))
		if err := os.MkdirAll(bookDir, 0755); err != nil {
			return err
		}
		if b.HasCover {
			if err := os.WriteFile(filepath.Join(bookDir, "cover.jpg"), []byte("not really a jpeg"), 0644); err != nil {
				return err
			}
		}
	}
	return nil
}
