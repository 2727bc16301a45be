package userdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// the table layout matches calibre-web, so its app.db can be used directly
var sqliteQueries = queries{
	lookup: `select password from user where name = ?`,
	upsert: `insert into user (name, password) values (?, ?)
		on conflict(name) do update set password = excluded.password`,
	delete: `delete from user where name = ?`,
	list:   `select name from user order by name asc`,
}

const sqliteSchema = `create table if not exists user (
	id integer primary key autoincrement,
	name varchar(64) not null unique,
	password varchar not null
)`

func openSqlite(ctx context.Context, file string, readwrite bool) (*sqlStore, error) {
	var connstr string
	if readwrite {
		if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
			return nil, fmt.Errorf("unable to create directory for %v, cause %w", file, err)
		}
		connstr = fmt.Sprintf("file:%v?_busy_timeout=5000&mode=rwc", file)
	} else {
		connstr = fmt.Sprintf("file:%v?_busy_timeout=5000&mode=ro", file)
	}
	conn, err := sql.Open("sqlite3", connstr)
	if err != nil {
		return nil, fmt.Errorf("unable to open %v, cause %w", file, err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to ping users database %v, cause %w", file, err)
	}
	if readwrite {
		if _, err := conn.ExecContext(ctx, sqliteSchema); err != nil {
			conn.Close()
			return nil, fmt.Errorf("unable to create user table in %v, cause %w", file, err)
		}
	}
	return &sqlStore{db: conn, q: sqliteQueries}, nil
}
