// Package config holds the settings of the bookshelf server.
//
// Values come from defaults, then an optional Lua file, then command line
// flags. The Lua file fills a global table named bookshelf:
//
//	bookshelf.bind = "0.0.0.0:8080"
//	bookshelf.users_dsn = env("BOOKSHELF_USERS_DSN") or "app.db"
//	bookshelf.cache_clean_window = "1h"
package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/andrebq/bookshelf/credential"
	"github.com/andrebq/bookshelf/internal/apierror"
	"github.com/andrebq/bookshelf/library"
	"github.com/andrebq/bookshelf/realm"
)

type (
	Config struct {
		Bind       string
		UsersDSN   string
		LibraryDir string
		// LibraryDB defaults to metadata.db inside LibraryDir
		LibraryDB string
		Realm     string

		HashMethod string
		SaltLength int
		MinScore   int

		CacheMaxMB       int
		CacheCleanWindow time.Duration

		LogLevel   string
		PrettyLogs bool
	}

	InvalidConfig struct {
		Field  string
		Reason string
	}
)

func (i InvalidConfig) Error() string {
	return fmt.Sprintf("invalid configuration for %v: %v", i.Field, i.Reason)
}

func Default() Config {
	return Config{
		Bind:             "127.0.0.1:8080",
		UsersDSN:         "app.db",
		LibraryDir:       "calibre-data",
		Realm:            apierror.DefaultRealm,
		HashMethod:       credential.DefaultMethod,
		SaltLength:       credential.DefaultSaltLength,
		MinScore:         2,
		CacheCleanWindow: time.Hour,
		LogLevel:         "info",
	}
}

// CatalogFile returns where the calibre catalog should be read from.
func (c Config) CatalogFile() string {
	if c.LibraryDB != "" {
		return c.LibraryDB
	}
	return filepath.Join(c.LibraryDir, library.MetadataFile)
}

// Validate fails on values that would only break later, while serving.
func (c Config) Validate() error {
	if _, err := credential.ParseMethod(c.HashMethod); err != nil {
		return InvalidConfig{Field: "hash_method", Reason: err.Error()}
	}
	switch {
	case c.Bind == "":
		return InvalidConfig{Field: "bind", Reason: "cannot be empty"}
	case c.UsersDSN == "":
		return InvalidConfig{Field: "users_dsn", Reason: "cannot be empty"}
	case c.SaltLength <= 0:
		return InvalidConfig{Field: "salt_length", Reason: "must be positive"}
	case c.MinScore < 0 || c.MinScore > 4:
		return InvalidConfig{Field: "min_score", Reason: "must be between 0 and 4"}
	case c.CacheMaxMB < 0:
		return InvalidConfig{Field: "cache_max_mb", Reason: "cannot be negative"}
	case c.CacheCleanWindow < 0:
		return InvalidConfig{Field: "cache_clean_window", Reason: "cannot be negative"}
	}
	return nil
}

// CacheConfig translates the cache settings
func (c Config) CacheConfig() realm.CacheConfig {
	cc := realm.DefaultCacheConfig()
	cc.CleanWindow = c.CacheCleanWindow
	cc.HardMaxCacheSize = c.CacheMaxMB
	return cc
}

func (c Config) HashPolicy() realm.HashPolicy {
	return realm.HashPolicy{
		Method:     c.HashMethod,
		SaltLength: c.SaltLength,
		MinScore:   c.MinScore,
	}
}
