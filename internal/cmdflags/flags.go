package cmdflags

import (
	"time"

	"github.com/andrebq/bookshelf/internal/config"
	"github.com/urfave/cli/v2"
)

const (
	envPrefix = "BOOKSHELF_"
)

func ConfigFile(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "config",
		Usage:       "Lua file with the server configuration, flags set explicitly take precedence",
		EnvVars:     []string{envPrefix + "CONFIG"},
		Destination: out,
		Value:       *out,
		TakesFile:   true,
	}
}

func Bind(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "bind",
		Aliases:     []string{"b"},
		Usage:       "Address to listen for HTTP requests",
		Destination: out,
		Value:       *out,
	}
}

func UsersDSN(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "users-dsn",
		Aliases:     []string{"users"},
		Usage:       "Users database, either a postgres:// URL or the path to a sqlite file (calibre-web app.db works)",
		EnvVars:     []string{envPrefix + "USERS_DSN"},
		Destination: out,
		Value:       *out,
	}
}

func LibraryDir(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "library-dir",
		Aliases:     []string{"library"},
		Usage:       "Calibre library directory, its files are served under /resource",
		Destination: out,
		Value:       *out,
	}
}

func LibraryDB(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "library-db",
		Usage:       "Calibre metadata.db, defaults to the one inside library-dir",
		Destination: out,
		Value:       *out,
		TakesFile:   true,
	}
}

func Realm(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "realm",
		Usage:       "Realm sent in the WWW-Authenticate challenge",
		Destination: out,
		Value:       *out,
	}
}

func HashMethod(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "hash-method",
		Usage:       "Method used to store new passwords, pbkdf2:sha256[:iterations]",
		Destination: out,
		Value:       *out,
	}
}

func SaltLength(out *int) cli.Flag {
	return &cli.IntFlag{
		Name:        "salt-length",
		Usage:       "Number of characters in the salt of new passwords",
		Destination: out,
		Value:       *out,
	}
}

func MinScore(out *int) cli.Flag {
	return &cli.IntFlag{
		Name:        "min-score",
		Usage:       "Minimum zxcvbn score (0-4) required for new passwords",
		Destination: out,
		Value:       *out,
	}
}

func CacheMaxMB(out *int) cli.Flag {
	return &cli.IntFlag{
		Name:        "cache-max-mb",
		Usage:       "Upper bound for the credential cache in megabytes, 0 means unbounded",
		Destination: out,
		Value:       *out,
	}
}

func CacheCleanWindow(out *time.Duration) cli.Flag {
	return &cli.DurationFlag{
		Name:        "cache-clean-window",
		Usage:       "How often expired credentials are swept from the cache, 0 disables the sweep",
		Destination: out,
		Value:       *out,
	}
}

func LogLevel(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "log-level",
		Usage:       "One of trace, debug, info, warn or error",
		EnvVars:     []string{envPrefix + "LOG_LEVEL"},
		Destination: out,
		Value:       *out,
	}
}

func PrettyLogs(out *bool) cli.Flag {
	return &cli.BoolFlag{
		Name:        "pretty-logs",
		Usage:       "Human friendly logs instead of JSON",
		Destination: out,
		Value:       *out,
	}
}

// Server returns every flag of the serve command bound to c
func Server(c *config.Config) []cli.Flag {
	return append([]cli.Flag{
		Bind(&c.Bind),
		LibraryDir(&c.LibraryDir),
		LibraryDB(&c.LibraryDB),
		Realm(&c.Realm),
		CacheMaxMB(&c.CacheMaxMB),
		CacheCleanWindow(&c.CacheCleanWindow),
		LogLevel(&c.LogLevel),
		PrettyLogs(&c.PrettyLogs),
	}, Accounts(c)...)
}

// Accounts returns the flags needed to change stored passwords
func Accounts(c *config.Config) []cli.Flag {
	return []cli.Flag{
		UsersDSN(&c.UsersDSN),
		HashMethod(&c.HashMethod),
		SaltLength(&c.SaltLength),
		MinScore(&c.MinScore),
	}
}
