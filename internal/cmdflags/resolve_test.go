package cmdflags

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/andrebq/bookshelf/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func runServeFlags(t *testing.T, args ...string) (config.Config, error) {
	flags := config.Default()
	var file string
	var resolved config.Config
	app := &cli.App{
		Name:  "test",
		Flags: append(Server(&flags), ConfigFile(&file)),
		Action: func(ctx *cli.Context) error {
			var err error
			resolved, err = Resolve(ctx, file, flags)
			return err
		},
	}
	err := app.Run(append([]string{"test"}, args...))
	return resolved, err
}

func TestResolveWithoutFile(t *testing.T) {
	cfg, err := runServeFlags(t, "--bind", ":9090", "--cache-clean-window", "2h")
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Bind)
	assert.Equal(t, 2*time.Hour, cfg.CacheCleanWindow)
	assert.Equal(t, config.Default().UsersDSN, cfg.UsersDSN)
}

func TestResolveFlagsBeatFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "bookshelf.lua")
	require.NoError(t, os.WriteFile(file, []byte(`
		bookshelf.bind = ":7070"
		bookshelf.users_dsn = "/from/file.db"
		bookshelf.min_score = 4
	`), 0644))

	cfg, err := runServeFlags(t, "--config", file, "--users-dsn", "/from/flag.db")
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Bind)
	assert.Equal(t, "/from/flag.db", cfg.UsersDSN)
	assert.Equal(t, 4, cfg.MinScore)

	cfg, err = runServeFlags(t, "--config", file, "--min-score", "0")
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.MinScore, "explicit zero must win over the file")
}

func TestResolveValidates(t *testing.T) {
	_, err := runServeFlags(t, "--hash-method", "pbkdf2:md5")
	var invalid config.InvalidConfig
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "hash_method", invalid.Field)
}
