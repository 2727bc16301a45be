package cmdflags

import (
	"github.com/andrebq/bookshelf/internal/config"
	"github.com/urfave/cli/v2"
)

var overrides = []struct {
	flag string
	set  func(dst *config.Config, src config.Config)
}{
	{"bind", func(d *config.Config, s config.Config) { d.Bind = s.Bind }},
	{"users-dsn", func(d *config.Config, s config.Config) { d.UsersDSN = s.UsersDSN }},
	{"library-dir", func(d *config.Config, s config.Config) { d.LibraryDir = s.LibraryDir }},
	{"library-db", func(d *config.Config, s config.Config) { d.LibraryDB = s.LibraryDB }},
	{"realm", func(d *config.Config, s config.Config) { d.Realm = s.Realm }},
	{"hash-method", func(d *config.Config, s config.Config) { d.HashMethod = s.HashMethod }},
	{"salt-length", func(d *config.Config, s config.Config) { d.SaltLength = s.SaltLength }},
	{"min-score", func(d *config.Config, s config.Config) { d.MinScore = s.MinScore }},
	{"cache-max-mb", func(d *config.Config, s config.Config) { d.CacheMaxMB = s.CacheMaxMB }},
	{"cache-clean-window", func(d *config.Config, s config.Config) { d.CacheCleanWindow = s.CacheCleanWindow }},
	{"log-level", func(d *config.Config, s config.Config) { d.LogLevel = s.LogLevel }},
	{"pretty-logs", func(d *config.Config, s config.Config) { d.PrettyLogs = s.PrettyLogs }},
}

// Resolve builds the effective configuration: defaults, then the Lua file
// (when file is not empty), then every flag set on the command line or
// through its environment variable.
func Resolve(ctx *cli.Context, file string, flags config.Config) (config.Config, error) {
	if file == "" {
		return flags, flags.Validate()
	}
	cfg, err := config.LoadLua(ctx.Context, file, config.Default())
	if err != nil {
		return cfg, err
	}
	for _, o := range overrides {
		if ctx.IsSet(o.flag) {
			o.set(&cfg, flags)
		}
	}
	return cfg, cfg.Validate()
}
