package serve

import (
	"context"
	"net/http"

	"github.com/andrebq/bookshelf/internal/cmdflags"
	"github.com/andrebq/bookshelf/internal/config"
	"github.com/andrebq/bookshelf/internal/httpserver"
	"github.com/andrebq/bookshelf/internal/logutil"
	"github.com/andrebq/bookshelf/internal/router"
	"github.com/andrebq/bookshelf/library"
	libraryapi "github.com/andrebq/bookshelf/library/api"
	"github.com/andrebq/bookshelf/realm"
	realmapi "github.com/andrebq/bookshelf/realm/api"
	"github.com/andrebq/bookshelf/userdb"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	flags := config.Default()
	var file string
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the library catalog and files to authenticated users",
		Flags: append(cmdflags.Server(&flags), cmdflags.ConfigFile(&file)),
		Action: func(ctx *cli.Context) error {
			cfg, err := cmdflags.Resolve(ctx, file, flags)
			if err != nil {
				return err
			}
			if err := logutil.Setup(cfg.LogLevel, cfg.PrettyLogs); err != nil {
				return err
			}
			appCtx := logutil.WithLogger(ctx.Context, log.Logger)
			return run(appCtx, cfg)
		},
	}
}

func run(ctx context.Context, cfg config.Config) error {
	log := logutil.GetOrDefault(ctx)
	store, err := userdb.Open(ctx, cfg.UsersDSN, true)
	if err != nil {
		return err
	}
	defer store.Close()
	catalog, err := library.Open(ctx, cfg.CatalogFile())
	if err != nil {
		return err
	}
	defer catalog.Close()

	handler, cache, err := buildHandler(ctx, cfg, store, catalog)
	if err != nil {
		return err
	}
	defer func() {
		if err := cache.Close(); err != nil {
			log.Warn().Err(err).Msg("Unable to release credential cache")
		}
	}()
	log.Info().Str("library", cfg.LibraryDir).Bool("users.postgres", userdb.IsPostgres(cfg.UsersDSN)).Msg("Library ready")
	return httpserver.Serve(ctx, cfg.Bind, handler)
}

// buildHandler wires every route, the cache it returns must be closed once
// the handler is no longer used.
func buildHandler(ctx context.Context, cfg config.Config, store userdb.Store, catalog libraryapi.Catalog) (http.Handler, *realm.MemCache, error) {
	cache, err := realm.NewMemCache(cfg.CacheConfig())
	if err != nil {
		return nil, nil, err
	}
	validator := realm.New(store, cache)
	accounts, err := realm.NewAccounts(store, validator, cfg.HashPolicy())
	if err != nil {
		cache.Close()
		return nil, nil, err
	}
	books := libraryapi.AsHandler(ctx, catalog, cfg.LibraryDir)
	account := realmapi.AccountHandler(accounts)
	security := realmapi.NewRealm(validator, cfg.Realm)

	protected := security.Protect(router.Mux(map[string]http.Handler{
		"/book":      books,
		"/book/":     books,
		"/resource/": books,
		"/account/":  account,
		"/":          router.NotFound(),
	}))
	return httpserver.WithRequestLog(router.AsHandler(ctx, protected)), cache, nil
}
