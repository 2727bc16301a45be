package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/andrebq/bookshelf/cmd/bookshelf/hash"
	"github.com/andrebq/bookshelf/cmd/bookshelf/serve"
	"github.com/andrebq/bookshelf/cmd/bookshelf/users"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "bookshelf",
		Usage: "Share your calibre library over HTTP, protected by a password",
		Commands: []*cli.Command{
			serve.Cmd(),
			users.Cmd(),
			hash.Cmd(),
		},
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	err := app.RunContext(ctx, os.Args)
	if err != nil {
		log.Error().Err(err).Msg("Application failed")
		cancel()
		os.Exit(1)
	}
}
