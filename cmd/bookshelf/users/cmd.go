package users

import (
	"errors"
	"fmt"
	"os"

	"github.com/andrebq/bookshelf/internal/cmdflags"
	"github.com/andrebq/bookshelf/internal/config"
	"github.com/andrebq/bookshelf/internal/prompt"
	"github.com/andrebq/bookshelf/realm"
	"github.com/andrebq/bookshelf/userdb"
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	flags := config.Default()
	var file string
	var store userdb.Store
	var accounts *realm.Accounts
	return &cli.Command{
		Name:  "users",
		Usage: "Manage who can access the library. Passwords are read from the terminal or from stdin",
		Flags: append(cmdflags.Accounts(&flags), cmdflags.ConfigFile(&file)),
		Before: func(ctx *cli.Context) error {
			cfg, err := cmdflags.Resolve(ctx, file, flags)
			if err != nil {
				return err
			}
			store, err = userdb.Open(ctx.Context, cfg.UsersDSN, true)
			if err != nil {
				return err
			}
			// no validator lives in this process, a running server picks
			// up the change once its cached entry expires or misses
			accounts, err = realm.NewAccounts(store, nil, cfg.HashPolicy())
			return err
		},
		After: func(ctx *cli.Context) error {
			if store == nil {
				return nil
			}
			return store.Close()
		},
		Subcommands: []*cli.Command{
			addCmd(&store, &accounts),
			passwdCmd(&store, &accounts),
			removeCmd(&accounts),
			listCmd(&store),
		},
	}
}

func usernameFlag(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "username",
		Aliases:     []string{"u", "user"},
		Usage:       "Name of the user",
		Destination: out,
		Required:    true,
	}
}

func addCmd(store *userdb.Store, accounts **realm.Accounts) *cli.Command {
	var username string
	return &cli.Command{
		Name:  "add",
		Usage: "Register a new user",
		Flags: []cli.Flag{usernameFlag(&username)},
		Action: func(ctx *cli.Context) error {
			_, err := (*store).LookupPasswordHash(ctx.Context, username)
			if err == nil {
				return fmt.Errorf("user %v already exists, use passwd to change the password", username)
			} else if !errors.As(err, &userdb.UserNotFound{}) {
				return err
			}
			return setPassword(ctx, *accounts, username)
		},
	}
}

func passwdCmd(store *userdb.Store, accounts **realm.Accounts) *cli.Command {
	var username string
	return &cli.Command{
		Name:  "passwd",
		Usage: "Change the password of an existing user",
		Flags: []cli.Flag{usernameFlag(&username)},
		Action: func(ctx *cli.Context) error {
			if _, err := (*store).LookupPasswordHash(ctx.Context, username); err != nil {
				return err
			}
			return setPassword(ctx, *accounts, username)
		},
	}
}

func removeCmd(accounts **realm.Accounts) *cli.Command {
	var username string
	return &cli.Command{
		Name:  "remove",
		Usage: "Remove a user",
		Flags: []cli.Flag{usernameFlag(&username)},
		Action: func(ctx *cli.Context) error {
			return (*accounts).Remove(ctx.Context, username)
		},
	}
}

func listCmd(store *userdb.Store) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List every registered user",
		Action: func(ctx *cli.Context) error {
			names, err := (*store).ListUsers(ctx.Context)
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Fprintln(ctx.App.Writer, n)
			}
			return nil
		},
	}
}

func setPassword(ctx *cli.Context, accounts *realm.Accounts, username string) error {
	if err := realm.ValidPrincipal(username); err != nil {
		return err
	}
	secret, err := prompt.NewPassword(os.Stdin, ctx.App.ErrWriter)
	if err != nil {
		return err
	}
	return accounts.SetPassword(ctx.Context, username, secret)
}
