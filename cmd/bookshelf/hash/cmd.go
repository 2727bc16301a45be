package hash

import (
	"errors"
	"fmt"
	"os"

	"github.com/andrebq/bookshelf/credential"
	"github.com/andrebq/bookshelf/internal/prompt"
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	return &cli.Command{
		Name:  "hash",
		Usage: "Work with stored password hashes directly",
		Subcommands: []*cli.Command{
			generateCmd(),
			checkCmd(),
		},
	}
}

func generateCmd() *cli.Command {
	method := credential.DefaultMethod
	saltLength := credential.DefaultSaltLength
	return &cli.Command{
		Name:  "generate",
		Usage: "Print the stored hash for a password read from the terminal or stdin",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "method",
				Usage:       "pbkdf2:sha256[:iterations]",
				Destination: &method,
				Value:       method,
			},
			&cli.IntFlag{
				Name:        "salt-length",
				Destination: &saltLength,
				Value:       saltLength,
			},
		},
		Action: func(ctx *cli.Context) error {
			secret, err := prompt.NewPassword(os.Stdin, ctx.App.ErrWriter)
			if err != nil {
				return err
			}
			stored, err := credential.Generate(secret, method, saltLength, nil)
			if err != nil {
				return err
			}
			fmt.Fprintln(ctx.App.Writer, stored)
			return nil
		},
	}
}

func checkCmd() *cli.Command {
	var stored string
	return &cli.Command{
		Name:  "check",
		Usage: "Check a password read from the terminal or stdin against a stored hash",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "hash",
				Usage:       "Stored hash, as in method$salt$digest",
				Destination: &stored,
				Required:    true,
			},
		},
		Action: func(ctx *cli.Context) error {
			secret, err := prompt.Password(os.Stdin, ctx.App.ErrWriter, "Password")
			if err != nil {
				return err
			}
			if !credential.Check(stored, secret) {
				return errors.New("password does not match")
			}
			fmt.Fprintln(ctx.App.Writer, "ok")
			return nil
		},
	}
}
