package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/small-engineer/go-web-serv/booking/internal/app"
	"github.com/small-engineer/go-web-serv/booking/internal/config"
	"github.com/small-engineer/go-web-serv/booking/internal/logutil"
)

func usersCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "Manage site accounts",
		Subcommands: []*cli.Command{
			registerCmd(cfg),
		},
	}
}

func registerCmd(cfg *config.Config) *cli.Command {
	var email string
	return &cli.Command{
		Name:  "register",
		Usage: "Create an account (password is read from the terminal or stdin)",
		Flags: append(storeFlags(cfg),
			&cli.StringFlag{
				Name:        "email",
				Aliases:     []string{"e"},
				Usage:       "Email of the new account",
				Destination: &email,
				Required:    true,
			},
		),
		Action: func(ctx *cli.Context) error {
			log, err := logutil.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			c := logutil.WithLogger(ctx.Context, log)

			pass, err := readPassword(os.Stdin, ctx.App.ErrWriter)
			if err != nil {
				return err
			}

			a, err := app.New(c, cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			u, err := a.Auth.Register(c, strings.TrimSpace(email), pass)
			if err != nil {
				return err
			}
			fmt.Fprintf(ctx.App.Writer, "created user %d (%s)\n", u.ID, u.Email)
			return nil
		},
	}
}

func readPassword(in *os.File, prompt io.Writer) (string, error) {
	if term.IsTerminal(int(in.Fd())) {
		if prompt == nil {
			prompt = os.Stderr
		}
		fmt.Fprint(prompt, "Password: ")
		b, err := term.ReadPassword(int(in.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", err
		}
		return checkPassword(string(b))
	}
	return readPasswordLine(in)
}

func readPasswordLine(r io.Reader) (string, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", err
		}
		return "", errors.New("missing password from stdin")
	}
	return checkPassword(strings.TrimRight(sc.Text(), "\r\n"))
}

func checkPassword(p string) (string, error) {
	if len(p) == 0 {
		return "", errors.New("empty password")
	}
	return p, nil
}
