package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/small-engineer/go-web-serv/booking/internal/config"
)

func main() {
	if err := config.LoadEnvFiles(config.DevEnvFiles...); err != nil {
		log.Fatal().Err(err).Msg("read env file")
	}

	cfg := config.Default()
	app := &cli.App{
		Name:  "booking",
		Usage: "Hotel booking site",
		Commands: []*cli.Command{
			serveCmd(cfg),
			usersCmd(cfg),
		},
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	err := app.RunContext(ctx, os.Args)
	if err != nil {
		log.Error().Err(err).Msg("Application failed")
		os.Exit(1)
	}
}
