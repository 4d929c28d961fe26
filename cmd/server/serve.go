package main

import (
	"os"

	"github.com/urfave/cli/v2"

	"github.com/small-engineer/go-web-serv/booking/internal/app"
	"github.com/small-engineer/go-web-serv/booking/internal/config"
	"github.com/small-engineer/go-web-serv/booking/internal/httpserver"
	"github.com/small-engineer/go-web-serv/booking/internal/logutil"
)

func serveCmd(cfg *config.Config) *cli.Command {
	flags := append(storeFlags(cfg),
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Address to bind for incoming requests",
			EnvVars:     []string{"ADDR"},
			Value:       cfg.Addr,
			Destination: &cfg.Addr,
		},
		&cli.GenericFlag{
			Name:    "session-max-age",
			Usage:   "Session lifetime in seconds (10) or as a duration (10s, 1m)",
			EnvVars: []string{"SESSION_MAX_AGE"},
			Value:   &config.Seconds{Dest: &cfg.SessionMaxAge},
		},
		&cli.BoolFlag{
			Name:        "cookie-secure",
			Usage:       "Only send the session cookie over HTTPS",
			EnvVars:     []string{"COOKIE_SECURE"},
			Destination: &cfg.CookieSecure,
		},
		&cli.StringFlag{
			Name:        "revocation-backend",
			Usage:       "Where logged-out sessions are remembered: memory or redis",
			EnvVars:     []string{"REVOCATION_BACKEND"},
			Value:       cfg.RevocationBackend,
			Destination: &cfg.RevocationBackend,
		},
		&cli.StringFlag{
			Name:        "redis-addr",
			EnvVars:     []string{"REDIS_ADDR"},
			Value:       cfg.RedisAddr,
			Destination: &cfg.RedisAddr,
		},
		&cli.StringFlag{
			Name:        "static-dir",
			Usage:       "Directory served under /static/ (empty disables)",
			EnvVars:     []string{"STATIC_DIR"},
			Value:       cfg.StaticDir,
			Destination: &cfg.StaticDir,
		},
	)
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the booking site",
		Flags: flags,
		Action: func(ctx *cli.Context) error {
			log, err := logutil.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			c := logutil.WithLogger(ctx.Context, log)

			a, err := app.New(c, cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			return httpserver.Serve(c, cfg.Addr, a.Handler)
		},
	}
}
