package main

import (
	"github.com/urfave/cli/v2"

	"github.com/small-engineer/go-web-serv/booking/internal/config"
)

// storeFlags bind the settings every command that touches accounts needs.
func storeFlags(cfg *config.Config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "db-driver",
			Usage:       "Credential store: postgres, mysql, sqlite3 or memory",
			EnvVars:     []string{"DB_DRIVER"},
			Value:       cfg.DBDriver,
			Destination: &cfg.DBDriver,
		},
		&cli.StringFlag{
			Name:        "database-dsn",
			Usage:       "Full driver DSN; overrides the db-* connection flags",
			EnvVars:     []string{"DATABASE_DSN"},
			Destination: &cfg.DatabaseDSN,
		},
		&cli.StringFlag{
			Name:        "db-host",
			EnvVars:     []string{"DB_HOST", "PG_HOST"},
			Value:       cfg.DBHost,
			Destination: &cfg.DBHost,
		},
		&cli.StringFlag{
			Name:        "db-port",
			EnvVars:     []string{"DB_PORT", "PG_PORT"},
			Value:       cfg.DBPort,
			Destination: &cfg.DBPort,
		},
		&cli.StringFlag{
			Name:        "db-user",
			EnvVars:     []string{"DB_USER", "PG_USER"},
			Value:       cfg.DBUser,
			Destination: &cfg.DBUser,
		},
		&cli.StringFlag{
			Name:        "db-password",
			Usage:       "Prefer the environment variable over the flag",
			EnvVars:     []string{"DB_PASSWORD", "PG_PASSWORD"},
			Destination: &cfg.DBPassword,
		},
		&cli.StringFlag{
			Name:        "db-name",
			Usage:       "Database name, or the file path for sqlite3",
			EnvVars:     []string{"DB_NAME", "PG_DATABASE"},
			Value:       cfg.DBName,
			Destination: &cfg.DBName,
		},
		&cli.BoolFlag{
			Name:        "db-init-schema",
			Usage:       "Create the users table if it does not exist",
			EnvVars:     []string{"DB_INIT_SCHEMA"},
			Destination: &cfg.DBInitSchema,
		},
		&cli.StringFlag{
			Name:        "hash-algorithm",
			Usage:       "Digest for new passwords: bcrypt or argon2id",
			EnvVars:     []string{"HASH_ALGORITHM"},
			Value:       cfg.HashAlgorithm,
			Destination: &cfg.HashAlgorithm,
		},
		&cli.IntFlag{
			Name:        "bcrypt-cost",
			EnvVars:     []string{"BCRYPT_COST"},
			Value:       cfg.BcryptCost,
			Destination: &cfg.BcryptCost,
		},
		&cli.IntFlag{
			Name:        "hash-workers",
			Usage:       "Concurrent password hash computations",
			EnvVars:     []string{"HASH_WORKERS"},
			Value:       cfg.HashWorkers,
			Destination: &cfg.HashWorkers,
		},
		&cli.StringFlag{
			Name:        "session-secret",
			Usage:       "Session signing key. The key itself should not be passed as an argument",
			EnvVars:     []string{"SESSION_SECRET"},
			Hidden:      true,
			Destination: &cfg.SessionSecret,
		},
		&cli.StringFlag{
			Name:        "log-level",
			EnvVars:     []string{"LOG_LEVEL"},
			Value:       cfg.LogLevel,
			Destination: &cfg.LogLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "console or json",
			EnvVars:     []string{"LOG_FORMAT"},
			Value:       cfg.LogFormat,
			Destination: &cfg.LogFormat,
		},
	}
}
