// Package config holds the settings the site is started with. Values come
// from defaults, then env files, then the environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"time"
)

type Config struct {
	Addr string

	// DBDriver is postgres, mysql, sqlite3 or memory.
	DBDriver     string
	DatabaseDSN  string
	DBHost       string
	DBPort       string
	DBUser       string
	DBPassword   string
	DBName       string
	DBInitSchema bool

	SessionSecret string
	SessionMaxAge time.Duration
	CookieSecure  bool

	HashAlgorithm string
	BcryptCost    int
	HashWorkers   int

	// RevocationBackend is memory or redis.
	RevocationBackend string
	RedisAddr         string

	StaticDir string

	LogLevel  string
	LogFormat string
}

func (c *Config) LoadDefaults() {
	c.Addr = ":3000"
	c.DBDriver = "postgres"
	c.DBHost = "localhost"
	c.DBPort = "5432"
	c.DBUser = "postgres"
	c.DBName = "booking"
	c.SessionMaxAge = 10 * time.Second
	c.HashAlgorithm = "bcrypt"
	c.BcryptCost = 10
	c.HashWorkers = runtime.NumCPU()
	c.RevocationBackend = "memory"
	c.RedisAddr = "localhost:6379"
	c.StaticDir = "public"
	c.LogLevel = "info"
	c.LogFormat = "console"
}

func Default() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func (c *Config) Validate() error {
	var errs []error
	if c.SessionSecret == "" {
		errs = append(errs, errors.New("SESSION_SECRET is not set"))
	}
	if c.SessionMaxAge < time.Second {
		errs = append(errs, fmt.Errorf("session max-age %v is below one second", c.SessionMaxAge))
	}
	switch c.DBDriver {
	case "postgres", "mysql", "sqlite3", "memory":
	default:
		errs = append(errs, fmt.Errorf("unknown db driver %q", c.DBDriver))
	}
	switch c.HashAlgorithm {
	case "bcrypt", "argon2id":
	default:
		errs = append(errs, fmt.Errorf("unknown hash algorithm %q", c.HashAlgorithm))
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("bcrypt cost %d out of range 4..31", c.BcryptCost))
	}
	switch c.RevocationBackend {
	case "memory":
	case "redis":
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("redis revocation backend needs REDIS_ADDR"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown revocation backend %q", c.RevocationBackend))
	}
	return errors.Join(errs...)
}
