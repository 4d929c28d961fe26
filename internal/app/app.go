// Package app assembles the site from its configuration: credential store,
// password hashing pool, session manager and web handlers.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/small-engineer/go-web-serv/booking/internal/adapter/httpadapter"
	"github.com/small-engineer/go-web-serv/booking/internal/config"
	infra "github.com/small-engineer/go-web-serv/booking/internal/infra/db"
	"github.com/small-engineer/go-web-serv/booking/internal/infra/mem"
	"github.com/small-engineer/go-web-serv/booking/internal/infra/passwd"
	"github.com/small-engineer/go-web-serv/booking/internal/infra/redis"
	"github.com/small-engineer/go-web-serv/booking/internal/usecase/auth"
	"github.com/small-engineer/go-web-serv/booking/internal/usecase/session"
)

type App struct {
	Auth     *auth.Service
	Sessions *session.Manager
	Handler  http.Handler

	closers []func() error
}

func newUserRepo(ctx context.Context, cfg *config.Config, log zerolog.Logger) (auth.UserRepo, *sql.DB, error) {
	if cfg.DBDriver == "memory" {
		log.Warn().Msg("using in-memory user store; accounts are lost on restart")
		return mem.NewUserRepo(), nil, nil
	}
	d, err := infra.DialectFor(cfg.DBDriver)
	if err != nil {
		return nil, nil, err
	}
	dsn := cfg.DatabaseDSN
	if dsn == "" {
		dsn = infra.DSN(d, infra.Conn{
			Host:     cfg.DBHost,
			Port:     cfg.DBPort,
			User:     cfg.DBUser,
			Password: cfg.DBPassword,
			Name:     cfg.DBName,
		})
	}
	db, err := infra.Open(ctx, d, dsn)
	if err != nil {
		return nil, nil, err
	}
	if cfg.DBInitSchema {
		if err := infra.EnsureSchema(ctx, db, d); err != nil {
			db.Close()
			return nil, nil, err
		}
	}
	log.Info().Str("driver", d.Name).Msg("connected to credential store")
	return infra.NewUserRepo(db, d), db, nil
}

func (a *App) newRevocations(ctx context.Context, cfg *config.Config) (session.RevocationStore, error) {
	switch cfg.RevocationBackend {
	case "redis":
		rdb, err := redis.Dial(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rdb.Close)
		return redis.NewRevocations(rdb), nil
	default:
		rev, err := mem.NewRevocations(cfg.SessionMaxAge)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rev.Close)
		return rev, nil
	}
}

// New validates cfg and wires every component. Close releases what it opened.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &App{}

	users, db, err := newUserRepo(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("credential store: %w", err)
	}
	if db != nil {
		a.closers = append(a.closers, db.Close)
	}

	h, err := passwd.New(cfg.HashAlgorithm, cfg.BcryptCost)
	if err != nil {
		a.Close()
		return nil, err
	}
	pool := passwd.NewPool(h, cfg.HashWorkers)

	a.Auth, err = auth.NewService(ctx, users, pool)
	if err != nil {
		a.Close()
		return nil, err
	}

	rev, err := a.newRevocations(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("revocation store: %w", err)
	}

	a.Sessions, err = session.NewManager(session.Config{
		Secret: []byte(cfg.SessionSecret),
		MaxAge: cfg.SessionMaxAge,
	}, a.Auth, rev)
	if err != nil {
		a.Close()
		return nil, err
	}

	s := httpadapter.NewServer(a.Auth, a.Sessions, httpadapter.Options{
		StaticDir:    cfg.StaticDir,
		SecureCookie: cfg.CookieSecure,
		Logger:       log,
	})
	a.Handler = s.Routes()
	return a, nil
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
