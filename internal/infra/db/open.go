package db

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Conn describes a server connection when no DSN is given directly.
type Conn struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// DSN renders c in the format the dialect's driver expects. For sqlite3
// Name is the database file path.
func DSN(d *Dialect, c Conn) string {
	switch d.Name {
	case Postgres:
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(c.User, c.Password),
			Host:     net.JoinHostPort(c.Host, c.Port),
			Path:     "/" + c.Name,
			RawQuery: "sslmode=disable",
		}
		return u.String()
	case MySQL:
		cfg := mysql.NewConfig()
		cfg.User = c.User
		cfg.Passwd = c.Password
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(c.Host, c.Port)
		cfg.DBName = c.Name
		cfg.ParseTime = true
		cfg.Params = map[string]string{"charset": "utf8mb4"}
		cfg.Collation = "utf8mb4_unicode_ci"
		return cfg.FormatDSN()
	case SQLite:
		return fmt.Sprintf("file:%s?_foreign_keys=on&_journal=wal&mode=rwc", c.Name)
	}
	return ""
}

func Open(ctx context.Context, d *Dialect, dsn string) (*sql.DB, error) {
	db, err := sql.Open(d.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.Name, err)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)
	if d.Name == SQLite {
		// one writer at a time; avoids SQLITE_BUSY under concurrent inserts
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", d.Name, err)
	}
	return db, nil
}

// EnsureSchema creates the users table when it is missing. It is a
// bootstrap for fresh databases, not a migration tool.
func EnsureSchema(ctx context.Context, db *sql.DB, d *Dialect) error {
	if _, err := db.ExecContext(ctx, d.schema); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}
