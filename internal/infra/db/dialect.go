package db

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

const (
	Postgres = "postgres"
	MySQL    = "mysql"
	SQLite   = "sqlite3"
)

// Dialect holds the statements and error classification that differ
// between the supported databases.
type Dialect struct {
	Name   string
	Driver string

	findByEmail string
	findByID    string
	insert      string
	// insert returns the new id itself instead of going through LastInsertId
	returning bool
	schema    string

	uniqueViolation func(error) bool
}

var dialects = map[string]*Dialect{
	Postgres: {
		Name:        Postgres,
		Driver:      "pgx",
		findByEmail: "SELECT id, email, password_hash FROM users WHERE email = $1",
		findByID:    "SELECT id, email, password_hash FROM users WHERE id = $1",
		insert:      "INSERT INTO users (email, password_hash) VALUES ($1, $2) RETURNING id",
		returning:   true,
		schema: `CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL
		)`,
		uniqueViolation: func(err error) bool {
			var pe *pgconn.PgError
			return errors.As(err, &pe) && pe.Code == "23505"
		},
	},
	MySQL: {
		Name:        MySQL,
		Driver:      "mysql",
		findByEmail: "SELECT id, email, password_hash FROM users WHERE email = ?",
		findByID:    "SELECT id, email, password_hash FROM users WHERE id = ?",
		insert:      "INSERT INTO users (email, password_hash) VALUES (?, ?)",
		schema: `CREATE TABLE IF NOT EXISTS users (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			email VARCHAR(320) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL
		) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin`,
		uniqueViolation: func(err error) bool {
			var me *mysql.MySQLError
			return errors.As(err, &me) && me.Number == 1062
		},
	},
	SQLite: {
		Name:        SQLite,
		Driver:      "sqlite3",
		findByEmail: "SELECT id, email, password_hash FROM users WHERE email = ?",
		findByID:    "SELECT id, email, password_hash FROM users WHERE id = ?",
		insert:      "INSERT INTO users (email, password_hash) VALUES (?, ?) RETURNING id",
		returning:   true,
		schema: `CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL
		)`,
		uniqueViolation: func(err error) bool {
			var se sqlite3.Error
			return errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique
		},
	},
}

func DialectFor(name string) (*Dialect, error) {
	d, ok := dialects[name]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver %q", name)
	}
	return d, nil
}
