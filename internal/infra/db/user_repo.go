package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/small-engineer/go-web-serv/booking/internal/domain"
	"github.com/small-engineer/go-web-serv/booking/internal/usecase/auth"
)

type UserRepo struct {
	db *sql.DB
	d  *Dialect
}

func NewUserRepo(db *sql.DB, d *Dialect) *UserRepo {
	return &UserRepo{
		db: db,
		d:  d,
	}
}

func (r *UserRepo) findOne(ctx context.Context, q string, arg any) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, q, arg)
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, r.d.findByEmail, email)
}

func (r *UserRepo) FindByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	return r.findOne(ctx, r.d.findByID, int64(id))
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	var id int64
	var err error
	if r.d.returning {
		err = r.db.QueryRowContext(ctx, r.d.insert, u.Email, u.PasswordHash).Scan(&id)
	} else {
		var res sql.Result
		res, err = r.db.ExecContext(ctx, r.d.insert, u.Email, u.PasswordHash)
		if err == nil {
			id, err = res.LastInsertId()
		}
	}
	if err != nil {
		if r.d.uniqueViolation(err) {
			return fmt.Errorf("insert user: %w", auth.ErrConflict)
		}
		return fmt.Errorf("db error: %w", err)
	}
	u.ID = domain.UserID(id)
	return nil
}
