package mem

import (
	"context"
	"fmt"
	"sync"

	"github.com/small-engineer/go-web-serv/booking/internal/domain"
	"github.com/small-engineer/go-web-serv/booking/internal/usecase/auth"
)

type UserRepo struct {
	mu      sync.RWMutex
	next    domain.UserID
	byEmail map[string]*domain.User
	byID    map[domain.UserID]*domain.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		next:    1,
		byEmail: make(map[string]*domain.User),
		byID:    make(map[domain.UserID]*domain.User),
	}
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email]; ok {
		return fmt.Errorf("insert %q: %w", u.Email, auth.ErrConflict)
	}
	u.ID = r.next
	r.next++
	c := *u
	r.byEmail[c.Email] = &c
	r.byID[c.ID] = &c
	return nil
}

// Delete removes a user; sessions pointing at it stop resolving.
func (r *UserRepo) Delete(ctx context.Context, id domain.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil
	}
	delete(r.byID, id)
	delete(r.byEmail, u.Email)
	return nil
}
