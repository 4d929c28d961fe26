package auth

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/small-engineer/go-web-serv/booking/internal/domain"
	"github.com/small-engineer/go-web-serv/booking/internal/logutil"
)

var (
	// ErrRejected covers both an unknown email and a wrong password.
	ErrRejected       = errors.New("invalid credentials")
	ErrConflict       = errors.New("email already registered")
	ErrStorageFailure = errors.New("storage failure")
)

type UserRepo interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id domain.UserID) (*domain.User, error)
	// Create fills in u.ID. A duplicate email returns an error wrapping ErrConflict.
	Create(ctx context.Context, u *domain.User) error
}

type PasswordHasher interface {
	Hash(ctx context.Context, pw string) (string, error)
	Verify(ctx context.Context, pw, digest string) (bool, error)
	// Dummy returns a throwaway digest that costs as much to verify as like.
	Dummy(ctx context.Context, like string) (string, error)
}

type Service struct {
	users  UserRepo
	hasher PasswordHasher
	// digest checked when the email is unknown; it follows the parameters of
	// the last stored digest seen so both rejections cost the same
	dummy atomic.Value
}

func NewService(ctx context.Context, u UserRepo, h PasswordHasher) (*Service, error) {
	d, err := h.Dummy(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("prepare dummy digest: %w", err)
	}
	s := &Service{
		users:  u,
		hasher: h,
	}
	s.dummy.Store(d)
	return s, nil
}

func (s *Service) followDigest(ctx context.Context, digest string) {
	d, err := s.hasher.Dummy(ctx, digest)
	if err != nil {
		return
	}
	s.dummy.Store(d)
}

func (s *Service) Login(ctx context.Context, email, pass string) (*domain.User, error) {
	log := logutil.GetOrDefault(ctx).With().Str("op", "login").Logger()

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		log.Error().Err(err).Msg("user lookup failed")
		return nil, fmt.Errorf("%w: find user: %w", ErrStorageFailure, err)
	}
	if u == nil {
		_, _ = s.hasher.Verify(ctx, pass, s.dummy.Load().(string))
		log.Info().Msg("login rejected")
		return nil, ErrRejected
	}

	ok, err := s.hasher.Verify(ctx, pass, u.PasswordHash)
	s.followDigest(ctx, u.PasswordHash)
	if err != nil {
		log.Error().Err(err).Int64("user_id", int64(u.ID)).Msg("password verification failed")
		return nil, fmt.Errorf("%w: verify password: %w", ErrStorageFailure, err)
	}
	if !ok {
		log.Info().Msg("login rejected")
		return nil, ErrRejected
	}
	return u, nil
}

// Register creates the account. The returned user counts as signed in; the
// caller issues a session without verifying the password again.
func (s *Service) Register(ctx context.Context, email, pass string) (*domain.User, error) {
	log := logutil.GetOrDefault(ctx).With().Str("op", "register").Logger()

	ex, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		log.Error().Err(err).Msg("user lookup failed")
		return nil, fmt.Errorf("%w: find user: %w", ErrStorageFailure, err)
	}
	if ex != nil {
		log.Info().Msg("email already registered")
		return nil, ErrConflict
	}

	h, err := s.hasher.Hash(ctx, pass)
	if err != nil {
		log.Error().Err(err).Msg("password hashing failed")
		return nil, fmt.Errorf("%w: hash password: %w", ErrStorageFailure, err)
	}

	u := &domain.User{
		Email:        email,
		PasswordHash: h,
	}
	err = s.users.Create(ctx, u)
	if errors.Is(err, ErrConflict) {
		// lost a race with a concurrent registration
		log.Info().Msg("email already registered")
		return nil, ErrConflict
	}
	if err != nil {
		log.Error().Err(err).Msg("user insert failed")
		return nil, fmt.Errorf("%w: create user: %w", ErrStorageFailure, err)
	}
	log.Info().Int64("user_id", int64(u.ID)).Msg("user registered")
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: find user: %w", ErrStorageFailure, err)
	}
	return u, nil
}
