// Package session turns an authenticated user into a short-lived signed token
// and back. The token carries only the user id; the full record is looked up
// again every time a token is resolved.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/small-engineer/go-web-serv/booking/internal/domain"
	"github.com/small-engineer/go-web-serv/booking/internal/logutil"
)

// ErrInvalid means the caller is anonymous: no token, a tampered or expired
// one, a logged-out one, or one whose user no longer exists.
var ErrInvalid = errors.New("session invalid")

// DefaultMaxAge is deliberately short; visitors re-authenticate often.
const DefaultMaxAge = 10 * time.Second

type Session struct {
	ID        string
	UserID    domain.UserID
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type UserSource interface {
	GetByID(ctx context.Context, id domain.UserID) (*domain.User, error)
}

type RevocationStore interface {
	Revoke(ctx context.Context, id string, ttl time.Duration) error
	IsRevoked(ctx context.Context, id string) (bool, error)
}

type Config struct {
	Secret []byte
	MaxAge time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

type Manager struct {
	key     []byte
	maxAge  time.Duration
	now     func() time.Time
	users   UserSource
	revoked RevocationStore
}

type claims struct {
	jwt.RegisteredClaims
}

func NewManager(cfg Config, users UserSource, revoked RevocationStore) (*Manager, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("session secret is empty")
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = DefaultMaxAge
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Manager{
		key:     cfg.Secret,
		maxAge:  cfg.MaxAge,
		now:     cfg.Now,
		users:   users,
		revoked: revoked,
	}, nil
}

func (m *Manager) MaxAge() time.Duration {
	return m.maxAge
}

// Reduce keeps only what a session needs to name its user.
func (m *Manager) Reduce(u *domain.User) Session {
	now := m.now().Truncate(time.Second)
	return Session{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		IssuedAt:  now,
		ExpiresAt: now.Add(m.maxAge),
	}
}

func (m *Manager) Encode(s Session) (string, error) {
	cl := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ID,
			Subject:   strconv.FormatInt(int64(s.UserID), 10),
			IssuedAt:  jwt.NewNumericDate(s.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, cl)
	v, err := tok.SignedString(m.key)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return v, nil
}

// Decode checks signature and expiry. Every failure is ErrInvalid.
func (m *Manager) Decode(tok string) (Session, error) {
	p, err := jwt.ParseWithClaims(tok, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Method.Alg())
		}
		return m.key, nil
	},
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	cl, ok := p.Claims.(*claims)
	if !ok || !p.Valid || cl.ID == "" {
		return Session{}, ErrInvalid
	}
	id, err := strconv.ParseInt(cl.Subject, 10, 64)
	if err != nil {
		return Session{}, fmt.Errorf("%w: subject: %v", ErrInvalid, err)
	}
	s := Session{
		ID:        cl.ID,
		UserID:    domain.UserID(id),
		ExpiresAt: cl.ExpiresAt.Time,
	}
	if cl.IssuedAt != nil {
		s.IssuedAt = cl.IssuedAt.Time
	}
	return s, nil
}

// Issue starts a session for an already authenticated user.
func (m *Manager) Issue(ctx context.Context, u *domain.User) (string, Session, error) {
	s := m.Reduce(u)
	tok, err := m.Encode(s)
	if err != nil {
		return "", Session{}, err
	}
	logger := logutil.GetOrDefault(ctx)
	logger.Debug().
		Str("session_id", s.ID).
		Int64("user_id", int64(u.ID)).
		Msg("session issued")
	return tok, s, nil
}

// Resolve returns the user behind tok. Anonymous callers get ErrInvalid; any
// other error is a storage failure.
func (m *Manager) Resolve(ctx context.Context, tok string) (*domain.User, error) {
	if tok == "" {
		return nil, ErrInvalid
	}
	s, err := m.Decode(tok)
	if err != nil {
		return nil, err
	}
	if m.revoked != nil {
		revoked, err := m.revoked.IsRevoked(ctx, s.ID)
		if err != nil {
			return nil, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return nil, ErrInvalid
		}
	}
	u, err := m.users.GetByID(ctx, s.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalid
	}
	return u, nil
}

// Revoke ends the session behind tok. Tokens that no longer decode are
// already unusable, so revoking them again is not an error.
func (m *Manager) Revoke(ctx context.Context, tok string) error {
	s, err := m.Decode(tok)
	if err != nil {
		return nil
	}
	if m.revoked == nil {
		return nil
	}
	ttl := s.ExpiresAt.Sub(m.now())
	if err := m.revoked.Revoke(ctx, s.ID, ttl); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	logger := logutil.GetOrDefault(ctx)
	logger.Debug().Str("session_id", s.ID).Msg("session revoked")
	return nil
}
