package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/small-engineer/go-web-serv/booking/internal/domain"
)

type fakeUsers struct {
	m   map[domain.UserID]*domain.User
	err error
}

func (f *fakeUsers) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.m[id], nil
}

type fakeRevocations struct {
	mu  sync.Mutex
	m   map[string]time.Duration
	err error
}

func (f *fakeRevocations) Revoke(ctx context.Context, id string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.m[id] = ttl
	return nil
}

func (f *fakeRevocations) IsRevoked(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.m[id]
	return ok, nil
}

type clock struct {
	t time.Time
}

func (c *clock) Now() time.Time { return c.t }

var alice = &domain.User{ID: 1, Email: "a@x.com", PasswordHash: "h"}

func newTestManager(t *testing.T) (*Manager, *clock, *fakeUsers, *fakeRevocations) {
	t.Helper()
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	users := &fakeUsers{m: map[domain.UserID]*domain.User{alice.ID: alice}}
	rev := &fakeRevocations{m: map[string]time.Duration{}}
	m, err := NewManager(Config{
		Secret: []byte("test-secret"),
		MaxAge: 10 * time.Second,
		Now:    c.Now,
	}, users, rev)
	require.NoError(t, err)
	return m, c, users, rev
}

func TestNewManagerRequiresSecret(t *testing.T) {
	_, err := NewManager(Config{}, &fakeUsers{}, nil)
	assert.Error(t, err)

	m, err := NewManager(Config{Secret: []byte("k")}, &fakeUsers{}, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxAge, m.MaxAge())
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	m, c, _, _ := newTestManager(t)

	s := m.Reduce(alice)
	assert.Equal(t, alice.ID, s.UserID)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, c.t.Add(10*time.Second), s.ExpiresAt)

	tok, err := m.Encode(s)
	require.NoError(t, err)
	assert.NotContains(t, tok, alice.Email)

	got, err := m.Decode(tok)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, s.UserID, got.UserID)
	assert.True(t, s.ExpiresAt.Equal(got.ExpiresAt))
	assert.True(t, s.IssuedAt.Equal(got.IssuedAt))
}

func TestExpiryBoundary(t *testing.T) {
	m, c, _, _ := newTestManager(t)
	ctx := context.Background()
	issued := c.t

	tok, _, err := m.Issue(ctx, alice)
	require.NoError(t, err)

	c.t = issued.Add(9 * time.Second)
	u, err := m.Resolve(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, alice.Email, u.Email)

	c.t = issued.Add(11 * time.Second)
	_, err = m.Resolve(ctx, tok)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestDecodeRejectsTampering(t *testing.T) {
	m, _, _, _ := newTestManager(t)

	tok, _, err := m.Issue(context.Background(), alice)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	_, err = m.Decode(parts[0] + "." + parts[1] + "." + string(sig))
	assert.ErrorIs(t, err, ErrInvalid)

	other, err := NewManager(Config{Secret: []byte("other-secret"), Now: m.now}, &fakeUsers{}, nil)
	require.NoError(t, err)
	_, err = other.Decode(tok)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = m.Decode("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestDecodeRejectsOtherAlgorithms(t *testing.T) {
	m, c, _, _ := newTestManager(t)

	cl := jwt.RegisteredClaims{
		ID:        "sid",
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(c.t.Add(time.Minute)),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, cl).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.Decode(tok)
	assert.ErrorIs(t, err, ErrInvalid)

	tok, err = jwt.NewWithClaims(jwt.SigningMethodHS512, cl).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = m.Decode(tok)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestResolveDeletedUserIsAnonymous(t *testing.T) {
	m, _, users, _ := newTestManager(t)
	ctx := context.Background()

	tok, _, err := m.Issue(ctx, alice)
	require.NoError(t, err)

	delete(users.m, alice.ID)
	_, err = m.Resolve(ctx, tok)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestResolveStorageFailure(t *testing.T) {
	m, _, users, _ := newTestManager(t)
	ctx := context.Background()

	tok, _, err := m.Issue(ctx, alice)
	require.NoError(t, err)

	users.err = errors.New("db down")
	_, err = m.Resolve(ctx, tok)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalid)
}

func TestResolveEmptyToken(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	_, err := m.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestRevokeIsIdempotent(t *testing.T) {
	m, c, _, rev := newTestManager(t)
	ctx := context.Background()

	tok, s, err := m.Issue(ctx, alice)
	require.NoError(t, err)

	c.t = c.t.Add(4 * time.Second)
	require.NoError(t, m.Revoke(ctx, tok))
	require.NoError(t, m.Revoke(ctx, tok))
	assert.Equal(t, 6*time.Second, rev.m[s.ID])

	_, err = m.Resolve(ctx, tok)
	assert.ErrorIs(t, err, ErrInvalid)

	require.NoError(t, m.Revoke(ctx, ""))
	require.NoError(t, m.Revoke(ctx, "garbage"))
}

func TestRevokeStoreFailure(t *testing.T) {
	m, _, _, rev := newTestManager(t)
	ctx := context.Background()

	tok, _, err := m.Issue(ctx, alice)
	require.NoError(t, err)

	rev.err = errors.New("redis down")
	assert.Error(t, m.Revoke(ctx, tok))

	_, err = m.Resolve(ctx, tok)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalid)
}

func TestSessionsAreDistinct(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	a := m.Reduce(alice)
	b := m.Reduce(alice)
	assert.NotEqual(t, a.ID, b.ID)
}
