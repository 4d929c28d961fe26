package passwd

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func fastArgon2() Argon2 {
	return Argon2{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}
}

func hashers() map[string]Hasher {
	return map[string]Hasher{
		"bcrypt":   Bcrypt{Cost: bcrypt.MinCost},
		"argon2id": fastArgon2(),
	}
}

func TestHashVerify(t *testing.T) {
	for name, h := range hashers() {
		t.Run(name, func(t *testing.T) {
			d, err := h.Hash("pw123")
			require.NoError(t, err)

			ok, err := h.Verify("pw123", d)
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = h.Verify("pw124", d)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestHashSaltsEveryCall(t *testing.T) {
	for name, h := range hashers() {
		t.Run(name, func(t *testing.T) {
			d1, err := h.Hash("same")
			require.NoError(t, err)
			d2, err := h.Hash("same")
			require.NoError(t, err)
			assert.NotEqual(t, d1, d2)

			for _, d := range []string{d1, d2} {
				ok, err := h.Verify("same", d)
				require.NoError(t, err)
				assert.True(t, ok)
			}
		})
	}
}

func TestArgon2Format(t *testing.T) {
	d, err := fastArgon2().Hash("x")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(d, "argon2id$1$8192$1$32$"))
	assert.Len(t, strings.Split(d, "$"), 7)
}

func TestArgon2Malformed(t *testing.T) {
	a := fastArgon2()
	for _, enc := range []string{
		"",
		"argon2id$1$2$3",
		"argon2i$1$8192$1$32$c2FsdA$aGFzaA",
		"argon2id$x$8192$1$32$c2FsdA$aGFzaA",
		"argon2id$1$8192$1$32$!!!$aGFzaA",
		"argon2id$1$8192$1$32$c2FsdA$aGFzaA",
	} {
		_, err := a.Verify("pw", enc)
		assert.Error(t, err, enc)
	}
}

func TestDispatchVerifiesBothFormats(t *testing.T) {
	d, err := New(AlgArgon2id, bcrypt.MinCost)
	require.NoError(t, err)
	d.Argon2 = fastArgon2()
	d.Primary = d.Argon2

	bc, err := Bcrypt{Cost: bcrypt.MinCost}.Hash("pw")
	require.NoError(t, err)
	ar, err := d.Hash("pw")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ar, argon2Prefix))

	for _, enc := range []string{bc, ar} {
		ok, err := d.Verify("pw", enc)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	_, err = d.Verify("pw", "plaintext")
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
}

func TestNewUnknownAlgorithm(t *testing.T) {
	_, err := New("md5", 10)
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
}

type slowHasher struct {
	running int32
	peak    int32
	delay   time.Duration
}

func (s *slowHasher) Hash(pw string) (string, error) {
	n := atomic.AddInt32(&s.running, 1)
	for {
		p := atomic.LoadInt32(&s.peak)
		if n <= p || atomic.CompareAndSwapInt32(&s.peak, p, n) {
			break
		}
	}
	time.Sleep(s.delay)
	atomic.AddInt32(&s.running, -1)
	return "h:" + pw, nil
}

func (s *slowHasher) Verify(pw, enc string) (bool, error) {
	if enc == "broken" {
		return false, errors.New("broken digest")
	}
	return enc == "h:"+pw, nil
}

func TestPoolBoundsConcurrency(t *testing.T) {
	h := &slowHasher{delay: 20 * time.Millisecond}
	p := NewPool(h, 2)
	ctx := context.Background()

	done := make(chan struct{})
	for i := 0; i < 6; i++ {
		go func() {
			_, _ = p.Hash(ctx, "pw")
			done <- struct{}{}
		}()
	}
	for i := 0; i < 6; i++ {
		<-done
	}
	assert.LessOrEqual(t, atomic.LoadInt32(&h.peak), int32(2))
}

func TestPoolResults(t *testing.T) {
	p := NewPool(&slowHasher{}, 1)
	ctx := context.Background()

	d, err := p.Hash(ctx, "pw")
	require.NoError(t, err)
	assert.Equal(t, "h:pw", d)

	ok, err := p.Verify(ctx, "pw", d)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = p.Verify(ctx, "pw", "broken")
	assert.EqualError(t, err, "broken digest")
}

func TestPoolHonoursContext(t *testing.T) {
	p := NewPool(&slowHasher{delay: time.Second}, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := p.Hash(ctx, "pw")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDummyFollowsDigestParameters(t *testing.T) {
	d := &Dispatch{Bcrypt: Bcrypt{Cost: bcrypt.MinCost}, Argon2: fastArgon2()}
	d.Primary = d.Argon2

	legacy, err := Bcrypt{Cost: bcrypt.MinCost + 1}.Hash("pw")
	require.NoError(t, err)
	dummy, err := d.Dummy(legacy)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(dummy))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost+1, cost)

	again, err := d.Dummy(legacy)
	require.NoError(t, err)
	assert.Equal(t, dummy, again, "cached per parameter set")

	tuned := Argon2{Time: 2, Memory: 4 * 1024, Threads: 1, KeyLen: 16, SaltLen: 16}
	ar, err := tuned.Hash("pw")
	require.NoError(t, err)
	dummy, err = d.Dummy(ar)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(dummy, "argon2id$2$4096$1$16$"), dummy)

	dummy, err = d.Dummy("")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(dummy, "argon2id$1$8192$1$32$"), dummy)

	ok, err := d.Verify("pw", dummy)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPoolDummy(t *testing.T) {
	p := NewPool(&slowHasher{}, 1)
	d, err := p.Dummy(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, "h:"+dummyPassword, d)
}
