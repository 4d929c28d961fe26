package mem

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevocations(t *testing.T) {
	ctx := context.Background()
	r, err := NewRevocations(time.Minute)
	require.NoError(t, err)
	defer r.Close()

	revoked, err := r.IsRevoked(ctx, "sid-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, r.Revoke(ctx, "sid-1", time.Minute))
	require.NoError(t, r.Revoke(ctx, "sid-1", time.Minute))

	revoked, err = r.IsRevoked(ctx, "sid-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = r.IsRevoked(ctx, "sid-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevocationHonoursTTL(t *testing.T) {
	ctx := context.Background()
	r, err := NewRevocations(time.Minute)
	require.NoError(t, err)
	defer r.Close()

	now := time.Unix(1_700_000_000, 0)
	r.now = func() time.Time { return now }

	require.NoError(t, r.Revoke(ctx, "sid-1", 5*time.Second))

	now = now.Add(4 * time.Second)
	revoked, err := r.IsRevoked(ctx, "sid-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	now = now.Add(2 * time.Second)
	revoked, err = r.IsRevoked(ctx, "sid-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevocationsStaySmall(t *testing.T) {
	r, err := NewRevocations(10 * time.Second)
	require.NoError(t, err)
	defer r.Close()

	assert.Less(t, r.cache.Capacity(), 1<<20)
}
