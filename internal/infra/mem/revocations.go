package mem

import (
	"context"
	"encoding/binary"
	"errors"
	"time"

	"github.com/allegro/bigcache/v3"
)

// Entries are a session id (a UUID) and an 8-byte deadline.
const (
	revocationShards     = 16
	revocationEntrySize  = 64
	revocationWindowSize = 4096
)

// Revocations remembers logged-out session ids for one process. An id counts
// as revoked until the ttl given to Revoke runs out; bigcache drops entries
// after the session max-age, which no ttl exceeds.
type Revocations struct {
	cache *bigcache.BigCache
	now   func() time.Time
}

func NewRevocations(maxAge time.Duration) (*Revocations, error) {
	cfg := bigcache.DefaultConfig(maxAge)
	cfg.Shards = revocationShards
	cfg.MaxEntriesInWindow = revocationWindowSize
	cfg.MaxEntrySize = revocationEntrySize
	cfg.CleanWindow = maxAge
	cfg.Verbose = false
	cache, err := bigcache.NewBigCache(cfg)
	if err != nil {
		return nil, err
	}
	return &Revocations{
		cache: cache,
		now:   time.Now,
	}, nil
}

func (m *Revocations) Revoke(ctx context.Context, id string, ttl time.Duration) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(m.now().Add(ttl).UnixNano()))
	return m.cache.Set(id, buf[:])
}

func (m *Revocations) IsRevoked(ctx context.Context, id string) (bool, error) {
	buf, err := m.cache.Get(id)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(buf) != 8 {
		return false, nil
	}
	deadline := time.Unix(0, int64(binary.BigEndian.Uint64(buf)))
	return m.now().Before(deadline), nil
}

func (m *Revocations) Close() error {
	return m.cache.Close()
}
