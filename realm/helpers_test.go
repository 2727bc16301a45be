package realm

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/andrebq/bookshelf/userdb"
	"github.com/stretchr/testify/require"
)

const (
	aliceHash = "pbkdf2:sha256:600000$hQdi8AMq$813059eab6f37215457e25c289b5ba811564b1b65c1a86f747391d7fc4ab092a"
)

type (
	fakeClock struct {
		sync.Mutex
		now time.Time
	}

	countingStore struct {
		sync.Mutex
		hashes  map[string]string
		lookups atomic.Int32
		err     error
		// before runs inside LookupPasswordHash, before the hash is returned
		before func(ctx context.Context)
	}
)

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.Lock()
	defer f.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.Lock()
	defer f.Unlock()
	f.now = f.now.Add(d)
}

func newStore(hashes map[string]string) *countingStore {
	return &countingStore{hashes: hashes}
}

func (c *countingStore) LookupPasswordHash(ctx context.Context, principal string) (string, error) {
	c.lookups.Add(1)
	if c.before != nil {
		c.before(ctx)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.Lock()
	defer c.Unlock()
	if c.err != nil {
		return "", c.err
	}
	h, ok := c.hashes[principal]
	if !ok {
		return "", userdb.UserNotFound{Name: principal}
	}
	return h, nil
}

func (c *countingStore) SetPasswordHash(ctx context.Context, principal, hash string) error {
	c.Lock()
	defer c.Unlock()
	if c.err != nil {
		return c.err
	}
	c.hashes[principal] = hash
	return nil
}

func (c *countingStore) DeleteUser(ctx context.Context, principal string) error {
	c.Lock()
	defer c.Unlock()
	if _, ok := c.hashes[principal]; !ok {
		return userdb.UserNotFound{Name: principal}
	}
	delete(c.hashes, principal)
	return nil
}

func acquireCache(t *testing.T, clock *fakeClock) *MemCache {
	cfg := DefaultCacheConfig()
	cfg.CleanWindow = 0
	if clock != nil {
		cfg.Clock = clock.Now
	}
	c, err := NewMemCache(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}
