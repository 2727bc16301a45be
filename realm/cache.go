package realm

import (
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/cespare/xxhash/v2"
)

const (
	DefaultTTL = 7 * 24 * time.Hour

	lockStripes = 64
	expiryLen   = 8
)

type (
	// Cache remembers secrets that were verified against the users database
	Cache interface {
		Put(principal, secret string, ttl time.Duration) error
		Get(principal string) (string, bool)
		Evict(principal string)
		Close() error
	}

	CacheConfig struct {
		// MaxTTL bounds how long the backing store keeps any entry.
		MaxTTL time.Duration
		// CleanWindow is how often the backing store drops entries older
		// than MaxTTL, zero disables the sweep.
		CleanWindow time.Duration
		// HardMaxCacheSize limits the backing store in MB, zero means unbounded.
		HardMaxCacheSize int
		Clock            func() time.Time
	}

	// MemCache keeps entries in a bigcache instance. Each value carries its own
	// expiry, which is checked on every read.
	MemCache struct {
		store *bigcache.BigCache
		locks [lockStripes]sync.Mutex
		now   func() time.Time
		epoch time.Time
	}
)

func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		MaxTTL:      DefaultTTL,
		CleanWindow: time.Hour,
	}
}

func NewMemCache(cfg CacheConfig) (*MemCache, error) {
	if cfg.MaxTTL <= 0 {
		cfg.MaxTTL = DefaultTTL
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	bc := bigcache.DefaultConfig(cfg.MaxTTL)
	// usernames and passwords are small, keep the initial allocation small too
	bc.Shards = 64
	bc.MaxEntriesInWindow = 1024
	bc.MaxEntrySize = 64
	bc.CleanWindow = cfg.CleanWindow
	bc.HardMaxCacheSize = cfg.HardMaxCacheSize
	bc.Verbose = false
	store, err := bigcache.NewBigCache(bc)
	if err != nil {
		return nil, fmt.Errorf("unable to create credential cache, cause %w", err)
	}
	return &MemCache{
		store: store,
		now:   cfg.Clock,
		epoch: cfg.Clock(),
	}, nil
}

func (m *MemCache) Put(principal, secret string, ttl time.Duration) error {
	entry := make([]byte, expiryLen+len(secret))
	binary.BigEndian.PutUint64(entry, uint64(m.elapsed()+ttl))
	copy(entry[expiryLen:], secret)

	lock := m.lockFor(principal)
	lock.Lock()
	defer lock.Unlock()
	if err := m.store.Set(principal, entry); err != nil {
		return fmt.Errorf("unable to cache credentials for %v, cause %w", principal, err)
	}
	return nil
}

// Get returns the cached secret for principal. An expired entry is removed
// before reporting it as missing.
func (m *MemCache) Get(principal string) (string, bool) {
	lock := m.lockFor(principal)
	lock.Lock()
	defer lock.Unlock()
	entry, err := m.store.Get(principal)
	if err != nil || len(entry) < expiryLen {
		return "", false
	}
	expiresAt := time.Duration(binary.BigEndian.Uint64(entry))
	if m.elapsed() >= expiresAt {
		m.store.Delete(principal)
		return "", false
	}
	return string(entry[expiryLen:]), true
}

func (m *MemCache) Evict(principal string) {
	lock := m.lockFor(principal)
	lock.Lock()
	defer lock.Unlock()
	m.store.Delete(principal)
}

// Len includes expired entries that were not read since they expired.
func (m *MemCache) Len() int {
	return m.store.Len()
}

func (m *MemCache) Close() error {
	return m.store.Close()
}

// elapsed is measured from the cache creation so that, with the default
// clock, wall clock changes do not move expiry around.
func (m *MemCache) elapsed() time.Duration {
	return m.now().Sub(m.epoch)
}

// lockFor picks the stripe with xxhash, while bigcache keys its shards with its
// own hasher and Delete matches on that hash alone. Principals colliding there
// may evict each other, which only costs an extra slow path.
func (m *MemCache) lockFor(principal string) *sync.Mutex {
	return &m.locks[xxhash.Sum64String(principal)%lockStripes]
}
