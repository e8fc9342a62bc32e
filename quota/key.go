// Package quota validates API keys and enforces the per-key daily request
// ceiling before any location source is consulted.
package quota

import (
	"context"
	"database/sql"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/juju/errors"
)

// Mode is the API capability a key is exercised against.
type Mode string

const (
	ModeLocate Mode = "locate"
	ModeRegion Mode = "region"
)

// Key is an API key record. It is looked up once per request and treated
// as immutable afterwards.
type Key struct {
	ValidKey          string
	AllowLocate       bool
	AllowRegion       bool
	AllowFallback     bool
	MaxReq            int // daily ceiling, 0 means unlimited
	StoreSampleLocate int // percentage of resolved queries to enqueue
}

// AllowedFor reports whether the key grants the capability.
func (k Key) AllowedFor(mode Mode) bool {
	switch mode {
	case ModeLocate:
		return k.AllowLocate
	case ModeRegion:
		return k.AllowRegion
	}

	return false
}

// KeyStore resolves an API key id to its record. A missing key is not an
// error, it reports found=false.
type KeyStore interface {
	Get(ctx context.Context, id string) (Key, bool, error)
}

// SQLKeyStore reads keys from the shared PostgreSQL database.
type SQLKeyStore struct {
	db *sql.DB
}

func NewSQLKeyStore(db *sql.DB) *SQLKeyStore {
	return &SQLKeyStore{db: db}
}

func (s *SQLKeyStore) Get(ctx context.Context, id string) (Key, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT valid_key, allow_locate, allow_region, allow_fallback,
		        maxreq, store_sample_locate
		 FROM api_key WHERE valid_key = $1`, id)

	var key Key
	err := row.Scan(&key.ValidKey, &key.AllowLocate, &key.AllowRegion,
		&key.AllowFallback, &key.MaxReq, &key.StoreSampleLocate)
	switch err {
	case nil:
		return key, true, nil
	case sql.ErrNoRows:
		return Key{}, false, nil
	}

	return Key{}, false, errors.Annotate(err, "cannot query api_key")
}

type cachedKey struct {
	key   Key
	found bool
}

// CachedKeyStore caches lookups, including misses, in front of another
// KeyStore. Keys change rarely, so a short TTL keeps revocations timely
// without hitting the database on every request.
type CachedKeyStore struct {
	next  KeyStore
	cache *lru.LRU[string, cachedKey]
}

func NewCachedKeyStore(next KeyStore, size int, ttl time.Duration) *CachedKeyStore {
	return &CachedKeyStore{
		next:  next,
		cache: lru.NewLRU[string, cachedKey](size, nil, ttl),
	}
}

func (c *CachedKeyStore) Get(ctx context.Context, id string) (Key, bool, error) {
	if cached, ok := c.cache.Get(id); ok {
		return cached.key, cached.found, nil
	}

	key, found, err := c.next.Get(ctx, id)
	if err != nil {
		return Key{}, false, errors.Trace(err)
	}

	c.cache.Add(id, cachedKey{key: key, found: found})

	return key, found, nil
}

// MemoryKeyStore is a KeyStore for tests and local development.
type MemoryKeyStore struct {
	keys map[string]Key
}

func NewMemoryKeyStore(keys ...Key) *MemoryKeyStore {
	byID := make(map[string]Key, len(keys))
	for _, key := range keys {
		byID[key.ValidKey] = key
	}

	return &MemoryKeyStore{keys: byID}
}

func (m *MemoryKeyStore) Get(_ context.Context, id string) (Key, bool, error) {
	key, found := m.keys[id]

	return key, found, nil
}
