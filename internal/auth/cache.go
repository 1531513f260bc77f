package auth

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultCacheTTL is how long a computed permission set is served.
	DefaultCacheTTL = 15 * time.Minute

	// DefaultCacheSize bounds the number of users kept in the cache.
	DefaultCacheSize = 10000
)

// PermissionLoader computes the effective permissions of a user.
type PermissionLoader interface {
	EffectivePermissions(ctx context.Context, userID uuid.UUID) (PermissionSet, error)
}

type cacheEntry struct {
	permissions PermissionSet
	expiresAt   time.Time
}

// PermissionCache memoizes effective permission sets per user for a fixed
// TTL. It is process local and safe for concurrent use. Expired entries are
// recomputed on read and removed by CleanupExpiredEntries.
type PermissionCache struct {
	loader  PermissionLoader
	ttl     time.Duration
	entries *lru.Cache[uuid.UUID, cacheEntry]
	loads   singleflight.Group
	now     func() time.Time

	// mu guards generation. It is bumped by every eviction so that loads
	// started before an eviction do not store their result.
	mu         sync.Mutex
	generation uint64
}

// NewPermissionCache creates a cache in front of loader. A non-positive ttl
// or size selects the default.
func NewPermissionCache(loader PermissionLoader, ttl time.Duration, size int) (*PermissionCache, error) {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	if size <= 0 {
		size = DefaultCacheSize
	}

	entries, err := lru.New[uuid.UUID, cacheEntry](size)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return &PermissionCache{
		loader:  loader,
		ttl:     ttl,
		entries: entries,
		now:     time.Now,
	}, nil
}

// WithClock replaces the time source used for expiry.
func (c *PermissionCache) WithClock(now func() time.Time) *PermissionCache {
	c.now = now
	return c
}

// TTL returns the lifetime of an entry.
func (c *PermissionCache) TTL() time.Duration {
	return c.ttl
}

// GetUserPermissions returns the cached permissions of userID, computing and
// storing them when absent or expired. Callers must not modify the result.
func (c *PermissionCache) GetUserPermissions(ctx context.Context, userID uuid.UUID) (PermissionSet, error) {
	if e, ok := c.entries.Get(userID); ok && c.now().Before(e.expiresAt) {
		cacheLookups.WithLabelValues("hit").Inc()
		return e.permissions, nil
	}

	cacheLookups.WithLabelValues("miss").Inc()

	c.mu.Lock()
	gen := c.generation
	c.mu.Unlock()

	key := userID.String() + "/" + strconv.FormatUint(gen, 10)

	// the shared load outlives any single caller, each caller waits on its own context
	results := c.loads.DoChan(key, func() (any, error) {
		perms, err := c.loader.EffectivePermissions(context.WithoutCancel(ctx), userID)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.generation == gen {
			c.entries.Add(userID, cacheEntry{permissions: perms, expiresAt: c.now().Add(c.ttl)})
		}
		c.mu.Unlock()

		return perms, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err() //nolint:wrapcheck
	case res := <-results:
		if res.Err != nil {
			return nil, res.Err //nolint:wrapcheck
		}

		return res.Val.(PermissionSet), nil //nolint:forcetypeassert
	}
}

// HasPermission reports whether code is in the cached permissions of userID.
func (c *PermissionCache) HasPermission(ctx context.Context, userID uuid.UUID, code string) (bool, error) {
	perms, err := c.GetUserPermissions(ctx, userID)
	if err != nil {
		return false, err
	}

	return perms.Has(code), nil
}

// EvictUser drops the entry of userID.
func (c *PermissionCache) EvictUser(userID uuid.UUID) {
	c.mu.Lock()
	c.generation++
	removed := c.entries.Remove(userID)
	c.mu.Unlock()

	if removed {
		cacheEvictions.WithLabelValues("user").Inc()
	}
}

// EvictAll drops every entry.
func (c *PermissionCache) EvictAll() {
	c.mu.Lock()
	c.generation++
	c.entries.Purge()
	c.mu.Unlock()

	cacheEvictions.WithLabelValues("all").Inc()
}

// CleanupExpiredEntries removes entries past their expiry and returns how
// many were removed.
func (c *PermissionCache) CleanupExpiredEntries() int {
	var (
		now     = c.now()
		removed int
	)

	for _, userID := range c.entries.Keys() {
		e, ok := c.entries.Peek(userID)
		if !ok || now.Before(e.expiresAt) {
			continue
		}

		if c.entries.Remove(userID) {
			removed++
		}
	}

	cacheEvictions.WithLabelValues("expired").Add(float64(removed))

	return removed
}

// Len returns the number of cached users, expired entries included.
func (c *PermissionCache) Len() int {
	return c.entries.Len()
}
