package transit

import "github.com/bluele/gcache"

// DefaultCacheSize is the route cache capacity used when none is configured.
const DefaultCacheSize = 4096

type routeKey struct {
	from, to string
}

// CachedFinder memoises route answers in an LRU cache. Answers never go stale
// because a built network is immutable. Cached routes are shared between
// callers and must not be modified.
type CachedFinder struct {
	next  RouteFinder
	cache gcache.Cache
}

var _ RouteFinder = (*CachedFinder)(nil)

// NewCachedFinder wraps next with an LRU cache of the given capacity.
func NewCachedFinder(next RouteFinder, size int) *CachedFinder {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &CachedFinder{
		next:  next,
		cache: gcache.New(size).LRU().Build(),
	}
}

// FindRoute returns the cached answer for (from, to), computing it on a miss.
func (c *CachedFinder) FindRoute(from, to string) Route {
	key := routeKey{from, to}
	if v, err := c.cache.Get(key); err == nil {
		if r, ok := v.(Route); ok {
			return r
		}
	}
	r := c.next.FindRoute(from, to)
	_ = c.cache.Set(key, r)
	return r
}

// CacheStats reports cache effectiveness.
type CacheStats struct {
	Entries int
	Hits    uint64
	Misses  uint64
	HitRate float64
}

// Stats returns the current cache counters.
func (c *CachedFinder) Stats() CacheStats {
	return CacheStats{
		Entries: c.cache.Len(false),
		Hits:    c.cache.HitCount(),
		Misses:  c.cache.MissCount(),
		HitRate: c.cache.HitRate(),
	}
}
