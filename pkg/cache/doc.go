// Package cache provides a small generic Cache interface with in-memory and
// Redis implementations, plus [GetOrLoad] for coalescing concurrent misses.
//
// TTL semantics for Set:
//   - Positive duration: item expires after this duration
//   - Zero: use the cache's configured default TTL
//   - Negative: item never expires
//
// The set of (namespace, locale) pairs is small and finite, so the
// in-memory tree cache never evicts. A shared Redis tier gets a positive TTL
// so trees from an older deploy age out.
//
// # In-Memory Cache
//
//	c := cache.NewMemory[*i18n.Tree]()
//	defer c.Close()
//
// # Redis Cache
//
// Values are serialized with a [Marshaler] (JSON by default) and keys are
// prefixed so several caches can share one Redis database:
//
//	client := redis.MustOpen(ctx, os.Getenv("REDIS_URL"))
//	c := cache.NewRedis[*i18n.Tree](client, nil, cache.WithPrefix("i18n"))
//
// # Tiers
//
// [Tiered] puts a process-local cache in front of a shared one. Reads hit
// memory first and copy shared hits up; writes go to both:
//
//	c := cache.NewTiered[*i18n.Tree](cache.NewMemory[*i18n.Tree](), shared, time.Hour)
//
// # Coalescing
//
// [Group.GetOrLoad] runs the loader once per key no matter how many goroutines
// miss at the same time, and stores the result before releasing the waiters,
// so a caller arriving right after the load completes hits the cache instead
// of starting a second load. Errors are returned to every waiter and are not
// cached.
package cache
