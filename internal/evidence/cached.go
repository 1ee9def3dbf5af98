package evidence

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ppiankov/rumorscope/internal/cache"
)

// CachedSource memoizes successful lookups of another Source.
// Failed lookups are never cached.
type CachedSource struct {
	next  Source
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedSource wraps next with a cache
func NewCachedSource(next Source, c cache.Cache, ttl time.Duration) *CachedSource {
	return &CachedSource{next: next, cache: c, ttl: ttl}
}

// SearchFactChecks returns a cached result when one exists
func (s *CachedSource) SearchFactChecks(ctx context.Context, query string) Result[ClaimReview] {
	key := cache.CacheKey("factcheck", query)
	if data, ok := lookup[ClaimReview](s.cache, key); ok {
		return Ok("factcheck", data)
	}

	res := s.next.SearchFactChecks(ctx, query)
	if !res.Failed() {
		store(s.cache, key, res.Data, s.ttl)
	}
	return res
}

// SearchAuthoritativeSites only forwards the scopes that are not cached
func (s *CachedSource) SearchAuthoritativeSites(ctx context.Context, query string, siteScopes []string) []Result[SiteResult] {
	results := make([]Result[SiteResult], len(siteScopes))

	var missing []string
	var missingIdx []int
	for i, site := range siteScopes {
		if data, ok := lookup[SiteResult](s.cache, cache.CacheKey("site", site, query)); ok {
			results[i] = Ok(site, data)
			continue
		}
		missing = append(missing, site)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) == 0 {
		return results
	}

	fresh := s.next.SearchAuthoritativeSites(ctx, query, missing)
	for j, res := range fresh {
		if j >= len(missingIdx) {
			break
		}
		results[missingIdx[j]] = res
		if !res.Failed() {
			store(s.cache, cache.CacheKey("site", missing[j], query), res.Data, s.ttl)
		}
	}
	return results
}

// Availability forwards to the wrapped source when it reports availability
func (s *CachedSource) Availability() map[string]bool {
	if a, ok := s.next.(Available); ok {
		return a.Availability()
	}
	return nil
}

func lookup[T any](c cache.Cache, key string) ([]T, bool) {
	raw, ok := c.Get(key)
	if !ok {
		return nil, false
	}
	var data []T
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, false
	}
	return data, true
}

func store[T any](c cache.Cache, key string, data []T, ttl time.Duration) {
	raw, err := json.Marshal(data)
	if err != nil {
		return
	}
	_ = c.Set(key, raw, ttl)
}
