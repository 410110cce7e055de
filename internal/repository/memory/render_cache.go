package memory

import (
	"context"
	"strings"
	"time"

	"estate-listing-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

// RenderCache is the in-process render cache, used when no Redis is
// configured.
type RenderCache struct {
	cache *cache.Cache
}

func NewRenderCache(defaultTTL time.Duration) contract.RenderCache {
	return &RenderCache{
		cache: cache.New(defaultTTL, 10*time.Minute),
	}
}

func (r *RenderCache) Get(_ context.Context, key string) (string, bool, error) {
	if x, found := r.cache.Get(key); found {
		return x.(string), true, nil
	}
	return "", false, nil
}

func (r *RenderCache) Set(_ context.Context, key, html string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = cache.DefaultExpiration
	}
	r.cache.Set(key, html, ttl)
	return nil
}

func (r *RenderCache) Delete(_ context.Context, prefix string) error {
	for key := range r.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			r.cache.Delete(key)
		}
	}
	return nil
}
