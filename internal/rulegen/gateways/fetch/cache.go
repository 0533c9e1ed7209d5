package fetch

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/haukened/dnr-rulegen/internal/rulegen/common/log"
)

// Cached wraps a Fetcher so each source is retrieved at most once while its
// body stays in the LRU. Concurrent requests for the same source share one
// underlying fetch. Failures are not cached.
type Cached struct {
	next   Fetcher
	cache  *lru.Cache[string, []byte]
	group  singleflight.Group
	logger log.Logger
}

// NewCached returns a Cached fetcher holding up to size bodies.
func NewCached(next Fetcher, size int, logger log.Logger) (*Cached, error) {
	c, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create fetch cache: %w", err)
	}
	return &Cached{next: next, cache: c, logger: logger}, nil
}

// Fetch implements Fetcher.
func (c *Cached) Fetch(ctx context.Context, source string) ([]byte, error) {
	if b, ok := c.cache.Get(source); ok {
		c.logger.Debug(map[string]any{"source": source}, "fetch_cache_hit")
		return b, nil
	}
	v, err, shared := c.group.Do(source, func() (any, error) {
		b, err := c.next.Fetch(ctx, source)
		if err != nil {
			return nil, err
		}
		c.cache.Add(source, b)
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debug(map[string]any{"source": source}, "fetch_shared")
	}
	return v.([]byte), nil
}

// Len returns the number of cached bodies.
func (c *Cached) Len() int { return c.cache.Len() }
