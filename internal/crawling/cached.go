package crawling

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jonathan/profile2pdf/internal/observability"
	"github.com/jonathan/profile2pdf/internal/types"
)

// DefaultCacheTTL is how long a successful crawl is reused
const DefaultCacheTTL = 10 * time.Minute

// Cache stores successful crawl results by key.
type Cache interface {
	Get(ctx context.Context, key string) (*types.CrawlResult, bool, error)
	Set(ctx context.Context, key string, result *types.CrawlResult, ttl time.Duration) error
}

// CachedCrawler wraps a Crawler and reuses successful results for the same
// URL and options. Failures and errors are never cached.
type CachedCrawler struct {
	next   Crawler
	cache  Cache
	ttl    time.Duration
	logger observability.Logger
}

// NewCachedCrawler creates a caching decorator around next.
func NewCachedCrawler(next Crawler, cache Cache, ttl time.Duration, logger observability.Logger) *CachedCrawler {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = observability.NewNop()
	}
	return &CachedCrawler{next: next, cache: cache, ttl: ttl, logger: logger}
}

// Crawl returns a cached result when one is fresh, otherwise delegates and
// caches a successful result. Cache failures only cost a cache miss.
func (c *CachedCrawler) Crawl(ctx context.Context, url string, opts Options) (*types.CrawlResult, error) {
	key, err := CacheKey(url, opts)
	if err != nil {
		return nil, &CrawlError{Message: "failed to build cache key", Cause: err}
	}

	cached, found, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("crawl cache read failed", zap.String("url", url), zap.Error(err))
	}
	if found {
		c.logger.Debug("crawl cache hit", zap.String("url", url))
		return cached, nil
	}

	result, err := c.next.Crawl(ctx, url, opts)
	if err != nil || result == nil || !result.Success {
		return result, err
	}

	if err := c.cache.Set(ctx, key, result, c.ttl); err != nil {
		c.logger.Warn("crawl cache write failed", zap.String("url", url), zap.Error(err))
	}
	return result, nil
}

// CacheKey identifies a crawl by its URL and options.
func CacheKey(url string, opts Options) (string, error) {
	data, err := json.Marshal(struct {
		URL  string  `json:"url"`
		Opts Options `json:"opts"`
	}{url, opts})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return "crawl:" + hex.EncodeToString(sum[:]), nil
}

type memoryEntry struct {
	result    *types.CrawlResult
	expiresAt time.Time
}

// MemoryCache is an in-process Cache with per-entry expiry.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *MemoryCache) Get(_ context.Context, key string) (*types.CrawlResult, bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !m.now().Before(entry.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, false, nil
	}
	return entry.result, true, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, result *types.CrawlResult, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{result: result, expiresAt: m.now().Add(ttl)}
	return nil
}

// RedisCache stores results as JSON strings with a Redis TTL.
type RedisCache struct {
	client redis.Cmdable
	prefix string
}

// NewRedisCache creates a RedisCache. prefix namespaces every key.
func NewRedisCache(client redis.Cmdable, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

func (r *RedisCache) Get(ctx context.Context, key string) (*types.CrawlResult, bool, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read crawl cache: %w", err)
	}

	var result types.CrawlResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached crawl: %w", err)
	}
	return &result, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, result *types.CrawlResult, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode crawl result: %w", err)
	}
	if err := r.client.Set(ctx, r.prefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write crawl cache: %w", err)
	}
	return nil
}
