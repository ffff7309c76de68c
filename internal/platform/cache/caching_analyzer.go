// Package cache provides caching implementations for usecase interfaces.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"

	"covid_market/internal/feature/insight/usecase"
)

// DefaultNamespace is the key prefix used when none is given.
const DefaultNamespace = "insight"

// ModelNamespace scopes cache keys to a model so switching models never
// serves answers produced by another one.
func ModelNamespace(model string) string {
	model = strings.TrimSpace(model)
	if model == "" {
		return DefaultNamespace
	}
	return DefaultNamespace + ":" + strings.ReplaceAll(model, ":", "_")
}

// CachingAnalyzer decorates an Analyzer with Redis caching.
// Prompts embed the full dataset summary, so identical prompts always
// describe identical data and can share an answer.
type CachingAnalyzer struct {
	inner     usecase.Analyzer
	rdb       *redis.Client
	ttl       func() time.Duration
	namespace string
}

var _ usecase.Analyzer = (*CachingAnalyzer)(nil)

// NewCachingAnalyzer decorates an Analyzer with Redis caching.
// If ttl is 0, entries live until the next UTC midnight. If namespace is empty, it uses "insight".
func NewCachingAnalyzer(rdb *redis.Client, ttl time.Duration, inner usecase.Analyzer, namespace string) *CachingAnalyzer {
	ttlFn := func() time.Duration { return ttl }
	if ttl <= 0 {
		ttlFn = func() time.Duration { return TimeUntilNextMidnight(time.Now()) }
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &CachingAnalyzer{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttlFn,
		namespace: namespace,
	}
}

// Analyze returns a cached answer for the prompt, falling back to the inner analyzer.
func (c *CachingAnalyzer) Analyze(ctx context.Context, prompt string) (string, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.Analyze(ctx, prompt)
	}

	key := c.cacheKey(prompt)

	// 1) Check cache
	text, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil && text != "":
		return text, nil
	case err != nil && !errors.Is(err, redis.Nil):
		// Redis障害時もAI呼び出しは継続する
		slog.Warn("insight cache read failed", "key", key, "error", err)
	}

	// 2) Fallback to the AI client
	text, err = c.inner.Analyze(ctx, prompt)
	if err != nil {
		return "", err
	}

	// 3) Store in cache (best effort)
	if err := c.rdb.Set(ctx, key, text, c.ttl()).Err(); err != nil {
		slog.Warn("insight cache write failed", "key", key, "error", err)
	}
	return text, nil
}

// cacheKey generates a cache key for a prompt.
func (c *CachingAnalyzer) cacheKey(prompt string) string {
	return c.namespace + ":" + strconv.FormatUint(xxhash.Sum64String(prompt), 16)
}
