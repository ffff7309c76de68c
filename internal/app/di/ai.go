package di

import (
	"context"

	"github.com/redis/go-redis/v9"

	chatusecase "covid_market/internal/feature/chat/usecase"
	insightusecase "covid_market/internal/feature/insight/usecase"
	"covid_market/internal/platform/cache"
	"covid_market/internal/platform/gemini"
	infrahttp "covid_market/internal/platform/http"
)

// AI groups the generative clients used by the insight and chat features.
type AI struct {
	Analyzer insightusecase.Analyzer
	Chatter  chatusecase.Chatter
}

// NewAI creates a Gemini client with a tuned HTTP client. Analysis results
// are cached in Redis per model until the next UTC midnight; rdb may be nil.
func NewAI(ctx context.Context, rdb *redis.Client) (*AI, error) {
	cfg := gemini.LoadConfig()
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout)
	client, err := gemini.NewClient(ctx, cfg, httpClient)
	if err != nil {
		return nil, err
	}
	return &AI{
		Analyzer: cache.NewCachingAnalyzer(rdb, 0, client, cache.ModelNamespace(cfg.Model)),
		Chatter:  client,
	}, nil
}
