package router_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"covid_market/internal/api"
	"covid_market/internal/app/router"
	"covid_market/internal/feature/catalog/adapters"
	"covid_market/internal/feature/catalog/generator"
	cataloghandler "covid_market/internal/feature/catalog/transport/handler"
	catalogusecase "covid_market/internal/feature/catalog/usecase"
	chatentity "covid_market/internal/feature/chat/domain/entity"
	chathandler "covid_market/internal/feature/chat/transport/handler"
	chatusecase "covid_market/internal/feature/chat/usecase"
	insighthandler "covid_market/internal/feature/insight/transport/handler"
	insightusecase "covid_market/internal/feature/insight/usecase"
	healthhandler "covid_market/internal/platform/http/handler"
	"covid_market/internal/platform/http/middleware"
	"covid_market/internal/shared/ratelimiter"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// fakeAI はAnalyzerとChatterを兼ねるテスト用実装です。
type fakeAI struct{}

func (fakeAI) Analyze(ctx context.Context, prompt string) (string, error) {
	return "analysis", nil
}

func (fakeAI) Chat(ctx context.Context, history []chatentity.Message, message string) (string, error) {
	return "reply to " + message, nil
}

func newEngine(t *testing.T, aiEnabled bool, limiter gin.HandlerFunc) *gin.Engine {
	t.Helper()

	catalog, err := catalogusecase.BuildCatalog(context.Background(), adapters.NewStaticDefinitions(), generator.NewSeeded(3))
	require.NoError(t, err)

	var ai fakeAI
	h := router.Handlers{
		Health:    healthhandler.NewHealthHandler(catalog),
		Catalog:   cataloghandler.NewCatalogHandler(catalog),
		Insight:   insighthandler.NewInsightHandler(insightusecase.NewInsightUsecase(catalog, ai)),
		Chat:      chathandler.NewChatHandler(chatusecase.NewChatUsecase(ai)),
		AIEnabled: aiEnabled,
	}
	return router.NewRouter(h, router.Options{AILimiter: limiter})
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_CatalogRoutes(t *testing.T) {
	t.Parallel()

	r := newEngine(t, false, nil)

	w := do(r, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))

	w = do(r, http.MethodGet, "/v1/countries", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["USA","Germany","Japan","India"]`, w.Body.String())

	w = do(r, http.MethodGet, "/v1/stocks", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ticker":"GOOGL"`)

	w = do(r, http.MethodGet, "/v1/countries/Japan", "")
	require.Equal(t, http.StatusOK, w.Code)
	var country api.CountryDatasetResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &country))
	assert.Equal(t, "Nikkei 225", country.IndexName)
	assert.Len(t, country.CovidSeries, generator.DefaultDays)

	w = do(r, http.MethodGet, "/v1/stocks/TSLA", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_AIDisabled(t *testing.T) {
	t.Parallel()

	r := newEngine(t, false, nil)

	paths := []string{
		"/v1/insights/countries/USA/analysis",
		"/v1/insights/countries/USA/prediction",
		"/v1/insights/stocks/AAPL/prediction",
		"/v1/help",
		"/v1/chat",
	}
	for _, p := range paths {
		w := do(r, http.MethodPost, p, `{}`)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, p)
	}

	w := do(r, http.MethodGet, "/v1/chat/greeting", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_AIEnabled(t *testing.T) {
	t.Parallel()

	r := newEngine(t, true, nil)

	w := do(r, http.MethodPost, "/v1/insights/stocks/AAPL/prediction?period=90", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"subject":"AAPL","kind":"stock_prediction","period_days":90,"text":"analysis"}`, w.Body.String())

	w = do(r, http.MethodPost, "/v1/chat", `{"message":"hi"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"reply":{"role":"model","text":"reply to hi"}}`, w.Body.String())
}

func TestRouter_AIRateLimited(t *testing.T) {
	t.Parallel()

	limiter := ratelimiter.NewRateLimiter(ratelimiter.Config{RPS: 0.1, Burst: 1})
	r := newEngine(t, true, limiter.Middleware())

	first := do(r, http.MethodPost, "/v1/help", `{"query":"how?"}`)
	assert.Equal(t, http.StatusOK, first.Code)
	second := do(r, http.MethodPost, "/v1/help", `{"query":"how?"}`)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	// カタログ参照は制限対象外
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/v1/countries", "").Code)
	}
}

func TestRouter_CORS(t *testing.T) {
	t.Parallel()

	r := newEngine(t, false, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/v1/countries", nil)
	req.Header.Set("Origin", "http://localhost:4200")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestLoadOptions(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://dash.example.com, ,http://localhost:4200")

	opts := router.LoadOptions()
	assert.Equal(t, []string{"https://dash.example.com", "http://localhost:4200"}, opts.AllowedOrigins)
}
