// Package router はアプリケーションのHTTPルーティングを定義します。
package router

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"covid_market/internal/api"
	cataloghandler "covid_market/internal/feature/catalog/transport/handler"
	chathandler "covid_market/internal/feature/chat/transport/handler"
	insighthandler "covid_market/internal/feature/insight/transport/handler"
	healthhandler "covid_market/internal/platform/http/handler"
	"covid_market/internal/platform/http/middleware"
)

// Handlers はルーターに登録するハンドラー群です。
// AIEnabled が false の場合、AIを呼び出すエンドポイントは503を返します。
type Handlers struct {
	Health    *healthhandler.HealthHandler
	Catalog   *cataloghandler.CatalogHandler
	Insight   *insighthandler.InsightHandler
	Chat      *chathandler.ChatHandler
	AIEnabled bool
}

// Options はルーター全体の設定です。
type Options struct {
	AllowedOrigins []string
	// AILimiter はAIエンドポイントに適用するミドルウェアです（nilなら制限なし）。
	AILimiter gin.HandlerFunc
}

// LoadOptions は環境変数 CORS_ALLOWED_ORIGINS（カンマ区切り）を読み込みます。
func LoadOptions() Options {
	var origins []string
	for _, o := range strings.Split(os.Getenv("CORS_ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return Options{AllowedOrigins: origins}
}

// NewRouter はミドルウェアとルートを登録したGinエンジンを返します。
func NewRouter(h Handlers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID())

	// ブラウザのダッシュボードから呼ばれるためCORSを許可
	corsCfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", middleware.HeaderRequestID},
		ExposeHeaders: []string{middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	if len(opts.AllowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = opts.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// 導通確認用
	r.GET("/healthz", h.Health.Health)
	r.HEAD("/healthz", h.Health.Health)

	v1 := r.Group("/v1")
	{
		v1.GET("/countries", h.Catalog.ListCountries)
		v1.GET("/countries/:key", h.Catalog.GetCountry)
		v1.GET("/stocks", h.Catalog.ListStocks)
		v1.GET("/stocks/:ticker", h.Catalog.GetStock)
	}

	// AIを呼び出すルート
	ai := v1.Group("/")
	if opts.AILimiter != nil {
		ai.Use(opts.AILimiter)
	}
	if h.AIEnabled {
		ai.POST("/insights/countries/:key/analysis", h.Insight.AnalyzeCorrelation)
		ai.POST("/insights/countries/:key/prediction", h.Insight.PredictIndex)
		ai.POST("/insights/stocks/:ticker/prediction", h.Insight.PredictStock)
		ai.POST("/help", h.Insight.Help)
		ai.POST("/chat", h.Chat.Send)
	} else {
		ai.POST("/insights/countries/:key/analysis", unavailable)
		ai.POST("/insights/countries/:key/prediction", unavailable)
		ai.POST("/insights/stocks/:ticker/prediction", unavailable)
		ai.POST("/help", unavailable)
		ai.POST("/chat", unavailable)
	}
	v1.GET("/chat/greeting", h.Chat.Greeting)

	return r
}

// unavailable はAIクライアントが構成されていない場合に503を返します。
func unavailable(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Error: "AI service is not configured"})
}
