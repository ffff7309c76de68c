// Package ratelimiter はAIエンドポイント向けのクライアント単位のレート制限を提供します。
package ratelimiter

import (
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"covid_market/internal/api"
)

const (
	// DefaultRPS は1クライアントあたりの1秒間の許容リクエスト数です。
	DefaultRPS = 0.5
	// DefaultBurst は瞬間的に許容するリクエスト数です。
	DefaultBurst = 5

	idleTTL      = 10 * time.Minute
	pruneTrigger = 1024
)

// Config はレート制限の設定です。
type Config struct {
	RPS   float64
	Burst int
}

// LoadConfig は環境変数 AI_RATE_LIMIT_RPS / AI_RATE_LIMIT_BURST から設定を読み込みます。
func LoadConfig() Config {
	cfg := Config{RPS: DefaultRPS, Burst: DefaultBurst}
	if v, err := strconv.ParseFloat(os.Getenv("AI_RATE_LIMIT_RPS"), 64); err == nil && v > 0 {
		cfg.RPS = v
	}
	if v, err := strconv.Atoi(os.Getenv("AI_RATE_LIMIT_BURST")); err == nil && v > 0 {
		cfg.Burst = v
	}
	return cfg
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter はキー（クライアントIP）ごとにトークンバケットを保持します。
type RateLimiter struct {
	mu       sync.Mutex
	cfg      Config
	visitors map[string]*visitor
	now      func() time.Time
}

// NewRateLimiter は新しいRateLimiterのインスタンスを生成します。
func NewRateLimiter(cfg Config) *RateLimiter {
	if cfg.RPS <= 0 {
		cfg.RPS = DefaultRPS
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultBurst
	}
	return &RateLimiter{
		cfg:      cfg,
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
}

// Allow はkeyのリクエストを今すぐ処理してよいかを返します。
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	v, ok := rl.visitors[key]
	if !ok {
		if len(rl.visitors) >= pruneTrigger {
			rl.prune(now)
		}
		v = &visitor{limiter: rate.NewLimiter(rate.Limit(rl.cfg.RPS), rl.cfg.Burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// prune はidleTTL以上アクセスのないクライアントを破棄します。
func (rl *RateLimiter) prune(now time.Time) {
	for k, v := range rl.visitors {
		if now.Sub(v.lastSeen) > idleTTL {
			delete(rl.visitors, k)
		}
	}
}

// Middleware はクライアントIP単位で制限し、超過時に429を返すGinミドルウェアです。
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !rl.Allow(ip) {
			slog.Warn("rate limit exceeded", "remote_addr", ip, "path", c.FullPath())
			c.Header("Retry-After", strconv.Itoa(int(max(1, 1/rl.cfg.RPS))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, api.ErrorResponse{Error: "too many requests"})
			return
		}
		c.Next()
	}
}
