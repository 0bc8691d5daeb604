package ratelimit

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/artivio/artivio-chain/internal/adapter"
	"github.com/artivio/artivio-chain/internal/logger"
)

const (
	keyPrefix = "artivio:ratelimit:"
	// maxLocalKeys bounds the fallback limiter map; it is reset once exceeded
	maxLocalKeys = 10000
	pingTimeout  = 5 * time.Second
)

// Config holds the per-client budget
type Config struct {
	RequestsPerMinute int
	Burst             int
}

// Decision is the outcome of a rate limit check
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter decides whether a client may issue another request
//
//go:generate mockgen -source=limiter.go -destination=../mocks/ratelimit.go -package=mocks -mock_names=Limiter=MockRateLimiter
type Limiter interface {
	// Allow consumes one request from the budget of key
	Allow(ctx context.Context, key string) (Decision, error)
}

type limiter struct {
	config         Config
	distributed    adapter.RedisRateLimiter
	redisAvailable atomic.Bool

	mu    sync.Mutex
	local map[string]*rate.Limiter
}

// NewLimiter creates a limiter that counts in Redis and falls back to
// in-process token buckets when Redis is nil or unreachable
func NewLimiter(ctx context.Context, cfg Config, rc adapter.RedisClient) (Limiter, error) {
	if cfg.RequestsPerMinute <= 0 {
		return nil, errors.New("requests per minute must be positive")
	}
	if cfg.Burst <= 0 {
		cfg.Burst = cfg.RequestsPerMinute
	}

	l := &limiter{
		config: cfg,
		local:  make(map[string]*rate.Limiter),
	}

	if rc != nil {
		l.distributed = rc.NewRateLimiter()

		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := rc.Ping(pingCtx); err != nil {
			logger.Warn("Redis unavailable, using local rate limiting", zap.Error(err))
		} else {
			l.redisAvailable.Store(true)
		}
	}

	logger.Info("Rate limiter initialized",
		zap.Int("requestsPerMinute", cfg.RequestsPerMinute),
		zap.Int("burst", cfg.Burst),
		zap.Bool("distributed", l.redisAvailable.Load()),
	)

	return l, nil
}

func (l *limiter) Allow(ctx context.Context, key string) (Decision, error) {
	if l.distributed != nil && l.redisAvailable.Load() {
		limit := redis_rate.Limit{
			Rate:   l.config.RequestsPerMinute,
			Burst:  l.config.Burst,
			Period: time.Minute,
		}
		res, err := l.distributed.Allow(ctx, keyPrefix+key, limit)
		if err == nil {
			return Decision{
				Allowed:    res.Allowed > 0,
				Remaining:  res.Remaining,
				RetryAfter: max(res.RetryAfter, 0),
			}, nil
		}
		if ctx.Err() != nil {
			return Decision{}, ctx.Err()
		}

		// Stay local from now on; a restart picks Redis up again
		l.redisAvailable.Store(false)
		logger.WarnCtx(ctx, "Redis rate limit failed, falling back to local", zap.Error(err))
	}

	return l.allowLocal(key), nil
}

func (l *limiter) allowLocal(key string) Decision {
	l.mu.Lock()
	bucket, ok := l.local[key]
	if !ok {
		if len(l.local) >= maxLocalKeys {
			l.local = make(map[string]*rate.Limiter)
		}
		bucket = rate.NewLimiter(rate.Limit(float64(l.config.RequestsPerMinute)/60), l.config.Burst)
		l.local[key] = bucket
	}
	l.mu.Unlock()

	reservation := bucket.Reserve()
	if delay := reservation.Delay(); delay > 0 {
		reservation.Cancel()
		return Decision{RetryAfter: delay}
	}

	return Decision{
		Allowed:   true,
		Remaining: int(math.Max(0, math.Floor(bucket.Tokens()))),
	}
}
