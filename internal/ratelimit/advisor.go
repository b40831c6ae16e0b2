package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/storefront/internal/config"
)

const keyAdvisorActor = "advisor:intent:actor:%s"

// AdvisorLimiter throttles orchestrator-backed advisor calls per actor. A nil
// limiter allows everything, so the server can run without Redis.
type AdvisorLimiter struct {
	enabled bool

	bucket *TokenBucket
	rate   float64
	burst  int
}

func NewAdvisorLimiter(cfg config.Config) (*AdvisorLimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.AdvisorRate <= 0 || limitCfg.AdvisorBurst <= 0 {
		return nil, errors.New("advisor rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})

	return &AdvisorLimiter{
		enabled: true,
		bucket:  NewTokenBucket(client),
		rate:    limitCfg.AdvisorRate,
		burst:   limitCfg.AdvisorBurst,
	}, nil
}

func (l *AdvisorLimiter) Enabled() bool {
	return l != nil && l.enabled
}

// AllowActor reports whether the actor may run another advisor request.
// Anonymous callers share one bucket.
func (l *AdvisorLimiter) AllowActor(ctx context.Context, actorKey string) (Result, error) {
	if !l.Enabled() {
		return Result{Allowed: true}, nil
	}
	actorKey = strings.TrimSpace(actorKey)
	if actorKey == "" {
		actorKey = "anonymous"
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyAdvisorActor, actorKey), l.rate, l.burst)
}
