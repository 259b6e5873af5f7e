package ratelimit

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/go-redis/redis_rate/v10"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/feral-file/ff-asset-aggregator/internal/adapter"
	"github.com/feral-file/ff-asset-aggregator/internal/config"
	"github.com/feral-file/ff-asset-aggregator/internal/logger"
)

// RequestFunc is a function that performs the actual API request
type RequestFunc func(ctx context.Context) (interface{}, error)

// requestResult wraps the result and error of a request
type requestResult struct {
	value interface{}
	err   error
}

// Proxy throttles outbound calls to the primary indexing API. The API
// enforces a global request budget per key, so every replica shares a
// distributed limiter through redis, with a local limiter as fallback.
//
//go:generate mockgen -source=proxy.go -destination=../mocks/ratelimit_proxy.go -package=mocks -mock_names=Proxy=MockRateLimitProxy
type Proxy interface {
	// Request submits a rate-limited request for execution
	Request(ctx context.Context, fn RequestFunc) (interface{}, error)

	// Close gracefully shuts down the proxy
	Close() error
}

// proxy is the concrete implementation of the rate-limiting proxy
type proxy struct {
	config             config.RateLimitConfig
	pool               pond.ResultPool[*requestResult]
	distributedLimiter adapter.RedisRateLimiter
	localLimiter       *rate.Limiter
	preFilterLimiter   *rate.Limiter
	clock              adapter.Clock
	closed             atomic.Bool
	closeOnce          sync.Once
	redisAvailable     atomic.Bool
}

// NewProxy creates a new rate-limiting proxy. The redis client may be nil,
// in which case only the local limiter applies.
func NewProxy(cfg config.RateLimitConfig, rc adapter.RedisClient, clock adapter.Clock) (Proxy, error) {
	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	var distributedLimiter adapter.RedisRateLimiter
	redisAvailable := false
	if rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := rc.Ping(ctx); err != nil {
			if !cfg.EnableLocalFallback {
				return nil, fmt.Errorf("redis unavailable and fallback disabled: %w", err)
			}
			logger.Warn("Redis unavailable, will use local rate limiter", zap.Error(err))
		} else {
			redisAvailable = true
		}
		distributedLimiter = rc.NewRateLimiter()
	}

	// Local fallback limiter runs at a fraction of the shared budget so
	// several degraded replicas stay under the global limit together
	localRate := max(float64(cfg.RequestsPerSecond)*cfg.LocalFallbackMultiplier, 1.0)
	localLimiter := rate.NewLimiter(rate.Limit(localRate), cfg.Burst)

	// Pre-filter at the full rate to reduce redis pressure
	preFilterLimiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)

	pool := pond.NewResultPool[*requestResult](
		cfg.MaxWorkers,
		pond.WithQueueSize(cfg.MaxQueueSize),
	)

	p := &proxy{
		config:             cfg,
		pool:               pool,
		distributedLimiter: distributedLimiter,
		localLimiter:       localLimiter,
		preFilterLimiter:   preFilterLimiter,
		clock:              clock,
	}
	p.redisAvailable.Store(redisAvailable)

	logger.Info("Rate limit proxy initialized",
		zap.Int("requests_per_second", cfg.RequestsPerSecond),
		zap.Int("max_workers", cfg.MaxWorkers),
		zap.Int("max_queue_size", cfg.MaxQueueSize),
		zap.Bool("distributed", redisAvailable),
	)

	return p, nil
}

// Request submits a rate-limited request for execution and returns the
// result with type safety
func Request[T any](ctx context.Context, p Proxy, fn func(ctx context.Context) (T, error)) (T, error) {
	// A nil proxy executes the function directly
	if p == nil {
		return fn(ctx)
	}

	var zero T
	result, err := p.Request(ctx, func(ctx context.Context) (interface{}, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}
	return result.(T), nil
}

// Request blocks until a token is acquired and the request completes, the
// context is canceled, or the maximum queue time is exceeded
func (p *proxy) Request(ctx context.Context, fn RequestFunc) (interface{}, error) {
	if p.closed.Load() {
		return nil, fmt.Errorf("proxy is closed")
	}

	queueCtx, cancel := context.WithTimeout(ctx, p.config.MaxQueueTime)
	defer cancel()

	resultTask := p.pool.Submit(func() *requestResult {
		if err := p.acquireToken(queueCtx); err != nil {
			return &requestResult{err: err}
		}
		value, err := fn(queueCtx)
		return &requestResult{value: value, err: err}
	})

	result, err := resultTask.Wait()
	if err != nil {
		return nil, err
	}
	if result.err != nil {
		return nil, result.err
	}
	return result.value, nil
}

// acquireToken acquires a rate limit token, blocking until one is available
func (p *proxy) acquireToken(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if p.redisAvailable.Load() && p.distributedLimiter != nil {
			allowed, retryAfter, err := p.tryDistributedLimit(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}

				// Redis error - mark unavailable, fall back to local
				p.redisAvailable.Store(false)

				if !p.config.EnableLocalFallback {
					return fmt.Errorf("redis rate limiter unavailable: %w", err)
				}

				logger.Warn("Redis rate limiter error, falling back to local", zap.Error(err))
			} else if allowed {
				return nil
			} else if retryAfter > 0 {
				// Spread out retries (50-150% of retryAfter)
				jitter := time.Duration(float64(retryAfter) * (0.5 + rand.Float64())) //nolint:gosec,G404
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-p.clock.After(jitter):
					continue
				}
			}
		}

		if !p.redisAvailable.Load() {
			return p.localLimiter.Wait(ctx)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.clock.After(100 * time.Millisecond):
		}
	}
}

// tryDistributedLimit attempts to acquire a token from the distributed
// limiter. Returns (allowed, retryAfter, error).
func (p *proxy) tryDistributedLimit(ctx context.Context) (bool, time.Duration, error) {
	// Pre-filter requests to reduce redis pressure
	if err := p.preFilterLimiter.Wait(ctx); err != nil {
		return false, 0, err
	}

	redisKey := p.config.RedisKeyPrefix + "nftscan"
	res, err := p.distributedLimiter.Allow(ctx, redisKey, redis_rate.PerSecond(p.config.RequestsPerSecond))
	if err != nil {
		return false, 0, err
	}

	if res.Allowed == 0 {
		logger.Debug("Rate limit token unavailable, waiting",
			zap.Duration("retry_after", res.RetryAfter),
			zap.Int("remaining", res.Remaining),
		)
		return false, res.RetryAfter, nil
	}

	return true, 0, nil
}

// Close gracefully shuts down the proxy, waiting for in-flight requests
func (p *proxy) Close() error {
	var err error
	p.closeOnce.Do(func() {
		p.closed.Store(true)

		tasks := p.pool.Stop()
		if errTasks := tasks.Wait(); errTasks != nil {
			logger.Warn("Error waiting for pool tasks to complete", zap.Error(errTasks))
			err = errTasks
		}

		logger.Info("Rate limit proxy shutdown complete")
	})
	return err
}

// validateConfig validates and sets defaults for the configuration
func validateConfig(cfg *config.RateLimitConfig) error {
	if cfg.RequestsPerSecond <= 0 {
		return fmt.Errorf("requests_per_second must be positive")
	}

	if cfg.Burst <= 0 {
		cfg.Burst = cfg.RequestsPerSecond
	}

	if cfg.MaxQueueTime <= 0 {
		cfg.MaxQueueTime = 5 * time.Minute
	}

	if cfg.RedisKeyPrefix == "" {
		cfg.RedisKeyPrefix = "ff:aggregator:limiter:"
	}

	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = runtime.NumCPU() * 10
	}

	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 10000
	}

	if cfg.LocalFallbackMultiplier <= 0 {
		cfg.LocalFallbackMultiplier = 0.5
	}

	return nil
}
