package ratelimit_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-asset-aggregator/internal/adapter"
	"github.com/feral-file/ff-asset-aggregator/internal/config"
	"github.com/feral-file/ff-asset-aggregator/internal/logger"
	"github.com/feral-file/ff-asset-aggregator/internal/mocks"
	"github.com/feral-file/ff-asset-aggregator/internal/ratelimit"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

// testProxyMocks contains all the mocks needed for testing the proxy
type testProxyMocks struct {
	ctrl             *gomock.Controller
	redisClient      *mocks.MockRedisClient
	redisRateLimiter *mocks.MockRedisRateLimiter
}

// setupTestProxy creates all the mocks for testing
func setupTestProxy(t *testing.T) *testProxyMocks {
	ctrl := gomock.NewController(t)

	return &testProxyMocks{
		ctrl:             ctrl,
		redisClient:      mocks.NewMockRedisClient(ctrl),
		redisRateLimiter: mocks.NewMockRedisRateLimiter(ctrl),
	}
}

func testConfig() config.RateLimitConfig {
	return config.RateLimitConfig{
		RequestsPerSecond:       50,
		Burst:                   50,
		MaxWorkers:              10,
		MaxQueueSize:            100,
		MaxQueueTime:            5 * time.Second,
		RedisKeyPrefix:          "test:limiter:",
		EnableLocalFallback:     true,
		LocalFallbackMultiplier: 0.5,
	}
}

// setupProxyWithRedis creates a proxy against the mocked redis client
func setupProxyWithRedis(t *testing.T, tm *testProxyMocks, cfg config.RateLimitConfig, pingErr error) ratelimit.Proxy {
	t.Helper()

	tm.redisClient.EXPECT().
		Ping(gomock.Any()).
		Return(pingErr)
	tm.redisClient.EXPECT().
		NewRateLimiter().
		Return(tm.redisRateLimiter)

	proxy, err := ratelimit.NewProxy(cfg, tm.redisClient, adapter.NewClock())
	require.NoError(t, err)
	t.Cleanup(func() { _ = proxy.Close() })

	return proxy
}

func TestNewProxy_Success(t *testing.T) {
	tm := setupTestProxy(t)

	proxy := setupProxyWithRedis(t, tm, testConfig(), nil)
	assert.NotNil(t, proxy)
}

func TestNewProxy_RedisUnavailable_FallbackEnabled(t *testing.T) {
	tm := setupTestProxy(t)

	proxy := setupProxyWithRedis(t, tm, testConfig(), errors.New("connection refused"))
	assert.NotNil(t, proxy)
}

func TestNewProxy_RedisUnavailable_FallbackDisabled(t *testing.T) {
	tm := setupTestProxy(t)

	cfg := testConfig()
	cfg.EnableLocalFallback = false

	tm.redisClient.EXPECT().
		Ping(gomock.Any()).
		Return(errors.New("connection refused"))

	proxy, err := ratelimit.NewProxy(cfg, tm.redisClient, adapter.NewClock())
	assert.Error(t, err)
	assert.Nil(t, proxy)
	assert.Contains(t, err.Error(), "redis unavailable and fallback disabled")
}

func TestNewProxy_NoRedis(t *testing.T) {
	proxy, err := ratelimit.NewProxy(testConfig(), nil, adapter.NewClock())
	require.NoError(t, err)
	defer func() { _ = proxy.Close() }()

	// Without redis the local limiter governs directly
	result, err := proxy.Request(context.Background(), func(ctx context.Context) (interface{}, error) {
		return "success", nil
	})
	assert.NoError(t, err)
	assert.Equal(t, "success", result)
}

func TestNewProxy_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.RequestsPerSecond = 0

	proxy, err := ratelimit.NewProxy(cfg, nil, adapter.NewClock())
	assert.Error(t, err)
	assert.Nil(t, proxy)
	assert.Contains(t, err.Error(), "requests_per_second must be positive")
}

func TestProxy_Request_Success(t *testing.T) {
	tm := setupTestProxy(t)
	proxy := setupProxyWithRedis(t, tm, testConfig(), nil)

	tm.redisRateLimiter.EXPECT().
		Allow(gomock.Any(), "test:limiter:nftscan", gomock.Any()).
		Return(&redis_rate.Result{
			Allowed:   1,
			Remaining: 49,
		}, nil)

	result, err := proxy.Request(context.Background(), func(ctx context.Context) (interface{}, error) {
		return "success", nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "success", result)
}

func TestProxy_Request_ContextCanceled(t *testing.T) {
	tm := setupTestProxy(t)
	proxy := setupProxyWithRedis(t, tm, testConfig(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := proxy.Request(ctx, func(ctx context.Context) (interface{}, error) {
		return "success", nil
	})

	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestProxy_Request_RateLimitExceeded_WithRetryAfter(t *testing.T) {
	tm := setupTestProxy(t)
	proxy := setupProxyWithRedis(t, tm, testConfig(), nil)

	// First attempt is rejected with a short retry-after; the retry succeeds
	gomock.InOrder(
		tm.redisRateLimiter.EXPECT().
			Allow(gomock.Any(), "test:limiter:nftscan", gomock.Any()).
			Return(&redis_rate.Result{
				Allowed:    0,
				Remaining:  0,
				RetryAfter: time.Millisecond,
			}, nil),
		tm.redisRateLimiter.EXPECT().
			Allow(gomock.Any(), "test:limiter:nftscan", gomock.Any()).
			Return(&redis_rate.Result{
				Allowed:   1,
				Remaining: 49,
			}, nil),
	)

	result, err := proxy.Request(context.Background(), func(ctx context.Context) (interface{}, error) {
		return "success", nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "success", result)
}

func TestProxy_Request_RedisFailure_FallbackToLocal(t *testing.T) {
	tm := setupTestProxy(t)
	proxy := setupProxyWithRedis(t, tm, testConfig(), nil)

	tm.redisRateLimiter.EXPECT().
		Allow(gomock.Any(), "test:limiter:nftscan", gomock.Any()).
		Return(nil, errors.New("redis connection error"))

	result, err := proxy.Request(context.Background(), func(ctx context.Context) (interface{}, error) {
		return "success with fallback", nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "success with fallback", result)

	// Redis stays marked unavailable; the next request goes local directly
	result, err = proxy.Request(context.Background(), func(ctx context.Context) (interface{}, error) {
		return "still local", nil
	})
	assert.NoError(t, err)
	assert.Equal(t, "still local", result)
}

func TestProxy_Request_RedisFailure_NoFallback(t *testing.T) {
	tm := setupTestProxy(t)
	cfg := testConfig()
	cfg.EnableLocalFallback = false
	proxy := setupProxyWithRedis(t, tm, cfg, nil)

	tm.redisRateLimiter.EXPECT().
		Allow(gomock.Any(), "test:limiter:nftscan", gomock.Any()).
		Return(nil, errors.New("redis connection error"))

	result, err := proxy.Request(context.Background(), func(ctx context.Context) (interface{}, error) {
		return "success", nil
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "redis rate limiter unavailable")
}

func TestProxy_Request_RequestFunctionError(t *testing.T) {
	tm := setupTestProxy(t)
	proxy := setupProxyWithRedis(t, tm, testConfig(), nil)

	tm.redisRateLimiter.EXPECT().
		Allow(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&redis_rate.Result{Allowed: 1}, nil)

	expectedError := errors.New("request failed")
	result, err := proxy.Request(context.Background(), func(ctx context.Context) (interface{}, error) {
		return nil, expectedError
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, expectedError, err)
}

func TestProxy_Request_ProxyClosed(t *testing.T) {
	tm := setupTestProxy(t)
	proxy := setupProxyWithRedis(t, tm, testConfig(), nil)

	require.NoError(t, proxy.Close())

	result, err := proxy.Request(context.Background(), func(ctx context.Context) (interface{}, error) {
		return "success", nil
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "proxy is closed")
}

func TestProxy_Close_Multiple(t *testing.T) {
	tm := setupTestProxy(t)
	proxy := setupProxyWithRedis(t, tm, testConfig(), nil)

	assert.NoError(t, proxy.Close())
	assert.NoError(t, proxy.Close())
	assert.NoError(t, proxy.Close())
}

func TestProxy_Request_Concurrent(t *testing.T) {
	tm := setupTestProxy(t)
	proxy := setupProxyWithRedis(t, tm, testConfig(), nil)

	tm.redisRateLimiter.EXPECT().
		Allow(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&redis_rate.Result{Allowed: 1}, nil).
		MinTimes(3)

	done := make(chan bool, 3)
	for i := range 3 {
		go func(id int) {
			result, err := proxy.Request(context.Background(), func(ctx context.Context) (interface{}, error) {
				time.Sleep(10 * time.Millisecond)
				return id, nil
			})
			assert.NoError(t, err)
			assert.NotNil(t, result)
			done <- true
		}(i)
	}

	for range 3 {
		<-done
	}
}

func TestTypedRequest(t *testing.T) {
	tm := setupTestProxy(t)
	proxy := setupProxyWithRedis(t, tm, testConfig(), nil)

	tm.redisRateLimiter.EXPECT().
		Allow(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&redis_rate.Result{Allowed: 1}, nil)

	values, err := ratelimit.Request(context.Background(), proxy, func(ctx context.Context) ([]string, error) {
		return []string{"a", "b"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, values)

	// A nil proxy runs the function directly
	direct, err := ratelimit.Request[int](context.Background(), nil, func(ctx context.Context) (int, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, direct)
}
