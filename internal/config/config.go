package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds
}

// NFTScanConfig holds primary indexing API configuration
type NFTScanConfig struct {
	APIKey         string        `mapstructure:"api_key"`
	EthBaseURL     string        `mapstructure:"eth_base_url"`
	PolygonBaseURL string        `mapstructure:"polygon_base_url"`
	HTTPTimeout    time.Duration `mapstructure:"http_timeout"`
}

// SubgraphConfig holds the per-chain transfer subgraph endpoints
type SubgraphConfig struct {
	EthEndpoint     string        `mapstructure:"eth_endpoint"`
	PolygonEndpoint string        `mapstructure:"polygon_endpoint"`
	HTTPTimeout     time.Duration `mapstructure:"http_timeout"`
}

// NotifyConfig holds notification pipeline configuration
type NotifyConfig struct {
	// ServerURL is the downstream device notification server
	ServerURL string `mapstructure:"server_url"`
	// PollInterval is the block-wait tick interval
	PollInterval time.Duration `mapstructure:"poll_interval"`
	// DispatchPoolSize bounds concurrent webhook deliveries
	DispatchPoolSize int `mapstructure:"dispatch_pool_size"`
}

// CacheConfig holds result cache configuration. An empty RedisAddr selects
// the in-memory store.
type CacheConfig struct {
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	TTL           time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds the outbound NFTScan rate limit budget
type RateLimitConfig struct {
	RequestsPerSecond int           `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	MaxWorkers        int           `mapstructure:"max_workers"`
	MaxQueueSize      int           `mapstructure:"max_queue_size"`
	MaxQueueTime      time.Duration `mapstructure:"max_queue_time"`
	RedisKeyPrefix    string        `mapstructure:"redis_key_prefix"`
	// EnableLocalFallback keeps requests flowing through a local limiter
	// when redis is unreachable
	EnableLocalFallback     bool    `mapstructure:"enable_local_fallback"`
	LocalFallbackMultiplier float64 `mapstructure:"local_fallback_multiplier"`
}

// APIConfig holds configuration for the aggregator API server
type APIConfig struct {
	BaseConfig `mapstructure:",squash"`
	Server     ServerConfig    `mapstructure:"server"`
	NFTScan    NFTScanConfig   `mapstructure:"nftscan"`
	Subgraph   SubgraphConfig  `mapstructure:"subgraph"`
	Notify     NotifyConfig    `mapstructure:"notify"`
	Cache      CacheConfig     `mapstructure:"cache"`
	RateLimit  RateLimitConfig `mapstructure:"ratelimit"`
}

// LoadAPIConfig loads configuration for the aggregator API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	// Set defaults
	v.SetDefault("debug", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("nftscan.eth_base_url", "https://restapi.nftscan.com")
	v.SetDefault("nftscan.polygon_base_url", "https://polygonapi.nftscan.com")
	v.SetDefault("nftscan.http_timeout", "30s")
	v.SetDefault("subgraph.http_timeout", "30s")
	v.SetDefault("notify.poll_interval", "5s")
	v.SetDefault("notify.dispatch_pool_size", 20)
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("ratelimit.requests_per_second", 30)
	v.SetDefault("ratelimit.burst", 30)
	v.SetDefault("ratelimit.max_workers", 50)
	v.SetDefault("ratelimit.max_queue_size", 2048)
	v.SetDefault("ratelimit.max_queue_time", "1m")
	v.SetDefault("ratelimit.redis_key_prefix", "ff:aggregator:limiter:")
	v.SetDefault("ratelimit.enable_local_fallback", true)
	v.SetDefault("ratelimit.local_fallback_multiplier", 0.5)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Config file not found, use environment variables
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config APIConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.NFTScan.APIKey == "" {
		return nil, errors.New("nftscan.api_key is required")
	}
	if config.Subgraph.EthEndpoint == "" || config.Subgraph.PolygonEndpoint == "" {
		return nil, errors.New("subgraph endpoints are required for all supported chains")
	}
	if config.Notify.ServerURL == "" {
		return nil, errors.New("notify.server_url is required")
	}

	return &config, nil
}

// configureViper returns a viper instance with the config file and
// environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	loadEnv(envPath, service)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		v.AddConfigPath("config/")
	}

	v.SetEnvPrefix("FF_AGGREGATOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables.
// This is required for viper to map env vars to config struct fields when
// no config file exists.
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		// NFTScan
		"nftscan.api_key",
		"nftscan.eth_base_url",
		"nftscan.polygon_base_url",
		"nftscan.http_timeout",
		// Subgraph
		"subgraph.eth_endpoint",
		"subgraph.polygon_endpoint",
		"subgraph.http_timeout",
		// Notify
		"notify.server_url",
		"notify.poll_interval",
		"notify.dispatch_pool_size",
		// Cache
		"cache.redis_addr",
		"cache.redis_password",
		"cache.redis_db",
		"cache.ttl",
		// Rate limit
		"ratelimit.requests_per_second",
		"ratelimit.burst",
		"ratelimit.max_workers",
		"ratelimit.max_queue_size",
		"ratelimit.max_queue_time",
		"ratelimit.redis_key_prefix",
		"ratelimit.enable_local_fallback",
		"ratelimit.local_fallback_multiplier",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Shared base first, then local, then optional per-service local
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}
