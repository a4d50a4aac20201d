package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress            string
	DatabaseURI           string
	RedisAddress          string
	GatewayAddress        string
	GatewayAPIKey         string
	GatewayRetryAttempts  int
	GatewayRetryBackoff   time.Duration
	JWTSecret             string
	ReconcilePollInterval time.Duration
	ReconcileStaleAge     time.Duration
	ReconcileBatchSize    int
	WorkerPoolSize        int
	ShutdownTimeout       time.Duration
	RateLimitRequests     int
	RateLimitWindow       time.Duration
}

const (
	defaultRunAddress            = ":8080"
	defaultJWTSecret             = "change-me-in-production"
	defaultGatewayRetryAttempts  = 3
	defaultGatewayRetryBackoff   = 200 * time.Millisecond
	defaultReconcilePollInterval = 30 * time.Second
	defaultReconcileStaleAge     = 5 * time.Minute
	defaultReconcileBatchSize    = 32
	defaultWorkerPoolSize        = 4
	defaultShutdownTimeout       = 10 * time.Second
	defaultRateLimitRequests     = 20
	defaultRateLimitWindow       = time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:            getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:           getString(lookup, "DATABASE_URI", ""),
		RedisAddress:          getString(lookup, "REDIS_ADDRESS", ""),
		GatewayAddress:        getString(lookup, "GATEWAY_ADDRESS", ""),
		GatewayAPIKey:         getString(lookup, "GATEWAY_API_KEY", ""),
		GatewayRetryAttempts:  getInt(lookup, "GATEWAY_RETRY_ATTEMPTS", defaultGatewayRetryAttempts),
		GatewayRetryBackoff:   getDuration(lookup, "GATEWAY_RETRY_BACKOFF", defaultGatewayRetryBackoff),
		JWTSecret:             getString(lookup, "JWT_SECRET", defaultJWTSecret),
		ReconcilePollInterval: getDuration(lookup, "RECONCILE_POLL_INTERVAL", defaultReconcilePollInterval),
		ReconcileStaleAge:     getDuration(lookup, "RECONCILE_STALE_AGE", defaultReconcileStaleAge),
		ReconcileBatchSize:    getInt(lookup, "RECONCILE_BATCH_SIZE", defaultReconcileBatchSize),
		WorkerPoolSize:        getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		ShutdownTimeout:       getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		RateLimitRequests:     getInt(lookup, "RATE_LIMIT_REQUESTS", defaultRateLimitRequests),
		RateLimitWindow:       getDuration(lookup, "RATE_LIMIT_WINDOW", defaultRateLimitWindow),
	}

	fs := flag.NewFlagSet("storefront", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		pollIntervalStr    = cfg.ReconcilePollInterval.String()
		staleAgeStr        = cfg.ReconcileStaleAge.String()
		backoffStr         = cfg.GatewayRetryBackoff.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.RedisAddress, "redis", cfg.RedisAddress, "Redis address for rate limiting")
	fs.StringVar(&cfg.GatewayAddress, "g", cfg.GatewayAddress, "Payment gateway base URL")
	fs.StringVar(&cfg.GatewayAPIKey, "gateway-key", cfg.GatewayAPIKey, "Payment gateway API key")
	fs.IntVar(&cfg.GatewayRetryAttempts, "gateway-retries", cfg.GatewayRetryAttempts, "Attempts for transient gateway failures")
	fs.StringVar(&backoffStr, "gateway-backoff", backoffStr, "Base backoff between gateway retries")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent reconcile workers")
	fs.StringVar(&pollIntervalStr, "poll-interval", pollIntervalStr, "Interval between reconciliation polls")
	fs.StringVar(&staleAgeStr, "stale-age", staleAgeStr, "Age after which a pending payment is reconciled")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.IntVar(&cfg.ReconcileBatchSize, "poll-batch", cfg.ReconcileBatchSize, "Maximum payments per reconciliation batch")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.ReconcilePollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid poll interval: %w", err)
	}

	if cfg.ReconcileStaleAge, err = time.ParseDuration(staleAgeStr); err != nil {
		return nil, fmt.Errorf("invalid stale age: %w", err)
	}

	if cfg.GatewayRetryBackoff, err = time.ParseDuration(backoffStr); err != nil {
		return nil, fmt.Errorf("invalid gateway backoff: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = string(content)
	}

	if cfg.GatewayRetryAttempts <= 0 {
		cfg.GatewayRetryAttempts = defaultGatewayRetryAttempts
	}

	if cfg.GatewayRetryBackoff <= 0 {
		cfg.GatewayRetryBackoff = defaultGatewayRetryBackoff
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.ReconcileBatchSize <= 0 {
		cfg.ReconcileBatchSize = defaultReconcileBatchSize
	}

	if cfg.ReconcilePollInterval <= 0 {
		cfg.ReconcilePollInterval = defaultReconcilePollInterval
	}

	if cfg.ReconcileStaleAge <= 0 {
		cfg.ReconcileStaleAge = defaultReconcileStaleAge
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.RateLimitRequests <= 0 {
		cfg.RateLimitRequests = defaultRateLimitRequests
	}

	if cfg.RateLimitWindow <= 0 {
		cfg.RateLimitWindow = defaultRateLimitWindow
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.GatewayAddress == "" {
		return nil, fmt.Errorf("payment gateway address must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
