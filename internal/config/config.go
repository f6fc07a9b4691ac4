package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress       string
	DatabaseURI      string
	InventoryAddress string
	SellerAddress    string
	EmailAddress     string
	JWTSecret        string
	NotifyWorkers    int
	NotifyQueueSize  int
	NotifyTimeout    time.Duration
	RateLimitRPS     float64
	RateLimitBurst   int
	ShutdownTimeout  time.Duration
}

const (
	defaultRunAddress      = ":8080"
	defaultJWTSecret       = "change-me-in-production"
	defaultNotifyWorkers   = 4
	defaultNotifyQueueSize = 256
	defaultNotifyTimeout   = 5 * time.Second
	defaultRateLimitRPS    = 50
	defaultRateLimitBurst  = 100
	defaultShutdownTimeout = 10 * time.Second
)

// Load parses configuration from .env, environment variables and flags.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:       getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:      getString(lookup, "DATABASE_URI", ""),
		InventoryAddress: getString(lookup, "INVENTORY_ADDRESS", ""),
		SellerAddress:    getString(lookup, "SELLER_ADDRESS", ""),
		EmailAddress:     getString(lookup, "EMAIL_ADDRESS", ""),
		JWTSecret:        getString(lookup, "JWT_SECRET", defaultJWTSecret),
		NotifyWorkers:    getInt(lookup, "NOTIFY_WORKERS", defaultNotifyWorkers),
		NotifyQueueSize:  getInt(lookup, "NOTIFY_QUEUE_SIZE", defaultNotifyQueueSize),
		NotifyTimeout:    getDuration(lookup, "NOTIFY_TIMEOUT", defaultNotifyTimeout),
		RateLimitRPS:     getFloat(lookup, "RATE_LIMIT_RPS", defaultRateLimitRPS),
		RateLimitBurst:   getInt(lookup, "RATE_LIMIT_BURST", defaultRateLimitBurst),
		ShutdownTimeout:  getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("orders", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		notifyTimeoutStr   = cfg.NotifyTimeout.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.InventoryAddress, "inventory", cfg.InventoryAddress, "Inventory service base URL")
	fs.StringVar(&cfg.SellerAddress, "seller", cfg.SellerAddress, "Seller service base URL")
	fs.StringVar(&cfg.EmailAddress, "email", cfg.EmailAddress, "Email service base URL")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for verifying auth tokens")
	fs.IntVar(&cfg.NotifyWorkers, "notify-workers", cfg.NotifyWorkers, "Number of concurrent notification workers")
	fs.IntVar(&cfg.NotifyQueueSize, "notify-queue", cfg.NotifyQueueSize, "Notification queue capacity")
	fs.StringVar(&notifyTimeoutStr, "notify-timeout", notifyTimeoutStr, "Timeout per downstream notification call")
	fs.Float64Var(&cfg.RateLimitRPS, "rate-limit", cfg.RateLimitRPS, "Requests per second allowed per instance")
	fs.IntVar(&cfg.RateLimitBurst, "rate-burst", cfg.RateLimitBurst, "Rate limiter burst size")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.NotifyTimeout, err = time.ParseDuration(notifyTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid notify timeout: %w", err)
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

	if cfg.NotifyWorkers <= 0 {
		cfg.NotifyWorkers = defaultNotifyWorkers
	}

	if cfg.NotifyQueueSize <= 0 {
		cfg.NotifyQueueSize = defaultNotifyQueueSize
	}

	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = defaultNotifyTimeout
	}

	if cfg.RateLimitRPS <= 0 {
		cfg.RateLimitRPS = defaultRateLimitRPS
	}

	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = defaultRateLimitBurst
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.InventoryAddress == "" {
		return nil, fmt.Errorf("inventory service address must be provided")
	}

	if cfg.SellerAddress == "" {
		return nil, fmt.Errorf("seller service address must be provided")
	}

	if cfg.EmailAddress == "" {
		return nil, fmt.Errorf("email service address must be provided")
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

func getFloat(lookup envLookup, key string, def float64) float64 {
	if v, ok := lookup(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
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
