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
	RunAddress          string
	DatabaseURI         string
	PaystackBaseURL     string
	PaystackSecretKey   string
	CallbackURL         string
	Currency            string
	OpsToken            string
	NotifyBaseURL       string
	NotifyAPIKey        string
	EmailSender         string
	SMSSenderID         string
	PaymentPollInterval time.Duration
	WorkerPoolSize      int
	VerifyBatchSize     int
	ShutdownTimeout     time.Duration
}

const (
	defaultRunAddress          = ":8080"
	defaultPaystackBaseURL     = "https://api.paystack.co"
	defaultCurrency            = "NGN"
	defaultEmailSender         = "orders@localhost"
	defaultSMSSenderID         = "Orders"
	defaultPaymentPollInterval = time.Minute
	defaultWorkerPoolSize      = 4
	defaultVerifyBatchSize     = 32
	defaultShutdownTimeout     = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:          getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:         getString(lookup, "DATABASE_URI", ""),
		PaystackBaseURL:     getString(lookup, "PAYSTACK_BASE_URL", defaultPaystackBaseURL),
		PaystackSecretKey:   getString(lookup, "PAYSTACK_SECRET_KEY", ""),
		CallbackURL:         getString(lookup, "CALLBACK_URL", ""),
		Currency:            getString(lookup, "CURRENCY", defaultCurrency),
		OpsToken:            getString(lookup, "OPS_TOKEN", ""),
		NotifyBaseURL:       getString(lookup, "NOTIFY_BASE_URL", ""),
		NotifyAPIKey:        getString(lookup, "NOTIFY_API_KEY", ""),
		EmailSender:         getString(lookup, "EMAIL_SENDER", defaultEmailSender),
		SMSSenderID:         getString(lookup, "SMS_SENDER_ID", defaultSMSSenderID),
		PaymentPollInterval: getDuration(lookup, "PAYMENT_POLL_INTERVAL", defaultPaymentPollInterval),
		WorkerPoolSize:      getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		VerifyBatchSize:     getInt(lookup, "VERIFY_BATCH_SIZE", defaultVerifyBatchSize),
		ShutdownTimeout:     getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("commerce", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		pollIntervalStr    = cfg.PaymentPollInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.PaystackBaseURL, "paystack-url", cfg.PaystackBaseURL, "Payment gateway base URL")
	fs.StringVar(&cfg.CallbackURL, "callback-url", cfg.CallbackURL, "Redirect URL passed to the gateway on charge initialization")
	fs.StringVar(&cfg.Currency, "currency", cfg.Currency, "Order currency code")
	fs.StringVar(&cfg.OpsToken, "ops-token", cfg.OpsToken, "Static bearer token guarding operator endpoints")
	fs.StringVar(&cfg.NotifyBaseURL, "notify-url", cfg.NotifyBaseURL, "Notification provider base URL")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent payment verification workers")
	fs.StringVar(&pollIntervalStr, "poll-interval", pollIntervalStr, "Interval between payment verification polls")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.IntVar(&cfg.VerifyBatchSize, "verify-batch", cfg.VerifyBatchSize, "Maximum orders per verification batch")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.PaymentPollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid poll interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("PAYSTACK_SECRET_KEY_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read paystack secret file: %w", err)
		}
		cfg.PaystackSecretKey = string(content)
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.VerifyBatchSize <= 0 {
		cfg.VerifyBatchSize = defaultVerifyBatchSize
	}

	if cfg.PaymentPollInterval <= 0 {
		cfg.PaymentPollInterval = defaultPaymentPollInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.PaystackSecretKey == "" {
		return nil, fmt.Errorf("paystack secret key must be provided")
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
