package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// StorageConfig holds the object-store settings required by the publisher.
// All five values must be present; the service refuses to start without them.
type StorageConfig struct {
	AccountID string
	AccessKey string
	SecretKey string
	Bucket    string
	// PublicBaseURL is prepended to the storage key to form the artifact's
	// public URL, e.g. https://media.example.com
	PublicBaseURL string
}

// Config is the process-wide, read-only configuration shared by all jobs.
type Config struct {
	Port    string
	Storage StorageConfig

	// RedisAddr switches the job registry to Redis when non-empty.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ScratchDir string

	MaxConcurrentRenders int
	FetchAttempts        int
	PublishAttempts      int
	NotifyAttempts       int
	RetryBaseDelay       time.Duration
}

// Load reads configuration from the environment and validates the storage
// settings. Callers should run godotenv.Load first if a .env file is in play.
func Load() (*Config, error) {
	cfg := &Config{
		Port: GetEnvOrDefault("PORT", "8080"),
		Storage: StorageConfig{
			AccountID:     strings.TrimSpace(os.Getenv("R2_ACCOUNT_ID")),
			AccessKey:     strings.TrimSpace(os.Getenv("R2_ACCESS_KEY")),
			SecretKey:     strings.TrimSpace(os.Getenv("R2_SECRET_KEY")),
			Bucket:        strings.TrimSpace(os.Getenv("R2_BUCKET_NAME")),
			PublicBaseURL: strings.TrimSpace(os.Getenv("R2_PUBLIC_URL")),
		},
		RedisAddr:            strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword:        os.Getenv("REDIS_PASS"),
		RedisDB:              getEnvInt("REDIS_DB", 0),
		ScratchDir:           GetEnvOrDefault("SCRATCH_DIR", os.TempDir()),
		MaxConcurrentRenders: getEnvInt("MAX_CONCURRENT_RENDERS", DefaultMaxConcurrentRenders),
		FetchAttempts:        getEnvInt("FETCH_ATTEMPTS", DefaultFetchAttempts),
		PublishAttempts:      getEnvInt("PUBLISH_ATTEMPTS", DefaultPublishAttempts),
		NotifyAttempts:       getEnvInt("NOTIFY_ATTEMPTS", DefaultNotifyAttempts),
		RetryBaseDelay:       getEnvDuration("RETRY_BASE_DELAY", DefaultRetryBaseDelay),
	}

	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s StorageConfig) validate() error {
	missing := []string{}
	if s.AccountID == "" {
		missing = append(missing, "R2_ACCOUNT_ID")
	}
	if s.AccessKey == "" {
		missing = append(missing, "R2_ACCESS_KEY")
	}
	if s.SecretKey == "" {
		missing = append(missing, "R2_SECRET_KEY")
	}
	if s.Bucket == "" {
		missing = append(missing, "R2_BUCKET_NAME")
	}
	if s.PublicBaseURL == "" {
		missing = append(missing, "R2_PUBLIC_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required storage configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// GetEnvOrDefault returns the environment variable value or a fallback.
func GetEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
