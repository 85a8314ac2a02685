package config

import (
	"os"
	"strconv"
	"time"

	"linecrm-service/internal/pkg/line"
)

type AppConfig struct {
	// Server
	HTTPAddr string

	// Storage
	StorageDriver string // memory | postgres
	DatabaseURL   string
	RedisAddr     string
	RedisPass     string

	// LINE
	LINE line.Config

	// Dispatch
	DispatchBatchSize   int
	DispatchBatchPause  time.Duration
	DispatchSendTimeout time.Duration

	// Upload
	UploadMaxBytes int64
}

// Load loads environment variables into AppConfig.
func Load() AppConfig {
	return AppConfig{
		HTTPAddr: getEnv("HTTP_ADDR", ":8000"),

		StorageDriver: getEnv("STORAGE_DRIVER", "memory"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPass:     getEnv("REDIS_PASS", ""),

		LINE: line.Config{
			ChannelAccessToken: getEnv("LINE_CHANNEL_ACCESS_TOKEN", ""),
			ChannelSecret:      getEnv("LINE_CHANNEL_SECRET", ""),
		},

		DispatchBatchSize:   getEnvInt("DISPATCH_BATCH_SIZE", 10),
		DispatchBatchPause:  getEnvDuration("DISPATCH_BATCH_PAUSE", time.Second),
		DispatchSendTimeout: getEnvDuration("DISPATCH_SEND_TIMEOUT", 10*time.Second),

		UploadMaxBytes: getEnvInt64("UPLOAD_MAX_BYTES", 5*1024*1024),
	}
}

// --- Helper functions ---

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			return d
		}
	}
	return fallback
}
