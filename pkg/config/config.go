package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"roombook/pkg/client"
	"roombook/pkg/logger"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	Timezone string
	Location *time.Location

	// Day-window boundaries for derived schedule views, hours in [0, 23].
	DisplayStartHour int
	DisplayEndHour   int
	SlotStartHour    int
	SlotEndHour      int
	SlotGranularity  int // minutes

	UploadDir     string
	MaxUploadSize int64

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		Timezone: getEnvStr(EnvTimezone, DefaultTimezone),

		DisplayStartHour: getEnvNum(EnvDisplayStartHour, DefaultDisplayStartHour),
		DisplayEndHour:   getEnvNum(EnvDisplayEndHour, DefaultDisplayEndHour),
		SlotStartHour:    getEnvNum(EnvSlotStartHour, DefaultSlotStartHour),
		SlotEndHour:      getEnvNum(EnvSlotEndHour, DefaultSlotEndHour),
		SlotGranularity:  getEnvNum(EnvSlotGranularity, DefaultSlotGranularity),

		UploadDir:     getEnvStr(EnvUploadDir, DefaultUploadDir),
		MaxUploadSize: int64(getEnvNum(EnvMaxUploadSize, DefaultMaxUploadSize)),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		cfg.Log.Fatal("Invalid timezone", "timezone", cfg.Timezone, "error", err)
	}
	cfg.Location = loc

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errs = append(errs, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errs = append(errs, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}

	if cfg.MongoDatabaseName == "" {
		errs = append(errs, "MongoDatabaseName cannot be empty")
	}
	if cfg.MongoConnTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}

	if cfg.DisplayStartHour < 0 || cfg.DisplayStartHour > 23 {
		errs = append(errs, fmt.Sprintf("DisplayStartHour must be in [0, 23], got: %d", cfg.DisplayStartHour))
	}
	if cfg.DisplayEndHour < 0 || cfg.DisplayEndHour > 23 {
		errs = append(errs, fmt.Sprintf("DisplayEndHour must be in [0, 23], got: %d", cfg.DisplayEndHour))
	}
	if cfg.DisplayEndHour <= cfg.DisplayStartHour {
		errs = append(errs, fmt.Sprintf("DisplayEndHour (%d) must be greater than DisplayStartHour (%d)", cfg.DisplayEndHour, cfg.DisplayStartHour))
	}
	if cfg.SlotStartHour < 0 || cfg.SlotStartHour > 23 {
		errs = append(errs, fmt.Sprintf("SlotStartHour must be in [0, 23], got: %d", cfg.SlotStartHour))
	}
	if cfg.SlotEndHour < 0 || cfg.SlotEndHour > 23 {
		errs = append(errs, fmt.Sprintf("SlotEndHour must be in [0, 23], got: %d", cfg.SlotEndHour))
	}
	if cfg.SlotGranularity <= 0 {
		errs = append(errs, fmt.Sprintf("SlotGranularity must be positive minutes, got: %d", cfg.SlotGranularity))
	}

	if cfg.UploadDir == "" {
		errs = append(errs, "UploadDir cannot be empty")
	}
	if cfg.MaxUploadSize <= 0 {
		errs = append(errs, fmt.Sprintf("MaxUploadSize must be positive, got: %d", cfg.MaxUploadSize))
	}

	if cfg.RateLimitRequests <= 0 {
		errs = append(errs, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.RateLimitWindow <= 0 {
		errs = append(errs, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errs = append(errs, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.MaxRequestSize <= 0 {
		errs = append(errs, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.ReadTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"timezone", cfg.Timezone,
		"display_start_hour", cfg.DisplayStartHour,
		"display_end_hour", cfg.DisplayEndHour,
		"slot_start_hour", cfg.SlotStartHour,
		"slot_end_hour", cfg.SlotEndHour,
		"slot_granularity_minutes", cfg.SlotGranularity,
		"upload_dir", cfg.UploadDir,
		"max_upload_size", cfg.MaxUploadSize,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown()
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
