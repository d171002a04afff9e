package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "roombook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort = "8080"

	DefaultLogLevel = "info"

	DefaultTimezone = "Asia/Jakarta"

	// Lobby displays render a business-hours window; the interactive
	// slot search spans the whole day.
	DefaultDisplayStartHour = 7
	DefaultDisplayEndHour   = 17
	DefaultSlotStartHour    = 0
	DefaultSlotEndHour      = 23
	DefaultSlotGranularity  = 60

	DefaultUploadDir     = "./uploads"
	DefaultMaxUploadSize = 5 * 1024 * 1024 // 5MB

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB, multipart uploads are capped separately

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 100
)
