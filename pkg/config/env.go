package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort = "PORT"

	EnvLogLevel = "LOG_LEVEL"

	EnvTimezone = "TIMEZONE"

	EnvDisplayStartHour = "DISPLAY_START_HOUR"
	EnvDisplayEndHour   = "DISPLAY_END_HOUR"
	EnvSlotStartHour    = "SLOT_START_HOUR"
	EnvSlotEndHour      = "SLOT_END_HOUR"
	EnvSlotGranularity  = "SLOT_GRANULARITY_MINUTES"

	EnvUploadDir     = "UPLOAD_DIR"
	EnvMaxUploadSize = "MAX_UPLOAD_SIZE"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
