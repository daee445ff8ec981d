package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// MongoDB Configuration
	MongoURI      string
	MongoDatabase string
	MongoTimeout  time.Duration

	// Redis Configuration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	QueueName     string

	// HTTP Server Configuration
	HTTPPort         string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration

	// Worker Pool Configuration
	WorkerCount     int
	StatusRetention time.Duration

	// Logging Configuration
	LogLevel  string
	LogFormat string

	// Vendor APIs
	CongressAPIKey  string
	CongressBaseURL string
	NewsAPIKey      string
	NewsBaseURL     string
	LLMAPIKey       string
	LLMBaseURL      string
	LLMModel        string
	TTSAPIKey       string
	TTSBaseURL      string

	// Object storage (S3-compatible)
	StorageEndpoint  string
	StorageBucket    string
	StorageAccessKey string
	StorageSecretKey string
	StoragePublicURL string

	// Internal auth
	InternalSecret string
	BaseURL        string

	// Timeout Configuration
	VendorAPITimeout time.Duration
	LLMTimeout       time.Duration

	// CORS Configuration
	CORSAllowedOrigins   string
	CORSAllowedMethods   string
	CORSAllowedHeaders   string
	CORSAllowCredentials bool
	CORSMaxAge           int

	// Brief Scheduler Configuration
	SchedulerEnabled      bool
	SchedulerTickInterval time.Duration
	SchedulerLockTTL      time.Duration
	DailyBriefSchedule    string
	WeeklyBriefSchedule   string
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		// MongoDB
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017/hakivo?authSource=admin"),
		MongoDatabase: getEnv("MONGO_DATABASE", "hakivo"),
		MongoTimeout:  getDurationEnv("MONGO_TIMEOUT_SEC", 10) * time.Second,

		// Redis
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),
		QueueName:     getEnv("QUEUE_NAME", "podcast_jobs"),

		// HTTP Server
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		HTTPReadTimeout:  getDurationEnv("HTTP_READ_TIMEOUT_SEC", 30) * time.Second,
		HTTPWriteTimeout: getDurationEnv("HTTP_WRITE_TIMEOUT_SEC", 30) * time.Second,

		// Worker Pool
		WorkerCount:     getIntEnv("WORKER_COUNT", 4),
		StatusRetention: getDurationEnv("STATUS_RETENTION_SEC", 86400) * time.Second,

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		// Vendor APIs
		CongressAPIKey:  getEnv("CONGRESS_API_KEY", ""),
		CongressBaseURL: getEnv("CONGRESS_BASE_URL", "https://api.congress.gov/v3"),
		NewsAPIKey:      getEnv("NEWS_API_KEY", ""),
		NewsBaseURL:     getEnv("NEWS_BASE_URL", "https://api.search.brave.com/res/v1"),
		LLMAPIKey:       getEnv("LLM_API_KEY", ""),
		LLMBaseURL:      getEnv("LLM_BASE_URL", "https://api.anthropic.com/v1"),
		LLMModel:        getEnv("LLM_MODEL", "claude-sonnet-4-20250514"),
		TTSAPIKey:       getEnv("TTS_API_KEY", ""),
		TTSBaseURL:      getEnv("TTS_BASE_URL", "https://api.elevenlabs.io/v1"),

		// Object storage
		StorageEndpoint:  getEnv("STORAGE_ENDPOINT", ""),
		StorageBucket:    getEnv("STORAGE_BUCKET", "hakivo-audio"),
		StorageAccessKey: getEnv("STORAGE_ACCESS_KEY", ""),
		StorageSecretKey: getEnv("STORAGE_SECRET_KEY", ""),
		StoragePublicURL: getEnv("STORAGE_PUBLIC_URL", ""),

		// Internal auth
		InternalSecret: getEnv("INTERNAL_API_SECRET", ""),
		BaseURL:        getEnv("BASE_URL", "http://localhost:8080"),

		// Timeouts
		VendorAPITimeout: getDurationEnv("VENDOR_API_TIMEOUT_SEC", 30) * time.Second,
		LLMTimeout:       getDurationEnv("LLM_TIMEOUT_SEC", 120) * time.Second,

		// CORS
		CORSAllowedOrigins:   getEnv("CORS_ALLOWED_ORIGINS", "*"),
		CORSAllowedMethods:   getEnv("CORS_ALLOWED_METHODS", "GET, POST, PUT, DELETE, OPTIONS, PATCH"),
		CORSAllowedHeaders:   getEnv("CORS_ALLOWED_HEADERS", "*"),
		CORSAllowCredentials: getBoolEnv("CORS_ALLOW_CREDENTIALS", true),
		CORSMaxAge:           getIntEnv("CORS_MAX_AGE", 3600),

		// Brief Scheduler
		SchedulerEnabled:      getBoolEnv("SCHEDULER_ENABLED", true),
		SchedulerTickInterval: getDurationEnv("SCHEDULER_TICK_INTERVAL_SEC", 60) * time.Second,
		SchedulerLockTTL:      getDurationEnv("SCHEDULER_LOCK_TTL_SEC", 300) * time.Second,
		DailyBriefSchedule:    getEnv("DAILY_BRIEF_SCHEDULE", "0 6 * * *"),
		WeeklyBriefSchedule:   getEnv("WEEKLY_BRIEF_SCHEDULE", "0 7 * * 1"),
	}
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return time.Duration(intVal)
		}
		log.Printf("Warning: Invalid duration value for %s, using default %d", key, defaultValue)
	}
	return time.Duration(defaultValue)
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
		log.Printf("Warning: Invalid boolean value for %s, using default %t", key, defaultValue)
	}
	return defaultValue
}
