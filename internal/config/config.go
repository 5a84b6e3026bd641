package config

import (
	"os"
	"strconv"
	"strings"
	"time"
	// BUSINESS_TIMEZONE must resolve on slim Lambda and container images.
	_ "time/tzdata"
)

// Session store backends.
const (
	SessionStoreMemory   = "memory"
	SessionStoreRedis    = "redis"
	SessionStorePostgres = "postgres"
	SessionStoreDynamo   = "dynamodb"
)

// Email providers.
const (
	EmailProviderSendGrid = "sendgrid"
	EmailProviderSES      = "ses"
	EmailProviderStub     = "stub"
)

// Config holds application configuration
type Config struct {
	Port           string
	Env            string
	LogLevel       string
	LogFormat      string
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int

	DatabaseURL   string
	SessionStore  string
	SessionTTL    time.Duration
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
	SessionsTable string

	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	BedrockModelID   string
	LLMMaxTokens     int
	SummaryMaxTokens int
	GeminiAPIKey     string
	GeminiModelID    string

	LeadEventsQueueURL string
	ArchiveBucket      string

	EmailProvider   string
	SendGridAPIKey  string
	EmailFrom       string
	EmailFromName   string
	SESConfigSet    string
	LeadNotifyEmail []string

	HolidaysFile          string
	SchedulingMinLeadDays int
	SchedulingOptionCount int
	BusinessTimezone      string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),
		RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 1),
		RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 10),

		DatabaseURL:   getEnv("DATABASE_URL", ""),
		SessionStore:  strings.ToLower(strings.TrimSpace(getEnv("SESSION_STORE", SessionStoreMemory))),
		SessionTTL:    getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),
		SessionsTable: getEnv("SESSIONS_TABLE", "clara_chat_sessions"),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		BedrockModelID:   getEnv("BEDROCK_MODEL_ID", ""),
		LLMMaxTokens:     getEnvAsInt("LLM_MAX_TOKENS", 300),
		SummaryMaxTokens: getEnvAsInt("SUMMARY_MAX_TOKENS", 200),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GeminiModelID:    getEnv("GEMINI_MODEL_ID", "gemini-2.5-flash"),

		LeadEventsQueueURL: getEnv("LEAD_EVENTS_QUEUE_URL", ""),
		ArchiveBucket:      getEnv("ARCHIVE_BUCKET", ""),

		EmailProvider:   strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", EmailProviderStub))),
		SendGridAPIKey:  getEnv("SENDGRID_API_KEY", ""),
		EmailFrom:       getEnv("EMAIL_FROM", ""),
		EmailFromName:   getEnv("EMAIL_FROM_NAME", "Clara Insurance Guide"),
		SESConfigSet:    getEnv("SES_CONFIGURATION_SET", ""),
		LeadNotifyEmail: getEnvAsList("LEAD_NOTIFY_EMAIL", nil),

		HolidaysFile:          getEnv("HOLIDAYS_FILE", ""),
		SchedulingMinLeadDays: getEnvAsInt("SCHEDULING_MIN_LEAD_DAYS", 2),
		SchedulingOptionCount: getEnvAsInt("SCHEDULING_OPTION_COUNT", 3),
		BusinessTimezone:      getEnv("BUSINESS_TIMEZONE", "America/New_York"),
	}
}

// IsProduction reports whether ENV names a production deployment.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Env))
	return env == "production" || env == "prod"
}

// Location resolves BusinessTimezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(strings.TrimSpace(c.BusinessTimezone))
	if err != nil || c.BusinessTimezone == "" {
		return time.UTC
	}
	return loc
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated variable, dropping blanks.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
