package config

import (
	"os"
	"strings"
)

// App holds runtime configuration derived from environment variables.
type App struct {
	EnvFile      string
	EnvKey       string
	Database     string
	APIPort      string
	Environment  string
	LogLevel     string
	CORSOrigins  []string
	KafkaBrokers string
	AuditTopic   string
	ReloadCron   string
}

// FromEnv loads the application configuration from environment variables,
// applying defaults for everything except the credential source.
func FromEnv() App {
	return App{
		EnvFile:      getEnv("DB_ENV_FILE", ".env"),
		EnvKey:       os.Getenv("DB_ENV_KEY"),
		Database:     os.Getenv("DB_NAME"),
		APIPort:      getEnv("API_PORT", "8080"),
		Environment:  getEnv("ENVIRONMENT", "production"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		CORSOrigins:  getCORSOrigins(),
		KafkaBrokers: os.Getenv("KAFKA_BROKERS"),
		AuditTopic:   getEnv("AUDIT_TOPIC", "sqlbridge.audit"),
		ReloadCron:   os.Getenv("RELOAD_CRON"),
	}
}

// getEnv returns the value of the environment variable or a default.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getCORSOrigins parses CORS_ORIGINS as a comma-separated list.
// Unset or empty means allow all origins.
func getCORSOrigins() []string {
	raw := os.Getenv("CORS_ORIGINS")
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
