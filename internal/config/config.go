package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates service-level settings read from the environment.
// Database connection parameters are read by the database package
// itself, matching how the rest of the env surface is consumed.
type Config struct {
	Port      string
	LogLevel  string
	LogFormat string

	SendGridAPIKey string
	FromEmail      string
	FromName       string

	ChatGatewayURL   string
	ChatGatewayToken string
	ChatReadyTimeout time.Duration
	ChatReportTarget string

	// Bounds of the randomized pause between successive sends on one
	// channel, to stay under upstream rate limits.
	SendDelayMin time.Duration
	SendDelayMax time.Duration
}

// Load reads .env (if present) and assembles the config. Missing
// required variables are fatal; the server cannot run half-configured.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		Port:             getEnv("PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "console"),
		SendGridAPIKey:   getEnvRequired("SENDGRID_API_KEY"),
		FromEmail:        getEnvRequired("SENDGRID_FROM_EMAIL"),
		FromName:         getEnv("SENDGRID_FROM_NAME", "HPFP Compliance Desk"),
		ChatGatewayURL:   getEnvRequired("CHAT_GATEWAY_URL"),
		ChatGatewayToken: getEnv("CHAT_GATEWAY_TOKEN", ""),
		ChatReadyTimeout: getDuration("CHAT_READY_TIMEOUT", 30*time.Second),
		ChatReportTarget: getEnv("CHAT_REPORT_TARGET", ""),
		SendDelayMin:     getDuration("SEND_DELAY_MIN", 2*time.Second),
		SendDelayMax:     getDuration("SEND_DELAY_MAX", 6*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvRequired returns environment variable value or exits if not set
func getEnvRequired(key string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Fatalf("Required environment variable %s is not set", key)
	return ""
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Fatalf("Invalid duration in %s: %v", key, err)
	}
	return d
}
