package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every tunable the app reads from the environment.
// Values come from a .env file when one exists, then the process
// environment, then the defaults below.
type Config struct {
	ServeAddr string

	ProbeTimeout time.Duration
	ProbeWorkers int

	LookupCodeColumn string
	LookupURLColumn  string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
	SMTPTo       string
}

// Load reads the environment into a Config. Missing keys fall back to
// defaults, so it always succeeds.
func Load() Config {
	godotenv.Load()

	return Config{
		ServeAddr:        getEnv("OFFERMAIL_ADDR", "127.0.0.1:8712"),
		ProbeTimeout:     getDuration("OFFERMAIL_PROBE_TIMEOUT", 5*time.Second),
		ProbeWorkers:     getInt("OFFERMAIL_PROBE_WORKERS", 8),
		LookupCodeColumn: getEnv("OFFERMAIL_LOOKUP_CODE_COLUMN", "Code"),
		LookupURLColumn:  getEnv("OFFERMAIL_LOOKUP_URL_COLUMN", "Image URL"),
		SMTPHost:         getEnv("SMTP_HOST", ""),
		SMTPPort:         getInt("SMTP_PORT", 587),
		SMTPUser:         getEnv("SMTP_USER", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:         getEnv("SMTP_FROM", ""),
		SMTPTo:           getEnv("SMTP_TO", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
