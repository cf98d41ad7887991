// Package config loads client and devserver settings from the environment,
// with .env support for local development.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the binaries read from the environment.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	TokenFile      string
	Port           string
	JWTSecret      string
}

// Load reads the configuration, picking up a .env file when one is present.
func Load() *Config {
	_ = godotenv.Load()
	return &Config{
		APIBaseURL:     getEnv("INSTAAPP_API_URL", "http://localhost:8080/api"),
		RequestTimeout: getEnvDuration("INSTAAPP_TIMEOUT", 10*time.Second),
		TokenFile:      getEnv("INSTAAPP_TOKEN_FILE", defaultTokenFile()),
		Port:           getEnv("PORT", "8080"),
		JWTSecret:      getEnv("JWT_SECRET", "supersecretjwtkey"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".instaapp-token"
	}
	return filepath.Join(dir, "instaapp", "token")
}
