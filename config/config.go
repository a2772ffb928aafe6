// Package config loads server settings from the environment.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Store backends accepted by STORE.
const (
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// Config holds the server configuration.
// Values are loaded from environment variables with defaults.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// Ledger backend. DBPath only applies to the sqlite store; ":memory:"
	// keeps the ledger session-scoped.
	Store  string
	DBPath string

	// CORS
	AllowedOrigins []string

	// Location shown in export dates, e.g. America/Bogota
	Timezone string
}

// Load reads a .env file if one exists, then the environment. Variables
// already set in the environment take precedence over the file.
func Load() *Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the configuration from the environment only.
func FromEnv() *Config {
	return &Config{
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		Store:  strings.ToLower(getEnv("STORE", StoreSQLite)),
		DBPath: getEnv("DB_PATH", ":memory:"),

		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"*"}),

		Timezone: getEnv("TZ_EXPORT", "America/Bogota"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
