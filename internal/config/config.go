package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL  string
	APIToken    string
	Environment string

	// Dev stub server
	ServePort    string
	ServeDB      string
	ServeOrigins []string
}

// Load loads environment variables and returns a Config struct
func Load() *Config {
	_ = godotenv.Load()

	origins := strings.Split(
		getEnv("TOPOSERVE_ORIGINS", "http://localhost:3000,http://localhost:5173"),
		",",
	)

	return &Config{
		APIBaseURL:   getEnv("TOPOCAD_API_URL", "http://localhost:3210"),
		APIToken:     getEnv("TOPOCAD_API_TOKEN", ""),
		Environment:  getEnv("TOPOCAD_ENV", "development"),
		ServePort:    getEnv("TOPOSERVE_PORT", "3210"),
		ServeDB:      getEnv("TOPOSERVE_DB", "toposerve.db"),
		ServeOrigins: origins,
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
