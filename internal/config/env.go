package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Environment variables that override the file.
const (
	EnvLogLevel  = "SCC_LOG_LEVEL"
	EnvCachePath = "SCC_CACHE_PATH"
)

var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads .env style files that exist. Variables already present
// in the process environment win.
func loadEnvFiles() {
	for _, name := range envFiles {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		_ = godotenv.Load(name)
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = LogLevel(v)
	}
	if v, ok := os.LookupEnv(EnvCachePath); ok {
		cfg.Cache.Path = v
	}
}
