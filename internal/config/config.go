package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"linkscout/internal/analysis"
)

type LogConfig struct {
	Mode  string
	Level string
}

type AnalysisConfig struct {
	TopN    int
	Workers int
}

type Config struct {
	Log      LogConfig
	Analysis AnalysisConfig
}

// Load reads an optional .env file, then the LINKSCOUT_* environment
// variables. Missing or malformed values fall back to defaults.
func Load() *Config {
	_ = godotenv.Load()

	defaults := analysis.DefaultOptions()
	return &Config{
		Log: LogConfig{
			Mode:  getEnv("LINKSCOUT_LOG_MODE", "dev"),
			Level: getEnv("LINKSCOUT_LOG_LEVEL", "info"),
		},
		Analysis: AnalysisConfig{
			TopN:    getEnvInt("LINKSCOUT_TOP_N", defaults.TopN),
			Workers: getEnvInt("LINKSCOUT_WORKERS", defaults.Workers),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
