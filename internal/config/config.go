package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all server settings in correct types.
type Config struct {
	Port            string
	TempDir         string
	HistoryDBPath   string
	CookiesPath     string
	LogLevel        string
	AllowedOrigins  string
	CleanupInterval time.Duration
	MaxFileAge      time.Duration
	RateLimitRPS    float64
	RateLimitBurst  int
}

// Load reads the environment (plus an optional .env file) into a Config.
func Load() *Config {
	godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", ":3000"),
		TempDir:         getEnv("TEMP_DIR", filepath.Join(os.TempDir(), "ffa-downloader")),
		HistoryDBPath:   getEnv("HISTORY_DB_PATH", "history.db"),
		CookiesPath:     getEnv("YTDLP_COOKIES_PATH", ""),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		AllowedOrigins:  getEnv("ALLOWED_ORIGINS", "*"),
		CleanupInterval: time.Duration(getEnvAsInt("CLEANUP_INTERVAL_MINUTES", 5)) * time.Minute,
		MaxFileAge:      time.Duration(getEnvAsInt("MAX_FILE_AGE_MINUTES", 30)) * time.Minute,
		RateLimitRPS:    getEnvAsFloat("RATE_LIMIT_RPS", 1),
		RateLimitBurst:  getEnvAsInt("RATE_LIMIT_BURST", 50),
	}

	validate(cfg)

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	str := getEnv(key, "")
	if val, err := strconv.Atoi(str); err == nil {
		return val
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	str := getEnv(key, "")
	if val, err := strconv.ParseFloat(str, 64); err == nil {
		return val
	}
	return fallback
}

// validate ensures the server won't start with settings it cannot honor.
func validate(cfg *Config) {
	if cfg.RateLimitBurst < 1 {
		log.Println("warning: RATE_LIMIT_BURST must be at least 1, resetting to 50")
		cfg.RateLimitBurst = 50
	}
	if cfg.CleanupInterval < time.Minute {
		log.Println("warning: CLEANUP_INTERVAL_MINUTES below 1, resetting to 5")
		cfg.CleanupInterval = 5 * time.Minute
	}
	if len(cfg.Port) > 0 && cfg.Port[0] != ':' {
		cfg.Port = ":" + cfg.Port
	}
}
