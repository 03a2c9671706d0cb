package config

import (
	"os"
	"strconv"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int
	WriteTimeout int

	// Пайплайн импорта
	UploadDelayMs   int
	RetryBaseMs     int
	RetryAttempts   int
	SettleDelayMs   int
	ArtboardPauseMs int

	// Эвристики подбора шрифтов
	MatchMinSubstring int
}

// Load загружает конфигурацию из переменных окружения
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "3000"),
		Environment:  getEnv("ENV", "development"),
		ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 10),

		UploadDelayMs:   getEnvAsInt("UPLOAD_DELAY_MS", 500),
		RetryBaseMs:     getEnvAsInt("RETRY_BASE_MS", 1000),
		RetryAttempts:   getEnvAsInt("RETRY_ATTEMPTS", 5),
		SettleDelayMs:   getEnvAsInt("SETTLE_DELAY_MS", 1500),
		ArtboardPauseMs: getEnvAsInt("ARTBOARD_PAUSE_MS", 1000),

		MatchMinSubstring: getEnvAsInt("MATCH_MIN_SUBSTRING", 4),
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}
