package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Experiment ExperimentConfig
	Flow       FlowConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
}

type DatabaseConfig struct {
	Connection string
}

type ExperimentConfig struct {
	Salt string
}

type FlowConfig struct {
	// PersistRetries is how many extra delivery attempts the async
	// persistence worker makes after the first one fails. 0 keeps writes
	// single-shot best effort.
	PersistRetries int

	// Downsell offer pricing served to the client
	DownsellDiscountPercent int
	MonthlyPrice            float64
	DownsellPrice           float64

	// Fixed-window rate limit on step submissions
	RateLimitAttempts int
	RateLimitWindowS  int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Experiment: ExperimentConfig{
			Salt: getEnv("AB_TEST_SALT", "migrate_mate_ab_salt"),
		},
		Flow: FlowConfig{
			PersistRetries:          getEnvAsInt("FLOW_PERSIST_RETRIES", 0),
			DownsellDiscountPercent: getEnvAsInt("DOWNSELL_DISCOUNT_PERCENT", 50),
			MonthlyPrice:            getEnvAsFloat("SUBSCRIPTION_MONTHLY_PRICE", 25.00),
			DownsellPrice:           getEnvAsFloat("DOWNSELL_MONTHLY_PRICE", 12.50),
			RateLimitAttempts:       getEnvAsInt("FLOW_RATE_LIMIT_ATTEMPTS", 5),
			RateLimitWindowS:        getEnvAsInt("FLOW_RATE_LIMIT_WINDOW_S", 60),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
