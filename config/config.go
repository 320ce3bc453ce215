package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

var (
	PORT        string
	DB_URL      string
	JWT_SECRET  string
	CORS_ORIGIN string
	APP_URL     string
	API_URL     string
	APP_ENV     string

	GOOGLE_CLIENT_ID         string
	GOOGLE_CLIENT_SECRET     string
	GOOGLE_REDIRECT_URL      string
	GOOGLE_FRONTEND_REDIRECT string

	STRIPE_SECRET_KEY     string
	STRIPE_WEBHOOK_SECRET string
	STRIPE_PRODUCT_ID     string

	S3_ENDPOINT   string
	S3_ACCESS_KEY string
	S3_SECRET_KEY string
	S3_BUCKET     string
	S3_REGION     string
	S3_USE_SSL    bool

	REDIS_URL string

	MEILI_URL        string
	MEILI_MASTER_KEY string

	LLM_BASE_URL string
	LLM_API_KEY  string
	LLM_MODEL    string
	LLM_RPS      float64
	LLM_TIMEOUT  time.Duration

	SMTP_HOST     string
	SMTP_PORT     string
	SMTP_FROM     string
	SMTP_PASSWORD string

	WORKER_ENABLED bool
	LOG_LEVEL      string
	LOG_FORMAT     string
)

func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found. Using system environment variables.")
	}

	PORT = getEnv("PORT", "8080")
	DB_URL = mustEnv("DB_URL")
	JWT_SECRET = mustEnv("JWT_SECRET")
	CORS_ORIGIN = getEnv("CORS_ORIGIN", "http://localhost:5173")
	APP_URL = getEnv("APP_URL", "http://localhost:5173")
	API_URL = getEnv("API_URL", "http://localhost:"+PORT)
	APP_ENV = getEnv("APP_ENV", "development")

	// Google sign-in is optional; the handlers answer 503 when unset.
	GOOGLE_CLIENT_ID = getEnv("GOOGLE_CLIENT_ID", "")
	GOOGLE_CLIENT_SECRET = getEnv("GOOGLE_CLIENT_SECRET", "")
	GOOGLE_REDIRECT_URL = getEnv("GOOGLE_REDIRECT_URL", "")
	GOOGLE_FRONTEND_REDIRECT = getEnv("GOOGLE_FRONTEND_REDIRECT", "")

	STRIPE_SECRET_KEY = getEnv("STRIPE_SECRET_KEY", "")
	STRIPE_WEBHOOK_SECRET = getEnv("STRIPE_WEBHOOK_SECRET", "")
	STRIPE_PRODUCT_ID = getEnv("STRIPE_PRODUCT_ID", "")

	S3_ENDPOINT = getEnv("S3_ENDPOINT", "localhost:9000")
	S3_ACCESS_KEY = getEnv("S3_ACCESS_KEY", "")
	S3_SECRET_KEY = getEnv("S3_SECRET_KEY", "")
	S3_BUCKET = getEnv("S3_BUCKET", "documents")
	S3_REGION = getEnv("S3_REGION", "us-east-1")
	S3_USE_SSL = getEnvBool("S3_USE_SSL", false)

	REDIS_URL = getEnv("REDIS_URL", "redis://localhost:6379/0")

	MEILI_URL = getEnv("MEILI_URL", "")
	MEILI_MASTER_KEY = getEnv("MEILI_MASTER_KEY", "")

	LLM_BASE_URL = getEnv("LLM_BASE_URL", "https://api.openai.com/v1")
	LLM_API_KEY = getEnv("LLM_API_KEY", "")
	LLM_MODEL = getEnv("LLM_MODEL", "gpt-4o-mini")
	LLM_RPS = getEnvFloat("LLM_RPS", 1)
	LLM_TIMEOUT = time.Duration(getEnvInt("LLM_TIMEOUT_SECONDS", 90)) * time.Second

	SMTP_HOST = getEnv("SMTP_HOST", "")
	SMTP_PORT = getEnv("SMTP_PORT", "587")
	SMTP_FROM = getEnv("SMTP_FROM", "")
	SMTP_PASSWORD = getEnv("SMTP_PASSWORD", "")

	WORKER_ENABLED = getEnvBool("WORKER_ENABLED", true)
	LOG_LEVEL = getEnv("LOG_LEVEL", "info")
	LOG_FORMAT = getEnv("LOG_FORMAT", "text")
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatal("Missing required environment variable", "key", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
