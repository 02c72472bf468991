package config

import (
	"log"
	"os"
	"time"
)

type Config struct {
	HTTPPort        string
	DatabaseDSN     string
	JWTSecret       string
	CORSOrigins     string
	BaseCurrency    string        // all amounts are persisted in this currency
	ExchangeAPIURL  string        // live rate source for the refresh job
	RefreshInterval time.Duration // exchange rate refresh period
	FetchTimeout    time.Duration // bound on a single rate fetch
}

func Load() *Config {
	cfg := &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:     getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=serveo port=5432 sslmode=disable"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		CORSOrigins:     getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		BaseCurrency:    getEnv("BASE_CURRENCY", "USD"),
		ExchangeAPIURL:  getEnv("EXCHANGE_API_URL", "https://api.exchangerate.host/latest"),
		RefreshInterval: getDuration("EXCHANGE_REFRESH_INTERVAL", 6*time.Hour),
		FetchTimeout:    getDuration("EXCHANGE_FETCH_TIMEOUT", 10*time.Second),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET environment variable is not set. Required in production.")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET must be at least 32 characters.")
	}
	if cfg.CORSOrigins == "http://localhost:5173" {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS is using the default value; set your own domain in production.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("[WARN] %s is not a valid duration (%q), using default %s", key, v, def)
		return def
	}
	return d
}
