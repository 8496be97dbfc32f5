package config

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port int

	// DBURL selects the storage backend: empty means the in-memory
	// store, anything else is a postgres DSN.
	DBURL string

	JWTSecret string
	JWTTTL    time.Duration

	CORSOrigins []string

	// fixed-window rate limits, per client
	RateLimit     int
	AuthRateLimit int
	RateWindow    time.Duration

	MaxBodyBytes int64

	OTLPEndpoint string
}

func Load() Config {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	return Config{
		Env:           getEnv("APP_ENV", "dev"),
		Port:          getEnvInt("PORT", 5000),
		DBURL:         getEnv("DB_URL", ""),
		JWTSecret:     getEnv("JWT_SECRET", "dev-only-secret"),
		JWTTTL:        time.Duration(getEnvInt("JWT_TTL_HOURS", 24*7)) * time.Hour,
		CORSOrigins:   splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost")),
		RateLimit:     getEnvInt("RATE_LIMIT", 100),
		AuthRateLimit: getEnvInt("AUTH_RATE_LIMIT", 5),
		RateWindow:    time.Duration(getEnvInt("RATE_WINDOW_MINUTES", 15)) * time.Minute,
		MaxBodyBytes:  int64(getEnvInt("MAX_BODY_BYTES", 10<<20)),
		OTLPEndpoint:  getEnv("OTLP_ENDPOINT", ""),
	}
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			return fallback
		}

		return num
	}
	return fallback
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)

		if p != "" {
			out = append(out, p)
		}
	}

	return out
}
