package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port     string
	Env      string
	LogLevel string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// JWT / Session
	JWTSecret     string
	JWTExpiration time.Duration
	SessionTTL    time.Duration

	// CORS
	CORSAllowedOrigins []string

	// Matching
	MatchStateTTL   time.Duration // MATCHED 상태 만료 시간
	RequeueRejected bool          // 탐색 중 거절된 티켓을 큐 꼬리에 되돌릴지 여부

	// OpenAI
	OpenAIAPIKey string
	OpenAIModel  string
}

func Load() (*Config, error) {
	// .env 파일 로드 (있는 경우)
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379"),
		JWTSecret:       getEnv("JWT_SECRET", "your-secret-key"),
		JWTExpiration:   parseDuration(getEnv("JWT_EXPIRATION", "24h"), 24*time.Hour),
		SessionTTL:      parseDuration(getEnv("SESSION_TTL", "6h"), 6*time.Hour),
		MatchStateTTL:   parseDuration(getEnv("MATCH_STATE_TTL", "60s"), 60*time.Second),
		RequeueRejected: getEnv("MATCH_REQUEUE_REJECTED", "false") == "true",
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:     getEnv("OPENAI_MODEL", ""),
		CORSAllowedOrigins: splitEnv(getEnv(
			"CORS_ALLOWED_ORIGINS",
			"http://localhost:3000,http://localhost:5173",
		)),
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return defaultValue
	}
	return d
}

func splitEnv(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
