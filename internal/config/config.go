package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreMemory   = "memory"
)

type Config struct {
	HTTPAddr     string
	MetricsAddr  string
	Store        string
	PostgresDSN  string
	RedisAddr    string
	KafkaBrokers []string
	KafkaTopic   string
	JWTSecret    string
	OTLPEndpoint string
	ServiceName  string
	LogLevel     string
}

// Load reads envFiles (".env" when none given) and then the environment.
// A missing env file is not an error.
func Load(envFiles ...string) *Config {
	if err := godotenv.Load(envFiles...); err != nil {
		slog.Warn("failed to load .env file, using default values", "error", err)
	}

	cfg := &Config{
		HTTPAddr:     getenv("HTTP_ADDR", ":8080"),
		MetricsAddr:  getenv("METRICS_ADDR", ":9090"),
		Store:        strings.ToLower(getenv("STORE", StorePostgres)),
		PostgresDSN:  getenv("POSTGRES_DSN", "host=localhost user=postgres password=postgres dbname=players sslmode=disable"),
		RedisAddr:    getenv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKER")),
		KafkaTopic:   getenv("KAFKA_TOPIC", "players"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		OTLPEndpoint: os.Getenv("OTLP_ENDPOINT"),
		ServiceName:  getenv("SERVICE_NAME", "player-service"),
		LogLevel:     getenv("LOG_LEVEL", "info"),
	}

	slog.Info("config loaded",
		"http_addr", cfg.HTTPAddr,
		"store", cfg.Store,
		"redis_addr", cfg.RedisAddr,
		"kafka_brokers", cfg.KafkaBrokers,
		"auth_enabled", cfg.JWTSecret != "")
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
