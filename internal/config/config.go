package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Render   RenderConfig
	Cache    CacheConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string // empty disables domain events
	OtelEnabled        bool
	OtelEndpoint       string
}

type DatabaseConfig struct {
	Connection string
}

type AuthConfig struct {
	JwtSecret string
}

type RenderConfig struct {
	Locale           string // "id" or "en"
	EditorMaxHistory int
	WarmupTopic      string
}

type CacheConfig struct {
	Driver     string // "memory" or "redis"
	RedisURL   string
	TTLMinutes int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			OtelEnabled:        getEnv("OTEL_ENABLED", "false") == "true",
			OtelEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Auth: AuthConfig{
			JwtSecret: getEnv("JWT_SECRET", ""),
		},
		Render: RenderConfig{
			Locale:           getEnv("RENDER_LOCALE", "id"),
			EditorMaxHistory: getEnvAsInt("EDITOR_MAX_HISTORY", 100),
			WarmupTopic:      getEnv("RENDER_WARMUP_TOPIC", "RENDER_LISTING_DESCRIPTION"),
		},
		Cache: CacheConfig{
			Driver:     getEnv("RENDER_CACHE_DRIVER", "memory"),
			RedisURL:   getEnv("REDIS_URL", "redis://localhost:6379"),
			TTLMinutes: getEnvAsInt("RENDER_CACHE_TTL_MINUTES", 60),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
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
