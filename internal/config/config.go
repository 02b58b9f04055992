package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App     AppConfig
	Backend BackendConfig
	State   StateConfig
	Events  EventsConfig
	Tracing TracingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	LocalApiSecret     string // empty disables bearer protection of the local API
}

type BackendConfig struct {
	BaseURL       string
	Timeout       time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

type StateConfig struct {
	Kind     string // "memory", "file", "redis" or "postgres"
	FilePath string
	RedisURL string
	DSN      string
	Key      string
}

type EventsConfig struct {
	Topic   string
	NatsURL string // empty disables forwarding
}

type TracingConfig struct {
	Enabled     bool
	ServiceName string
	Endpoint    string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/docchat.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			LocalApiSecret:     getEnv("LOCAL_API_SECRET", ""),
		},
		Backend: BackendConfig{
			BaseURL:       getEnv("BACKEND_BASE_URL", "http://localhost:8000/api"),
			Timeout:       getEnvAsDuration("BACKEND_TIMEOUT", 120*time.Second),
			RetryAttempts: getEnvAsInt("BACKEND_RETRY_ATTEMPTS", 3),
			RetryDelay:    getEnvAsDuration("BACKEND_RETRY_DELAY", 200*time.Millisecond),
		},
		State: StateConfig{
			Kind:     strings.ToLower(getEnv("STATE_STORE", "file")),
			FilePath: getEnv("STATE_FILE_PATH", "data/state.json"),
			RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),
			DSN:      getEnv("DB_CONNECTION_STRING", ""),
			Key:      getEnv("STATE_KEY", "default"),
		},
		Events: EventsConfig{
			Topic:   getEnv("STATE_EVENTS_TOPIC", "state.changed"),
			NatsURL: getEnv("NATS_URL", ""),
		},
		Tracing: TracingConfig{
			Enabled:     getEnvAsBool("OTEL_ENABLED", false),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "docchat-client"),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go duration strings ("30s") or plain seconds.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	if seconds, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return fallback
}
