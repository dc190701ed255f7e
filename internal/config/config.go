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
	App      AppConfig
	Database DatabaseConfig
	Content  ContentConfig
	Fonts    FontsConfig
	Editor   EditorConfig
	Auth     AuthConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	PreviewLogFilePath string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type ContentConfig struct {
	AssetBaseURL         string
	SupportedLocales     []string
	DefaultLocale        string
	RTLLocales           []string
	RenderCacheTTL       time.Duration
	DocumentFetchTimeout time.Duration
	DocumentEventsTopic  string
}

type FontsConfig struct {
	Registry     string // "memory" or "redis"
	RuleMarker   string
	FetchTimeout time.Duration
}

type EditorConfig struct {
	MaxHistory int
	SessionTTL time.Duration
}

type AuthConfig struct {
	JwtSecret string
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
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			PreviewLogFilePath: getEnv("PREVIEW_LOG_FILE_PATH", "logs/preview.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Content: ContentConfig{
			AssetBaseURL:         getEnv("ASSET_BASE_URL", ""),
			SupportedLocales:     getEnvAsList("SUPPORTED_LOCALES", []string{"en", "fa"}),
			DefaultLocale:        getEnv("DEFAULT_LOCALE", "en"),
			RTLLocales:           getEnvAsList("RTL_LOCALES", []string{"fa", "ar", "he", "ur"}),
			RenderCacheTTL:       getEnvAsDuration("RENDER_CACHE_TTL", 10*time.Minute),
			DocumentFetchTimeout: getEnvAsDuration("DOCUMENT_FETCH_TIMEOUT", 5*time.Second),
			DocumentEventsTopic:  getEnv("DOCUMENT_EVENTS_TOPIC", "DOCUMENT_SAVED"),
		},
		Fonts: FontsConfig{
			Registry:     getEnv("FONT_REGISTRY", "memory"),
			RuleMarker:   getEnv("FONT_RULE_MARKER", "site-content-fonts"),
			FetchTimeout: getEnvAsDuration("FONT_FETCH_TIMEOUT", 3*time.Second),
		},
		Editor: EditorConfig{
			MaxHistory: getEnvAsInt("EDITOR_MAX_HISTORY", 100),
			SessionTTL: getEnvAsDuration("EDITOR_SESSION_TTL", time.Hour),
		},
		Auth: AuthConfig{
			JwtSecret: getEnv("JWT_SECRET", ""),
		},
	}
}

// IsRTL reports whether locale is written right to left.
func (c ContentConfig) IsRTL(locale string) bool {
	return containsFold(c.RTLLocales, locale)
}

// IsSupported reports whether locale is one of the configured locales.
func (c ContentConfig) IsSupported(locale string) bool {
	return containsFold(c.SupportedLocales, locale)
}

func containsFold(list []string, value string) bool {
	for _, item := range list {
		if strings.EqualFold(item, value) {
			return true
		}
	}
	return false
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

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	var values []string
	for _, part := range strings.Split(strValue, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	if len(values) == 0 {
		return fallback
	}
	return values
}
