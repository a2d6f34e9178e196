package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Placeholder credential values used by development environments; the
// render client falls back to mock generation when it sees them.
const (
	PlaceholderAPIKey     = "your_templated_api_key_here"
	PlaceholderTemplateID = "your_template_id_here"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	PostgreSQL PostgreSQLConfig
	OpenAI     OpenAIConfig
	Templated  TemplatedConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
}

// PostgreSQLConfig holds the optional audit-log database configuration.
// The service runs fully in memory when no DSN is configured.
type PostgreSQLConfig struct {
	DSN                string
	MaxConnections     int
	MaxIdleConnections int
	Enabled            bool
}

// OpenAIConfig holds the OpenAI-compatible chat API configuration used by
// the reply composer
type OpenAIConfig struct {
	APIKey          string
	APIBase         string
	ChatModel       string
	ChatTemperature float64
	ChatMaxTokens   int
	Timeout         int
	Enabled         bool
}

// TemplatedConfig holds the templated.io rendering service configuration
type TemplatedConfig struct {
	APIKey      string
	APIBase     string
	TemplateID1 string
	TemplateID2 string
	TemplateID3 string
	Timeout     int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8000),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		PostgreSQL: PostgreSQLConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("PG_DSN", "")),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 2),
		},
		OpenAI: OpenAIConfig{
			APIKey:          getEnv("OPENAI_API_KEY", ""),
			APIBase:         getEnv("OPENAI_API_BASE", "https://api.openai.com/v1"),
			ChatModel:       getEnv("OPENAI_CHAT_MODEL", "gpt-4o"),
			ChatTemperature: getEnvAsFloat("OPENAI_CHAT_TEMPERATURE", 0.7),
			ChatMaxTokens:   getEnvAsInt("OPENAI_CHAT_MAX_TOKENS", 1024),
			Timeout:         getEnvAsInt("OPENAI_TIMEOUT", 60),
			Enabled:         getEnv("OPENAI_API_KEY", "") != "",
		},
		Templated: TemplatedConfig{
			APIKey:      getEnv("TEMPLATED_API_KEY", ""),
			APIBase:     getEnv("TEMPLATED_API_BASE", "https://api.templated.io/v1"),
			TemplateID1: getEnv("TEMPLATED_TEMPLATE_ID1", ""),
			TemplateID2: getEnv("TEMPLATED_TEMPLATE_ID2", ""),
			TemplateID3: getEnv("TEMPLATED_TEMPLATE_ID3", ""),
			Timeout:     getEnvAsInt("TEMPLATED_TIMEOUT", 30),
		},
	}
	cfg.PostgreSQL.Enabled = cfg.PostgreSQL.DSN != ""

	return cfg, nil
}

// TemplateID returns the rendering-service template identifier for a
// template version. Unknown versions fall back to template 1.
func (c *TemplatedConfig) TemplateID(version int) string {
	switch version {
	case 2:
		return c.TemplateID2
	case 3:
		return c.TemplateID3
	default:
		return c.TemplateID1
	}
}

// IsPlaceholder reports whether the configuration carries development
// placeholder credentials
func (c *TemplatedConfig) IsPlaceholder(version int) bool {
	return c.APIKey == PlaceholderAPIKey || c.TemplateID(version) == PlaceholderTemplateID
}

// Validate checks that the rendering credentials are usable for the given
// template version
func (c *TemplatedConfig) Validate(version int) error {
	if c.APIKey == "" || c.TemplateID(version) == "" {
		return fmt.Errorf("missing Templated API key or template ID for template %d", version)
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float value for %s, using default %f", key, defaultValue)
		return defaultValue
	}
	return value
}
