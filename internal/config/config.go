package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"surveyscribe/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	AI       AIConfig `validate:"required"`
	Server   ServerConfig
	Report   ReportConfig
	Paths    PathConfig
}

// DatabaseConfig holds database connection settings. The URL is optional:
// without one, reports are kept in memory only.
type DatabaseConfig struct {
	URL     string
	SSLMode string
}

// AIConfig holds AI/LLM related settings
type AIConfig struct {
	OpenAIKey   string `validate:"required"`
	OpenAIModel string `validate:"required"`
	BaseURL     string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// ReportConfig holds narrative generation settings
type ReportConfig struct {
	Language   string // "한국어" or "English"
	RetryLimit int    // max validation rejections before force-accept
}

// PathConfig holds file system paths
type PathConfig struct {
	ExcelFile string
	UploadDir string
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	openaiKey := os.Getenv("OPENAI_API_KEY")
	if openaiKey == "" {
		return nil, errors.ConfigInvalid("OPENAI_API_KEY is required")
	}

	config := &Config{
		Database: DatabaseConfig{
			URL:     getEnvOrDefault("DATABASE_URL", ""),
			SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
		},
		AI: AIConfig{
			OpenAIKey:   openaiKey,
			OpenAIModel: getEnvOrDefault("LLM_MODEL", "gpt-4o-mini"),
			BaseURL:     getEnvOrDefault("OPENAI_BASE_URL", ""),
			MaxTokens:   getEnvIntOrDefault("MAX_TOKENS", 4000),
			Temperature: getEnvFloatOrDefault("TEMPERATURE", 0.2),
			Timeout:     time.Duration(getEnvIntOrDefault("LLM_TIMEOUT_SECONDS", 120)) * time.Second,
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Report: ReportConfig{
			Language:   getEnvOrDefault("REPORT_LANG", "한국어"),
			RetryLimit: getEnvIntOrDefault("NARRATIVE_RETRY_LIMIT", 3),
		},
		Paths: PathConfig{
			ExcelFile: getEnvOrDefault("EXCEL_FILE", ""),
			UploadDir: getEnvOrDefault("UPLOAD_DIR", "./uploads"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.AI.OpenAIKey == "" {
		return errors.ConfigInvalid("OpenAI API key is required")
	}
	if config.AI.OpenAIModel == "" {
		return errors.ConfigInvalid("LLM model is required")
	}
	if config.Report.RetryLimit < 0 {
		return errors.ConfigInvalid("NARRATIVE_RETRY_LIMIT must be non-negative")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
