package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/shubh-37/social-strategist/internal/llm"
	"github.com/shubh-37/social-strategist/internal/media"
)

const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

type Config struct {
	LLMProvider    string
	GeminiKey      string
	AnthropicKey   string
	TextModel      string
	ImageModel     string
	AnthropicModel string

	// DatabaseURL is optional; empty keeps the session in memory.
	DatabaseURL string

	SlackToken         string
	SlackSigningSecret string

	R2AccountID  string
	R2AccessKey  string
	R2SecretKey  string
	R2BucketName string
	R2PublicURL  string

	Port   int
	APIKey string

	// EnvFile is the .env file that was loaded, or "" when none was found.
	EnvFile string
}

// LoadConfig loads configuration from environment variables.
// It first tries to load from .env file, then falls back to system environment variables.
func LoadConfig() *Config {
	envFile := ".env"
	if err := godotenv.Load(envFile); err != nil {
		envFile = ""
	}

	return &Config{
		LLMProvider:        strings.ToLower(getEnv("LLM_PROVIDER", ProviderGemini)),
		GeminiKey:          getEnv("GEMINI_API_KEY", ""),
		AnthropicKey:       getEnv("ANTHROPIC_API_KEY", ""),
		TextModel:          getEnv("TEXT_MODEL", llm.DefaultTextModel),
		ImageModel:         getEnv("IMAGE_MODEL", llm.DefaultImageModel),
		AnthropicModel:     getEnv("ANTHROPIC_MODEL", llm.DefaultAnthropicModel),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		SlackToken:         getEnv("SLACK_BOT_TOKEN", ""),
		SlackSigningSecret: getEnv("SLACK_SIGNING_SECRET", ""),
		R2AccountID:        getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKey:        getEnv("R2_ACCESS_KEY", ""),
		R2SecretKey:        getEnv("R2_SECRET_KEY", ""),
		R2BucketName:       getEnv("R2_BUCKET_NAME", ""),
		R2PublicURL:        getEnv("R2_PUBLIC_URL", ""),
		Port:               getEnvInt("PORT", 3000),
		APIKey:             getEnv("API_KEY", ""),
		EnvFile:            envFile,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// SlackEnabled reports whether both Slack credentials are set.
func (c *Config) SlackEnabled() bool {
	return c.SlackToken != "" && c.SlackSigningSecret != ""
}

func (c *Config) R2() media.R2Config {
	return media.R2Config{
		AccountID:  c.R2AccountID,
		AccessKey:  c.R2AccessKey,
		SecretKey:  c.R2SecretKey,
		BucketName: c.R2BucketName,
		PublicURL:  c.R2PublicURL,
	}
}

// Validate checks the settings every command needs. Server-only settings are
// checked by ValidateServer.
func (c *Config) Validate() error {
	switch c.LLMProvider {
	case ProviderGemini:
		if c.GeminiKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required")
		}
	case ProviderAnthropic:
		if c.AnthropicKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required")
		}
	default:
		return fmt.Errorf("LLM_PROVIDER must be %q or %q, got %q", ProviderGemini, ProviderAnthropic, c.LLMProvider)
	}
	return nil
}

func (c *Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if (c.SlackToken == "") != (c.SlackSigningSecret == "") {
		return fmt.Errorf("SLACK_BOT_TOKEN and SLACK_SIGNING_SECRET must be set together")
	}
	r2 := c.R2()
	if r2.Enabled() && r2.PublicURL == "" {
		return fmt.Errorf("R2_PUBLIC_URL is required when R2 is configured")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	return nil
}
