// Package config loads runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Provider names a completion backend.
type Provider string

const (
	ProviderGemini  Provider = "gemini"
	ProviderMistral Provider = "mistral"
	ProviderNone    Provider = ""
)

// Config is everything the binary needs at startup.
type Config struct {
	Provider      Provider
	GeminiAPIKey  string
	GeminiModel   string
	MistralAPIKey string
	MistralModel  string

	ConfigDir string
	DBPath    string
	LogPath   string
	LogLevel  string
}

// Load reads the environment, after merging in a .env file if one exists in
// the working directory. Missing .env is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	configDir, err := resolveConfigDir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", ""),
		MistralAPIKey: getEnv("MISTRAL_API_KEY", ""),
		MistralModel:  getEnv("MISTRAL_MODEL", ""),
		ConfigDir:     configDir,
		DBPath:        getEnv("MAILPILOT_DB", filepath.Join(configDir, "mail.db")),
		LogPath:       getEnv("MAILPILOT_LOG", filepath.Join(configDir, "mailpilot.log")),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
	cfg.Provider = cfg.resolveProvider()
	return cfg, nil
}

// resolveProvider honors LLM_PROVIDER when that provider is configured, then
// auto-detects: Mistral first, then Gemini.
func (c *Config) resolveProvider() Provider {
	switch Provider(strings.ToLower(os.Getenv("LLM_PROVIDER"))) {
	case ProviderGemini:
		if c.GeminiConfigured() {
			return ProviderGemini
		}
	case ProviderMistral:
		if c.MistralConfigured() {
			return ProviderMistral
		}
	}
	if c.MistralConfigured() {
		return ProviderMistral
	}
	if c.GeminiConfigured() {
		return ProviderGemini
	}
	return ProviderNone
}

// GeminiConfigured reports whether a plausible Gemini key is present. Keys
// shorter than placeholder length are treated as unset.
func (c *Config) GeminiConfigured() bool { return len(c.GeminiAPIKey) > 10 }

// MistralConfigured reports whether a plausible Mistral key is present.
func (c *Config) MistralConfigured() bool { return len(c.MistralAPIKey) > 10 }

// CredentialsPath is where the Gmail OAuth client secret lives.
func (c *Config) CredentialsPath() string {
	return filepath.Join(c.ConfigDir, "client_secret.json")
}

// TokenPath is where the cached OAuth token lives.
func (c *Config) TokenPath() string {
	return filepath.Join(c.ConfigDir, "token.json")
}

func resolveConfigDir() (string, error) {
	if dir := os.Getenv("MAILPILOT_CONFIG_DIR"); dir != "" {
		return dir, os.MkdirAll(dir, 0o700)
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	dir := filepath.Join(base, "mailpilot")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	return dir, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
