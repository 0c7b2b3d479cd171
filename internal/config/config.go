// Package config provides configuration loading, validation, and defaults
// for the vibechat service. Values come from config.yaml with VIBECHAT_*
// environment variable overrides.
package config

import (
	"errors"
	"time"
)

var ErrValidation = errors.New("validation error")

// Config is the immutable application configuration. It is built once at
// process start and passed by reference into each component; request-handling
// code never reads ambient state.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Vector    VectorConfig    `mapstructure:"vector"`
	Chat      ChatConfig      `mapstructure:"chat"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Crypto    CryptoConfig    `mapstructure:"crypto"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

type TelegramConfig struct {
	Token          string  `mapstructure:"token"            validate:"required"`
	AllowedUserIDs []int64 `mapstructure:"allowed_user_ids"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// EmbeddingConfig configures the embedding backend (a Voyage-compatible
// POST /embeddings endpoint).
type EmbeddingConfig struct {
	BaseURL string        `mapstructure:"base_url" validate:"required,url"`
	APIKey  string        `mapstructure:"api_key"  validate:"required"`
	Model   string        `mapstructure:"model"    validate:"required"`
	Timeout time.Duration `mapstructure:"timeout"  validate:"min=1s,max=5m"`
}

// VectorConfig configures the Qdrant memory store.
type VectorConfig struct {
	BaseURL    string        `mapstructure:"base_url"    validate:"required,url"`
	APIKey     string        `mapstructure:"api_key"`
	Collection string        `mapstructure:"collection"  validate:"required"`
	VectorSize int           `mapstructure:"vector_size" validate:"min=1"`
	Timeout    time.Duration `mapstructure:"timeout"     validate:"min=1s,max=5m"`
}

type ChatConfig struct {
	TopK         int    `mapstructure:"top_k"         validate:"min=1,max=50"`
	SystemPrompt string `mapstructure:"system_prompt" validate:"required"`
}

// ProvidersConfig holds per-brand backend settings. Default API keys are used
// when a user's selection carries no key of its own.
type ProvidersConfig struct {
	GenerateTimeout time.Duration `mapstructure:"generate_timeout" validate:"min=1s,max=10m"`

	OllamaBaseURL string `mapstructure:"ollama_base_url" validate:"required,url"`

	OpenAIBaseURL    string `mapstructure:"openai_base_url" validate:"omitempty,url"`
	OpenAIDefaultKey string `mapstructure:"openai_default_key"`

	GeminiDefaultKey string `mapstructure:"gemini_default_key"`

	AnthropicDefaultKey string `mapstructure:"anthropic_default_key"`
	AnthropicMaxTokens  int    `mapstructure:"anthropic_max_tokens" validate:"min=1"`
}

// CryptoConfig carries the symmetric key protecting stored provider API keys.
type CryptoConfig struct {
	// AESKeyHex is a 64-character hex string (32 bytes, AES-256).
	AESKeyHex string `mapstructure:"aes_key_hex" validate:"required,len=64,hexadecimal"`
}

type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}
