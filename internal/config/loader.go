package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const defaultSystemPrompt = `You are an AI chatbot that remembers previous conversations with the user and continues them naturally in context.
Answer the user's questions clearly and kindly, staying consistent with what was said before.

- Treat the previous exchanges as your memory of the user.
- Keep the conversation flowing naturally.
- If you do not know something, say so honestly instead of guessing.
- Keep answers concise: at most three sentences per reply.`

// Load reads configuration from:
// 1. Default values
// 2. The config file at path (missing file is allowed)
// 3. VIBECHAT_* environment variables
// and validates the result.
func Load(path string) (*Config, error) {
	setDefaults()

	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("VIBECHAT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(err, &notFoundErr) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: failed to read config file: %v", ErrValidation, err)
		}
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrValidation, err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.json", true)

	viper.SetDefault("database.path", "vibechat.db")

	viper.SetDefault("embedding.base_url", "https://api.voyageai.com/v1")
	viper.SetDefault("embedding.model", "voyage-code-3")
	viper.SetDefault("embedding.timeout", 30*time.Second)

	viper.SetDefault("vector.base_url", "http://localhost:6333")
	viper.SetDefault("vector.collection", "chat_memory")
	viper.SetDefault("vector.vector_size", 1024)
	viper.SetDefault("vector.timeout", 30*time.Second)

	viper.SetDefault("chat.top_k", 5)
	viper.SetDefault("chat.system_prompt", defaultSystemPrompt)

	viper.SetDefault("providers.generate_timeout", 2*time.Minute)
	viper.SetDefault("providers.ollama_base_url", "http://localhost:11434")
	viper.SetDefault("providers.openai_base_url", "https://api.openai.com/v1")
	viper.SetDefault("providers.anthropic_max_tokens", 1024)

	viper.SetDefault("scheduler.tasks.sql_maintenance.enabled", true)
	viper.SetDefault("scheduler.tasks.sql_maintenance.schedule", "0 4 * * *")
	viper.SetDefault("scheduler.tasks.memory_health.enabled", true)
	viper.SetDefault("scheduler.tasks.memory_health.schedule", "*/30 * * * *")
}
