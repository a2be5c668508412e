// Package config loads itemsmith settings from itemsmith.yaml and
// ITEMSMITH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/abhisek/itemsmith/internal/llm"
)

// Config is the merged configuration.
type Config struct {
	DB          string       `mapstructure:"db"`
	Log         LogConfig    `mapstructure:"log"`
	Banks       BanksConfig  `mapstructure:"banks"`
	LLMSettings LLMSettings  `mapstructure:"llm"`
	Server      ServerConfig `mapstructure:"server"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// BanksConfig points at the few-shot example banks and the vocabulary
// table vocabulary-list runs draw deterministic distractors from.
type BanksConfig struct {
	Grammar    string `mapstructure:"grammar"`
	Vocab      string `mapstructure:"vocab"`
	VocabTable string `mapstructure:"vocab_table"`
}

// LLMSettings selects and tunes the provider. An empty Provider means
// auto-discovery from the usual API key variables.
type LLMSettings struct {
	Provider    string        `mapstructure:"provider"`
	Model       string        `mapstructure:"model"`
	BaseURL     string        `mapstructure:"base_url"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Retry       RetrySettings `mapstructure:"retry"`
}

type RetrySettings struct {
	MaxAttempts int `mapstructure:"max_attempts"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("banks.grammar", "")
	v.SetDefault("banks.vocab", "")
	v.SetDefault("banks.vocab_table", "")
	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.max_tokens", 8192)
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.timeout", 180*time.Second)
	v.SetDefault("llm.retry.max_attempts", 1)
	v.SetDefault("server.addr", ":8080")
}

// Load reads path, or searches the standard locations for itemsmith.yaml
// when path is empty. A missing file in the search locations is not an
// error; a missing explicit path is.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("ITEMSMITH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("itemsmith")
		v.SetConfigType("yaml")
		for _, dir := range searchPaths() {
			v.AddConfigPath(dir)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	return cfg, nil
}

func searchPaths() []string {
	paths := []string{"."}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "itemsmith"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "itemsmith"))
	}
	return paths
}

// LLM maps the settings onto a provider configuration. API keys always
// come from the environment.
func (c *Config) LLM() llm.Config {
	s := c.LLMSettings

	cfg := llm.DefaultConfig()
	if s.Provider == "" {
		if found, ok := llm.DiscoverConfig(); ok {
			cfg = found
		}
	} else {
		cfg.Provider = s.Provider
	}
	llm.ApplyEnv(&cfg)
	if s.Provider != "" {
		cfg.Provider = s.Provider
	}

	if s.Model != "" {
		switch cfg.Provider {
		case "anthropic":
			cfg.Anthropic.Model = s.Model
		case "openai":
			cfg.OpenAI.Model = s.Model
		case "gemini":
			cfg.Gemini.Model = s.Model
		case "openrouter":
			cfg.OpenRouter.Model = s.Model
		case "ollama":
			cfg.Ollama.Model = s.Model
		}
	}
	if s.BaseURL != "" {
		switch cfg.Provider {
		case "openai":
			cfg.OpenAI.BaseURL = s.BaseURL
		case "openrouter":
			cfg.OpenRouter.BaseURL = s.BaseURL
		case "ollama":
			cfg.Ollama.ServerURL = s.BaseURL
		}
	}
	if s.Retry.MaxAttempts > 0 {
		cfg.Retry.MaxAttempts = s.Retry.MaxAttempts
	}
	if s.Timeout > 0 {
		cfg.Timeout = s.Timeout
	}
	return cfg
}
