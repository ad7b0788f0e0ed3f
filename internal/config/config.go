package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the application's configuration.
type Config struct {
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	MLService struct {
		URL string `yaml:"url"`
	} `yaml:"ml_service"`
	Auth struct {
		ProtectFeedback bool `yaml:"protect_feedback"`
		ProtectStats    bool `yaml:"protect_stats"`
	} `yaml:"auth"`
	Limits struct {
		MaxTextChars    int `yaml:"max_text_chars"`
		KeygenPerMinute int `yaml:"keygen_per_minute"`
	} `yaml:"limits"`
	Cache struct {
		Enabled    bool   `yaml:"enabled"`
		RedisURL   string `yaml:"redis_url"`
		TTLSeconds int64  `yaml:"ttl_seconds"`
	} `yaml:"cache"`
	Notifier struct {
		Enabled          bool   `yaml:"enabled"`
		TelegramBotToken string `yaml:"telegram_bot_token"`
		ChatID           int64  `yaml:"chat_id"`
	} `yaml:"notifier"`
	Server struct {
		Port      string `yaml:"port"`
		StaticDir string `yaml:"static_dir"`
	} `yaml:"server"`
}

// LoadConfig reads configuration from the specified YAML file.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	config.applyDefaults()

	// Environment overrides for values nobody should keep in a file.
	if url := os.Getenv("DATABASE_URL"); url != "" {
		config.Database.URL = url
	}
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		config.Notifier.TelegramBotToken = token
	}

	return config, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = ":8080"
	}
	if c.Limits.MaxTextChars == 0 {
		c.Limits.MaxTextChars = 10000
	}
	if c.Limits.KeygenPerMinute == 0 {
		c.Limits.KeygenPerMinute = 10
	}
	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = 3600
	}
}
