package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application's configuration.
type Config struct {
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	SpeechService struct {
		URL            string `yaml:"url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"speech_service"`
	SentimentService struct {
		URL            string `yaml:"url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"sentiment_service"`
	VisionService struct {
		URL            string `yaml:"url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"vision_service"`
	LLM struct {
		BaseURL        string  `yaml:"base_url"`
		Model          string  `yaml:"model"`
		MaxTokens      int     `yaml:"max_tokens"`
		Temperature    float64 `yaml:"temperature"`
		TimeoutSeconds int     `yaml:"timeout_seconds"`
	} `yaml:"llm"`
	Interview struct {
		RecordSeconds int `yaml:"record_seconds"`
	} `yaml:"interview"`
	Analysis struct {
		// What to do when the LLM fraud-analysis JSON cannot be parsed:
		// "neutral" substitutes a trust_score=50 result, "fail" surfaces the error.
		OnParseFailure string `yaml:"llm_fraud_on_parse_failure"`
	} `yaml:"analysis"`
	Notifications struct {
		Enabled          bool   `yaml:"enabled"`
		TelegramBotToken string `yaml:"telegram_bot_token"`
		ReviewChatID     int64  `yaml:"review_chat_id"`
	} `yaml:"notifications"`
	Server struct {
		Port string `yaml:"port"`
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

	return config, nil
}

func (c *Config) applyDefaults() {
	if c.SpeechService.TimeoutSeconds == 0 {
		c.SpeechService.TimeoutSeconds = 60
	}
	if c.SentimentService.TimeoutSeconds == 0 {
		c.SentimentService.TimeoutSeconds = 30
	}
	if c.VisionService.TimeoutSeconds == 0 {
		c.VisionService.TimeoutSeconds = 60
	}
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = "https://api.openai.com/v1"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-3.5-turbo"
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 300
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.2
	}
	if c.LLM.TimeoutSeconds == 0 {
		c.LLM.TimeoutSeconds = 60
	}
	if c.Interview.RecordSeconds == 0 {
		c.Interview.RecordSeconds = 20
	}
	if c.Analysis.OnParseFailure == "" {
		c.Analysis.OnParseFailure = "neutral"
	}
	if c.Server.Port == "" {
		c.Server.Port = ":8080"
	}
}

// SpeechTimeout returns the speech service call timeout as a duration.
func (c *Config) SpeechTimeout() time.Duration {
	return time.Duration(c.SpeechService.TimeoutSeconds) * time.Second
}

// SentimentTimeout returns the sentiment service call timeout as a duration.
func (c *Config) SentimentTimeout() time.Duration {
	return time.Duration(c.SentimentService.TimeoutSeconds) * time.Second
}

// VisionTimeout returns the vision service call timeout as a duration.
func (c *Config) VisionTimeout() time.Duration {
	return time.Duration(c.VisionService.TimeoutSeconds) * time.Second
}

// LLMTimeout returns the reasoning service call timeout as a duration.
func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLM.TimeoutSeconds) * time.Second
}

// RecordDuration returns how long each answer is recorded for.
func (c *Config) RecordDuration() time.Duration {
	return time.Duration(c.Interview.RecordSeconds) * time.Second
}
