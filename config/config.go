package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration.
type Config struct {
	Port     string `yaml:"port"`
	LogLevel string `yaml:"log_level"`

	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	CacheTTL      time.Duration `yaml:"cache_ttl"`

	DBConn            string        `yaml:"db_conn"`
	HistoryRetention  time.Duration `yaml:"history_retention"`
	RetentionSchedule string        `yaml:"retention_schedule"`

	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     string `yaml:"smtp_port"`
	SMTPUsername string `yaml:"smtp_username"`
	SMTPPassword string `yaml:"smtp_password"`
	SenderEmail  string `yaml:"sender_email"`

	LLMAPIKey string `yaml:"llm_api_key"`
	LLMAPIURL string `yaml:"llm_api_url"`
	LLMModel  string `yaml:"llm_model"`

	RateLimitCapacity int           `yaml:"rate_limit_capacity"`
	RateLimitWindow   time.Duration `yaml:"rate_limit_window"`
}

func defaults() *Config {
	return &Config{
		Port:              "8080",
		LogLevel:          "info",
		CacheTTL:          10 * time.Minute,
		HistoryRetention:  90 * 24 * time.Hour,
		RetentionSchedule: "@daily",
		SMTPPort:          "587",
		LLMAPIURL:         "https://api.openai.com/v1/chat/completions",
		LLMModel:          "gpt-4o-mini",
		RateLimitCapacity: 30,
		RateLimitWindow:   time.Minute,
	}
}

// NewConfig loads defaults, then the YAML file named by CONFIG_FILE if set,
// then environment variables.
func NewConfig() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.DBConn = getEnv("DB_CONN", cfg.DBConn)
	cfg.RetentionSchedule = getEnv("RETENTION_SCHEDULE", cfg.RetentionSchedule)
	cfg.SMTPHost = getEnv("SMTP_HOST", cfg.SMTPHost)
	cfg.SMTPPort = getEnv("SMTP_PORT", cfg.SMTPPort)
	cfg.SMTPUsername = getEnv("SMTP_USERNAME", cfg.SMTPUsername)
	cfg.SMTPPassword = getEnv("SMTP_PASSWORD", cfg.SMTPPassword)
	cfg.SenderEmail = getEnv("SENDER_EMAIL", cfg.SenderEmail)
	cfg.LLMAPIKey = getEnv("LLM_API_KEY", cfg.LLMAPIKey)
	cfg.LLMAPIURL = getEnv("LLM_API_URL", cfg.LLMAPIURL)
	cfg.LLMModel = getEnv("LLM_MODEL", cfg.LLMModel)

	var err error
	if cfg.RedisDB, err = getEnvInt("REDIS_DB", cfg.RedisDB); err != nil {
		return nil, err
	}
	if cfg.RateLimitCapacity, err = getEnvInt("RATE_LIMIT_CAPACITY", cfg.RateLimitCapacity); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getEnvDuration("CACHE_TTL", cfg.CacheTTL); err != nil {
		return nil, err
	}
	if cfg.HistoryRetention, err = getEnvDuration("HISTORY_RETENTION", cfg.HistoryRetention); err != nil {
		return nil, err
	}
	if cfg.RateLimitWindow, err = getEnvDuration("RATE_LIMIT_WINDOW", cfg.RateLimitWindow); err != nil {
		return nil, err
	}

	if cfg.Port == "" {
		return nil, fmt.Errorf("PORT is required")
	}
	if cfg.RateLimitCapacity <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_CAPACITY must be positive")
	}
	if cfg.RateLimitWindow <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}

	return cfg, nil
}

// SMTPConfigured reports whether plan e-mails can be sent.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SenderEmail != ""
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
