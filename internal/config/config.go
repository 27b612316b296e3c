package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		BaseURL        string        `yaml:"base_url" validate:"omitempty,url"`
		APIKey         string        `yaml:"api_key"`
		Proxy          string        `yaml:"proxy" validate:"omitempty,url"`
		Timeout        time.Duration `yaml:"timeout" default:"30s" validate:"gt=0"`
		RequestsPerSec int           `yaml:"requests_per_sec" default:"5" validate:"gt=0"`
		MaxRetries     int           `yaml:"max_retries" default:"3" validate:"gte=0,lte=10"`
	} `yaml:"data_source"`
	Analysis struct {
		Ticker     string  `yaml:"ticker" default:"MSFT" validate:"required"`
		Period     string  `yaml:"period" default:"1y" validate:"required"`
		ATRLength  int     `yaml:"atr_length" default:"10" validate:"gt=0"`
		Multiplier float64 `yaml:"multiplier" default:"3.0" validate:"gt=0"`
		Interval   string  `yaml:"interval" default:"daily" validate:"oneof=daily weekly"`
	} `yaml:"analysis"`
	Chart struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Dir     string `yaml:"dir" default:"."`
	} `yaml:"chart"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id" validate:"required_with=BotToken"`
	} `yaml:"telegram"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	LogLevel string `yaml:"log_level" default:"info" validate:"oneof=trace debug info warn error"`
}

var validate = validator.New()

// LoadEnv loads .env files into the process environment. Missing files are ignored.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load applies defaults, then the YAML file at path if it exists, then
// environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("DATA_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.DataSource.Proxy = v
	}
	if v := os.Getenv("DATA_MAX_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("DATA_MAX_RETRIES: %w", err)
		}
		cfg.DataSource.MaxRetries = n
	}
	if v := os.Getenv("SCHEDULE_CRON"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}

	return cfg, nil
}

// Validate checks field constraints and reports every violation at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required", "required_with":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}
