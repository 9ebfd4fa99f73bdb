package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"family-meal-planner/internal/validation"
)

// Config holds the configuration for the application.
type Config struct {
	DBPath     string `env:"MEAL_PLANNER_DB_PATH" envDefault:"data/meal-planner.db"`
	CatalogDir string `env:"MEAL_PLANNER_CATALOG_DIR" envDefault:"data/recipes"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json" validate:"oneof=json console"`

	Port int `env:"PORT" envDefault:"8080" validate:"gte=1,lte=65535"`

	// Share links are disabled when no secret is set.
	ShareTokenSecret string        `env:"SHARE_TOKEN_SECRET"`
	ShareTokenTTL    time.Duration `env:"SHARE_TOKEN_TTL" envDefault:"168h" validate:"gt=0s"`

	Defaults PlanDefaults

	// Telegram Config (optional for the CLI, required for the bot)
	TelegramBotToken       string  `env:"TELEGRAM_BOT_TOKEN"`
	TelegramWebhookURL     string  `env:"TELEGRAM_WEBHOOK_URL"`
	TelegramAllowedUserIDs []int64 `env:"TELEGRAM_ALLOWED_USER_IDS" envSeparator:","`
	AdminTelegramID        int64   `env:"ADMIN_TELEGRAM_ID"`
}

// PlanDefaults fills plan requests that leave fields unset.
type PlanDefaults struct {
	Days            int     `env:"DEFAULT_DAYS" envDefault:"7" validate:"gte=1,lte=28"`
	CalorieLimit    float64 `env:"DEFAULT_CALORIE_LIMIT" envDefault:"2000" validate:"gt=0"`
	FamilySize      int     `env:"DEFAULT_FAMILY_SIZE" envDefault:"4" validate:"gte=1"`
	KidFriendlyOnly bool    `env:"DEFAULT_KID_FRIENDLY_ONLY" envDefault:"true"`
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges that env parsing cannot express. Failures are
// reported by environment variable name.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// IsAllowedUser reports whether the Telegram user may use the bot. The admin
// is always allowed.
func (c *Config) IsAllowedUser(id int64) bool {
	if c.AdminTelegramID != 0 && id == c.AdminTelegramID {
		return true
	}
	for _, allowed := range c.TelegramAllowedUserIDs {
		if allowed == id {
			return true
		}
	}
	return false
}
