package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

const (
	PrimaryChannelTelegram = "telegram"
	PrimaryChannelEmail    = "email"
)

type Config struct {
	IsTestMode      bool          `env:"TEST_MODE" envDefault:"false"`
	Port            uint16        `env:"PORT" envDefault:"8000"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
	SentryDsn       *url.URL      `env:"SENTRY_DSN"`

	PostgresqlURL  string `env:"POSTGRESQL_URL,required,notEmpty"`
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"migrations"`

	// The in-memory occurrence guard is used when not set.
	RedisURL           string        `env:"REDIS_URL"`
	OccurrenceGuardTTL time.Duration `env:"OCCURRENCE_GUARD_TTL" envDefault:"10m"`

	// Bcrypt hash of the key expected in the X-API-Key header.
	ApiKeyHash     string   `env:"API_KEY_HASH,required,notEmpty"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	PrimaryChannel        string `env:"PRIMARY_CHANNEL" envDefault:"telegram"`
	TelegramToken         string `env:"TELEGRAM_TOKEN"`
	TelegramRatePerSecond int    `env:"TELEGRAM_RATE_PER_SECOND" envDefault:"25"`
	TelegramAPIEndpoint   string `env:"TELEGRAM_API_ENDPOINT" envDefault:"https://api.telegram.org/bot%s/%s"`

	AwsRegion      string `env:"AWS_REGION"`
	AwsAccessKey   string `env:"AWS_ACCESS_KEY"`
	AwsSecretKey   string `env:"AWS_SECRET_KEY"`
	AwsEmailSender string `env:"AWS_EMAIL_SENDER"`
	EmailSubject   string `env:"EMAIL_SUBJECT" envDefault:"Reminder"`

	WebhookURL       string        `env:"WEBHOOK_URL"`
	WebhookTimeout   time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"10s"`
	RabbitmqURL      string        `env:"RABBITMQ_URL"`
	RabbitmqExchange string        `env:"RABBITMQ_EXCHANGE" envDefault:"nudgebot.events"`
	SseEnabled       bool          `env:"SSE_ENABLED" envDefault:"true"`

	SweepSchedule string `env:"SWEEP_SCHEDULE" envDefault:"*/10 * * * *"`
}

// Load reads the configuration from the environment. Values from a .env file
// in the working directory are loaded first, without overriding variables
// that are already set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("could not load .env file: %w", err)
	}
	return Parse()
}

func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.PrimaryChannel {
	case PrimaryChannelTelegram:
	case PrimaryChannelEmail:
		if c.AwsRegion == "" || c.AwsEmailSender == "" {
			return fmt.Errorf("AWS_REGION and AWS_EMAIL_SENDER must be set for the email channel")
		}
	default:
		return fmt.Errorf("invalid PRIMARY_CHANNEL value: %q", c.PrimaryChannel)
	}
	if c.TelegramRatePerSecond <= 0 {
		return fmt.Errorf("TELEGRAM_RATE_PER_SECOND must be positive")
	}
	if _, err := cron.ParseStandard(c.SweepSchedule); err != nil {
		return fmt.Errorf("invalid SWEEP_SCHEDULE value: %w", err)
	}
	if c.OccurrenceGuardTTL <= 0 {
		return fmt.Errorf("OCCURRENCE_GUARD_TTL must be positive")
	}
	return nil
}
