package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/client"

	stocksmtp "github.com/Apurer/stock-tracker/internal/domains/inventory/adapters/notifier/smtp"
	inventoryapp "github.com/Apurer/stock-tracker/internal/domains/inventory/application"
)

// Config carries environment-driven settings shared by the inventory processes.
type Config struct {
	Port              string
	PostgresDSN       string
	AutoMigrate       bool
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
	SMTP              SMTPConfig
	// SuppressionWindow holds back identical low-stock alerts. Zero disables suppression.
	SuppressionWindow time.Duration
}

// SMTPConfig selects the mail transport. An empty Host keeps alerts in the in-memory outbox.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	From      string
	Recipient string
	Timeout   time.Duration
	Insecure  bool
}

// Enabled reports whether alerts go out over SMTP.
func (c SMTPConfig) Enabled() bool {
	return c.Host != ""
}

// SenderConfig converts the settings for the SMTP adapter.
func (c SMTPConfig) SenderConfig() stocksmtp.Config {
	return stocksmtp.Config{
		Host:      c.Host,
		Port:      c.Port,
		Username:  c.Username,
		Password:  c.Password,
		From:      c.From,
		Recipient: c.Recipient,
		Timeout:   c.Timeout,
		Insecure:  c.Insecure,
	}
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		PostgresDSN:       postgresDSN(),
		AutoMigrate:       isTruthy(os.Getenv("AUTO_MIGRATE")),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		SuppressionWindow: inventoryapp.DefaultSuppressionWindow,
		SMTP: SMTPConfig{
			Host:      strings.TrimSpace(os.Getenv("SMTP_HOST")),
			Port:      stocksmtp.DefaultPort,
			Username:  strings.TrimSpace(os.Getenv("SMTP_USERNAME")),
			Password:  os.Getenv("SMTP_PASSWORD"),
			From:      strings.TrimSpace(os.Getenv("SMTP_FROM")),
			Recipient: strings.TrimSpace(os.Getenv("ALERT_RECIPIENT")),
			Timeout:   stocksmtp.DefaultTimeout,
			Insecure:  isTruthy(os.Getenv("SMTP_INSECURE")),
		},
	}
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return Config{}, fmt.Errorf("PORT must be numeric, got %q", cfg.Port)
	}
	if raw := strings.TrimSpace(os.Getenv("SMTP_PORT")); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil || port <= 0 || port > 65535 {
			return Config{}, fmt.Errorf("SMTP_PORT must be a port number between 1 and 65535")
		}
		cfg.SMTP.Port = port
	}
	if raw := strings.TrimSpace(os.Getenv("SMTP_TIMEOUT_SECONDS")); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			return Config{}, fmt.Errorf("SMTP_TIMEOUT_SECONDS must be a positive integer")
		}
		cfg.SMTP.Timeout = time.Duration(seconds) * time.Second
	}
	if raw := strings.TrimSpace(os.Getenv("LOW_STOCK_SUPPRESSION_MINUTES")); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes < 0 {
			return Config{}, fmt.Errorf("LOW_STOCK_SUPPRESSION_MINUTES must be a non-negative integer")
		}
		cfg.SuppressionWindow = time.Duration(minutes) * time.Minute
	}
	if cfg.SMTP.Enabled() {
		if cfg.SMTP.From == "" {
			return Config{}, fmt.Errorf("SMTP_FROM is required when SMTP_HOST is set")
		}
		if cfg.SMTP.Recipient == "" {
			return Config{}, fmt.Errorf("ALERT_RECIPIENT is required when SMTP_HOST is set")
		}
	}
	return cfg, nil
}

// postgresDSN prefers POSTGRES_DSN and falls back to DATABASE_URL, normalizing the legacy scheme.
func postgresDSN() string {
	if dsn := strings.TrimSpace(os.Getenv("POSTGRES_DSN")); dsn != "" {
		return dsn
	}
	dsn := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if strings.HasPrefix(dsn, "postgres://") {
		dsn = "postgresql://" + strings.TrimPrefix(dsn, "postgres://")
	}
	return dsn
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
