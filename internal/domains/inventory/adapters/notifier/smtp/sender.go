package smtp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/Apurer/stock-tracker/internal/domains/inventory/domain"
	"github.com/Apurer/stock-tracker/internal/domains/inventory/ports"
)

// DefaultPort is the submission port used with STARTTLS.
const DefaultPort = 587

// DefaultTimeout bounds dialing and sending a single alert.
const DefaultTimeout = 10 * time.Second

// Config holds the mail transport settings.
type Config struct {
	Host      string
	Port      int
	Username  string
	Password  string
	From      string
	Recipient string
	Timeout   time.Duration
	// Insecure downgrades STARTTLS from mandatory to opportunistic.
	Insecure bool
}

// Sender delivers low-stock alerts over SMTP.
type Sender struct {
	cfg Config
}

var _ ports.AlertSender = (*Sender)(nil)

// NewSender validates cfg and applies defaults.
func NewSender(cfg Config) (*Sender, error) {
	cfg.Host = strings.TrimSpace(cfg.Host)
	cfg.From = strings.TrimSpace(cfg.From)
	cfg.Recipient = strings.TrimSpace(cfg.Recipient)
	if cfg.Host == "" {
		return nil, errors.New("smtp host is required")
	}
	if cfg.From == "" {
		return nil, errors.New("smtp sender address is required")
	}
	if cfg.Recipient == "" {
		return nil, errors.New("alert recipient is required")
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("smtp port %d out of range", cfg.Port)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Sender{cfg: cfg}, nil
}

// Send composes the alert as a plain-text message and delivers it.
func (s *Sender) Send(ctx context.Context, alert domain.LowStockAlert) error {
	if s == nil {
		return errors.New("smtp sender not configured")
	}
	msg, err := s.buildMessage(alert)
	if err != nil {
		return err
	}
	client, err := mail.NewClient(s.cfg.Host, s.clientOptions()...)
	if err != nil {
		return fmt.Errorf("build smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send low stock alert: %w", err)
	}
	return nil
}

func (s *Sender) buildMessage(alert domain.LowStockAlert) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(s.cfg.Recipient); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	subject := alert.Subject
	if subject == "" {
		subject = domain.LowStockSubject
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, alert.Body)
	return msg, nil
}

func (s *Sender) clientOptions() []mail.Option {
	policy := mail.TLSMandatory
	if s.cfg.Insecure {
		policy = mail.TLSOpportunistic
	}
	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithTimeout(s.cfg.Timeout),
		mail.WithTLSPolicy(policy),
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}
	return opts
}
