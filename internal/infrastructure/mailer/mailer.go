// Package mailer sends transactional email through the SMTP server
// configured in settings.
package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// Common errors
var (
	ErrNotConfigured  = errors.New("smtp is not configured")
	ErrMissingSubject = errors.New("message subject is required")
	ErrMissingTo      = errors.New("message recipient is required")
)

const defaultSendTimeout = 30 * time.Second

// Attachment is a file attached to an outgoing message
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message is one outgoing email
type Message struct {
	To          string
	ToName      string
	Subject     string
	Body        string
	Attachments []Attachment
}

// SMTPConfig holds decrypted SMTP connection settings
type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
	UseTLS      bool
	Timeout     time.Duration
}

// Mailer dispatches email messages
type Mailer interface {
	Send(ctx context.Context, cfg SMTPConfig, msg Message) error
}

// SMTPMailer implements Mailer over SMTP. A fresh client is built per
// send because the connection settings live in the database and can
// change between sends.
type SMTPMailer struct {
	logger *zap.Logger
}

// NewSMTPMailer creates a new SMTP mailer
func NewSMTPMailer(logger *zap.Logger) *SMTPMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SMTPMailer{logger: logger}
}

// Send dispatches a message and returns only after the SMTP server has
// accepted it. A non-nil error means the message was not delivered to
// the server.
func (m *SMTPMailer) Send(ctx context.Context, cfg SMTPConfig, msg Message) error {
	if cfg.Host == "" || cfg.FromAddress == "" {
		return ErrNotConfigured
	}
	if msg.To == "" {
		return ErrMissingTo
	}
	if msg.Subject == "" {
		return ErrMissingSubject
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultSendTimeout
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(timeout),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	if cfg.UseTLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}

	out := mail.NewMsg()
	if cfg.FromName != "" {
		err = out.FromFormat(cfg.FromName, cfg.FromAddress)
	} else {
		err = out.From(cfg.FromAddress)
	}
	if err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}

	if msg.ToName != "" {
		err = out.AddToFormat(msg.ToName, msg.To)
	} else {
		err = out.To(msg.To)
	}
	if err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}

	out.Subject(msg.Subject)
	out.SetBodyString(mail.TypeTextPlain, msg.Body)

	for _, att := range msg.Attachments {
		out.AttachReader(att.Filename, bytes.NewReader(att.Data),
			mail.WithFileContentType(mail.ContentType(att.ContentType)))
	}

	start := time.Now()
	if err := client.DialAndSendWithContext(ctx, out); err != nil {
		m.logger.Error("email dispatch failed",
			zap.String("to", msg.To),
			zap.String("host", cfg.Host),
			zap.Error(err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.Info("email dispatched",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("attachments", len(msg.Attachments)),
		zap.Duration("duration", time.Since(start)))

	return nil
}

// Ensure SMTPMailer implements Mailer
var _ Mailer = (*SMTPMailer)(nil)
