package billing

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/kyber/backend/internal/domain/settings"
	"github.com/kyber/backend/internal/domain/shared"
	"github.com/kyber/backend/internal/infrastructure/crypto"
	"github.com/kyber/backend/internal/infrastructure/mailer"
)

// ErrSMTPNotConfigured is returned when a document send is attempted
// before the mail server has been set up
var ErrSMTPNotConfigured = shared.NewDomainError("SMTP_NOT_CONFIGURED", "Configure SMTP settings before sending documents")

// DocumentEmail is one outgoing document dispatch
type DocumentEmail struct {
	Kind        string
	Number      string
	ClientName  string
	ClientEmail string
	Total       decimal.Decimal
	Link        string
	PDF         []byte
	PDFFilename string
}

// DocumentDispatcher resolves the email template and sends documents
type DocumentDispatcher interface {
	ResolveTemplate(ctx context.Context, templateID *uuid.UUID) (*settings.EmailTemplate, error)
	SendDocument(ctx context.Context, template *settings.EmailTemplate, email DocumentEmail) error
}

// DocumentMailService sends documents by email using the SMTP settings
// and email templates stored in the database
type DocumentMailService struct {
	settingsRepo settings.SettingsRepository
	templateRepo settings.EmailTemplateRepository
	secrets      *crypto.SecretBox
	mailer       mailer.Mailer
	logger       *zap.Logger
}

// NewDocumentMailService creates a new DocumentMailService
func NewDocumentMailService(
	settingsRepo settings.SettingsRepository,
	templateRepo settings.EmailTemplateRepository,
	secrets *crypto.SecretBox,
	m mailer.Mailer,
	logger *zap.Logger,
) *DocumentMailService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentMailService{
		settingsRepo: settingsRepo,
		templateRepo: templateRepo,
		secrets:      secrets,
		mailer:       m,
		logger:       logger,
	}
}

// ResolveTemplate returns the requested template, or the default one
// when no ID is given. With nothing stored at all it falls back to the
// built-in professional template so sending always works.
func (s *DocumentMailService) ResolveTemplate(ctx context.Context, templateID *uuid.UUID) (*settings.EmailTemplate, error) {
	if templateID != nil {
		return s.templateRepo.FindByID(ctx, *templateID)
	}

	template, err := s.templateRepo.FindDefault(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			fallback := settings.DefaultEmailTemplates()[0]
			return &fallback, nil
		}
		return nil, err
	}
	return template, nil
}

// SendDocument dispatches the document email. It returns only after
// the SMTP server has accepted the message, so callers can safely flip
// document status afterwards.
func (s *DocumentMailService) SendDocument(ctx context.Context, template *settings.EmailTemplate, email DocumentEmail) error {
	smtp, err := s.settingsRepo.GetSMTP(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return ErrSMTPNotConfigured
		}
		return err
	}
	if !smtp.IsConfigured() {
		return ErrSMTPNotConfigured
	}

	password := ""
	if smtp.EncryptedPassword != "" {
		password, err = s.secrets.Decrypt(smtp.EncryptedPassword)
		if err != nil {
			return shared.NewDomainError("INTERNAL", "Failed to decrypt SMTP password")
		}
	}

	companyName := "Your Business"
	if branding, err := s.settingsRepo.GetBranding(ctx); err == nil && branding != nil {
		companyName = branding.CompanyName
	}

	replacer := strings.NewReplacer(
		"{{company}}", companyName,
		"{{client}}", email.ClientName,
		"{{number}}", email.Number,
		"{{total}}", email.Total.StringFixed(2),
		"{{link}}", email.Link,
	)

	msg := mailer.Message{
		To:      email.ClientEmail,
		ToName:  email.ClientName,
		Subject: replacer.Replace(template.Subject),
		Body:    replacer.Replace(template.Body),
	}
	if len(email.PDF) > 0 {
		msg.Attachments = []mailer.Attachment{{
			Filename:    email.PDFFilename,
			ContentType: "application/pdf",
			Data:        email.PDF,
		}}
	}

	cfg := mailer.SMTPConfig{
		Host:        smtp.Host,
		Port:        smtp.Port,
		Username:    smtp.Username,
		Password:    password,
		FromAddress: smtp.FromAddress,
		FromName:    smtp.FromName,
		UseTLS:      smtp.UseTLS,
	}

	if err := s.mailer.Send(ctx, cfg, msg); err != nil {
		s.logger.Error("document email dispatch failed",
			zap.String("kind", email.Kind),
			zap.String("number", email.Number),
			zap.Error(err))
		return shared.NewDomainError("EXTERNAL_FAILURE", "Failed to send document email")
	}

	return nil
}

// Ensure DocumentMailService implements DocumentDispatcher
var _ DocumentDispatcher = (*DocumentMailService)(nil)
