package settings

import (
	"context"

	"github.com/google/uuid"
)

// SettingsRepository persists the singleton configuration records.
// Get methods return shared.ErrNotFound when nothing is stored yet.
type SettingsRepository interface {
	GetSMTP(ctx context.Context) (*SMTPSettings, error)
	SaveSMTP(ctx context.Context, s *SMTPSettings) error

	GetPayPal(ctx context.Context) (*PayPalSettings, error)
	SavePayPal(ctx context.Context, p *PayPalSettings) error

	GetBranding(ctx context.Context) (*BrandingSettings, error)
	SaveBranding(ctx context.Context, b *BrandingSettings) error
}

// EmailTemplateRepository persists email templates
type EmailTemplateRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*EmailTemplate, error)
	FindAll(ctx context.Context) ([]EmailTemplate, error)
	FindDefault(ctx context.Context) (*EmailTemplate, error)
	Save(ctx context.Context, template *EmailTemplate) error
	// SetDefault marks the given template as default and clears the
	// flag everywhere else in one transaction
	SetDefault(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}
