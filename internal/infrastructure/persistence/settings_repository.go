package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/kyber/backend/internal/domain/settings"
	"github.com/kyber/backend/internal/domain/shared"
)

// GormSettingsRepository implements SettingsRepository using GORM.
// Each settings table holds a single row; Get reads the oldest row so
// an accidental duplicate never flips the configuration.
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// GetSMTP returns the stored SMTP configuration
func (r *GormSettingsRepository) GetSMTP(ctx context.Context) (*settings.SMTPSettings, error) {
	var s settings.SMTPSettings
	if err := r.db.WithContext(ctx).Order("created_at ASC").First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// SaveSMTP creates or updates the SMTP configuration
func (r *GormSettingsRepository) SaveSMTP(ctx context.Context, s *settings.SMTPSettings) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// GetPayPal returns the stored PayPal configuration
func (r *GormSettingsRepository) GetPayPal(ctx context.Context) (*settings.PayPalSettings, error) {
	var p settings.PayPalSettings
	if err := r.db.WithContext(ctx).Order("created_at ASC").First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// SavePayPal creates or updates the PayPal configuration
func (r *GormSettingsRepository) SavePayPal(ctx context.Context, p *settings.PayPalSettings) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// GetBranding returns the stored branding configuration
func (r *GormSettingsRepository) GetBranding(ctx context.Context) (*settings.BrandingSettings, error) {
	var b settings.BrandingSettings
	if err := r.db.WithContext(ctx).Order("created_at ASC").First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// SaveBranding creates or updates the branding configuration
func (r *GormSettingsRepository) SaveBranding(ctx context.Context, b *settings.BrandingSettings) error {
	return r.db.WithContext(ctx).Save(b).Error
}

// Ensure GormSettingsRepository implements SettingsRepository
var _ settings.SettingsRepository = (*GormSettingsRepository)(nil)
