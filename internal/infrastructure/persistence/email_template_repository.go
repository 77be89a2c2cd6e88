package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kyber/backend/internal/domain/settings"
	"github.com/kyber/backend/internal/domain/shared"
)

// GormEmailTemplateRepository implements EmailTemplateRepository using GORM
type GormEmailTemplateRepository struct {
	db *gorm.DB
}

// NewGormEmailTemplateRepository creates a new GormEmailTemplateRepository
func NewGormEmailTemplateRepository(db *gorm.DB) *GormEmailTemplateRepository {
	return &GormEmailTemplateRepository{db: db}
}

// FindByID finds a template by its ID
func (r *GormEmailTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*settings.EmailTemplate, error) {
	var template settings.EmailTemplate
	if err := r.db.WithContext(ctx).First(&template, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &template, nil
}

// FindAll returns all templates, built-ins first, then by name
func (r *GormEmailTemplateRepository) FindAll(ctx context.Context) ([]settings.EmailTemplate, error) {
	var templates []settings.EmailTemplate
	if err := r.db.WithContext(ctx).
		Order("built_in DESC, name ASC").
		Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

// FindDefault returns the template marked as default
func (r *GormEmailTemplateRepository) FindDefault(ctx context.Context) (*settings.EmailTemplate, error) {
	var template settings.EmailTemplate
	if err := r.db.WithContext(ctx).
		Where("is_default = ?", true).
		First(&template).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &template, nil
}

// Save creates or updates a template
func (r *GormEmailTemplateRepository) Save(ctx context.Context, template *settings.EmailTemplate) error {
	return r.db.WithContext(ctx).Save(template).Error
}

// SetDefault marks the given template as default and clears the flag
// everywhere else in one transaction
func (r *GormEmailTemplateRepository) SetDefault(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var template settings.EmailTemplate
		if err := tx.First(&template, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if err := tx.Model(&settings.EmailTemplate{}).
			Where("is_default = ?", true).
			Update("is_default", false).Error; err != nil {
			return err
		}

		return tx.Model(&settings.EmailTemplate{}).
			Where("id = ?", id).
			Update("is_default", true).Error
	})
}

// Delete removes a template
func (r *GormEmailTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&settings.EmailTemplate{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts all templates
func (r *GormEmailTemplateRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&settings.EmailTemplate{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormEmailTemplateRepository implements EmailTemplateRepository
var _ settings.EmailTemplateRepository = (*GormEmailTemplateRepository)(nil)
