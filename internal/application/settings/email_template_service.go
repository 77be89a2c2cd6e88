package settings

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kyber/backend/internal/domain/settings"
	"github.com/kyber/backend/internal/domain/shared"
)

// EmailTemplateService handles email template operations
type EmailTemplateService struct {
	repo   settings.EmailTemplateRepository
	logger *zap.Logger
}

// NewEmailTemplateService creates a new EmailTemplateService
func NewEmailTemplateService(repo settings.EmailTemplateRepository, logger *zap.Logger) *EmailTemplateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmailTemplateService{repo: repo, logger: logger}
}

// Seed stores the built-in templates on first boot. It is a no-op when
// any template already exists.
func (s *EmailTemplateService) Seed(ctx context.Context) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, template := range settings.DefaultEmailTemplates() {
		t := template
		if err := s.repo.Save(ctx, &t); err != nil {
			return err
		}
	}

	s.logger.Info("seeded built-in email templates")
	return nil
}

// List retrieves all templates, built-ins first
func (s *EmailTemplateService) List(ctx context.Context) ([]EmailTemplateResponse, error) {
	templates, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToEmailTemplateResponses(templates), nil
}

// GetByID retrieves a template by ID
func (s *EmailTemplateService) GetByID(ctx context.Context, id uuid.UUID) (*EmailTemplateResponse, error) {
	template, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToEmailTemplateResponse(template)
	return &response, nil
}

// Create creates a user-defined template
func (s *EmailTemplateService) Create(ctx context.Context, req EmailTemplateRequest) (*EmailTemplateResponse, error) {
	template, err := settings.NewEmailTemplate(req.Name, req.Subject, req.Body, settings.EmailTemplateTheme(req.Theme))
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, template); err != nil {
		return nil, err
	}

	response := ToEmailTemplateResponse(template)
	return &response, nil
}

// Update replaces the content of a template
func (s *EmailTemplateService) Update(ctx context.Context, id uuid.UUID, req EmailTemplateRequest) (*EmailTemplateResponse, error) {
	template, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := template.Update(req.Name, req.Subject, req.Body, settings.EmailTemplateTheme(req.Theme)); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, template); err != nil {
		return nil, err
	}

	response := ToEmailTemplateResponse(template)
	return &response, nil
}

// SetDefault marks one template as the default for document sends
func (s *EmailTemplateService) SetDefault(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetDefault(ctx, id)
}

// Delete removes a user-defined template. Built-ins cannot be removed,
// and deleting the current default promotes the professional built-in.
func (s *EmailTemplateService) Delete(ctx context.Context, id uuid.UUID) error {
	template, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !template.CanDelete() {
		return shared.NewDomainError("STATE_CONFLICT", "Built-in templates cannot be deleted")
	}

	wasDefault := template.IsDefault
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if wasDefault {
		templates, err := s.repo.FindAll(ctx)
		if err != nil {
			return err
		}
		for i := range templates {
			if templates[i].BuiltIn && templates[i].Theme == settings.ThemeProfessional {
				return s.repo.SetDefault(ctx, templates[i].ID)
			}
		}
	}

	return nil
}
