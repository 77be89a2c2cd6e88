package settings

import (
	"strings"

	"github.com/kyber/backend/internal/domain/shared"
)

// EmailTemplateTheme identifies one of the built-in visual themes
type EmailTemplateTheme string

const (
	ThemeProfessional EmailTemplateTheme = "professional"
	ThemeModern       EmailTemplateTheme = "modern"
	ThemeMinimal      EmailTemplateTheme = "minimal"
	ThemeBold         EmailTemplateTheme = "bold"
	ThemeClassic      EmailTemplateTheme = "classic"
)

// IsValid checks if the theme is a known EmailTemplateTheme
func (t EmailTemplateTheme) IsValid() bool {
	switch t {
	case ThemeProfessional, ThemeModern, ThemeMinimal, ThemeBold, ThemeClassic:
		return true
	}
	return false
}

// EmailTemplate is the subject and body used when sending documents.
// Subject and body support {{company}}, {{client}}, {{number}},
// {{total}} and {{link}} placeholders, substituted at dispatch time.
type EmailTemplate struct {
	shared.BaseEntity
	Name      string             `gorm:"type:varchar(100);not null"`
	Subject   string             `gorm:"type:varchar(500);not null"`
	Body      string             `gorm:"type:text;not null"`
	Theme     EmailTemplateTheme `gorm:"type:varchar(20);not null"`
	IsDefault bool               `gorm:"not null;default:false"`
	BuiltIn   bool               `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (EmailTemplate) TableName() string {
	return "email_templates"
}

// NewEmailTemplate creates a user-defined email template
func NewEmailTemplate(name, subject, body string, theme EmailTemplateTheme) (*EmailTemplate, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Template name cannot be empty")
	}
	if strings.TrimSpace(subject) == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Template subject cannot be empty")
	}
	if strings.TrimSpace(body) == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Template body cannot be empty")
	}
	if !theme.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Unknown template theme")
	}

	return &EmailTemplate{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Subject:    subject,
		Body:       body,
		Theme:      theme,
	}, nil
}

// Update replaces the template content
func (t *EmailTemplate) Update(name, subject, body string, theme EmailTemplateTheme) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Template name cannot be empty")
	}
	if strings.TrimSpace(subject) == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Template subject cannot be empty")
	}
	if strings.TrimSpace(body) == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Template body cannot be empty")
	}
	if !theme.IsValid() {
		return shared.NewDomainError("VALIDATION_ERROR", "Unknown template theme")
	}

	t.Name = name
	t.Subject = subject
	t.Body = body
	t.Theme = theme
	t.Touch()
	return nil
}

// CanDelete reports whether the template may be removed.
// Built-in templates stay so there is always something to send with.
func (t *EmailTemplate) CanDelete() bool {
	return !t.BuiltIn
}

// DefaultEmailTemplates returns the seeded built-in templates, one per
// theme. The professional theme starts as the default.
func DefaultEmailTemplates() []EmailTemplate {
	specs := []struct {
		name    string
		subject string
		body    string
		theme   EmailTemplateTheme
	}{
		{
			name:    "Professional",
			subject: "{{company}} - Document {{number}}",
			body:    "Dear {{client}},\n\nPlease find attached document {{number}} for {{total}}.\n\nYou can view and pay online here: {{link}}\n\nBest regards,\n{{company}}",
			theme:   ThemeProfessional,
		},
		{
			name:    "Modern",
			subject: "Your document {{number}} from {{company}}",
			body:    "Hi {{client}},\n\nHere is {{number}} - the total comes to {{total}}.\n\nPay online: {{link}}\n\nThanks,\n{{company}}",
			theme:   ThemeModern,
		},
		{
			name:    "Minimal",
			subject: "{{number}} from {{company}}",
			body:    "{{client}},\n\n{{number}}: {{total}}.\n{{link}}\n\n{{company}}",
			theme:   ThemeMinimal,
		},
		{
			name:    "Bold",
			subject: "ACTION NEEDED: {{number}} from {{company}}",
			body:    "Hello {{client}},\n\nDocument {{number}} for {{total}} is ready for you.\n\nView and pay now: {{link}}\n\n{{company}}",
			theme:   ThemeBold,
		},
		{
			name:    "Classic",
			subject: "Document {{number}} enclosed - {{company}}",
			body:    "Dear {{client}},\n\nEnclosed please find document {{number}} in the amount of {{total}}.\n\nKindly remit payment at your earliest convenience: {{link}}\n\nYours sincerely,\n{{company}}",
			theme:   ThemeClassic,
		},
	}

	templates := make([]EmailTemplate, 0, len(specs))
	for i, spec := range specs {
		templates = append(templates, EmailTemplate{
			BaseEntity: shared.NewBaseEntity(),
			Name:       spec.name,
			Subject:    spec.subject,
			Body:       spec.body,
			Theme:      spec.theme,
			IsDefault:  i == 0,
			BuiltIn:    true,
		})
	}
	return templates
}
