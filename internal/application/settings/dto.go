package settings

import (
	"time"

	"github.com/google/uuid"

	"github.com/kyber/backend/internal/domain/settings"
)

// UpdateSMTPRequest represents a request to configure the mail server.
// An empty password keeps the stored one.
type UpdateSMTPRequest struct {
	Host        string `json:"host" binding:"required,min=1,max=200"`
	Port        int    `json:"port" binding:"required,min=1,max=65535"`
	Username    string `json:"username" binding:"max=200"`
	Password    string `json:"password"`
	FromAddress string `json:"from_address" binding:"required,email"`
	FromName    string `json:"from_name" binding:"max=200"`
	UseTLS      bool   `json:"use_tls"`
}

// SMTPResponse represents the SMTP configuration. The password never
// appears; HasPassword tells the client one is stored.
type SMTPResponse struct {
	Host        string `json:"host"`
	Port        int    `json:"port"`
	Username    string `json:"username"`
	HasPassword bool   `json:"has_password"`
	FromAddress string `json:"from_address"`
	FromName    string `json:"from_name"`
	UseTLS      bool   `json:"use_tls"`
}

// ToSMTPResponse converts the domain settings to a response DTO
func ToSMTPResponse(s *settings.SMTPSettings) SMTPResponse {
	return SMTPResponse{
		Host:        s.Host,
		Port:        s.Port,
		Username:    s.Username,
		HasPassword: s.EncryptedPassword != "",
		FromAddress: s.FromAddress,
		FromName:    s.FromName,
		UseTLS:      s.UseTLS,
	}
}

// UpdatePayPalRequest represents a request to configure PayPal.
// Empty credentials keep the stored ones.
type UpdatePayPalRequest struct {
	ClientID string `json:"client_id"`
	Secret   string `json:"secret"`
	Sandbox  bool   `json:"sandbox"`
}

// PayPalResponse represents the PayPal configuration without exposing
// the stored credentials
type PayPalResponse struct {
	HasClientID bool `json:"has_client_id"`
	HasSecret   bool `json:"has_secret"`
	Sandbox     bool `json:"sandbox"`
}

// ToPayPalResponse converts the domain settings to a response DTO
func ToPayPalResponse(p *settings.PayPalSettings) PayPalResponse {
	return PayPalResponse{
		HasClientID: p.EncryptedClientID != "",
		HasSecret:   p.EncryptedSecret != "",
		Sandbox:     p.Sandbox,
	}
}

// UpdateBrandingRequest represents a request to update company branding
type UpdateBrandingRequest struct {
	CompanyName  string `json:"company_name" binding:"required,min=1,max=200"`
	Tagline      string `json:"tagline" binding:"max=500"`
	PrimaryColor string `json:"primary_color" binding:"max=20"`
	AccentColor  string `json:"accent_color" binding:"max=20"`
	Email        string `json:"email" binding:"omitempty,email"`
	Phone        string `json:"phone" binding:"max=50"`
	Address      string `json:"address" binding:"max=500"`
	Website      string `json:"website" binding:"max=200"`
}

// BrandingResponse represents the company branding
type BrandingResponse struct {
	CompanyName  string `json:"company_name"`
	Tagline      string `json:"tagline"`
	PrimaryColor string `json:"primary_color"`
	AccentColor  string `json:"accent_color"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	Website      string `json:"website"`
	LogoURL      string `json:"logo_url"`
}

// ToBrandingResponse converts the domain settings to a response DTO
func ToBrandingResponse(b *settings.BrandingSettings) BrandingResponse {
	return BrandingResponse{
		CompanyName:  b.CompanyName,
		Tagline:      b.Tagline,
		PrimaryColor: b.PrimaryColor,
		AccentColor:  b.AccentColor,
		Email:        b.Email,
		Phone:        b.Phone,
		Address:      b.Address,
		Website:      b.Website,
		LogoURL:      b.LogoURL,
	}
}

// EmailTemplateRequest represents a request to create or update a template
type EmailTemplateRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=100"`
	Subject string `json:"subject" binding:"required,min=1,max=500"`
	Body    string `json:"body" binding:"required,min=1"`
	Theme   string `json:"theme" binding:"required"`
}

// EmailTemplateResponse represents an email template in responses
type EmailTemplateResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Theme     string    `json:"theme"`
	IsDefault bool      `json:"is_default"`
	BuiltIn   bool      `json:"built_in"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToEmailTemplateResponse converts a domain template to a response DTO
func ToEmailTemplateResponse(t *settings.EmailTemplate) EmailTemplateResponse {
	return EmailTemplateResponse{
		ID:        t.ID,
		Name:      t.Name,
		Subject:   t.Subject,
		Body:      t.Body,
		Theme:     string(t.Theme),
		IsDefault: t.IsDefault,
		BuiltIn:   t.BuiltIn,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// ToEmailTemplateResponses converts domain templates to response DTOs
func ToEmailTemplateResponses(templates []settings.EmailTemplate) []EmailTemplateResponse {
	responses := make([]EmailTemplateResponse, 0, len(templates))
	for i := range templates {
		responses = append(responses, ToEmailTemplateResponse(&templates[i]))
	}
	return responses
}
