package settings

import (
	"strings"

	"github.com/kyber/backend/internal/domain/shared"
)

// SMTPSettings is the singleton mail server configuration.
// The password is held encrypted at rest and never leaves the API.
type SMTPSettings struct {
	shared.BaseAggregateRoot
	Host              string `gorm:"type:varchar(200);not null"`
	Port              int    `gorm:"not null;default:587"`
	Username          string `gorm:"type:varchar(200)"`
	EncryptedPassword string `gorm:"type:text"`
	FromAddress       string `gorm:"type:varchar(200);not null"`
	FromName          string `gorm:"type:varchar(200)"`
	UseTLS            bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (SMTPSettings) TableName() string {
	return "smtp_settings"
}

// NewSMTPSettings creates the SMTP configuration record
func NewSMTPSettings(host string, port int, username, encryptedPassword, fromAddress, fromName string, useTLS bool) (*SMTPSettings, error) {
	if strings.TrimSpace(host) == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "SMTP host cannot be empty")
	}
	if port <= 0 || port > 65535 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "SMTP port must be between 1 and 65535")
	}
	if strings.TrimSpace(fromAddress) == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "SMTP from address cannot be empty")
	}

	return &SMTPSettings{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Host:              host,
		Port:              port,
		Username:          username,
		EncryptedPassword: encryptedPassword,
		FromAddress:       fromAddress,
		FromName:          fromName,
		UseTLS:            useTLS,
	}, nil
}

// Update replaces the configuration. An empty encryptedPassword keeps
// the stored secret so clients never have to resubmit it.
func (s *SMTPSettings) Update(host string, port int, username, encryptedPassword, fromAddress, fromName string, useTLS bool) error {
	if strings.TrimSpace(host) == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "SMTP host cannot be empty")
	}
	if port <= 0 || port > 65535 {
		return shared.NewDomainError("VALIDATION_ERROR", "SMTP port must be between 1 and 65535")
	}
	if strings.TrimSpace(fromAddress) == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "SMTP from address cannot be empty")
	}

	s.Host = host
	s.Port = port
	s.Username = username
	if encryptedPassword != "" {
		s.EncryptedPassword = encryptedPassword
	}
	s.FromAddress = fromAddress
	s.FromName = fromName
	s.UseTLS = useTLS
	s.Touch()
	return nil
}

// IsConfigured reports whether mail can be dispatched
func (s *SMTPSettings) IsConfigured() bool {
	return s != nil && s.Host != "" && s.FromAddress != ""
}

// PayPalSettings is the singleton payment provider configuration.
// Both credentials are held encrypted at rest; the public invoice page
// only ever sees the decrypted client ID.
type PayPalSettings struct {
	shared.BaseAggregateRoot
	EncryptedClientID string `gorm:"type:text;not null"`
	EncryptedSecret   string `gorm:"type:text"`
	Sandbox           bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (PayPalSettings) TableName() string {
	return "paypal_settings"
}

// NewPayPalSettings creates the PayPal configuration record
func NewPayPalSettings(encryptedClientID, encryptedSecret string, sandbox bool) (*PayPalSettings, error) {
	if encryptedClientID == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "PayPal client ID cannot be empty")
	}

	return &PayPalSettings{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		EncryptedClientID: encryptedClientID,
		EncryptedSecret:   encryptedSecret,
		Sandbox:           sandbox,
	}, nil
}

// Update replaces the configuration. Empty encrypted values keep the
// stored secrets.
func (p *PayPalSettings) Update(encryptedClientID, encryptedSecret string, sandbox bool) {
	if encryptedClientID != "" {
		p.EncryptedClientID = encryptedClientID
	}
	if encryptedSecret != "" {
		p.EncryptedSecret = encryptedSecret
	}
	p.Sandbox = sandbox
	p.Touch()
}

// IsConfigured reports whether the payment button can be rendered
func (p *PayPalSettings) IsConfigured() bool {
	return p != nil && p.EncryptedClientID != ""
}

// BrandingSettings is the singleton company identity used on documents
// and the public payment page
type BrandingSettings struct {
	shared.BaseAggregateRoot
	CompanyName  string `gorm:"type:varchar(200);not null"`
	Tagline      string `gorm:"type:varchar(500)"`
	PrimaryColor string `gorm:"type:varchar(20);not null"`
	AccentColor  string `gorm:"type:varchar(20);not null"`
	Email        string `gorm:"type:varchar(200)"`
	Phone        string `gorm:"type:varchar(50)"`
	Address      string `gorm:"type:varchar(500)"`
	Website      string `gorm:"type:varchar(200)"`
	LogoURL      string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (BrandingSettings) TableName() string {
	return "branding_settings"
}

// NewBrandingSettings creates the branding record with display defaults
func NewBrandingSettings(companyName string) (*BrandingSettings, error) {
	if strings.TrimSpace(companyName) == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Company name cannot be empty")
	}

	return &BrandingSettings{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CompanyName:       companyName,
		PrimaryColor:      "#1f2937",
		AccentColor:       "#6366f1",
	}, nil
}

// Update replaces the branding fields
func (b *BrandingSettings) Update(companyName, tagline, primaryColor, accentColor, email, phone, address, website string) error {
	if strings.TrimSpace(companyName) == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Company name cannot be empty")
	}

	b.CompanyName = companyName
	b.Tagline = tagline
	if primaryColor != "" {
		b.PrimaryColor = primaryColor
	}
	if accentColor != "" {
		b.AccentColor = accentColor
	}
	b.Email = email
	b.Phone = phone
	b.Address = address
	b.Website = website
	b.Touch()
	return nil
}

// SetLogo stores the URL of the uploaded logo
func (b *BrandingSettings) SetLogo(url string) error {
	if strings.TrimSpace(url) == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Logo URL cannot be empty")
	}
	b.LogoURL = url
	b.Touch()
	return nil
}
