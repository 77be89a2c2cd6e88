package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kyber/backend/internal/domain/settings"
	"github.com/kyber/backend/internal/domain/shared"
	"github.com/kyber/backend/internal/infrastructure/crypto"
	"github.com/kyber/backend/internal/infrastructure/storage"
)

// maxLogoSize caps logo uploads at 5 MiB
const maxLogoSize = 5 << 20

// logoContentTypes maps the accepted logo content types to their stored
// file extensions
var logoContentTypes = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/svg+xml": ".svg",
	"image/webp":    ".webp",
}

// SettingsService handles the singleton configuration records. Secrets
// go through the secret box before they touch the database and are
// never returned to clients.
type SettingsService struct {
	repo    settings.SettingsRepository
	secrets *crypto.SecretBox
	files   storage.FileStorage
	logger  *zap.Logger
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(repo settings.SettingsRepository, secrets *crypto.SecretBox, files storage.FileStorage, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{
		repo:    repo,
		secrets: secrets,
		files:   files,
		logger:  logger,
	}
}

// GetSMTP returns the mail server configuration, or NOT_FOUND when it
// has never been saved
func (s *SettingsService) GetSMTP(ctx context.Context) (*SMTPResponse, error) {
	smtp, err := s.repo.GetSMTP(ctx)
	if err != nil {
		return nil, err
	}
	response := ToSMTPResponse(smtp)
	return &response, nil
}

// UpdateSMTP creates or replaces the mail server configuration. An
// empty password in the request keeps the stored secret.
func (s *SettingsService) UpdateSMTP(ctx context.Context, req UpdateSMTPRequest) (*SMTPResponse, error) {
	encrypted := ""
	if req.Password != "" {
		var err error
		encrypted, err = s.secrets.Encrypt(req.Password)
		if err != nil {
			return nil, shared.NewDomainError("INTERNAL", "Failed to encrypt SMTP password")
		}
	}

	smtp, err := s.repo.GetSMTP(ctx)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		smtp, err = settings.NewSMTPSettings(req.Host, req.Port, req.Username, encrypted, req.FromAddress, req.FromName, req.UseTLS)
		if err != nil {
			return nil, err
		}
	} else {
		if err := smtp.Update(req.Host, req.Port, req.Username, encrypted, req.FromAddress, req.FromName, req.UseTLS); err != nil {
			return nil, err
		}
	}

	if err := s.repo.SaveSMTP(ctx, smtp); err != nil {
		return nil, err
	}

	response := ToSMTPResponse(smtp)
	return &response, nil
}

// GetPayPal returns the PayPal configuration, or NOT_FOUND when it has
// never been saved
func (s *SettingsService) GetPayPal(ctx context.Context) (*PayPalResponse, error) {
	paypal, err := s.repo.GetPayPal(ctx)
	if err != nil {
		return nil, err
	}
	response := ToPayPalResponse(paypal)
	return &response, nil
}

// UpdatePayPal creates or replaces the PayPal configuration. Empty
// credentials in the request keep the stored secrets.
func (s *SettingsService) UpdatePayPal(ctx context.Context, req UpdatePayPalRequest) (*PayPalResponse, error) {
	encryptedID := ""
	if req.ClientID != "" {
		var err error
		encryptedID, err = s.secrets.Encrypt(req.ClientID)
		if err != nil {
			return nil, shared.NewDomainError("INTERNAL", "Failed to encrypt PayPal client ID")
		}
	}
	encryptedSecret := ""
	if req.Secret != "" {
		var err error
		encryptedSecret, err = s.secrets.Encrypt(req.Secret)
		if err != nil {
			return nil, shared.NewDomainError("INTERNAL", "Failed to encrypt PayPal secret")
		}
	}

	paypal, err := s.repo.GetPayPal(ctx)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		paypal, err = settings.NewPayPalSettings(encryptedID, encryptedSecret, req.Sandbox)
		if err != nil {
			return nil, err
		}
	} else {
		paypal.Update(encryptedID, encryptedSecret, req.Sandbox)
	}

	if err := s.repo.SavePayPal(ctx, paypal); err != nil {
		return nil, err
	}

	response := ToPayPalResponse(paypal)
	return &response, nil
}

// GetBranding returns the company branding, or NOT_FOUND when it has
// never been saved
func (s *SettingsService) GetBranding(ctx context.Context) (*BrandingResponse, error) {
	branding, err := s.repo.GetBranding(ctx)
	if err != nil {
		return nil, err
	}
	response := ToBrandingResponse(branding)
	return &response, nil
}

// UpdateBranding creates or replaces the company branding
func (s *SettingsService) UpdateBranding(ctx context.Context, req UpdateBrandingRequest) (*BrandingResponse, error) {
	branding, err := s.repo.GetBranding(ctx)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		branding, err = settings.NewBrandingSettings(req.CompanyName)
		if err != nil {
			return nil, err
		}
	}

	if err := branding.Update(req.CompanyName, req.Tagline, req.PrimaryColor, req.AccentColor, req.Email, req.Phone, req.Address, req.Website); err != nil {
		return nil, err
	}

	if err := s.repo.SaveBranding(ctx, branding); err != nil {
		return nil, err
	}

	response := ToBrandingResponse(branding)
	return &response, nil
}

// UploadLogo stores a company logo and records its URL on the branding.
// Branding must exist before a logo can be attached.
func (s *SettingsService) UploadLogo(ctx context.Context, contentType string, data []byte) (*BrandingResponse, error) {
	branding, err := s.repo.GetBranding(ctx)
	if err != nil {
		return nil, err
	}

	ext, ok := logoContentTypes[strings.ToLower(contentType)]
	if !ok {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Logo must be a JPEG, PNG, SVG or WebP file")
	}
	if len(data) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Logo file is empty")
	}
	if len(data) > maxLogoSize {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Logo file exceeds the 5MB limit")
	}

	key := fmt.Sprintf("branding/logo%s", ext)
	url, err := s.files.Upload(ctx, key, data, contentType)
	if err != nil {
		return nil, shared.NewDomainError("EXTERNAL_FAILURE", "Failed to store logo file")
	}

	if err := branding.SetLogo(url); err != nil {
		return nil, err
	}
	if err := s.repo.SaveBranding(ctx, branding); err != nil {
		return nil, err
	}

	s.logger.Info("branding logo updated", zap.String("key", key))

	response := ToBrandingResponse(branding)
	return &response, nil
}
