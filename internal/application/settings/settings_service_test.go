package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kyber/backend/internal/domain/settings"
	"github.com/kyber/backend/internal/domain/shared"
	"github.com/kyber/backend/internal/infrastructure/crypto"
)

func newTestSecrets(t *testing.T) *crypto.SecretBox {
	t.Helper()
	secrets, err := crypto.NewSecretBox("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	return secrets
}

func TestSettingsService_UpdateSMTP_FirstSave(t *testing.T) {
	repo := new(MockSettingsRepository)
	secrets := newTestSecrets(t)
	service := NewSettingsService(repo, secrets, newStubFileStorage(), nil)
	ctx := context.Background()

	repo.On("GetSMTP", ctx).Return(nil, shared.ErrNotFound)
	var saved *settings.SMTPSettings
	repo.On("SaveSMTP", ctx, mock.AnythingOfType("*settings.SMTPSettings")).Run(func(args mock.Arguments) {
		saved = args.Get(1).(*settings.SMTPSettings)
	}).Return(nil)

	response, err := service.UpdateSMTP(ctx, UpdateSMTPRequest{
		Host:        "smtp.example.com",
		Port:        587,
		Username:    "mailer",
		Password:    "hunter2",
		FromAddress: "billing@example.com",
		UseTLS:      true,
	})

	require.NoError(t, err)
	assert.Equal(t, "smtp.example.com", response.Host)
	assert.True(t, response.HasPassword)

	require.NotNil(t, saved)
	assert.NotEqual(t, "hunter2", saved.EncryptedPassword, "password must be stored encrypted")
	plaintext, err := secrets.Decrypt(saved.EncryptedPassword)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", plaintext)
}

func TestSettingsService_UpdateSMTP_BlankPasswordKeepsStored(t *testing.T) {
	repo := new(MockSettingsRepository)
	service := NewSettingsService(repo, newTestSecrets(t), newStubFileStorage(), nil)
	ctx := context.Background()

	existing, err := settings.NewSMTPSettings("smtp.example.com", 587, "mailer", "stored-cipher", "billing@example.com", "", true)
	require.NoError(t, err)
	repo.On("GetSMTP", ctx).Return(existing, nil)
	repo.On("SaveSMTP", ctx, existing).Return(nil)

	response, err := service.UpdateSMTP(ctx, UpdateSMTPRequest{
		Host:        "smtp.example.org",
		Port:        465,
		Username:    "mailer",
		FromAddress: "billing@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "smtp.example.org", response.Host)
	assert.True(t, response.HasPassword)
	assert.Equal(t, "stored-cipher", existing.EncryptedPassword)
}

func TestSettingsService_UpdatePayPal_EncryptsCredentials(t *testing.T) {
	repo := new(MockSettingsRepository)
	secrets := newTestSecrets(t)
	service := NewSettingsService(repo, secrets, newStubFileStorage(), nil)
	ctx := context.Background()

	repo.On("GetPayPal", ctx).Return(nil, shared.ErrNotFound)
	var saved *settings.PayPalSettings
	repo.On("SavePayPal", ctx, mock.AnythingOfType("*settings.PayPalSettings")).Run(func(args mock.Arguments) {
		saved = args.Get(1).(*settings.PayPalSettings)
	}).Return(nil)

	response, err := service.UpdatePayPal(ctx, UpdatePayPalRequest{
		ClientID: "client-abc",
		Secret:   "secret-xyz",
		Sandbox:  true,
	})

	require.NoError(t, err)
	assert.True(t, response.HasClientID)
	assert.True(t, response.HasSecret)
	assert.True(t, response.Sandbox)

	require.NotNil(t, saved)
	clientID, err := secrets.Decrypt(saved.EncryptedClientID)
	require.NoError(t, err)
	assert.Equal(t, "client-abc", clientID)
}

func TestSettingsService_UpdateBranding_CreateAndUpdate(t *testing.T) {
	repo := new(MockSettingsRepository)
	service := NewSettingsService(repo, newTestSecrets(t), newStubFileStorage(), nil)
	ctx := context.Background()

	repo.On("GetBranding", ctx).Return(nil, shared.ErrNotFound).Once()
	repo.On("SaveBranding", ctx, mock.AnythingOfType("*settings.BrandingSettings")).Return(nil)

	created, err := service.UpdateBranding(ctx, UpdateBrandingRequest{CompanyName: "Kyber Consulting"})
	require.NoError(t, err)
	assert.Equal(t, "Kyber Consulting", created.CompanyName)
	assert.Equal(t, "#1f2937", created.PrimaryColor, "colors should default")
}

func TestSettingsService_UploadLogo(t *testing.T) {
	repo := new(MockSettingsRepository)
	files := newStubFileStorage()
	service := NewSettingsService(repo, newTestSecrets(t), files, nil)
	ctx := context.Background()

	branding, err := settings.NewBrandingSettings("Kyber Consulting")
	require.NoError(t, err)
	repo.On("GetBranding", ctx).Return(branding, nil)
	repo.On("SaveBranding", ctx, branding).Return(nil)

	response, err := service.UploadLogo(ctx, "image/png", []byte("png-bytes"))

	require.NoError(t, err)
	assert.Contains(t, response.LogoURL, "branding/logo.png")
	assert.Len(t, files.uploads, 1)
}

func TestSettingsService_UploadLogo_RejectsContentType(t *testing.T) {
	repo := new(MockSettingsRepository)
	service := NewSettingsService(repo, newTestSecrets(t), newStubFileStorage(), nil)
	ctx := context.Background()

	branding, err := settings.NewBrandingSettings("Kyber Consulting")
	require.NoError(t, err)
	repo.On("GetBranding", ctx).Return(branding, nil)

	_, err = service.UploadLogo(ctx, "application/x-msdownload", []byte("exe-bytes"))

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	repo.AssertNotCalled(t, "SaveBranding", mock.Anything, mock.Anything)
}
