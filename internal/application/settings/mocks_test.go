package settings

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/kyber/backend/internal/domain/settings"
)

// MockSettingsRepository is a mock implementation of settings.SettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) GetSMTP(ctx context.Context) (*settings.SMTPSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settings.SMTPSettings), args.Error(1)
}

func (m *MockSettingsRepository) SaveSMTP(ctx context.Context, s *settings.SMTPSettings) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSettingsRepository) GetPayPal(ctx context.Context) (*settings.PayPalSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settings.PayPalSettings), args.Error(1)
}

func (m *MockSettingsRepository) SavePayPal(ctx context.Context, p *settings.PayPalSettings) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockSettingsRepository) GetBranding(ctx context.Context) (*settings.BrandingSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settings.BrandingSettings), args.Error(1)
}

func (m *MockSettingsRepository) SaveBranding(ctx context.Context, b *settings.BrandingSettings) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

// MockEmailTemplateRepository is a mock implementation of settings.EmailTemplateRepository
type MockEmailTemplateRepository struct {
	mock.Mock
}

func (m *MockEmailTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*settings.EmailTemplate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settings.EmailTemplate), args.Error(1)
}

func (m *MockEmailTemplateRepository) FindAll(ctx context.Context) ([]settings.EmailTemplate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]settings.EmailTemplate), args.Error(1)
}

func (m *MockEmailTemplateRepository) FindDefault(ctx context.Context) (*settings.EmailTemplate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settings.EmailTemplate), args.Error(1)
}

func (m *MockEmailTemplateRepository) Save(ctx context.Context, template *settings.EmailTemplate) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockEmailTemplateRepository) SetDefault(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEmailTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEmailTemplateRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// stubFileStorage records uploads and returns deterministic URLs
type stubFileStorage struct {
	uploads   map[string][]byte
	uploadErr error
}

func newStubFileStorage() *stubFileStorage {
	return &stubFileStorage{uploads: make(map[string][]byte)}
}

func (s *stubFileStorage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	s.uploads[key] = data
	return "http://localhost:8080/uploads/" + key, nil
}

func (s *stubFileStorage) Delete(ctx context.Context, key string) error {
	delete(s.uploads, key)
	return nil
}

func (s *stubFileStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := s.uploads[key]
	return ok, nil
}
