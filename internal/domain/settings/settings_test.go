package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSMTPSettings(t *testing.T) {
	t.Run("creates configured settings", func(t *testing.T) {
		s, err := NewSMTPSettings("smtp.example.com", 587, "mailer", "enc:secret", "billing@example.com", "Billing", true)
		require.NoError(t, err)
		assert.True(t, s.IsConfigured())
	})

	tests := []struct {
		name string
		host string
		port int
		from string
	}{
		{"empty host", "", 587, "billing@example.com"},
		{"zero port", "smtp.example.com", 0, "billing@example.com"},
		{"port out of range", "smtp.example.com", 70000, "billing@example.com"},
		{"empty from address", "smtp.example.com", 587, ""},
	}

	for _, tt := range tests {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			_, err := NewSMTPSettings(tt.host, tt.port, "", "", tt.from, "", false)
			assert.Error(t, err)
		})
	}
}

func TestSMTPSettings_UpdateKeepsSecret(t *testing.T) {
	s, err := NewSMTPSettings("smtp.example.com", 587, "mailer", "enc:secret", "billing@example.com", "Billing", true)
	require.NoError(t, err)

	require.NoError(t, s.Update("smtp.other.com", 465, "mailer2", "", "billing@example.com", "Billing", true))
	assert.Equal(t, "smtp.other.com", s.Host)
	assert.Equal(t, "enc:secret", s.EncryptedPassword)

	require.NoError(t, s.Update("smtp.other.com", 465, "mailer2", "enc:rotated", "billing@example.com", "Billing", true))
	assert.Equal(t, "enc:rotated", s.EncryptedPassword)
}

func TestPayPalSettings(t *testing.T) {
	t.Run("requires a client id", func(t *testing.T) {
		_, err := NewPayPalSettings("", "enc:secret", true)
		assert.Error(t, err)
	})

	t.Run("update keeps secrets when blank", func(t *testing.T) {
		p, err := NewPayPalSettings("enc:client", "enc:secret", true)
		require.NoError(t, err)

		p.Update("", "", false)
		assert.Equal(t, "enc:client", p.EncryptedClientID)
		assert.Equal(t, "enc:secret", p.EncryptedSecret)
		assert.False(t, p.Sandbox)
	})
}

func TestBrandingSettings(t *testing.T) {
	t.Run("applies default colors", func(t *testing.T) {
		b, err := NewBrandingSettings("Kyber Labs")
		require.NoError(t, err)
		assert.NotEmpty(t, b.PrimaryColor)
		assert.NotEmpty(t, b.AccentColor)
	})

	t.Run("rejects empty company name", func(t *testing.T) {
		_, err := NewBrandingSettings("  ")
		assert.Error(t, err)

		b, err := NewBrandingSettings("Kyber Labs")
		require.NoError(t, err)
		assert.Error(t, b.Update("", "", "", "", "", "", "", ""))
	})

	t.Run("set logo", func(t *testing.T) {
		b, err := NewBrandingSettings("Kyber Labs")
		require.NoError(t, err)
		require.NoError(t, b.SetLogo("/uploads/logos/logo.png"))
		assert.Equal(t, "/uploads/logos/logo.png", b.LogoURL)
		assert.Error(t, b.SetLogo(""))
	})
}

func TestEmailTemplate(t *testing.T) {
	t.Run("validates content and theme", func(t *testing.T) {
		_, err := NewEmailTemplate("Welcome", "Hello {{client}}", "Body {{link}}", ThemeModern)
		assert.NoError(t, err)

		_, err = NewEmailTemplate("", "s", "b", ThemeModern)
		assert.Error(t, err)
		_, err = NewEmailTemplate("n", "", "b", ThemeModern)
		assert.Error(t, err)
		_, err = NewEmailTemplate("n", "s", "", ThemeModern)
		assert.Error(t, err)
		_, err = NewEmailTemplate("n", "s", "b", EmailTemplateTheme("neon"))
		assert.Error(t, err)
	})

	t.Run("built-in templates cannot be deleted", func(t *testing.T) {
		custom, err := NewEmailTemplate("Custom", "s", "b", ThemeMinimal)
		require.NoError(t, err)
		assert.True(t, custom.CanDelete())

		builtIn := DefaultEmailTemplates()[0]
		assert.False(t, builtIn.CanDelete())
	})
}

func TestDefaultEmailTemplates(t *testing.T) {
	templates := DefaultEmailTemplates()
	require.Len(t, templates, 5)

	themes := make(map[EmailTemplateTheme]bool)
	defaults := 0
	for _, tpl := range templates {
		assert.True(t, tpl.BuiltIn)
		assert.True(t, tpl.Theme.IsValid())
		themes[tpl.Theme] = true
		if tpl.IsDefault {
			defaults++
		}
	}
	assert.Len(t, themes, 5)
	assert.Equal(t, 1, defaults)
}
