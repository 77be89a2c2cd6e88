package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/kyber/backend/internal/application/settings"
	"github.com/kyber/backend/internal/interfaces/http/middleware"
)

// SettingsHandler handles business settings endpoints, admin only
type SettingsHandler struct {
	BaseHandler
	settingsService *settings.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *settings.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// RegisterRoutes registers settings routes
func (h *SettingsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/settings", middleware.RequireAdmin())
	{
		group.GET("/smtp", h.GetSMTP)
		group.PUT("/smtp", h.UpdateSMTP)
		group.GET("/paypal", h.GetPayPal)
		group.PUT("/paypal", h.UpdatePayPal)
		group.GET("/branding", h.GetBranding)
		group.PUT("/branding", h.UpdateBranding)
		group.POST("/branding/logo", h.UploadLogo)
	}
}

// RegisterPublicRoutes registers the unauthenticated branding view used
// by the public payment page
func (h *SettingsHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/public/settings/branding", h.GetBranding)
}

// GetSMTP returns the SMTP settings without the password
func (h *SettingsHandler) GetSMTP(c *gin.Context) {
	smtp, err := h.settingsService.GetSMTP(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, smtp)
}

// UpdateSMTP saves SMTP settings. An empty password keeps the stored one.
func (h *SettingsHandler) UpdateSMTP(c *gin.Context) {
	var req settings.UpdateSMTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	smtp, err := h.settingsService.UpdateSMTP(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, smtp)
}

// GetPayPal returns the PayPal settings without credentials
func (h *SettingsHandler) GetPayPal(c *gin.Context) {
	paypal, err := h.settingsService.GetPayPal(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, paypal)
}

// UpdatePayPal saves PayPal settings. Empty credentials keep the stored ones.
func (h *SettingsHandler) UpdatePayPal(c *gin.Context) {
	var req settings.UpdatePayPalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	paypal, err := h.settingsService.UpdatePayPal(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, paypal)
}

// GetBranding returns the branding settings
func (h *SettingsHandler) GetBranding(c *gin.Context) {
	branding, err := h.settingsService.GetBranding(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, branding)
}

// UpdateBranding saves branding settings
func (h *SettingsHandler) UpdateBranding(c *gin.Context) {
	var req settings.UpdateBrandingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	branding, err := h.settingsService.UpdateBranding(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, branding)
}

// UploadLogo stores the company logo
func (h *SettingsHandler) UploadLogo(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing logo file")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Could not read logo file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.BadRequest(c, "Could not read logo file")
		return
	}

	branding, err := h.settingsService.UploadLogo(c.Request.Context(), fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, branding)
}
