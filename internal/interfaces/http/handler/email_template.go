package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/kyber/backend/internal/application/settings"
	"github.com/kyber/backend/internal/interfaces/http/middleware"
)

// EmailTemplateHandler handles email template endpoints, admin only
type EmailTemplateHandler struct {
	BaseHandler
	templateService *settings.EmailTemplateService
}

// NewEmailTemplateHandler creates a new email template handler
func NewEmailTemplateHandler(templateService *settings.EmailTemplateService) *EmailTemplateHandler {
	return &EmailTemplateHandler{templateService: templateService}
}

// RegisterRoutes registers email template routes
func (h *EmailTemplateHandler) RegisterRoutes(rg *gin.RouterGroup) {
	templates := rg.Group("/email-templates", middleware.RequireAdmin())
	{
		templates.GET("", h.List)
		templates.GET("/:id", h.Get)
		templates.POST("", h.Create)
		templates.PUT("/:id", h.Update)
		templates.POST("/:id/default", h.SetDefault)
		templates.DELETE("/:id", h.Delete)
	}
}

// List returns all email templates
func (h *EmailTemplateHandler) List(c *gin.Context) {
	templates, err := h.templateService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, templates)
}

// Get returns one email template
func (h *EmailTemplateHandler) Get(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	template, err := h.templateService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, template)
}

// Create adds a custom email template
func (h *EmailTemplateHandler) Create(c *gin.Context) {
	var req settings.EmailTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	template, err := h.templateService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, template)
}

// Update modifies an email template
func (h *EmailTemplateHandler) Update(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	var req settings.EmailTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	template, err := h.templateService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, template)
}

// SetDefault marks a template as the default for document emails
func (h *EmailTemplateHandler) SetDefault(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	if err := h.templateService.SetDefault(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Delete removes a custom email template
func (h *EmailTemplateHandler) Delete(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		h.InvalidID(c)
		return
	}

	if err := h.templateService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
