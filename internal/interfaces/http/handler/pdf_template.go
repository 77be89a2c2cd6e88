package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/kyber/backend/internal/application/billing"
)

// PDFTemplateHandler exposes the available PDF themes
type PDFTemplateHandler struct {
	BaseHandler
	pdfService *billing.DocumentPDFService
}

// NewPDFTemplateHandler creates a new PDF template handler
func NewPDFTemplateHandler(pdfService *billing.DocumentPDFService) *PDFTemplateHandler {
	return &PDFTemplateHandler{pdfService: pdfService}
}

// RegisterRoutes registers PDF template routes
func (h *PDFTemplateHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/pdf-templates", h.List)
}

// List returns the theme names documents can be rendered with
func (h *PDFTemplateHandler) List(c *gin.Context) {
	h.Success(c, gin.H{"themes": h.pdfService.Themes()})
}
