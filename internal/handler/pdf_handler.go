package handler

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/avaliafacil/pdf-service/internal/model"
	"github.com/avaliafacil/pdf-service/internal/response"
	"github.com/avaliafacil/pdf-service/internal/service"
	"github.com/avaliafacil/pdf-service/internal/validator"
)

// pdfFilename is the fixed name the browser saves/previews the artifact as.
const pdfFilename = "avaliacao.pdf"

// PDFHandler handles the PDF generation endpoints.
type PDFHandler struct {
	pdfService *service.PDFService
	log        zerolog.Logger
}

// NewPDFHandler creates a new PDFHandler.
func NewPDFHandler(pdfService *service.PDFService, log zerolog.Logger) *PDFHandler {
	return &PDFHandler{pdfService: pdfService, log: log}
}

// GeneratePDF godoc
// POST /api/generate-pdf
// Renders the assessment and returns the merged PDF as a download.
func (h *PDFHandler) GeneratePDF(c *gin.Context) {
	h.handlePDF(c, "attachment")
}

// PreviewPDF godoc
// POST /api/preview-pdf
// Identical processing, but the PDF is served inline for in-browser preview.
func (h *PDFHandler) PreviewPDF(c *gin.Context) {
	h.handlePDF(c, "inline")
}

func (h *PDFHandler) handlePDF(c *gin.Context, disposition string) {
	var payload model.AssessmentPayload
	if fields := validator.Bind(c, &payload); fields != nil {
		response.Error(c, http.StatusBadRequest, "Payload inválido", flattenFields(fields))
		return
	}

	artifact, err := h.pdfService.Generate(c.Request.Context(), &payload)
	if err != nil {
		h.log.Error().Err(err).Str("assessment_id", payload.AssessmentID).Msg("PDF generation failed")
		response.Error(c, http.StatusInternalServerError, "Erro interno ao gerar o PDF", err.Error())
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, pdfFilename))
	c.Data(http.StatusOK, "application/pdf", artifact)
}

// Health godoc
// GET /api/health
// Liveness probe for the render service.
func (h *PDFHandler) Health(c *gin.Context) {
	response.Health(c, http.StatusOK, "OK", "Serviço de geração de PDF operacional")
}

// flattenFields turns a field→message map into one stable details string.
func flattenFields(fields map[string]string) string {
	parts := make([]string, 0, len(fields))
	for field, msg := range fields {
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}
