package docgen

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	docs := rg.Group("/documents")
	{
		docs.GET("/certificates/:id", h.GenerateCertificate)
		docs.GET("/quotations/:id", h.GenerateQuotation)
		docs.GET("/purchase-orders/:id", h.GeneratePurchaseOrder)
		docs.POST("/receipts", h.GenerateReceipt)
	}
}

func (h *Handler) GenerateCertificate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid certificate id"})
		return
	}
	doc, err := h.service.GenerateCertificate(c.Request.Context(), id, c.DefaultQuery("format", "pdf"))
	if err != nil {
		h.writeError(c, "certificate", err)
		return
	}
	h.writeDocument(c, doc)
}

func (h *Handler) GenerateQuotation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quotation id"})
		return
	}
	doc, err := h.service.GenerateQuotation(c.Request.Context(), id, c.DefaultQuery("format", "pdf"))
	if err != nil {
		h.writeError(c, "quotation", err)
		return
	}
	h.writeDocument(c, doc)
}

func (h *Handler) GeneratePurchaseOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid purchase order id"})
		return
	}
	doc, err := h.service.GeneratePurchaseOrder(c.Request.Context(), id, c.DefaultQuery("format", "pdf"))
	if err != nil {
		h.writeError(c, "purchase order", err)
		return
	}
	h.writeDocument(c, doc)
}

func (h *Handler) GenerateReceipt(c *gin.Context) {
	var req ReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	doc, err := h.service.GenerateReceipt(c.Request.Context(), req, c.DefaultQuery("format", "pdf"))
	if err != nil {
		h.writeError(c, "receipt", err)
		return
	}
	h.writeDocument(c, doc)
}

func (h *Handler) writeDocument(c *gin.Context, doc *GeneratedDocument) {
	if len(doc.Unmatched) > 0 {
		c.Header("X-Unmatched-Tokens", strings.Join(doc.Unmatched, ","))
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Data(http.StatusOK, doc.ContentType, doc.Bytes)
}

// writeError maps the generation error taxonomy to HTTP statuses:
// missing data is the user's to fix, a broken template is the
// operator's, a converter failure is transient.
func (h *Handler) writeError(c *gin.Context, kind string, err error) {
	var precondition *PreconditionError
	if errors.As(err, &precondition) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": precondition.Reason})
		return
	}
	var tmplErr *TemplateError
	if errors.As(err, &tmplErr) {
		h.logger.Error("template error", zap.String("document", kind), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	var convErr *ConversionError
	if errors.As(err, &convErr) {
		h.logger.Error("conversion failed", zap.String("document", kind), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	h.logger.Error("document generation failed", zap.String("document", kind), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("failed to generate %s", kind)})
}
