package certificates

import (
	"net/http"

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
	certs := rg.Group("/certificates")
	{
		certs.POST("", h.IssueCertificate)
		certs.GET("", h.ListCertificates)
		certs.GET("/:id", h.GetCertificate)
		certs.POST("/:id/void", h.VoidCertificate)
	}
}

func (h *Handler) IssueCertificate(c *gin.Context) {
	var req IssueCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cert, err := h.service.IssueCertificate(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("failed to issue certificate", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, cert)
}

func (h *Handler) ListCertificates(c *gin.Context) {
	certs, err := h.service.ListCertificates(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list certificates", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list certificates"})
		return
	}
	c.JSON(http.StatusOK, certs)
}

func (h *Handler) GetCertificate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid certificate id"})
		return
	}

	cert, err := h.service.GetCertificate(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("failed to get certificate", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get certificate"})
		return
	}
	if cert == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "certificate not found"})
		return
	}
	c.JSON(http.StatusOK, cert)
}

func (h *Handler) VoidCertificate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid certificate id"})
		return
	}

	cert, err := h.service.VoidCertificate(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("failed to void certificate", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cert)
}
