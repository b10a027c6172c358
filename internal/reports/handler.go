package reports

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/digitales-2024/perucontrol-sub003/internal/business"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	{
		reports.GET("/schedule", h.AppointmentSchedule)
		reports.GET("/projects", h.ProjectSummary)
	}
}

// AppointmentSchedule exports the appointments due in [from, to) as a
// spreadsheet. Defaults to the current month.
func (h *Handler) AppointmentSchedule(c *gin.Context) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
	to := from.AddDate(0, 1, 0)

	if v := c.Query("from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date, expected YYYY-MM-DD"})
			return
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date, expected YYYY-MM-DD"})
			return
		}
		to = parsed
	}
	if !to.After(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must be after from"})
		return
	}

	data, err := h.service.AppointmentScheduleXLSX(c.Request.Context(), from, to)
	if err != nil {
		h.logger.Error("failed to export schedule", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export schedule"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="cronograma.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

func (h *Handler) ProjectSummary(c *gin.Context) {
	data, err := h.service.ProjectSummaryPDF(c.Request.Context())
	if err != nil {
		if err == business.ErrNotFound {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("failed to export project summary", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export project summary"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="proyectos.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
