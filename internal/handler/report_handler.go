package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/studentflow/studentflow-backend/internal/response"
	"github.com/studentflow/studentflow-backend/internal/service"
)

// ReportHandler serves aggregated statistics.
type ReportHandler struct {
	reportService *service.ReportService
	log           zerolog.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService *service.ReportService, log zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		log:           log.With().Str("component", "report_handler").Logger(),
	}
}

// GetStatistics godoc
// GET /api/v1/reports/statistics?department=
// Computes the report, optionally scoped to a department.
func (h *ReportHandler) GetStatistics(c *gin.Context) {
	report, err := h.reportService.Statistics(c.Request.Context(), c.Query("department"))
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"report": report})
}
