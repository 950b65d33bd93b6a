package handler

import (
	"net/http"

	"shopcentral/internal/apierror"
	"shopcentral/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

// Summary godoc
// @Summary      Dashboard summary
// @Description  Revenue, sale count, average sale, outstanding debt, 30-day expenses, daily revenue chart, top products and low-stock list. Cached for 60 seconds.
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.ReportSummary
// @Router       /v1/reports/summary [get]
func (h *ReportsHandler) Summary(c *gin.Context) {
	resp, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to build report"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
