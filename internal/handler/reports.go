package handler

import (
	"fmt"
	"net/http"
	"time"

	"jalaram/internal/apierror"
	"jalaram/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

// Stock godoc
// @Summary Current stock report
// @Tags reports
// @Produce json
// @Success 200 {object} dto.StockReportResponse
// @Router /v1/reports/stock [get]
func (h *ReportsHandler) Stock(c *gin.Context) {
	resp, err := h.svc.BuildReport(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to build stock report"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// StockExcel streams the stock report as an .xlsx download.
func (h *ReportsHandler) StockExcel(c *gin.Context) {
	data, err := h.svc.ExportExcel(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to export stock report"))
		return
	}
	filename := fmt.Sprintf("stock-report-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
