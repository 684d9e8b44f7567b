package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/saralbilling/saral-api/internal/application/service"
	"github.com/saralbilling/saral-api/internal/presentation/http/dto/response"
)

// ReportHandler handles report export HTTP requests
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// period parses start_date and end_date query params into a report period
func (h *ReportHandler) period(c *gin.Context) (*service.ReportPeriod, bool) {
	start, err := time.Parse("2006-01-02", c.Query("start_date"))
	if err != nil {
		response.BadRequest(c, "Invalid start date, expected YYYY-MM-DD")
		return nil, false
	}
	end, err := time.Parse("2006-01-02", c.Query("end_date"))
	if err != nil {
		response.BadRequest(c, "Invalid end date, expected YYYY-MM-DD")
		return nil, false
	}

	period, err := service.NewReportPeriod(start, end)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return period, true
}

func exportFilename(prefix, ext string, period *service.ReportPeriod) string {
	return fmt.Sprintf("%s_%s_%s.%s",
		prefix,
		period.Start.Format("2006-01-02"),
		period.End.Format("2006-01-02"),
		ext,
	)
}

// SalesReport handles the sales report download. The format query param
// selects csv (default) or xlsx.
func (h *ReportHandler) SalesReport(c *gin.Context) {
	period, ok := h.period(c)
	if !ok {
		return
	}

	switch c.DefaultQuery("format", "csv") {
	case "csv":
		data, err := h.reportService.SalesReportCSV(c.Request.Context(), period)
		if err != nil {
			response.Error(c, err)
			return
		}
		name := exportFilename("sales_report", "csv", period)
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		c.Data(200, "text/csv", data)
	case "xlsx":
		data, err := h.reportService.SalesReportXLSX(c.Request.Context(), period)
		if err != nil {
			response.Error(c, err)
			return
		}
		name := exportFilename("sales_report", "xlsx", period)
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	default:
		response.BadRequest(c, "Invalid format, expected csv or xlsx")
	}
}

// GSTSummary handles the GST summary report download
func (h *ReportHandler) GSTSummary(c *gin.Context) {
	period, ok := h.period(c)
	if !ok {
		return
	}

	data, err := h.reportService.GSTSummaryCSV(c.Request.Context(), period)
	if err != nil {
		response.Error(c, err)
		return
	}

	name := exportFilename("gst_summary", "csv", period)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(200, "text/csv", data)
}
