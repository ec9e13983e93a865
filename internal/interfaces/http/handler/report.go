package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/crmpro/backend/internal/application/report"
	"github.com/crmpro/backend/internal/interfaces/http/dto"
)

// ReportHandler handles sales reports and data exports.
type ReportHandler struct {
	BaseHandler
	reportService *report.ReportService
	backupService *report.BackupService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *report.ReportService, backupService *report.BackupService) *ReportHandler {
	return &ReportHandler{reportService: reportService, backupService: backupService}
}

// RegisterRoutes registers report routes
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	{
		reports.GET("/daily", h.Daily)
		reports.GET("/period", h.Period)
		reports.GET("/top-products", h.TopProducts)
		reports.GET("/debt-overview", h.DebtOverview)
		reports.GET("/debtors.csv", h.ExportDebtorsCSV)
		reports.GET("/sales.csv", h.ExportSalesCSV)
		reports.GET("/backup.json", h.ExportBackup)
	}
}

// Daily returns the summary for one day, defaulting to today.
func (h *ReportHandler) Daily(c *gin.Context) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.Error(c, dto.ErrCodeValidation, "invalid date, expected YYYY-MM-DD")
			return
		}
		date = parsed
	}

	summary, err := h.reportService.DailySummary(c.Request.Context(), tenantID, date)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// parsePeriod reads the from/to query parameters. The end date is
// inclusive, so the returned bound is the start of the following day.
func (h *ReportHandler) parsePeriod(c *gin.Context) (from, to time.Time, ok bool) {
	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		h.Error(c, dto.ErrCodeValidation, "invalid from, expected YYYY-MM-DD")
		return from, to, false
	}
	to, err = time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		h.Error(c, dto.ErrCodeValidation, "invalid to, expected YYYY-MM-DD")
		return from, to, false
	}
	return from, to.AddDate(0, 0, 1), true
}

// Period returns the summary for an arbitrary date range.
func (h *ReportHandler) Period(c *gin.Context) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	from, to, ok := h.parsePeriod(c)
	if !ok {
		return
	}

	summary, err := h.reportService.PeriodSummary(c.Request.Context(), tenantID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// TopProducts returns the product ranking for a date range. The order
// parameter flips between best sellers and slow movers.
func (h *ReportHandler) TopProducts(c *gin.Context) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	from, to, ok := h.parsePeriod(c)
	if !ok {
		return
	}

	var req report.TopProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	ranking, err := h.reportService.TopProducts(c.Request.Context(), tenantID, from, to, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ranking)
}

// DebtOverview returns aggregated debt figures for the store.
func (h *ReportHandler) DebtOverview(c *gin.Context) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	overview, err := h.reportService.DebtOverview(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, overview)
}

// ExportDebtorsCSV streams the debtor book as a CSV download.
func (h *ReportHandler) ExportDebtorsCSV(c *gin.Context) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	filename := "debtors-" + time.Now().Format("2006-01-02") + ".csv"
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Status(http.StatusOK)

	if err := h.reportService.ExportDebtorsCSV(c.Request.Context(), tenantID, c.Writer); err != nil {
		// headers are already out, all we can do is log and cut the stream
		c.Error(err) //nolint:errcheck
	}
}

// ExportSalesCSV streams the sales for a date range as a CSV download.
func (h *ReportHandler) ExportSalesCSV(c *gin.Context) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	from, to, ok := h.parsePeriod(c)
	if !ok {
		return
	}

	filename := "sales-" + time.Now().Format("2006-01-02") + ".csv"
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Status(http.StatusOK)

	if err := h.reportService.ExportSalesCSV(c.Request.Context(), tenantID, from, to, c.Writer); err != nil {
		c.Error(err) //nolint:errcheck
	}
}

// ExportBackup streams the store's data as a JSON download.
func (h *ReportHandler) ExportBackup(c *gin.Context) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	filename := "backup-" + time.Now().Format("2006-01-02") + ".json"
	c.Header("Content-Type", "application/json; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Status(http.StatusOK)

	if err := h.backupService.Export(c.Request.Context(), tenantID, c.Writer); err != nil {
		c.Error(err) //nolint:errcheck
	}
}
