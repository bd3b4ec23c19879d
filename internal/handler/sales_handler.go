package handler

import (
	"net/http"

	"shoptobd/internal/middleware"
	"shoptobd/internal/model"
	"shoptobd/internal/security"
	"shoptobd/internal/service"
	"shoptobd/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SalesHandler struct {
	salesService service.SalesService
	tokens       security.TokenIssuer
	errorWriter
}

func NewSalesHandler(salesService service.SalesService, tokens security.TokenIssuer, logger *zap.Logger) *SalesHandler {
	return &SalesHandler{
		salesService: salesService,
		tokens:       tokens,
		errorWriter:  errorWriter{logger: logger},
	}
}

func (h *SalesHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/api/sales-reports")
	reports.Use(middleware.RequireRole(h.tokens, model.RoleAdmin, model.RoleSuperAdmin))
	{
		reports.GET("", h.ListReports)
		reports.GET("/daily", h.GetDailyReport)
		reports.GET("/export", h.ExportReports)
	}
}

// GetDailyReport returns the sales totals booked on one day
// @Summary      Daily sales report
// @Tags         sales-reports
// @Security     BearerAuth
// @Produce      json
// @Param        date  query     string  false  "Day as YYYY-MM-DD (default today, UTC)"
// @Success      200   {object}  response.Response{data=service.SalesReportResponse}
// @Failure      400   {object}  response.Response
// @Router       /api/sales-reports/daily [get]
func (h *SalesHandler) GetDailyReport(c *gin.Context) {
	report, err := h.salesService.GetDailyReport(c.Request.Context(), c.Query("date"))
	if err != nil {
		h.write(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Sales report retrieved", report))
}

// ListReports returns daily reports in a date range
// @Summary      List sales reports
// @Tags         sales-reports
// @Security     BearerAuth
// @Produce      json
// @Param        from  query     string  false  "First day, YYYY-MM-DD (default 30 days ago)"
// @Param        to    query     string  false  "Last day, YYYY-MM-DD (default today)"
// @Success      200   {object}  response.Response{data=[]service.SalesReportResponse}
// @Failure      400   {object}  response.Response
// @Router       /api/sales-reports [get]
func (h *SalesHandler) ListReports(c *gin.Context) {
	reports, err := h.salesService.ListReports(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		h.write(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Sales reports retrieved", reports))
}

// ExportReports downloads daily reports in a date range as xlsx
// @Summary      Export sales reports
// @Tags         sales-reports
// @Security     BearerAuth
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        from  query     string  false  "First day, YYYY-MM-DD"
// @Param        to    query     string  false  "Last day, YYYY-MM-DD"
// @Success      200   {file}    file
// @Failure      400   {object}  response.Response
// @Router       /api/sales-reports/export [get]
func (h *SalesHandler) ExportReports(c *gin.Context) {
	f, filename, err := h.salesService.ExportReports(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		h.write(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		h.logger.Error("failed to write sales export", zap.Error(err))
	}
}
