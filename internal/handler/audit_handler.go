package handler

import (
	"net/http"

	"shoptobd/internal/middleware"
	"shoptobd/internal/model"
	"shoptobd/internal/security"
	"shoptobd/internal/service"
	"shoptobd/pkg/pagination"
	"shoptobd/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuditHandler struct {
	auditService service.AuditService
	tokens       security.TokenIssuer
	errorWriter
}

func NewAuditHandler(auditService service.AuditService, tokens security.TokenIssuer, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
		tokens:       tokens,
		errorWriter:  errorWriter{logger: logger},
	}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/audit-logs")
	group.Use(middleware.RequireRole(h.tokens, model.RoleAdmin, model.RoleSuperAdmin))
	{
		group.GET("", h.GetAuditLogs)
	}
}

// GetAuditLogs returns a page of audit entries, newest first
// @Summary      Get audit logs
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        action     query     string  false  "Action, e.g. PROCESS_REFUND"
// @Param        entity_id  query     string  false  "Entity ID"
// @Param        page       query     int     false  "Page number (default 1)"
// @Param        limit      query     int     false  "Items per page (default 20)"
// @Success      200        {object}  response.Response{data=response.Page}
// @Router       /api/audit-logs [get]
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	p := pagination.Parse(c)
	filter := service.AuditFilter{
		Action:   c.Query("action"),
		EntityID: c.Query("entity_id"),
		Page:     p.Page,
		Limit:    p.Limit,
	}

	logs, total, err := h.auditService.GetAuditLogs(c.Request.Context(), filter)
	if err != nil {
		h.write(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Audit logs retrieved", pageOf(logs, total, p)))
}
