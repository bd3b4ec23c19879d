package handler

import (
	"net/http"

	"shoptobd/internal/middleware"
	"shoptobd/internal/service"
	"shoptobd/pkg/apperror"
	"shoptobd/pkg/pagination"
	"shoptobd/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// errorWriter renders service errors and logs server-side faults with their cause.
type errorWriter struct {
	logger *zap.Logger
}

func (w errorWriter) write(c *gin.Context, err error) {
	appErr := apperror.From(err)
	if appErr.Internal() {
		w.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(middleware.ContextRequestID)),
			zap.Error(err))
	}
	c.JSON(appErr.StatusCode, response.Error(appErr.StatusCode, appErr.PublicMessage()))
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
}

// actorFrom reads the identity RequireRole placed on the context.
func actorFrom(c *gin.Context) service.Actor {
	actor := service.Actor{Role: c.GetString(middleware.ContextUserRole)}
	if id, err := uuid.Parse(c.GetString(middleware.ContextUserID)); err == nil {
		actor.ID = id
	}
	return actor
}

func pageOf(items interface{}, total int64, p pagination.Params) response.Page {
	return response.Page{Items: items, Total: total, Page: p.Page, Limit: p.Limit}
}
