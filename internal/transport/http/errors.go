package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/Gunvolt24/printshop_console/internal/auth"
	"github.com/Gunvolt24/printshop_console/internal/domain"
	"github.com/Gunvolt24/printshop_console/internal/editsession"
	"github.com/Gunvolt24/printshop_console/internal/ports"
	"github.com/Gunvolt24/printshop_console/internal/workspace"
	"github.com/gin-gonic/gin"
)

// writeError — доменная ошибка -> HTTP-статус и тело {"error": ...}.
func writeError(c *gin.Context, log ports.Logger, op string, err error) {
	ctx := c.Request.Context()

	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": domain.ErrValidation.Error(), "fields": ve.Fields})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, workspace.ErrUnknownSession), errors.Is(err, workspace.ErrWorkspaceClosed):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, editsession.ErrSessionOpen),
		errors.Is(err, editsession.ErrSessionClosed),
		errors.Is(err, workspace.ErrNoPendingDelete):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, editsession.ErrUnknownField):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrTransport):
		log.Warnf(ctx, "%s: remote store failed: %v", op, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		log.Warnf(ctx, "%s: timeout: %v", op, err)
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "timeout"})
	default:
		log.Errorf(ctx, "%s failed: %v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// installFallbacks — JSON-ответы для неизвестного маршрута и неподходящего метода.
func installFallbacks(r *gin.Engine) {
	r.HandleMethodNotAllowed = true
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})
}
