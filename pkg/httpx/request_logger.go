package httpx

import (
	"net/http"
	"strings"
	"time"

	"github.com/Gunvolt24/printshop_console/internal/ports"
	"github.com/Gunvolt24/printshop_console/pkg/ctxmeta"
	"github.com/gin-gonic/gin"
)

// RequestLogger — строка лога на запрос; уровень по статусу ответа (5xx — error, 4xx — warn).
// /ping, /metrics и статика не логируются.
func RequestLogger(log ports.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		if path == "/ping" || path == "/metrics" || strings.HasPrefix(path, "/static") {
			return
		}

		// сессию выставляет requireSession уже после этого middleware, поэтому берём из c.Request
		ctx := c.Request.Context()
		rid, _ := ctxmeta.RequestIDFromContext(ctx)
		sid, _ := ctxmeta.SessionIDFromContext(ctx)
		tr, _ := ctxmeta.TraceIDFromContext(ctx)

		logf := log.Infof
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			logf = log.Errorf
		case status >= http.StatusBadRequest:
			logf = log.Warnf
		}
		logf(ctx,
			"request id=%s session=%s trace=%s method=%s path=%s status=%d ip=%s duration=%s size=%d",
			rid, sid, tr,
			c.Request.Method, path, c.Writer.Status(), c.ClientIP(),
			time.Since(start), c.Writer.Size(),
		)
	}
}
