package httpx

import (
	"github.com/Gunvolt24/printshop_console/pkg/ctxmeta"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderRequestID — сквозной идентификатор запроса.
const HeaderRequestID = "X-Request-ID"

const maxRequestIDLen = 128

// RequestIDMiddleware — берёт X-Request-ID клиента, если он приличный, иначе выдаёт UUID;
// кладёт его в контекст запроса и возвращает в ответе.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if !validRequestID(requestID) {
			requestID = uuid.NewString()
		}
		c.Header(HeaderRequestID, requestID)
		c.Request = c.Request.WithContext(ctxmeta.WithRequestID(c.Request.Context(), requestID))
		c.Next()
	}
}

// validRequestID — непустой, не длиннее maxRequestIDLen, только [A-Za-z0-9._-].
// Значение попадает в логи как есть.
func validRequestID(s string) bool {
	if s == "" || len(s) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		case ch == '-', ch == '_', ch == '.':
		default:
			return false
		}
	}
	return true
}
