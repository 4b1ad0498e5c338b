// Пакет ctxmeta — метаданные запроса консоли, которые едут через context.Context:
// request_id, id сессии консоли и токен оператора для удалённого хранилища.
// HTTP-слой кладёт значения, логгер и клиент хранилища только читают.
package ctxmeta

import "context"

type ctxKey string

const (
	KeyRequestID ctxKey = "request_id"
	KeySessionID ctxKey = "session_id"
	KeyAuthToken ctxKey = "auth_token"
)

// WithRequestID кладёт request_id в контекст (пустое значение игнорируется).
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return withString(ctx, KeyRequestID, requestID)
}

// RequestIDFromContext достаёт request_id из контекста.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, KeyRequestID)
}

// WithSessionID кладёт id сессии консоли.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return withString(ctx, KeySessionID, sessionID)
}

func SessionIDFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, KeySessionID)
}

// WithAuthToken кладёт bearer-токен оператора; клиент хранилища добавит его в Authorization.
func WithAuthToken(ctx context.Context, token string) context.Context {
	return withString(ctx, KeyAuthToken, token)
}

func AuthTokenFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, KeyAuthToken)
}

func withString(ctx context.Context, key ctxKey, value string) context.Context {
	if ctx == nil || value == "" {
		return ctx
	}
	return context.WithValue(ctx, key, value)
}

func stringFrom(ctx context.Context, key ctxKey) (string, bool) {
	if ctx == nil {
		return "", false
	}
	if v, ok := ctx.Value(key).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
