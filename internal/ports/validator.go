package ports

import (
	"context"

	"github.com/Gunvolt24/printshop_console/internal/domain"
)

// OrderValidator — проверка черновика перед отправкой в хранилище.
// Ошибка всегда *domain.ValidationError.
type OrderValidator interface {
	ValidateCreate(ctx context.Context, draft domain.Draft) (domain.Fields, error)
	ValidateUpdate(ctx context.Context, draft domain.Draft) (domain.Fields, error)
}
