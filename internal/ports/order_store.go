package ports

import (
	"context"

	"github.com/Gunvolt24/printshop_console/internal/domain"
)

// OrderStore — удалённое хранилище заказов (REST-коллекция).
// Любой сбой сети/HTTP возвращается как *domain.TransportError; повторов нет.
type OrderStore interface {
	List(ctx context.Context) ([]domain.Order, error)
	Create(ctx context.Context, fields domain.Fields) (domain.Order, error)
	// UpdateByID — id адресуется путём запроса и никогда не попадает в тело.
	UpdateByID(ctx context.Context, id int64, fields domain.Fields) (domain.Order, error)
	DeleteByID(ctx context.Context, id int64) error
}

// CredentialStore — удалённая коллекция учётных записей консоли.
type CredentialStore interface {
	List(ctx context.Context) ([]domain.Credential, error)
}
