package ports

import (
	"context"

	"github.com/Gunvolt24/printshop_console/internal/domain"
)

// OrderRepository — таблица servicios эталонного хранилища.
type OrderRepository interface {
	List(ctx context.Context) ([]domain.Order, error)
	Create(ctx context.Context, fields domain.Fields) (domain.Order, error)
	// Update/Delete — *domain.NotFoundError, если строки нет.
	Update(ctx context.Context, id int64, fields domain.Fields) (domain.Order, error)
	Delete(ctx context.Context, id int64) error
}

// CredentialRepository — таблица login эталонного хранилища.
type CredentialRepository interface {
	List(ctx context.Context) ([]domain.Credential, error)
	Create(ctx context.Context, cred domain.Credential) (domain.Credential, error)
}
