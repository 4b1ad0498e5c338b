package ports

import (
	"context"

	"github.com/Gunvolt24/printshop_console/internal/domain"
)

// OrderCache — единственный владелец подтверждённых данных о заказах.
// Требования к реализации: потокобезопасность; читатели получают копии;
// снимок меняет только Refresh, целиком.
type OrderCache interface {
	// Refresh — перечитать коллекцию; при ошибке прежний снимок остаётся доступным.
	Refresh(ctx context.Context) error

	// FindByID — поиск в текущем снимке; (order, true) при попадании.
	FindByID(ctx context.Context, id int64) (domain.Order, bool)

	// Snapshot — копия текущего снимка в порядке, полученном от хранилища.
	Snapshot(ctx context.Context) []domain.Order
}
