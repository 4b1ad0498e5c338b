package ports

import (
	"context"
	"time"
)

// MutationOp — вид подтверждённой записи.
type MutationOp string

const (
	OpCreate MutationOp = "create"
	OpUpdate MutationOp = "update"
	OpDelete MutationOp = "delete"
)

// InvalidationEvent — событие «коллекция изменилась», которое координатор
// испускает после каждой подтверждённой записи (и после перечитывания снимка).
type InvalidationEvent struct {
	Op      MutationOp `json:"op"`
	OrderID int64      `json:"order_id"`
	At      time.Time  `json:"at"`
}

// InvalidationSubscriber — потребитель событий инвалидации.
// Вызывается синхронно из координатора, поэтому не должен блокироваться.
type InvalidationSubscriber interface {
	OnInvalidate(ctx context.Context, ev InvalidationEvent)
}
