package ports

import (
	"context"

	"github.com/Gunvolt24/printshop_console/internal/domain"
)

// StateStore — сохраняемое состояние клиента в разрезе сессии консоли:
// один ключ с учётной записью оператора и один с темой оформления.
type StateStore interface {
	SaveUser(ctx context.Context, sessionID string, user domain.Credential) error
	// LoadUser — (user, false, nil), если записи нет.
	LoadUser(ctx context.Context, sessionID string) (domain.Credential, bool, error)
	SaveTheme(ctx context.Context, sessionID string, theme domain.Theme) error
	// LoadTheme — domain.ThemeSystem, если значение не сохранялось.
	LoadTheme(ctx context.Context, sessionID string) (domain.Theme, error)
	// Clear — удалить оба ключа сессии (выход из консоли).
	Clear(ctx context.Context, sessionID string) error
}
