package rest_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/Gunvolt24/printshop_console/internal/auth"
	"github.com/Gunvolt24/printshop_console/internal/cache/memory"
	"github.com/Gunvolt24/printshop_console/internal/domain"
	"github.com/Gunvolt24/printshop_console/internal/ports/mocks"
	rest "github.com/Gunvolt24/printshop_console/internal/transport/http"
	"github.com/Gunvolt24/printshop_console/internal/usecase"
	"github.com/Gunvolt24/printshop_console/internal/workspace"
	"github.com/Gunvolt24/printshop_console/pkg/validate"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
)

var errRedisDown = errors.New("redis: connection refused")

// env с хранилищем состояния на моке: проверяем поведение при его сбоях.
func newStatefulEnv(t *testing.T) (*consoleEnv, *mocks.MockStateStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)

	store := mocks.NewMockOrderStore(ctrl)
	creds := mocks.NewMockCredentialStore(ctrl)
	st := mocks.NewMockStateStore(ctrl)
	cache := memory.NewOrderCollection(store)
	coord := usecase.NewMutationCoordinator(store, cache, noopLogger{}, validate.NewOrderValidator())
	spaces := workspace.NewManager(cache, coord, noopLogger{})

	h := rest.NewConsoleHandler(auth.NewAuthenticator(creds, noopLogger{}), spaces, cache, coord, st, noopLogger{}, 0)
	return &consoleEnv{store: store, creds: creds, router: rest.NewConsoleRouter(h, "", "")}, st
}

// Недоступное хранилище состояния не мешает входу.
func TestConsole_Login_StateFailureOnlyWarns(t *testing.T) {
	env, st := newStatefulEnv(t)
	st.EXPECT().SaveUser(gomock.Any(), gomock.Any(), gomock.Any()).Return(errRedisDown)
	st.EXPECT().SaveTheme(gomock.Any(), gomock.Any(), domain.ThemeSystem).Return(errRedisDown)

	sid := env.login(t, "admin", "admin123", nineOrders())
	if sid == "" {
		t.Fatalf("want session id")
	}
}

// Чтение темы при сбое хранилища состояния — 500 без деталей.
func TestConsole_GetTheme_StateFailure_500(t *testing.T) {
	env, st := newStatefulEnv(t)
	st.EXPECT().SaveUser(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	st.EXPECT().SaveTheme(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	sid := env.login(t, "admin", "admin123", nil)

	st.EXPECT().LoadTheme(gomock.Any(), sid).Return(domain.Theme(""), errRedisDown)

	w := env.do(t, http.MethodGet, "/session/theme", sid, nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("want 500, got %d body=%s", w.Code, w.Body.String())
	}
}

// Неизвестная сессия и сбой при чтении сохранённой записи — 401, а не 500.
func TestConsole_RestoreSession_StateFailure_401(t *testing.T) {
	env, st := newStatefulEnv(t)
	st.EXPECT().LoadUser(gomock.Any(), "lost-session").Return(domain.Credential{}, false, errRedisDown)

	w := env.do(t, http.MethodGet, "/orders", "lost-session", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", w.Code)
	}
}

// Выход очищает сохранённое состояние даже если очистка падает.
func TestConsole_Logout_ClearsState(t *testing.T) {
	env, st := newStatefulEnv(t)
	st.EXPECT().SaveUser(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	st.EXPECT().SaveTheme(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	sid := env.login(t, "caja", "caja123", nil)

	st.EXPECT().Clear(gomock.Any(), sid).Return(errRedisDown)
	if w := env.do(t, http.MethodPost, "/session/logout", sid, nil); w.Code != http.StatusNoContent {
		t.Fatalf("logout: want 204, got %d", w.Code)
	}

	// рабочее место закрыто; восстановить его нечем
	st.EXPECT().LoadUser(gomock.Any(), sid).Return(domain.Credential{}, false, nil)
	if w := env.do(t, http.MethodGet, "/orders", sid, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("after logout: want 401, got %d", w.Code)
	}
}
