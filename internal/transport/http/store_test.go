package rest_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Gunvolt24/printshop_console/internal/domain"
	"github.com/Gunvolt24/printshop_console/internal/ports/mocks"
	rest "github.com/Gunvolt24/printshop_console/internal/transport/http"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
)

func newStoreRouter(t *testing.T) (*gin.Engine, *mocks.MockOrderRepository, *mocks.MockCredentialRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	orders := mocks.NewMockOrderRepository(ctrl)
	creds := mocks.NewMockCredentialRepository(ctrl)
	h := rest.NewStoreHandler(orders, creds, noopLogger{}, 0)
	return rest.NewStoreRouter(h, ""), orders, creds
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestStore_ListEmptyIsArray(t *testing.T) {
	r, orders, _ := newStoreRouter(t)
	orders.EXPECT().List(gomock.Any()).Return(nil, nil)

	w := serve(r, http.MethodGet, "/servicios", "")
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("want 200 [], got %d %q", w.Code, w.Body.String())
	}
}

// Числа принимаются как JSON-числа; estado нормализуется
func TestStore_Create(t *testing.T) {
	r, orders, _ := newStoreRouter(t)

	orders.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, f domain.Fields) (domain.Order, error) {
			if f.Estado != domain.EstadoPendiente || f.Cantidad != 3 || !f.Total.Equal(decimal.RequireFromString("150.5")) {
				t.Errorf("unexpected fields: %+v", f)
			}
			return domain.Order{ID: 1, Nombre: f.Nombre, Estado: f.Estado}, nil
		})

	body := `{"nombre":"Ana","cantidad":3,"descripcion":"Banner","estado":"pendiente","total":150.5,"acuenta":50}`
	w := serve(r, http.MethodPost, "/servicios", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("want 201, got %d body=%s", w.Code, w.Body.String())
	}
}

func TestStore_Create_InvalidEstado_422(t *testing.T) {
	r, _, _ := newStoreRouter(t)

	body := `{"nombre":"Ana","cantidad":3,"descripcion":"Banner","estado":"Proceso","total":1,"acuenta":0}`
	if w := serve(r, http.MethodPost, "/servicios", body); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("want 422, got %d", w.Code)
	}
	if w := serve(r, http.MethodPost, "/servicios", "{broken"); w.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", w.Code)
	}
}

func TestStore_UpdateDelete_NotFound(t *testing.T) {
	r, orders, _ := newStoreRouter(t)

	orders.EXPECT().Update(gomock.Any(), int64(9), gomock.Any()).Return(domain.Order{}, &domain.NotFoundError{ID: 9})
	orders.EXPECT().Delete(gomock.Any(), int64(9)).Return(&domain.NotFoundError{ID: 9})

	body := `{"nombre":"Ana","cantidad":3,"descripcion":"Banner","estado":"Diseño","total":"10","acuenta":"0"}`
	if w := serve(r, http.MethodPut, "/servicios/9", body); w.Code != http.StatusNotFound {
		t.Fatalf("update: want 404, got %d", w.Code)
	}
	if w := serve(r, http.MethodDelete, "/servicios/9", ""); w.Code != http.StatusNotFound {
		t.Fatalf("delete: want 404, got %d", w.Code)
	}
	if w := serve(r, http.MethodDelete, "/servicios/abc", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("bad id: want 400, got %d", w.Code)
	}
}

func TestStore_Delete_NoContent(t *testing.T) {
	r, orders, _ := newStoreRouter(t)
	orders.EXPECT().Delete(gomock.Any(), int64(4)).Return(nil)

	if w := serve(r, http.MethodDelete, "/servicios/4", ""); w.Code != http.StatusNoContent {
		t.Fatalf("want 204, got %d", w.Code)
	}
}

func TestStore_Credentials(t *testing.T) {
	r, _, creds := newStoreRouter(t)

	creds.EXPECT().List(gomock.Any()).Return([]domain.Credential{{ID: 1, Usuario: "admin", Password: "x", Cargo: domain.RoleAdmin}}, nil)
	creds.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, c domain.Credential) (domain.Credential, error) {
			c.ID = 2
			return c, nil
		})

	w := serve(r, http.MethodGet, "/login", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"usuario":"admin"`) {
		t.Fatalf("list: %d %s", w.Code, w.Body.String())
	}

	w = serve(r, http.MethodPost, "/login", `{"usuario":"caja","password":"p","cargo":"Usuario","formatos":["ticket"]}`)
	if w.Code != http.StatusCreated || strings.Contains(w.Body.String(), "password") {
		t.Fatalf("create must not echo password: %d %s", w.Code, w.Body.String())
	}

	if w := serve(r, http.MethodPost, "/login", `{"usuario":"","password":""}`); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty credential: want 422, got %d", w.Code)
	}
}
