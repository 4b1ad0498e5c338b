package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gunvolt24/printshop_console/pkg/httpx"
	"github.com/gin-gonic/gin"
)

// Утилита для создания *gin.Context с query-строкой
func ctxWithQuery(rawQuery string) *gin.Context {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/?"+rawQuery, http.NoBody)
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c
}

func TestQueryInt(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    int
		wantOK  bool
		wantErr bool
	}{
		{"absent", "", 0, false, false},
		{"other key", "tab=Todos", 0, false, false},
		{"number", "page=3", 3, true, false},
		{"spaces", "page=%202%20", 2, true, false},
		{"negative passes through", "page=-1", -1, true, false},
		{"empty", "page=", 0, true, true},
		{"not a number", "page=abc", 0, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok, err := httpx.QueryInt(ctxWithQuery(tt.query), "page")
			if (err != nil) != tt.wantErr {
				t.Fatalf("err=%v wantErr=%v", err, tt.wantErr)
			}
			if ok != tt.wantOK || v != tt.want {
				t.Fatalf("got (%d,%v), want (%d,%v)", v, ok, tt.want, tt.wantOK)
			}
		})
	}
}
