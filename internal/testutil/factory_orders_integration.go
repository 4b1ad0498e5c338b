//go:build integration

package testutil

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/Gunvolt24/printshop_console/internal/domain"
	"github.com/shopspring/decimal"
)

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func UniqSuffix() string { return randHex(6) }

// MakeFields — мини-генератор валидного набора полей заказа.
func MakeFields(opts ...func(*domain.Fields)) domain.Fields {
	f := domain.Fields{
		Nombre:      "cliente-" + UniqSuffix(),
		Cantidad:    3,
		Descripcion: "Banner 2x1",
		Estado:      domain.EstadoPendiente,
		Total:       decimal.RequireFromString("150.00"),
		Acuenta:     decimal.RequireFromString("50.00"),
	}
	for _, fn := range opts {
		fn(&f)
	}
	return f
}

func WithEstado(e domain.Estado) func(*domain.Fields) {
	return func(f *domain.Fields) { f.Estado = e }
}

func WithNombre(n string) func(*domain.Fields) {
	return func(f *domain.Fields) { f.Nombre = n }
}

// MakeDraft — черновик формы из набора полей (как его ввёл бы пользователь).
func MakeDraft(f domain.Fields) domain.Draft {
	o := domain.Order{
		Nombre: f.Nombre, Cantidad: f.Cantidad, Descripcion: f.Descripcion,
		Estado: f.Estado, Total: f.Total, Acuenta: f.Acuenta,
	}
	return domain.DraftFromOrder(&o)
}
