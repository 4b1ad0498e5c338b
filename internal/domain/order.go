package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Estado — этап производства заказа.
type Estado string

const (
	EstadoPendiente Estado = "Pendiente"
	EstadoDiseno    Estado = "Diseño"
	EstadoImpresion Estado = "Impresión"
	EstadoTerminado Estado = "Terminado"
	EstadoEntregado Estado = "Entregado"
)

// Estados — все допустимые этапы в порядке вкладок консоли.
var Estados = []Estado{EstadoPendiente, EstadoDiseno, EstadoImpresion, EstadoTerminado, EstadoEntregado}

// ParseEstado — регистронезависимый разбор этапа; ("", false) для неизвестного значения.
func ParseEstado(s string) (Estado, bool) {
	s = strings.TrimSpace(s)
	for _, e := range Estados {
		if strings.EqualFold(string(e), s) {
			return e, true
		}
	}
	return "", false
}

// Order — заказ (рабочая заявка) типографии.
// ID присваивает сервер; клиент его не меняет.
type Order struct {
	ID          int64           `json:"id"`
	Nombre      string          `json:"nombre"`
	Cantidad    int             `json:"cantidad"`
	Descripcion string          `json:"descripcion"`
	Estado      Estado          `json:"estado"`
	Total       decimal.Decimal `json:"total"`
	Acuenta     decimal.Decimal `json:"acuenta"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Saldo — остаток к оплате: total - acuenta. Не хранится.
// acuenta > total не запрещено, тогда остаток отрицательный.
func (o *Order) Saldo() decimal.Decimal {
	return o.Total.Sub(o.Acuenta)
}

// Fields — подтверждённый валидатором набор из шести полей заказа (без id и createdAt).
type Fields struct {
	Nombre      string          `json:"nombre"`
	Cantidad    int             `json:"cantidad"`
	Descripcion string          `json:"descripcion"`
	Estado      Estado          `json:"estado"`
	Total       decimal.Decimal `json:"total"`
	Acuenta     decimal.Decimal `json:"acuenta"`
}

// Draft — черновик формы: значения в том виде, в каком их ввёл пользователь.
type Draft struct {
	Nombre      string `json:"nombre"`
	Cantidad    string `json:"cantidad"`
	Descripcion string `json:"descripcion"`
	Estado      string `json:"estado"`
	Total       string `json:"total"`
	Acuenta     string `json:"acuenta"`
}

// DraftFromOrder — черновик, заполненный значениями существующего заказа.
func DraftFromOrder(o *Order) Draft {
	return Draft{
		Nombre:      o.Nombre,
		Cantidad:    itoa(o.Cantidad),
		Descripcion: o.Descripcion,
		Estado:      string(o.Estado),
		Total:       o.Total.String(),
		Acuenta:     o.Acuenta.String(),
	}
}

// Set — присвоить поле черновика по имени; false для неизвестного имени.
func (d *Draft) Set(name, value string) bool {
	switch name {
	case "nombre":
		d.Nombre = value
	case "cantidad":
		d.Cantidad = value
	case "descripcion":
		d.Descripcion = value
	case "estado":
		d.Estado = value
	case "total":
		d.Total = value
	case "acuenta":
		d.Acuenta = value
	default:
		return false
	}
	return true
}
