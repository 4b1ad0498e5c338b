package validate

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Gunvolt24/printshop_console/internal/domain"
	"github.com/Gunvolt24/printshop_console/internal/ports"
	"github.com/shopspring/decimal"
)

// Проверка, что OrderValidator удовлетворяет интерфейсу OrderValidator.
var _ ports.OrderValidator = (*OrderValidator)(nil)

// Mode — набор правил: создание или редактирование.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeUpdate Mode = "update"
)

// OrderValidator — проверка черновика формы перед отправкой в хранилище.
// Все нарушения собираются в один *domain.ValidationError.
type OrderValidator struct{}

func NewOrderValidator() *OrderValidator { return &OrderValidator{} }

// ValidateCreate — поля не должны быть пустыми (без обрезки пробелов).
func (v *OrderValidator) ValidateCreate(_ context.Context, draft domain.Draft) (domain.Fields, error) {
	return v.validate(draft, false)
}

// ValidateUpdate — то же, но строковые поля из одних пробелов считаются пустыми.
func (v *OrderValidator) ValidateUpdate(_ context.Context, draft domain.Draft) (domain.Fields, error) {
	return v.validate(draft, true)
}

// Validate — выбор правил по режиму.
func (v *OrderValidator) Validate(ctx context.Context, mode Mode, draft domain.Draft) (domain.Fields, error) {
	switch mode {
	case ModeCreate:
		return v.ValidateCreate(ctx, draft)
	case ModeUpdate:
		return v.ValidateUpdate(ctx, draft)
	default:
		return domain.Fields{}, fmt.Errorf("unsupported mode: %s", mode)
	}
}

func (v *OrderValidator) validate(d domain.Draft, trimmed bool) (domain.Fields, error) {
	var (
		out  domain.Fields
		errs = make(map[string]string)
	)

	required := func(name, value string) bool {
		check := value
		if trimmed {
			check = strings.TrimSpace(value)
		}
		if check == "" {
			errs[name] = name + " обязателен"
			return false
		}
		return true
	}

	if required("nombre", d.Nombre) {
		out.Nombre = d.Nombre
	}
	if required("descripcion", d.Descripcion) {
		out.Descripcion = d.Descripcion
	}
	if required("cantidad", d.Cantidad) {
		n, err := strconv.Atoi(strings.TrimSpace(d.Cantidad))
		if err != nil {
			errs["cantidad"] = "cantidad должно быть целым числом"
		}
		out.Cantidad = n
	}
	if required("estado", d.Estado) {
		e, ok := domain.ParseEstado(d.Estado)
		if !ok {
			errs["estado"] = fmt.Sprintf("estado: недопустимое значение %q", d.Estado)
		}
		out.Estado = e
	}
	if required("total", d.Total) {
		out.Total = parseAmount("total", d.Total, errs)
	}
	if required("acuenta", d.Acuenta) {
		out.Acuenta = parseAmount("acuenta", d.Acuenta, errs)
	}

	if len(errs) > 0 {
		return domain.Fields{}, &domain.ValidationError{Fields: errs}
	}
	return out, nil
}

// parseAmount — десятичная сумма; acuenta > total не проверяется.
func parseAmount(name, raw string, errs map[string]string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		errs[name] = name + " должно быть числом"
		return decimal.Zero
	}
	return d
}
