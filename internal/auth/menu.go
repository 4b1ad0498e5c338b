package auth

import "github.com/Gunvolt24/printshop_console/internal/domain"

// MenuItem — пункт бокового меню.
type MenuItem struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Path  string `json:"path"`
}

type menuRule struct {
	item      MenuItem
	adminOnly bool
	anyOf     []string // ключи formatos, дающие доступ
}

var menu = []menuRule{
	{item: MenuItem{Key: "inventario", Label: "Inventario", Path: "/inventario"}, adminOnly: true},
	{item: MenuItem{Key: "ticket", Label: "Ticket", Path: "/ticket"}, anyOf: []string{"ticket"}},
	{item: MenuItem{Key: "boleta", Label: "Boleta", Path: "/boleta"}, anyOf: []string{"boleta"}},
	{item: MenuItem{Key: "factura", Label: "Factura", Path: "/factura"}, anyOf: []string{"factura"}},
	{item: MenuItem{Key: "guiarem", Label: "Guía de remisión", Path: "/guiarem"}, anyOf: []string{"guiarem"}},
	{item: MenuItem{Key: "guiatransp", Label: "Guía transportista", Path: "/guiatransp"}, anyOf: []string{"guiatransp"}},
	{item: MenuItem{Key: "guias", Label: "Lista de guías", Path: "/guias"}, anyOf: []string{"guiarem", "guiatransp"}},
	{item: MenuItem{Key: "notacredito", Label: "Nota de crédito", Path: "/notacredito"}, anyOf: []string{"notacredito"}},
	{item: MenuItem{Key: "notascredito", Label: "Lista de notas de crédito", Path: "/notascredito"}, anyOf: []string{"notacredito"}},
	{item: MenuItem{Key: "ingresos", Label: "Ingresos", Path: "/ingresos"}, anyOf: []string{"ingresos"}},
	{item: MenuItem{Key: "ventas", Label: "Ventas del Dia", Path: "/ventas"}, adminOnly: true},
	{item: MenuItem{Key: "cotizacion", Label: "Cotización", Path: "/almanaque"}, anyOf: []string{"cotizacion"}},
}

// VisibleMenu — пункты меню, доступные пользователю, в порядке отображения.
func VisibleMenu(cred *domain.Credential) []MenuItem {
	out := make([]MenuItem, 0, len(menu))
	for _, r := range menu {
		if visible(cred, r) {
			out = append(out, r.item)
		}
	}
	return out
}

func visible(cred *domain.Credential, r menuRule) bool {
	if r.adminOnly {
		return cred.IsAdmin()
	}
	for _, key := range r.anyOf {
		if cred.CanAccess(key) {
			return true
		}
	}
	return false
}

// CanDelete — удаление заказов только администратору.
func CanDelete(cred *domain.Credential) bool { return cred.IsAdmin() }

// CanSeeAmounts — колонки total/acuenta/saldo только администратору.
func CanSeeAmounts(cred *domain.Credential) bool { return cred.IsAdmin() }
