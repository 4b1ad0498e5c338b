// Package listing — фильтрация по вкладкам, поиск и постраничный вывод заказов.
// Функции пакета чистые; View хранит состояние одной вкладки консоли.
package listing

import (
	"strings"

	"github.com/Gunvolt24/printshop_console/internal/domain"
)

const (
	// PageSize — заказов на странице.
	PageSize = 7
	// FilterAll — вкладка «все заказы».
	FilterAll = "Todos"
	// DefaultFilter — вкладка, открытая после входа.
	DefaultFilter = "pendiente"

	maxVisiblePages = 5
)

// Tabs — вкладки консоли в порядке отображения.
var Tabs = []string{FilterAll, "pendiente", "Diseño", "Impresión", "Terminado", "Entregado"}

// Page — результат проекции.
type Page struct {
	Items      []domain.Order `json:"items"`
	TotalPages int            `json:"totalPages"`
	Page       int            `json:"page"`
	Total      int            `json:"total"` // заказов после фильтра
}

// IsAll — фильтр «все»: Todos, all или пустое значение.
func IsAll(filter string) bool {
	f := strings.TrimSpace(filter)
	return f == "" || strings.EqualFold(f, FilterAll) || strings.EqualFold(f, "all")
}

// Filter — заказы с estado, совпадающим с фильтром без учёта регистра; порядок сохраняется.
func Filter(orders []domain.Order, filter string) []domain.Order {
	if IsAll(filter) {
		return append([]domain.Order{}, orders...)
	}
	f := strings.TrimSpace(filter)
	out := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if strings.EqualFold(string(o.Estado), f) {
			out = append(out, o)
		}
	}
	return out
}

// Search — подстрока в nombre без учёта регистра; пустой запрос ничего не отсекает.
func Search(orders []domain.Order, term string) []domain.Order {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return append([]domain.Order{}, orders...)
	}
	out := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if strings.Contains(strings.ToLower(o.Nombre), term) {
			out = append(out, o)
		}
	}
	return out
}

// TotalPages — max(1, ceil(n/PageSize)).
func TotalPages(n int) int {
	if n <= 0 {
		return 1
	}
	return (n + PageSize - 1) / PageSize
}

// Project — страница page отфильтрованной коллекции. Номер страницы не корректируется:
// за пределами диапазона возвращается пустая страница.
func Project(orders []domain.Order, filter string, page int) Page {
	filtered := Filter(orders, filter)
	res := Page{
		TotalPages: TotalPages(len(filtered)),
		Page:       page,
		Total:      len(filtered),
		Items:      []domain.Order{},
	}
	if page < 1 {
		return res
	}
	start := (page - 1) * PageSize
	if start >= len(filtered) {
		return res
	}
	end := min(start+PageSize, len(filtered))
	res.Items = filtered[start:end]
	return res
}

// Clamp — номер страницы в пределах [1, totalPages].
func Clamp(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// ShowControls — переключатель страниц нужен только при нескольких страницах.
func ShowControls(totalPages int) bool { return totalPages > 1 }

// PageLink — элемент переключателя: номер страницы или разрыв «...».
type PageLink struct {
	Number int  `json:"number,omitempty"`
	Gap    bool `json:"gap,omitempty"`
}

// PageNumbers — окно номеров вокруг текущей страницы.
// До пяти страниц показываются все; иначе первая, последняя, соседи текущей и разрывы.
func PageNumbers(current, total int) []PageLink {
	if total < 1 {
		total = 1
	}
	current = Clamp(current, total)

	if total <= maxVisiblePages {
		out := make([]PageLink, 0, total)
		for i := 1; i <= total; i++ {
			out = append(out, PageLink{Number: i})
		}
		return out
	}

	out := []PageLink{{Number: 1}}
	if current > 3 {
		out = append(out, PageLink{Gap: true})
	}
	from := max(2, current-1)
	to := min(total-1, current+1)
	for i := from; i <= to; i++ {
		out = append(out, PageLink{Number: i})
	}
	if current < total-2 {
		out = append(out, PageLink{Gap: true})
	}
	return append(out, PageLink{Number: total})
}
