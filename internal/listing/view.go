package listing

import (
	"strings"
	"sync"

	"github.com/Gunvolt24/printshop_console/internal/domain"
)

// Rendered — страница для отображения вместе с состоянием вида.
type Rendered struct {
	Page
	Filter       string     `json:"filter"`
	Search       string     `json:"search"`
	Links        []PageLink `json:"links"`
	ShowControls bool       `json:"showControls"`
}

// View — состояние вкладки одного пользователя: фильтр, поиск, текущая страница.
// Смена фильтра или поиска возвращает на первую страницу.
type View struct {
	mu     sync.Mutex
	filter string
	search string
	page   int
}

func NewView() *View {
	return &View{filter: DefaultFilter, page: 1}
}

// SetFilter — сменить вкладку; страница сбрасывается на 1 даже при том же значении.
func (v *View) SetFilter(filter string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filter = strings.TrimSpace(filter)
	if v.filter == "" {
		v.filter = FilterAll
	}
	v.page = 1
}

func (v *View) SetSearch(term string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.search = term
	v.page = 1
}

// GoTo — перейти на страницу; выход за диапазон поправит Render.
func (v *View) GoTo(page int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if page < 1 {
		page = 1
	}
	v.page = page
}

func (v *View) Next() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.page++
}

func (v *View) Prev() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.page > 1 {
		v.page--
	}
}

func (v *View) Filter() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filter
}

func (v *View) Search() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.search
}

func (v *View) CurrentPage() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page
}

// Clamp — вернуть текущую страницу в [1, totalPages] для данного снимка
// (коллекция могла уменьшиться после удаления или обновления).
func (v *View) Clamp(snapshot []domain.Order) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.clampLocked(snapshot)
}

// Render — поиск, затем фильтр вкладки; страница корректируется и проецируется.
func (v *View) Render(snapshot []domain.Order) Rendered {
	v.mu.Lock()
	defer v.mu.Unlock()

	searched := v.clampLocked(snapshot)
	p := Project(searched, v.filter, v.page)
	return Rendered{
		Page:         p,
		Filter:       v.filter,
		Search:       v.search,
		Links:        PageNumbers(p.Page, p.TotalPages),
		ShowControls: ShowControls(p.TotalPages),
	}
}

func (v *View) clampLocked(snapshot []domain.Order) []domain.Order {
	searched := Search(snapshot, v.search)
	total := TotalPages(len(Filter(searched, v.filter)))
	v.page = Clamp(v.page, total)
	return searched
}
