package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Gunvolt24/printshop_console/internal/domain"
	"github.com/Gunvolt24/printshop_console/internal/ports"
	"github.com/Gunvolt24/printshop_console/pkg/metrics"
)

// State — состояние коллекции для отображения (индикатор загрузки, последняя ошибка).
type State struct {
	Loading     bool
	LastError   error
	Size        int
	RefreshedAt time.Time
}

// OrderCollection — канонический снимок заказов, полученный последним успешным List.
// Снимок меняет только Refresh, и только целиком.
type OrderCollection struct {
	store ports.OrderStore

	mu          sync.RWMutex
	snapshot    []domain.Order
	index       map[int64]int
	inflight    int
	lastError   error
	refreshedAt time.Time

	now func() time.Time
}

var _ ports.OrderCache = (*OrderCollection)(nil)

func NewOrderCollection(store ports.OrderStore) *OrderCollection {
	return &OrderCollection{
		store: store,
		index: make(map[int64]int),
		now:   time.Now,
	}
}

// Refresh — перечитать коллекцию из хранилища.
// Успех: снимок заменяется, lastError сбрасывается. Ошибка: lastError, старый снимок остаётся.
// Параллельные вызовы не упорядочиваются: применяется ответ, пришедший последним.
func (c *OrderCollection) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.inflight++
	c.mu.Unlock()

	orders, err := c.store.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--

	if err != nil {
		c.lastError = err
		metrics.CacheRefresh.WithLabelValues("error").Inc()
		return err
	}

	c.snapshot = domain.CloneOrders(orders)
	if c.snapshot == nil {
		c.snapshot = []domain.Order{}
	}
	c.index = make(map[int64]int, len(c.snapshot))
	for i := range c.snapshot {
		c.index[c.snapshot[i].ID] = i
	}
	c.lastError = nil
	c.refreshedAt = c.now()

	metrics.CacheRefresh.WithLabelValues("ok").Inc()
	metrics.CacheSize.Set(float64(len(c.snapshot)))
	return nil
}

// FindByID — поиск в текущем снимке без обращения к хранилищу.
func (c *OrderCollection) FindByID(_ context.Context, id int64) (domain.Order, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.index[id]
	if !ok {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return domain.Order{}, false
	}
	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return c.snapshot[i], true
}

// Snapshot — копия текущего снимка в порядке сервера.
func (c *OrderCollection) Snapshot(_ context.Context) []domain.Order {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := domain.CloneOrders(c.snapshot)
	if out == nil {
		out = []domain.Order{}
	}
	return out
}

func (c *OrderCollection) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return State{
		Loading:     c.inflight > 0,
		LastError:   c.lastError,
		Size:        len(c.snapshot),
		RefreshedAt: c.refreshedAt,
	}
}
