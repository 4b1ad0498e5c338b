package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Gunvolt24/printshop_console/internal/domain"
	"github.com/Gunvolt24/printshop_console/internal/ports"
	"github.com/Gunvolt24/printshop_console/pkg/metrics"
)

// OpStatus — состояние одного вида операции для индикаторов консоли.
type OpStatus struct {
	Pending   bool  `json:"pending"`
	LastError error `json:"-"`
}

// Status — состояние create/update/delete.
type Status struct {
	Create OpStatus `json:"create"`
	Update OpStatus `json:"update"`
	Delete OpStatus `json:"delete"`
}

type opState struct {
	inflight int
	lastErr  error
}

// MutationCoordinator — отправка изменений в хранилище и согласование кэша.
// Порядок: проверка черновика -> запись -> Refresh кэша -> событие инвалидации.
// Вызовы между собой не сериализуются.
type MutationCoordinator struct {
	store     ports.OrderStore     // удалённое хранилище
	cache     ports.OrderCache     // канонический снимок
	log       ports.Logger         // логгер
	validator ports.OrderValidator // правила черновика

	mu     sync.Mutex
	states map[ports.MutationOp]*opState
	subs   []ports.InvalidationSubscriber

	now func() time.Time
}

// NewMutationCoordinator — DI-конструктор.
func NewMutationCoordinator(
	store ports.OrderStore,
	cache ports.OrderCache,
	log ports.Logger,
	validator ports.OrderValidator,
) *MutationCoordinator {
	return &MutationCoordinator{
		store:     store,
		cache:     cache,
		log:       log,
		validator: validator,
		states: map[ports.MutationOp]*opState{
			ports.OpCreate: {},
			ports.OpUpdate: {},
			ports.OpDelete: {},
		},
		now: time.Now,
	}
}

// Subscribe — подписчик получает событие после каждой подтверждённой записи.
func (s *MutationCoordinator) Subscribe(sub ports.InvalidationSubscriber) {
	if sub == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, sub)
}

// SubmitCreate — создать заказ. Невалидный черновик в хранилище не уходит.
func (s *MutationCoordinator) SubmitCreate(ctx context.Context, draft domain.Draft) (domain.Order, error) {
	fields, err := s.validator.ValidateCreate(ctx, draft)
	if err != nil {
		s.rejected(ctx, ports.OpCreate, 0, err)
		return domain.Order{}, err
	}

	var created domain.Order
	err = s.run(ctx, ports.OpCreate, func(ctx context.Context) (int64, error) {
		var err error
		created, err = s.store.Create(ctx, fields)
		return created.ID, err
	})
	return created, err
}

// SubmitUpdate — изменить заказ id; id в тело запроса не попадает.
func (s *MutationCoordinator) SubmitUpdate(ctx context.Context, id int64, draft domain.Draft) (domain.Order, error) {
	fields, err := s.validator.ValidateUpdate(ctx, draft)
	if err != nil {
		s.rejected(ctx, ports.OpUpdate, id, err)
		return domain.Order{}, err
	}

	var updated domain.Order
	err = s.run(ctx, ports.OpUpdate, func(ctx context.Context) (int64, error) {
		var err error
		updated, err = s.store.UpdateByID(ctx, id, fields)
		return id, err
	})
	return updated, err
}

// SubmitDelete — удалить заказ id. Подтверждение и права проверяет вызывающий.
func (s *MutationCoordinator) SubmitDelete(ctx context.Context, id int64) error {
	return s.run(ctx, ports.OpDelete, func(ctx context.Context) (int64, error) {
		return id, s.store.DeleteByID(ctx, id)
	})
}

// Status — снимок состояния операций.
func (s *MutationCoordinator) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	get := func(op ports.MutationOp) OpStatus {
		st := s.states[op]
		return OpStatus{Pending: st.inflight > 0, LastError: st.lastErr}
	}
	return Status{Create: get(ports.OpCreate), Update: get(ports.OpUpdate), Delete: get(ports.OpDelete)}
}

func (s *MutationCoordinator) run(ctx context.Context, op ports.MutationOp, write func(context.Context) (int64, error)) error {
	s.begin(op)

	start := time.Now()
	id, err := write(ctx)
	if err != nil {
		s.finish(op, err)
		metrics.Mutations.WithLabelValues(string(op), resultLabel(err)).Inc()
		s.log.Errorf(ctx, "%s failed id=%d took=%s err=%v", op, id, time.Since(start), err)
		return err
	}

	// запись подтверждена: отмена запроса клиента не должна оставить кэш устаревшим
	refreshCtx := context.WithoutCancel(ctx)
	if rerr := s.cache.Refresh(refreshCtx); rerr != nil {
		s.log.Warnf(ctx, "%s ok id=%d, but refresh failed err=%v", op, id, rerr)
	}

	s.finish(op, nil)
	metrics.Mutations.WithLabelValues(string(op), "ok").Inc()
	s.log.Infof(ctx, "%s ok id=%d took=%s", op, id, time.Since(start))

	s.emit(refreshCtx, ports.InvalidationEvent{Op: op, OrderID: id, At: s.now()})
	return nil
}

func (s *MutationCoordinator) rejected(ctx context.Context, op ports.MutationOp, id int64, err error) {
	s.mu.Lock()
	s.states[op].lastErr = err
	s.mu.Unlock()

	metrics.Mutations.WithLabelValues(string(op), resultLabel(err)).Inc()
	s.log.Warnf(ctx, "%s rejected id=%d err=%v", op, id, err)
}

func (s *MutationCoordinator) begin(op ports.MutationOp) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[op].inflight++
}

func (s *MutationCoordinator) finish(op ports.MutationOp, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.states[op]
	st.inflight--
	st.lastErr = err
}

func (s *MutationCoordinator) emit(ctx context.Context, ev ports.InvalidationEvent) {
	s.mu.Lock()
	subs := append([]ports.InvalidationSubscriber(nil), s.subs...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.OnInvalidate(ctx, ev)
	}
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrTransport):
		return "transport"
	default:
		return "error"
	}
}
