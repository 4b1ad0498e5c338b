package workspace_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Gunvolt24/printshop_console/internal/cache/memory"
	"github.com/Gunvolt24/printshop_console/internal/domain"
	"github.com/Gunvolt24/printshop_console/internal/editsession"
	"github.com/Gunvolt24/printshop_console/internal/ports"
	"github.com/Gunvolt24/printshop_console/internal/ports/mocks"
	"github.com/Gunvolt24/printshop_console/internal/usecase"
	"github.com/Gunvolt24/printshop_console/internal/workspace"
	"github.com/Gunvolt24/printshop_console/pkg/validate"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
)

type noopLogger struct{}

func (noopLogger) Infof(context.Context, string, ...any)  {}
func (noopLogger) Warnf(context.Context, string, ...any)  {}
func (noopLogger) Errorf(context.Context, string, ...any) {}

var (
	admin    = domain.Credential{ID: 1, Usuario: "admin", Password: "secret", Cargo: domain.RoleAdmin}
	operator = domain.Credential{ID: 2, Usuario: "caja", Cargo: "Usuario", Formatos: []string{"ticket"}}
)

func order(id int64, estado domain.Estado) domain.Order {
	return domain.Order{
		ID: id, Nombre: "Cliente", Cantidad: 1, Descripcion: "Tarjetas", Estado: estado,
		Total: decimal.NewFromInt(100), Acuenta: decimal.NewFromInt(40),
	}
}

// fixture — настоящий кэш и координатор поверх мока хранилища.
type fixture struct {
	store *mocks.MockOrderStore
	cache *memory.OrderCollection
	coord *usecase.MutationCoordinator
	mgr   *workspace.Manager
}

func newFixture(t *testing.T, initial []domain.Order) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockOrderStore(ctrl)
	cache := memory.NewOrderCollection(store)

	store.EXPECT().List(gomock.Any()).Return(initial, nil)
	if err := cache.Refresh(context.Background()); err != nil {
		t.Fatalf("initial refresh: %v", err)
	}

	coord := usecase.NewMutationCoordinator(store, cache, noopLogger{}, validate.NewOrderValidator())
	mgr := workspace.NewManager(cache, coord, noopLogger{})
	coord.Subscribe(mgr)
	return &fixture{store: store, cache: cache, coord: coord, mgr: mgr}
}

func TestManager_OpenGetClose(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	ws := f.mgr.Open(ctx, admin)
	if ws.ID() == "" {
		t.Fatal("session id must be assigned")
	}
	if ws.User().Password != "" {
		t.Fatal("password must not be kept in the workspace")
	}
	got, err := f.mgr.Get(ws.ID())
	if err != nil || got != ws {
		t.Fatalf("Get: %v", err)
	}

	if !f.mgr.Close(ctx, ws.ID()) {
		t.Fatal("Close must report an existing session")
	}
	if _, err := f.mgr.Get(ws.ID()); !errors.Is(err, workspace.ErrUnknownSession) {
		t.Fatalf("want ErrUnknownSession, got %v", err)
	}
	if err := ws.OpenNew(); !errors.Is(err, workspace.ErrWorkspaceClosed) {
		t.Fatalf("closed workspace must reject edits, got %v", err)
	}
	if f.mgr.Close(ctx, ws.ID()) {
		t.Fatal("second Close must return false")
	}
}

// Редактирование и отмена не обращаются к хранилищу
func TestWorkspace_EditThenCancel_NoRemoteCall(t *testing.T) {
	f := newFixture(t, []domain.Order{order(5, domain.EstadoPendiente)})
	ctx := context.Background()
	ws := f.mgr.Open(ctx, operator)

	if err := ws.OpenEdit(ctx, 5); err != nil {
		t.Fatalf("OpenEdit: %v", err)
	}
	if err := ws.SetField("nombre", "Otro"); err != nil {
		t.Fatalf("SetField: %v", err)
	}
	ws.CancelEdit()

	if st := ws.Edit().State; st != editsession.Closed {
		t.Fatalf("want closed session, got %s", st)
	}
	snap := f.cache.Snapshot(ctx)
	if snap[0].Nombre != "Cliente" {
		t.Fatalf("cancel must not touch the collection: %+v", snap[0])
	}
}

func TestWorkspace_OpenEdit_Unknown(t *testing.T) {
	f := newFixture(t, []domain.Order{order(5, domain.EstadoPendiente)})
	ws := f.mgr.Open(context.Background(), operator)

	err := ws.OpenEdit(context.Background(), 99)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
}

// Создание: запись -> перечитывание -> форма закрыта
func TestWorkspace_SubmitCreate_ClosesForm(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	ws := f.mgr.Open(ctx, operator)

	created := order(1, domain.EstadoPendiente)
	gomock.InOrder(
		f.store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(created, nil),
		f.store.EXPECT().List(gomock.Any()).Return([]domain.Order{created}, nil),
	)

	if err := ws.OpenNew(); err != nil {
		t.Fatalf("OpenNew: %v", err)
	}
	for name, value := range map[string]string{
		"nombre": "Cliente", "cantidad": "1", "descripcion": "Tarjetas",
		"estado": "Pendiente", "total": "100", "acuenta": "40",
	} {
		if err := ws.SetField(name, value); err != nil {
			t.Fatalf("SetField(%s): %v", name, err)
		}
	}

	res, err := ws.Submit(ctx)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !res.Applied || res.Order.ID != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if ws.Edit().State != editsession.Closed {
		t.Fatal("form must be closed after success")
	}
	if r := ws.Render(ctx); r.Page.Total != 1 {
		t.Fatalf("new order must be visible, total=%d", r.Page.Total)
	}
}

// Ошибка проверки: форма остаётся открытой с введёнными значениями
func TestWorkspace_SubmitInvalid_KeepsForm(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	ws := f.mgr.Open(ctx, operator)

	if err := ws.OpenNew(); err != nil {
		t.Fatalf("OpenNew: %v", err)
	}
	if err := ws.SetField("nombre", "Ana"); err != nil {
		t.Fatalf("SetField: %v", err)
	}

	if _, err := ws.Submit(ctx); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
	snap := ws.Edit()
	if snap.State != editsession.CreatingDraft || snap.Draft.Nombre != "Ana" {
		t.Fatalf("form must stay open with entered values: %+v", snap)
	}
}

func TestWorkspace_SubmitWithoutForm(t *testing.T) {
	f := newFixture(t, nil)
	ws := f.mgr.Open(context.Background(), operator)

	if _, err := ws.Submit(context.Background()); !errors.Is(err, editsession.ErrSessionClosed) {
		t.Fatalf("want ErrSessionClosed, got %v", err)
	}
}

// blockingMutator — запись ждёт сигнала, чтобы форму успели переоткрыть.
type blockingMutator struct {
	started chan struct{}
	release chan struct{}
}

func (m *blockingMutator) SubmitCreate(context.Context, domain.Draft) (domain.Order, error) {
	close(m.started)
	<-m.release
	return domain.Order{ID: 7}, nil
}

func (m *blockingMutator) SubmitUpdate(context.Context, int64, domain.Draft) (domain.Order, error) {
	return domain.Order{}, errors.New("unexpected update")
}

func (m *blockingMutator) SubmitDelete(context.Context, int64) error {
	return errors.New("unexpected delete")
}

// Ответ для уже закрытой и заново открытой формы не закрывает новую
func TestWorkspace_StaleSubmission_Discarded(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockOrderCache(ctrl)
	cache.EXPECT().Snapshot(gomock.Any()).Return(nil).AnyTimes()

	mut := &blockingMutator{started: make(chan struct{}), release: make(chan struct{})}
	mgr := workspace.NewManager(cache, mut, noopLogger{})
	ctx := context.Background()
	ws := mgr.Open(ctx, operator)

	if err := ws.OpenNew(); err != nil {
		t.Fatalf("OpenNew: %v", err)
	}

	type out struct {
		res workspace.SubmitResult
		err error
	}
	done := make(chan out, 1)
	go func() {
		res, err := ws.Submit(ctx)
		done <- out{res, err}
	}()

	<-mut.started
	ws.CancelEdit()
	if err := ws.OpenNew(); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if err := ws.SetField("nombre", "Nuevo"); err != nil {
		t.Fatalf("SetField: %v", err)
	}
	close(mut.release)

	var got out
	select {
	case got = <-done:
	case <-time.After(time.Second):
		t.Fatal("submit did not return")
	}
	if got.err != nil || got.res.Applied {
		t.Fatalf("stale submission must be discarded: %+v %v", got.res, got.err)
	}
	snap := ws.Edit()
	if snap.State != editsession.CreatingDraft || snap.Draft.Nombre != "Nuevo" {
		t.Fatalf("reopened form must survive: %+v", snap)
	}
}

func TestWorkspace_Delete_AdminOnly(t *testing.T) {
	f := newFixture(t, []domain.Order{order(5, domain.EstadoPendiente)})
	ws := f.mgr.Open(context.Background(), operator)

	if err := ws.RequestDelete(context.Background(), 5); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("want forbidden, got %v", err)
	}
	if _, ok := ws.PendingDelete(); ok {
		t.Fatal("nothing must be pending")
	}
}

// Удаление в два шага; отмена не трогает хранилище
func TestWorkspace_Delete_ConfirmAndCancel(t *testing.T) {
	f := newFixture(t, []domain.Order{order(5, domain.EstadoPendiente), order(6, domain.EstadoPendiente)})
	ctx := context.Background()
	ws := f.mgr.Open(ctx, admin)

	if err := ws.CancelDelete(); !errors.Is(err, workspace.ErrNoPendingDelete) {
		t.Fatalf("want ErrNoPendingDelete, got %v", err)
	}
	if err := ws.RequestDelete(ctx, 99); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want not found, got %v", err)
	}

	if err := ws.RequestDelete(ctx, 5); err != nil {
		t.Fatalf("RequestDelete: %v", err)
	}
	if err := ws.CancelDelete(); err != nil {
		t.Fatalf("CancelDelete: %v", err)
	}

	if err := ws.RequestDelete(ctx, 6); err != nil {
		t.Fatalf("RequestDelete: %v", err)
	}
	gomock.InOrder(
		f.store.EXPECT().DeleteByID(gomock.Any(), int64(6)).Return(nil),
		f.store.EXPECT().List(gomock.Any()).Return([]domain.Order{order(5, domain.EstadoPendiente)}, nil),
	)
	id, err := ws.ConfirmDelete(ctx)
	if err != nil || id != 6 {
		t.Fatalf("ConfirmDelete: id=%d err=%v", id, err)
	}
	if _, ok := ws.PendingDelete(); ok {
		t.Fatal("pending delete must be cleared")
	}
	if _, err := ws.ConfirmDelete(ctx); !errors.Is(err, workspace.ErrNoPendingDelete) {
		t.Fatalf("want ErrNoPendingDelete, got %v", err)
	}
}

// Сбой хранилища при удалении: запрос остаётся ожидающим
func TestWorkspace_Delete_TransportFailureKeepsPending(t *testing.T) {
	f := newFixture(t, []domain.Order{order(5, domain.EstadoPendiente)})
	ctx := context.Background()
	ws := f.mgr.Open(ctx, admin)

	if err := ws.RequestDelete(ctx, 5); err != nil {
		t.Fatalf("RequestDelete: %v", err)
	}
	f.store.EXPECT().DeleteByID(gomock.Any(), int64(5)).
		Return(&domain.TransportError{Op: "delete", Resource: "servicios", StatusCode: 500, Err: errors.New("boom")})

	if _, err := ws.ConfirmDelete(ctx); !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("want transport error, got %v", err)
	}
	if id, ok := ws.PendingDelete(); !ok || id != 5 {
		t.Fatalf("pending delete must survive a failure: %d %v", id, ok)
	}
}

// После удаления чужим пользователем страница каждого вида корректируется
func TestManager_OnInvalidate_ClampsViews(t *testing.T) {
	initial := make([]domain.Order, 0, 8)
	for i := int64(1); i <= 8; i++ {
		initial = append(initial, order(i, domain.EstadoPendiente))
	}
	f := newFixture(t, initial)
	ctx := context.Background()

	viewer := f.mgr.Open(ctx, operator)
	viewer.View().GoTo(2)
	if viewer.View().CurrentPage() != 2 {
		t.Fatalf("want page 2, got %d", viewer.View().CurrentPage())
	}

	deleter := f.mgr.Open(ctx, admin)
	if err := deleter.RequestDelete(ctx, 8); err != nil {
		t.Fatalf("RequestDelete: %v", err)
	}
	gomock.InOrder(
		f.store.EXPECT().DeleteByID(gomock.Any(), int64(8)).Return(nil),
		f.store.EXPECT().List(gomock.Any()).Return(initial[:7], nil),
	)
	if _, err := deleter.ConfirmDelete(ctx); err != nil {
		t.Fatalf("ConfirmDelete: %v", err)
	}

	if got := viewer.View().CurrentPage(); got != 1 {
		t.Fatalf("viewer page must be clamped to 1, got %d", got)
	}
	f.mgr.OnInvalidate(ctx, ports.InvalidationEvent{Op: ports.OpDelete, OrderID: 8})
	if f.mgr.Len() != 2 {
		t.Fatalf("want 2 workspaces, got %d", f.mgr.Len())
	}
}
