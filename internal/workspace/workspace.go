// Package workspace — состояние одного вошедшего пользователя консоли:
// вид списка, форма редактирования и ожидающее подтверждения удаление.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Gunvolt24/printshop_console/internal/auth"
	"github.com/Gunvolt24/printshop_console/internal/domain"
	"github.com/Gunvolt24/printshop_console/internal/editsession"
	"github.com/Gunvolt24/printshop_console/internal/listing"
	"github.com/Gunvolt24/printshop_console/internal/ports"
)

var (
	// ErrNoPendingDelete — подтверждать или отменять нечего.
	ErrNoPendingDelete = errors.New("no pending delete")
	// ErrWorkspaceClosed — пользователь вышел.
	ErrWorkspaceClosed = errors.New("workspace closed")
)

// Mutator — отправка изменений (реализует usecase.MutationCoordinator).
type Mutator interface {
	SubmitCreate(ctx context.Context, draft domain.Draft) (domain.Order, error)
	SubmitUpdate(ctx context.Context, id int64, draft domain.Draft) (domain.Order, error)
	SubmitDelete(ctx context.Context, id int64) error
}

// SubmitResult — итог отправки формы. Applied=false: пока шёл запрос, форму закрыли
// или открыли заново (или пользователь вышел), и результат к ней не применён.
type SubmitResult struct {
	Order   domain.Order
	Applied bool
}

// Workspace — рабочее место одного пользователя.
type Workspace struct {
	id        string
	user      domain.Credential
	createdAt time.Time

	cache ports.OrderCache
	mut   Mutator

	view *listing.View
	edit *editsession.Session

	mu            sync.Mutex
	pendingDelete int64
	hasPending    bool
	closed        bool
}

func newWorkspace(id string, user domain.Credential, cache ports.OrderCache, mut Mutator) *Workspace {
	return &Workspace{
		id:        id,
		user:      user,
		createdAt: time.Now(),
		cache:     cache,
		mut:       mut,
		view:      listing.NewView(),
		edit:      editsession.New(),
	}
}

func (w *Workspace) ID() string                 { return w.id }
func (w *Workspace) User() domain.Credential    { return w.user }
func (w *Workspace) View() *listing.View        { return w.view }
func (w *Workspace) Edit() editsession.Snapshot { return w.edit.Current() }

// Render — текущая страница по снимку кэша.
func (w *Workspace) Render(ctx context.Context) listing.Rendered {
	return w.view.Render(w.cache.Snapshot(ctx))
}

func (w *Workspace) OpenNew() error {
	if err := w.alive(); err != nil {
		return err
	}
	_, err := w.edit.OpenNew()
	return err
}

// OpenEdit — форма по заказу из текущего снимка; без обращения к хранилищу.
func (w *Workspace) OpenEdit(ctx context.Context, id int64) error {
	if err := w.alive(); err != nil {
		return err
	}
	order, ok := w.cache.FindByID(ctx, id)
	if !ok {
		return &domain.NotFoundError{ID: id}
	}
	_, err := w.edit.OpenEdit(order)
	return err
}

func (w *Workspace) SetField(name, value string) error {
	if err := w.alive(); err != nil {
		return err
	}
	return w.edit.SetField(name, value)
}

func (w *Workspace) CancelEdit() { w.edit.Cancel() }

// Submit — отправить форму. Ошибка оставляет форму открытой с введёнными значениями.
func (w *Workspace) Submit(ctx context.Context) (SubmitResult, error) {
	if err := w.alive(); err != nil {
		return SubmitResult{}, err
	}
	snap := w.edit.Current()

	var (
		order domain.Order
		err   error
	)
	switch snap.State {
	case editsession.CreatingDraft:
		order, err = w.mut.SubmitCreate(ctx, snap.Draft)
	case editsession.EditingDraft:
		order, err = w.mut.SubmitUpdate(ctx, snap.TargetID, snap.Draft)
	default:
		return SubmitResult{}, editsession.ErrSessionClosed
	}
	if err != nil {
		return SubmitResult{}, err
	}

	if w.alive() != nil {
		return SubmitResult{Order: order}, nil
	}
	applied := w.edit.Close(snap.Generation)
	if applied {
		w.view.Clamp(w.cache.Snapshot(ctx))
	}
	return SubmitResult{Order: order, Applied: applied}, nil
}

// RequestDelete — первый шаг удаления (только администратор).
func (w *Workspace) RequestDelete(ctx context.Context, id int64) error {
	if err := w.alive(); err != nil {
		return err
	}
	if !auth.CanDelete(&w.user) {
		return fmt.Errorf("%w: delete requires %s", domain.ErrForbidden, domain.RoleAdmin)
	}
	if _, ok := w.cache.FindByID(ctx, id); !ok {
		return &domain.NotFoundError{ID: id}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.pendingDelete = id
	w.hasPending = true
	return nil
}

// PendingDelete — id, ожидающий подтверждения.
func (w *Workspace) PendingDelete() (int64, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pendingDelete, w.hasPending
}

// ConfirmDelete — второй шаг. При ошибке запрос остаётся ожидающим, его можно повторить.
func (w *Workspace) ConfirmDelete(ctx context.Context) (int64, error) {
	if err := w.alive(); err != nil {
		return 0, err
	}
	id, ok := w.PendingDelete()
	if !ok {
		return 0, ErrNoPendingDelete
	}
	if !auth.CanDelete(&w.user) {
		return 0, domain.ErrForbidden
	}

	if err := w.mut.SubmitDelete(ctx, id); err != nil {
		return id, err
	}

	w.mu.Lock()
	if w.hasPending && w.pendingDelete == id {
		w.hasPending = false
		w.pendingDelete = 0
	}
	w.mu.Unlock()

	w.view.Clamp(w.cache.Snapshot(ctx))
	return id, nil
}

func (w *Workspace) CancelDelete() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.hasPending {
		return ErrNoPendingDelete
	}
	w.hasPending = false
	w.pendingDelete = 0
	return nil
}

func (w *Workspace) close() {
	w.mu.Lock()
	w.closed = true
	w.hasPending = false
	w.mu.Unlock()
	w.edit.Cancel()
}

func (w *Workspace) alive() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWorkspaceClosed
	}
	return nil
}
