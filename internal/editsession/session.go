// Package editsession — единственная форма создания/редактирования заказа.
// Черновик независим от кэша: правки не видны в списке до успешной отправки.
package editsession

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Gunvolt24/printshop_console/internal/domain"
)

// State — режим формы.
type State int

const (
	Closed State = iota
	CreatingDraft
	EditingDraft
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case CreatingDraft:
		return "creating"
	case EditingDraft:
		return "editing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	// ErrSessionOpen — форма уже открыта; сначала Cancel или успешная отправка.
	ErrSessionOpen = errors.New("edit session already open")
	// ErrSessionClosed — операция требует открытой формы.
	ErrSessionClosed = errors.New("edit session is closed")
	// ErrUnknownField — в черновике нет такого поля.
	ErrUnknownField = errors.New("unknown draft field")
)

// Snapshot — копия состояния формы.
type Snapshot struct {
	State      State
	TargetID   int64 // только для EditingDraft
	Draft      domain.Draft
	Generation uint64
}

// Session — Closed -> CreatingDraft | EditingDraft(id) -> Closed.
// Generation растёт при каждом открытии и закрытии: результат отправки,
// начатой в другом поколении, применять нельзя.
type Session struct {
	mu       sync.Mutex
	state    State
	targetID int64
	draft    domain.Draft
	gen      uint64
}

func New() *Session { return &Session{} }

// OpenNew — пустая форма создания.
func (s *Session) OpenNew() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Closed {
		return s.gen, ErrSessionOpen
	}
	s.state = CreatingDraft
	s.targetID = 0
	s.draft = domain.Draft{}
	s.gen++
	return s.gen, nil
}

// OpenEdit — форма редактирования, заполненная значениями заказа.
func (s *Session) OpenEdit(order domain.Order) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Closed {
		return s.gen, ErrSessionOpen
	}
	s.state = EditingDraft
	s.targetID = order.ID
	s.draft = domain.DraftFromOrder(&order)
	s.gen++
	return s.gen, nil
}

// SetField — изменить поле черновика по имени.
func (s *Session) SetField(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Closed {
		return ErrSessionClosed
	}
	if !s.draft.Set(name, value) {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	return nil
}

// Cancel — закрыть без отправки; черновик отбрасывается. На закрытой форме ничего не делает.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
}

// Close — закрыть после успешной отправки, если форма всё ещё в поколении gen.
// false: форму уже закрыли или открыли заново, результат применять не нужно.
func (s *Session) Close(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Closed || s.gen != gen {
		return false
	}
	s.closeLocked()
	return true
}

// Current — копия текущего состояния.
func (s *Session) Current() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{State: s.state, TargetID: s.targetID, Draft: s.draft, Generation: s.gen}
}

// IsCurrent — форма открыта и относится к поколению gen.
func (s *Session) IsCurrent(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state != Closed && s.gen == gen
}

func (s *Session) closeLocked() {
	if s.state == Closed {
		return
	}
	s.state = Closed
	s.targetID = 0
	s.draft = domain.Draft{}
	s.gen++
}
