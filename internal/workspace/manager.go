package workspace

import (
	"context"
	"errors"
	"sync"

	"github.com/Gunvolt24/printshop_console/internal/domain"
	"github.com/Gunvolt24/printshop_console/internal/ports"
	"github.com/google/uuid"
)

// ErrUnknownSession — нет рабочего места с таким идентификатором сессии.
var ErrUnknownSession = errors.New("unknown console session")

// Manager — рабочие места по идентификатору консольной сессии.
type Manager struct {
	cache ports.OrderCache
	mut   Mutator
	log   ports.Logger

	mu     sync.RWMutex
	spaces map[string]*Workspace

	newID func() string
}

var _ ports.InvalidationSubscriber = (*Manager)(nil)

func NewManager(cache ports.OrderCache, mut Mutator, log ports.Logger) *Manager {
	return &Manager{
		cache:  cache,
		mut:    mut,
		log:    log,
		spaces: make(map[string]*Workspace),
		newID:  uuid.NewString,
	}
}

// Open — новое рабочее место для вошедшего пользователя. Пароль в нём не хранится.
func (m *Manager) Open(ctx context.Context, user domain.Credential) *Workspace {
	user.Password = ""
	ws := newWorkspace(m.newID(), user, m.cache, m.mut)

	m.mu.Lock()
	m.spaces[ws.id] = ws
	m.mu.Unlock()

	m.log.Infof(ctx, "workspace opened session=%s usuario=%s", ws.id, user.Usuario)
	return ws
}

func (m *Manager) Get(id string) (*Workspace, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ws, ok := m.spaces[id]
	if !ok {
		return nil, ErrUnknownSession
	}
	return ws, nil
}

// Restore — рабочее место под известным id (после перезапуска, из сохранённого состояния).
func (m *Manager) Restore(ctx context.Context, id string, user domain.Credential) *Workspace {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ws, ok := m.spaces[id]; ok {
		return ws
	}
	user.Password = ""
	ws := newWorkspace(id, user, m.cache, m.mut)
	m.spaces[id] = ws
	m.log.Infof(ctx, "workspace restored session=%s usuario=%s", id, user.Usuario)
	return ws
}

// Close — выход: незавершённые отправки этого места больше ничего не применяют.
func (m *Manager) Close(ctx context.Context, id string) bool {
	m.mu.Lock()
	ws, ok := m.spaces[id]
	delete(m.spaces, id)
	m.mu.Unlock()

	if !ok {
		return false
	}
	ws.close()
	m.log.Infof(ctx, "workspace closed session=%s", id)
	return true
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.spaces)
}

// OnInvalidate — после записи коллекция могла уменьшиться: страницы всех видов корректируются.
func (m *Manager) OnInvalidate(ctx context.Context, ev ports.InvalidationEvent) {
	snapshot := m.cache.Snapshot(ctx)

	m.mu.RLock()
	spaces := make([]*Workspace, 0, len(m.spaces))
	for _, ws := range m.spaces {
		spaces = append(spaces, ws)
	}
	m.mu.RUnlock()

	for _, ws := range spaces {
		ws.view.Clamp(snapshot)
	}
	m.log.Infof(ctx, "invalidation op=%s id=%d workspaces=%d", ev.Op, ev.OrderID, len(spaces))
}
