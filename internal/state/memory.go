// Package state — хранение клиентского состояния консольной сессии:
// запись пользователя (без пароля) и выбранная тема.
package state

import (
	"context"
	"sync"

	"github.com/Gunvolt24/printshop_console/internal/domain"
	"github.com/Gunvolt24/printshop_console/internal/ports"
)

type sessionState struct {
	user    *domain.Credential
	theme   domain.Theme
	hasUser bool
}

// MemoryStore — состояние в памяти процесса; теряется при перезапуске.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionState
}

var _ ports.StateStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*sessionState)}
}

func (m *MemoryStore) SaveUser(_ context.Context, sessionID string, user domain.Credential) error {
	user.Password = ""
	user.Formatos = append([]string(nil), user.Formatos...)

	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.get(sessionID)
	st.user = &user
	st.hasUser = true
	return nil
}

func (m *MemoryStore) LoadUser(_ context.Context, sessionID string) (domain.Credential, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.sessions[sessionID]
	if !ok || !st.hasUser {
		return domain.Credential{}, false, nil
	}
	out := *st.user
	out.Formatos = append([]string(nil), st.user.Formatos...)
	return out, true, nil
}

func (m *MemoryStore) SaveTheme(_ context.Context, sessionID string, theme domain.Theme) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.get(sessionID).theme = theme
	return nil
}

// LoadTheme — сохранённая тема или system по умолчанию.
func (m *MemoryStore) LoadTheme(_ context.Context, sessionID string) (domain.Theme, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if st, ok := m.sessions[sessionID]; ok && st.theme != "" {
		return st.theme, nil
	}
	return domain.ThemeSystem, nil
}

func (m *MemoryStore) Clear(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

func (m *MemoryStore) get(sessionID string) *sessionState {
	st, ok := m.sessions[sessionID]
	if !ok {
		st = &sessionState{}
		m.sessions[sessionID] = st
	}
	return st
}
