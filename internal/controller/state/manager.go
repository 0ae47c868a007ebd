package state

import (
	"sync"
	"time"
)

// DefaultTTL через сколько брошенный диалог считается устаревшим
const DefaultTTL = 30 * time.Minute

// Manager хранит состояния диалогов по telegramID.
// Диалог, не обновлявшийся дольше ttl, читается как StateNone.
type Manager struct {
	mu     sync.RWMutex
	states map[int64]*UserData
	ttl    time.Duration
	now    func() time.Time
}

// NewManager создаёт менеджер состояний
func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		states: make(map[int64]*UserData),
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock подменяет часы (для тестов)
func (sm *Manager) WithClock(now func() time.Time) *Manager {
	sm.now = now
	return sm
}

// live возвращает данные пользователя, если диалог не устарел. Вызывать под mu.
func (sm *Manager) live(telegramID int64) (*UserData, bool) {
	userData, exists := sm.states[telegramID]
	if !exists {
		return nil, false
	}
	if sm.now().Sub(userData.UpdatedAt) > sm.ttl {
		return nil, false
	}
	return userData, true
}

// GetState получает текущее состояние пользователя
func (sm *Manager) GetState(telegramID int64) UserState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, ok := sm.live(telegramID); ok {
		return userData.State
	}
	return StateNone
}

// Begin начинает новый диалог, стирая данные предыдущего
func (sm *Manager) Begin(telegramID int64, state UserState, data map[string]any) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if state == StateNone {
		delete(sm.states, telegramID)
		return
	}

	copied := make(map[string]any, len(data))
	for k, v := range data {
		copied[k] = v
	}
	sm.states[telegramID] = &UserData{
		State:     state,
		Data:      copied,
		UpdatedAt: sm.now(),
	}
}

// GetData получает временные данные активного диалога
func (sm *Manager) GetData(telegramID int64, key string) (any, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, ok := sm.live(telegramID); ok {
		value, ok := userData.Data[key]
		return value, ok
	}
	return nil, false
}

// GetString то же, что GetData, но только для строковых значений
func (sm *Manager) GetString(telegramID int64, key string) (string, bool) {
	value, ok := sm.GetData(telegramID, key)
	if !ok {
		return "", false
	}
	s, ok := value.(string)
	return s, ok
}

// ClearState очищает состояние и данные пользователя
func (sm *Manager) ClearState(telegramID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.states, telegramID)
}

// Sweep удаляет устаревшие диалоги и возвращает их количество
func (sm *Manager) Sweep() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	removed := 0
	for id := range sm.states {
		if _, ok := sm.live(id); !ok {
			delete(sm.states, id)
			removed++
		}
	}
	return removed
}
