// Package memory хранилища профилей, записей и закладок в памяти.
// Используются при STORAGE=memory и в тестах.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Freeeeeet/tutor_match/internal/apperr"
	"github.com/Freeeeeet/tutor_match/internal/model"
	"github.com/google/uuid"
)

// Store хранит всё под одним RWMutex, поэтому CompareAndSwap атомарен.
type Store struct {
	mu        sync.RWMutex
	users     map[string]*model.User
	userOrder []string
	bookings  map[string]*model.Booking
	bookmarks map[string]map[string]uint64 // studentID -> tutorID -> seq
	seq       map[string]uint64            // booking id -> insertion order
	next      uint64
	now       func() time.Time
}

func New() *Store {
	return &Store{
		users:     make(map[string]*model.User),
		bookings:  make(map[string]*model.Booking),
		bookmarks: make(map[string]map[string]uint64),
		seq:       make(map[string]uint64),
		now:       time.Now,
	}
}

// PutUser добавляет или заменяет профиль. Порядок вставки = порядок ListByRole.
func (s *Store) PutUser(u *model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[u.ID]; !exists {
		s.userOrder = append(s.userOrder, u.ID)
	}
	cp := cloneUser(u)
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = s.now()
	}
	s.users[u.ID] = cp
}

// Create добавляет профиль как Postgres репозиторий: назначает ID и CreatedAt,
// занятый Telegram ID даёт конфликт.
func (s *Store) Create(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.TelegramID != nil {
		for _, existing := range s.users {
			if existing.TelegramID != nil && *existing.TelegramID == *u.TelegramID {
				return apperr.Conflict("telegram account already linked")
			}
		}
	}

	u.ID = uuid.NewString()
	u.CreatedAt = s.now()
	s.userOrder = append(s.userOrder, u.ID)
	s.users[u.ID] = cloneUser(u)
	return nil
}

func (s *Store) GetByID(_ context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return cloneUser(u), nil
}

func (s *Store) GetByTelegramID(_ context.Context, telegramID int64) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.userOrder {
		u := s.users[id]
		if u.TelegramID != nil && *u.TelegramID == telegramID {
			return cloneUser(u), nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func (s *Store) ListByRole(_ context.Context, role model.Role) ([]*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*model.User
	for _, id := range s.userOrder {
		if u := s.users[id]; u.Role == role {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

// WithClock подменяет часы для CreatedAt/UpdatedAt
func (s *Store) WithClock(now func() time.Time) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	return s
}

// вызывать под mu
func (s *Store) nextSeq() uint64 {
	s.next++
	return s.next
}

func cloneUser(u *model.User) *model.User {
	cp := *u
	cp.Skills = append([]string(nil), u.Skills...)
	cp.HelpNeeded = append([]string(nil), u.HelpNeeded...)
	if u.TelegramID != nil {
		tid := *u.TelegramID
		cp.TelegramID = &tid
	}
	return &cp
}
