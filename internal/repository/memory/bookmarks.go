package memory

import (
	"context"
	"sort"
)

// Toggle добавляет или убирает закладку. Возвращает новое состояние.
func (s *Store) Toggle(_ context.Context, studentID, tutorID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.bookmarks[studentID]
	if !ok {
		set = make(map[string]uint64)
		s.bookmarks[studentID] = set
	}
	if _, exists := set[tutorID]; exists {
		delete(set, tutorID)
		return false, nil
	}
	set[tutorID] = s.nextSeq()
	return true, nil
}

// ListForStudent возвращает id репетиторов в порядке добавления
func (s *Store) ListForStudent(_ context.Context, studentID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := s.bookmarks[studentID]
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		return set[out[i]] < set[out[j]]
	})
	return out, nil
}
