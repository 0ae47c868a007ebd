// Package matching отбирает профили кандидатов для пользователя.
//
// Оба фильтра не различают регистр:
//   - поиск: строка входит в имя, курс или любой предмет кандидата;
//   - совпадение: хотя бы один предмет кандидата равен предмету пользователя.
//
// Порядок пула сохраняется. Строку поиска проверяет вызывающий код.
package matching

import (
	"strings"

	"github.com/Freeeeeet/tutor_match/internal/model"
)

// Query параметры одного отбора
type Query struct {
	CallerSubjects []string
	SearchTerm     string
	MatchOnly      bool
}

// Filter возвращает кандидатов, прошедших оба фильтра, в порядке пула
func Filter(q Query, candidates []*model.User) []*model.User {
	term := strings.ToLower(strings.TrimSpace(q.SearchTerm))
	gate := q.MatchOnly && len(q.CallerSubjects) > 0

	var wanted map[string]struct{}
	if gate {
		wanted = subjectSet(q.CallerSubjects)
	}

	result := make([]*model.User, 0, len(candidates))
	for _, c := range candidates {
		if c == nil {
			continue
		}
		if !matchesSearch(c, term) {
			continue
		}
		if gate && !sharesSubject(c.Subjects(), wanted) {
			continue
		}
		result = append(result, c)
	}

	return result
}

// term уже в нижнем регистре
func matchesSearch(c *model.User, term string) bool {
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(c.Name), term) {
		return true
	}
	if strings.Contains(strings.ToLower(c.Course), term) {
		return true
	}
	for _, s := range c.Subjects() {
		if strings.Contains(strings.ToLower(s), term) {
			return true
		}
	}
	return false
}

func sharesSubject(subjects []string, wanted map[string]struct{}) bool {
	for _, s := range subjects {
		if _, ok := wanted[normalize(s)]; ok {
			return true
		}
	}
	return false
}

func subjectSet(subjects []string) map[string]struct{} {
	set := make(map[string]struct{}, len(subjects))
	for _, s := range subjects {
		if n := normalize(s); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Overlap возвращает общие предметы в порядке пользователя.
// Показывается рядом с рекомендованным кандидатом.
func Overlap(callerSubjects, candidateSubjects []string) []string {
	have := subjectSet(candidateSubjects)
	out := make([]string, 0)
	seen := make(map[string]bool)
	for _, s := range callerSubjects {
		n := normalize(s)
		if _, ok := have[n]; ok && !seen[n] {
			seen[n] = true
			out = append(out, s)
		}
	}
	return out
}
