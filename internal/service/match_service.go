package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/tutor_match/internal/apperr"
	"github.com/Freeeeeet/tutor_match/internal/matching"
	"github.com/Freeeeeet/tutor_match/internal/model"
	"go.uber.org/zap"
)

// Candidate профиль кандидата и общие с пользователем предметы
type Candidate struct {
	*model.User
	MatchedSubjects []string `json:"matched_subjects"`
}

type CandidateQuery struct {
	SearchTerm string
	MatchOnly  bool
}

// MatchService подбирает репетиторов студентам и студентов репетиторам
type MatchService struct {
	profiles ProfileStore
	logger   *zap.Logger
}

func NewMatchService(profiles ProfileStore, logger *zap.Logger) *MatchService {
	return &MatchService{profiles: profiles, logger: logger}
}

// Candidates фильтрует профили противоположной роли по строке поиска и,
// при MatchOnly, по общим предметам. Порядок сохраняется.
func (s *MatchService) Candidates(ctx context.Context, caller model.Identity, q CandidateQuery) ([]Candidate, error) {
	if err := requireIdentity(caller); err != nil {
		return nil, err
	}

	me, err := s.profiles.GetByID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.NotFound("your profile was not found")
		}
		return nil, fmt.Errorf("get caller profile: %w", err)
	}

	pool, err := s.profiles.ListByRole(ctx, caller.Role.Opposite())
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	mySubjects := me.Subjects()
	filtered := matching.Filter(matching.Query{
		CallerSubjects: mySubjects,
		SearchTerm:     q.SearchTerm,
		MatchOnly:      q.MatchOnly,
	}, pool)

	s.logger.Debug("Candidates filtered",
		zap.String("user_id", caller.UserID),
		zap.Int("pool", len(pool)),
		zap.Int("result", len(filtered)),
		zap.Bool("match_only", q.MatchOnly),
	)

	out := make([]Candidate, 0, len(filtered))
	for _, u := range filtered {
		out = append(out, Candidate{
			User:            u,
			MatchedSubjects: matching.Overlap(mySubjects, u.Subjects()),
		})
	}
	return out, nil
}
