package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/tutor_match/internal/apperr"
	"github.com/Freeeeeet/tutor_match/internal/model"
	"go.uber.org/zap"
)

// BookmarkService закладки студентов на репетиторов
type BookmarkService struct {
	bookmarks BookmarkStore
	profiles  ProfileStore
	logger    *zap.Logger
}

func NewBookmarkService(bookmarks BookmarkStore, profiles ProfileStore, logger *zap.Logger) *BookmarkService {
	return &BookmarkService{bookmarks: bookmarks, profiles: profiles, logger: logger}
}

// Toggle добавляет или убирает закладку, возвращает новое состояние
func (s *BookmarkService) Toggle(ctx context.Context, caller model.Identity, tutorID string) (bool, error) {
	if err := requireIdentity(caller); err != nil {
		return false, err
	}
	if !caller.IsStudent() {
		return false, apperr.Forbidden("only students can bookmark tutors")
	}

	tutor, err := s.profiles.GetByID(ctx, tutorID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return false, apperr.NotFound("tutor not found")
		}
		return false, fmt.Errorf("get tutor: %w", err)
	}
	if tutor.Role != model.RoleTutor {
		return false, apperr.NotFound("tutor not found")
	}

	bookmarked, err := s.bookmarks.Toggle(ctx, caller.UserID, tutor.ID)
	if err != nil {
		return false, fmt.Errorf("toggle bookmark: %w", err)
	}

	s.logger.Info("Bookmark toggled",
		zap.String("student_id", caller.UserID),
		zap.String("tutor_id", tutor.ID),
		zap.Bool("bookmarked", bookmarked),
	)
	return bookmarked, nil
}

// List возвращает профили из закладок. Удалённые профили пропускаются.
func (s *BookmarkService) List(ctx context.Context, caller model.Identity) ([]*model.User, error) {
	if err := requireIdentity(caller); err != nil {
		return nil, err
	}
	if !caller.IsStudent() {
		return nil, apperr.Forbidden("only students have bookmarks")
	}

	ids, err := s.bookmarks.ListForStudent(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}

	tutors := make([]*model.User, 0, len(ids))
	for _, id := range ids {
		tutor, err := s.profiles.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("get tutor: %w", err)
		}
		tutors = append(tutors, tutor)
	}
	return tutors, nil
}
