package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Freeeeeet/tutor_match/internal/apperr"
	"github.com/Freeeeeet/tutor_match/internal/model"
	"go.uber.org/zap"
)

// UserService читает профили и определяет пользователя Telegram
type UserService struct {
	profiles ProfileStore
	logger   *zap.Logger
}

func NewUserService(profiles ProfileStore, logger *zap.Logger) *UserService {
	return &UserService{
		profiles: profiles,
		logger:   logger,
	}
}

func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	return s.profiles.GetByID(ctx, id)
}

func (s *UserService) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	return s.profiles.GetByTelegramID(ctx, telegramID)
}

// IdentityForTelegram находит профиль, связанный с аккаунтом Telegram.
// Несвязанный аккаунт не аутентифицирован.
func (s *UserService) IdentityForTelegram(ctx context.Context, telegramID int64) (model.Identity, *model.User, error) {
	user, err := s.profiles.GetByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return model.Identity{}, nil, apperr.Unauthenticated("telegram account is not linked to a profile")
		}
		return model.Identity{}, nil, fmt.Errorf("get user by telegram id: %w", err)
	}
	return model.Identity{UserID: user.ID, Role: user.Role}, user, nil
}

// TelegramResolver IdentityResolver для бота. Учётные данные: Telegram ID в виде строки.
type TelegramResolver struct {
	users *UserService
}

func NewTelegramResolver(users *UserService) *TelegramResolver {
	return &TelegramResolver{users: users}
}

func (r *TelegramResolver) Resolve(ctx context.Context, credential string) (model.Identity, error) {
	telegramID, err := strconv.ParseInt(credential, 10, 64)
	if err != nil {
		return model.Identity{}, apperr.Unauthenticated("malformed telegram id")
	}
	id, _, err := r.users.IdentityForTelegram(ctx, telegramID)
	return id, err
}
