package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Freeeeeet/tutor_match/internal/apperr"
	"github.com/Freeeeeet/tutor_match/internal/model"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// UserCreator хранилище профилей с записью
type UserCreator interface {
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
}

type seedFile struct {
	Users []seedUser `yaml:"users"`
}

type seedUser struct {
	TelegramID int64    `yaml:"telegram_id"`
	Role       string   `yaml:"role"`
	Name       string   `yaml:"name"`
	Course     string   `yaml:"course"`
	Year       int      `yaml:"year"`
	Bio        string   `yaml:"bio"`
	Skills     []string `yaml:"skills"`
	HelpNeeded []string `yaml:"help_needed"`
}

// SeedUsers создаёт профили из YAML-файла. Профили связаны с Telegram,
// уже существующие telegram_id пропускаются, поэтому повторный запуск безопасен.
func SeedUsers(ctx context.Context, path string, store UserCreator, logger *zap.Logger) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read seed file: %w", err)
	}

	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return 0, fmt.Errorf("decode seed file: %w", err)
	}

	created := 0
	for i, su := range file.Users {
		user, err := su.toUser()
		if err != nil {
			return created, fmt.Errorf("seed user %d: %w", i, err)
		}

		existing, err := store.GetByTelegramID(ctx, *user.TelegramID)
		if err == nil {
			logger.Debug("Seed user already exists",
				zap.Int64("telegram_id", su.TelegramID),
				zap.String("user_id", existing.ID))
			continue
		}
		if !errors.Is(err, apperr.ErrNotFound) {
			return created, fmt.Errorf("look up seed user %d: %w", i, err)
		}

		if err := store.Create(ctx, user); err != nil {
			return created, fmt.Errorf("create seed user %d: %w", i, err)
		}
		created++

		logger.Info("Seeded user",
			zap.String("user_id", user.ID),
			zap.String("role", string(user.Role)),
			zap.Int64("telegram_id", su.TelegramID))
	}

	return created, nil
}

func (su seedUser) toUser() (*model.User, error) {
	if su.TelegramID == 0 {
		return nil, fmt.Errorf("telegram_id is required")
	}
	if su.Name == "" {
		return nil, fmt.Errorf("name is required")
	}

	role := model.Role(su.Role)
	if role != model.RoleStudent && role != model.RoleTutor {
		return nil, fmt.Errorf("unknown role %q", su.Role)
	}

	tid := su.TelegramID
	return &model.User{
		TelegramID: &tid,
		Role:       role,
		Name:       su.Name,
		Course:     su.Course,
		Year:       su.Year,
		Bio:        su.Bio,
		Skills:     su.Skills,
		HelpNeeded: su.HelpNeeded,
	}, nil
}
