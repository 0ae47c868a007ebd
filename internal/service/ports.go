package service

import (
	"context"

	"github.com/Freeeeeet/tutor_match/internal/model"
)

// IdentityResolver определяет пользователя по учётным данным.
// Неизвестные или неверные данные дают apperr.ErrUnauthenticated.
type IdentityResolver interface {
	Resolve(ctx context.Context, credential string) (model.Identity, error)
}

// ProfileStore чтение профилей. Отсутствующий профиль даёт apperr.ErrNotFound.
type ProfileStore interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
	ListByRole(ctx context.Context, role model.Role) ([]*model.User, error)
}

// BookingStore хранилище записей.
//
// CompareAndSwap применяет patch и статус, только если у записи всё ещё статус
// expected, иначе возвращает apperr.ErrConflict и ничего не пишет.
// Отсутствующая запись даёт apperr.ErrNotFound.
//
// SoftDelete скрывает запись только у userID: ListByParty этой стороны её
// больше не отдаёт, у второй стороны запись остаётся. GetByID отдаёт запись
// с отметками скрытия, фильтрует сервис.
type BookingStore interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	CompareAndSwap(ctx context.Context, id string, expected, next model.BookingStatus, patch model.BookingPatch) (*model.Booking, error)
	ListByParty(ctx context.Context, userID string) ([]*model.Booking, error)
	SoftDelete(ctx context.Context, id, userID string) error
}

// BookmarkStore закладки студентов на репетиторов
type BookmarkStore interface {
	Toggle(ctx context.Context, studentID, tutorID string) (bool, error)
	ListForStudent(ctx context.Context, studentID string) ([]string, error)
}
