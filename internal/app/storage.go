package app

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutor_match/internal/config"
	"github.com/Freeeeeet/tutor_match/internal/repository"
	"github.com/Freeeeeet/tutor_match/internal/repository/memory"
	"github.com/Freeeeeet/tutor_match/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Storage собирает хранилища, выбранные конфигурацией.
type Storage struct {
	Profiles  service.ProfileStore
	Users     UserCreator
	Bookings  service.BookingStore
	Bookmarks service.BookmarkStore

	close func()
}

// Close освобождает соединения с базой.
func (s *Storage) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenStorage подключается к Postgres и применяет миграции, либо создаёт
// хранилище в памяти при STORAGE=memory.
func OpenStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Storage, error) {
	if cfg.Storage == config.StorageMemory {
		logger.Warn("Using in-memory storage, data is lost on restart")
		store := memory.New()
		return &Storage{
			Profiles:  store,
			Users:     store,
			Bookings:  store.Bookings(),
			Bookmarks: store,
		}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	logger.Info("Connected to database")

	migrator, err := NewMigrator(pool, cfg.MigrationsDir, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}
	defer migrator.Close()

	if err := migrator.Run(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	users := repository.NewUserRepository(pool)
	return &Storage{
		Profiles:  users,
		Users:     users,
		Bookings:  repository.NewBookingRepository(pool),
		Bookmarks: repository.NewBookmarkRepository(pool),
		close:     pool.Close,
	}, nil
}
