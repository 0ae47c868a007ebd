package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutor_match/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookmarkRepository struct {
	*base.Repository
}

func NewBookmarkRepository(pool *pgxpool.Pool) *BookmarkRepository {
	return &BookmarkRepository{Repository: base.NewRepository(pool)}
}

// Toggle добавляет или убирает закладку. Возвращает новое состояние.
func (r *BookmarkRepository) Toggle(ctx context.Context, studentID, tutorID string) (bool, error) {
	tx, err := r.Pool().BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`DELETE FROM bookmarks WHERE student_id = $1 AND tutor_id = $2`, studentID, tutorID,
	)
	if err != nil {
		return false, fmt.Errorf("delete bookmark: %w", base.Translate(err, "user not found"))
	}

	bookmarked := false
	if tag.RowsAffected() == 0 {
		_, err = tx.Exec(ctx, `
			INSERT INTO bookmarks (student_id, tutor_id)
			VALUES ($1, $2)
			ON CONFLICT (student_id, tutor_id) DO NOTHING
		`, studentID, tutorID)
		if err != nil {
			return false, fmt.Errorf("insert bookmark: %w", base.Translate(err, "user not found"))
		}
		bookmarked = true
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit transaction: %w", err)
	}
	return bookmarked, nil
}

// ListForStudent возвращает id репетиторов в порядке добавления
func (r *BookmarkRepository) ListForStudent(ctx context.Context, studentID string) ([]string, error) {
	rows, err := r.Query(ctx, `
		SELECT tutor_id::text
		FROM bookmarks
		WHERE student_id = $1
		ORDER BY created_at ASC, tutor_id ASC
	`, studentID)
	if err != nil {
		if base.IsMalformedID(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	defer rows.Close()

	tutorIDs, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan bookmarks: %w", err)
	}
	return tutorIDs, nil
}
