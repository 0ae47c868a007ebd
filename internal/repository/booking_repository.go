package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutor_match/internal/apperr"
	"github.com/Freeeeeet/tutor_match/internal/model"
	"github.com/Freeeeeet/tutor_match/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository struct {
	*base.Repository
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{Repository: base.NewRepository(pool)}
}

const bookingColumns = `id::text, student_id::text, tutor_id::text, date, duration_minutes, message, status,
	created_at, updated_at, student_hidden_at, tutor_hidden_at`

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var booking model.Booking
	err := row.Scan(
		&booking.ID,
		&booking.StudentID,
		&booking.TutorID,
		&booking.Date,
		&booking.DurationMinutes,
		&booking.Message,
		&booking.Status,
		&booking.CreatedAt,
		&booking.UpdatedAt,
		&booking.StudentHiddenAt,
		&booking.TutorHiddenAt,
	)
	if err != nil {
		return nil, err
	}
	if !booking.Status.Valid() {
		return nil, fmt.Errorf("booking %s has unknown status %q", booking.ID, booking.Status)
	}
	return &booking, nil
}

// Create сохраняет запись, ID задаёт вызывающий
func (r *BookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (id, student_id, tutor_id, date, duration_minutes, message, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		booking.ID,
		booking.StudentID,
		booking.TutorID,
		booking.Date,
		booking.DurationMinutes,
		booking.Message,
		booking.Status,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create booking: %w", base.Translate(err, "user not found"))
	}

	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get booking by id: %w", base.Translate(err, "booking not found"))
	}
	return booking, nil
}

// CompareAndSwap переводит запись из expected в next и применяет patch одним UPDATE.
// Из двух конкурирующих переходов строку найдёт только один.
func (r *BookingRepository) CompareAndSwap(
	ctx context.Context,
	id string,
	expected, next model.BookingStatus,
	patch model.BookingPatch,
) (*model.Booking, error) {
	query := `
		UPDATE bookings
		SET status = $3,
		    date = COALESCE($4, date),
		    duration_minutes = COALESCE($5, duration_minutes),
		    message = COALESCE($6, message),
		    updated_at = now()
		WHERE id = $1 AND status = $2
		RETURNING ` + bookingColumns

	booking, err := scanBooking(r.QueryRow(
		ctx, query,
		id,
		expected,
		next,
		patch.Date,
		patch.DurationMinutes,
		patch.Message,
	))
	if err == nil {
		return booking, nil
	}
	if !base.IsNotFound(err) {
		return nil, fmt.Errorf("update booking: %w", base.Translate(err, "booking not found"))
	}

	exists, err := r.exists(ctx, id)
	return nil, fmt.Errorf("update booking: %w", casMiss(exists, err))
}

// casMiss объясняет UPDATE без строк: записи нет или статус уже другой
func casMiss(exists bool, err error) error {
	switch {
	case err != nil:
		return err
	case !exists:
		return apperr.NotFound("booking not found")
	default:
		return apperr.Conflict("booking status changed")
	}
}

func (r *BookingRepository) exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM bookings WHERE id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check booking: %w", err)
	}
	return exists, nil
}

// ListByParty возвращает записи пользователя, кроме скрытых им самим, новые первыми
func (r *BookingRepository) ListByParty(ctx context.Context, userID string) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE (student_id = $1 AND student_hidden_at IS NULL)
		   OR (tutor_id = $1 AND tutor_hidden_at IS NULL)
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.Query(ctx, query, userID)
	if err != nil {
		if base.IsMalformedID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list bookings by party: %w", err)
	}
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

// SoftDelete скрывает запись у userID, у второй стороны она остаётся
func (r *BookingRepository) SoftDelete(ctx context.Context, id, userID string) error {
	query := `
		UPDATE bookings
		SET student_hidden_at = CASE WHEN student_id = $2 THEN now() ELSE student_hidden_at END,
		    tutor_hidden_at = CASE WHEN tutor_id = $2 THEN now() ELSE tutor_hidden_at END,
		    updated_at = now()
		WHERE id = $1
		  AND ((student_id = $2 AND student_hidden_at IS NULL) OR (tutor_id = $2 AND tutor_hidden_at IS NULL))
	`

	affected, err := r.ExecAffected(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("hide booking: %w", base.Translate(err, "booking not found"))
	}
	if affected == 0 {
		return fmt.Errorf("hide booking: %w", apperr.NotFound("booking not found"))
	}
	return nil
}
