package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// bookingSelect подтягивает название предмета и имена участников одним запросом.
// LEFT JOIN: удалённый пользователь не должен прятать саму сессию.
const bookingSelect = `
	SELECT b.id, b.student_id, b.professor_id, b.subject_id, b.start_time, b.end_time,
	       b.modality, b.requested_at, b.confirmed_at, b.canceled_at,
	       COALESCE(s.title, ''),
	       COALESCE(TRIM(p.first_name || ' ' || p.last_name), ''),
	       COALESCE(TRIM(st.first_name || ' ' || st.last_name), '')
	FROM tutoring_sessions b
	LEFT JOIN subjects s ON s.id = b.subject_id
	LEFT JOIN users p ON p.id = b.professor_id
	LEFT JOIN users st ON st.id = b.student_id
`

type BookingRepository struct {
	*base.Repository
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт новую сессию. Пересечение, пойманное EXCLUDE-ограничением, возвращается как ErrOverlap.
func (r *BookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO tutoring_sessions (student_id, professor_id, subject_id, start_time, end_time, modality)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, requested_at
	`

	err := r.QueryRow(
		ctx, query,
		booking.StudentID,
		booking.ProfessorID,
		booking.SubjectID,
		booking.StartTime,
		booking.EndTime,
		string(booking.Modality),
	).Scan(&booking.ID, &booking.RequestedAt)

	if err != nil {
		if base.IsExclusionViolation(err) {
			return ErrOverlap
		}
		return fmt.Errorf("create booking: %w", err)
	}

	return nil
}

// GetByID получает сессию по ID вместе с именами участников
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	booking, err := scanBooking(r.QueryRow(ctx, bookingSelect+` WHERE b.id = $1`, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}

	return booking, nil
}

// List получает все сессии
func (r *BookingRepository) List(ctx context.Context) ([]*model.Booking, error) {
	return r.list(ctx, "get bookings", bookingSelect+` ORDER BY b.start_time`)
}

// ListByStudent получает все сессии студента
func (r *BookingRepository) ListByStudent(ctx context.Context, studentID int64) ([]*model.Booking, error) {
	return r.list(ctx, "get bookings by student",
		bookingSelect+` WHERE b.student_id = $1 ORDER BY b.start_time`, studentID)
}

// ListByProfessor получает все сессии преподавателя
func (r *BookingRepository) ListByProfessor(ctx context.Context, professorID int64) ([]*model.Booking, error) {
	return r.list(ctx, "get bookings by professor",
		bookingSelect+` WHERE b.professor_id = $1 ORDER BY b.start_time`, professorID)
}

// ListByUserRange получает сессии пользователя (как студента или преподавателя), целиком лежащие в [from, to]
func (r *BookingRepository) ListByUserRange(ctx context.Context, userID int64, from, to time.Time) ([]*model.Booking, error) {
	query := bookingSelect + `
		WHERE (b.student_id = $1 OR b.professor_id = $1)
		  AND b.start_time >= $2
		  AND b.end_time <= $3
		ORDER BY b.start_time
	`
	return r.list(ctx, "get bookings by user range", query, userID, from, to)
}

// HasOverlap проверяет пересечение с любой сессией преподавателя или студента (по любому предмету)
func (r *BookingRepository) HasOverlap(ctx context.Context, professorID, studentID int64, start, end time.Time) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM tutoring_sessions
			WHERE (professor_id = $1 OR student_id = $2)
			  AND start_time < $4
			  AND end_time > $3
		)
	`

	var exists bool
	if err := r.QueryRow(ctx, query, professorID, studentID, start, end).Scan(&exists); err != nil {
		return false, fmt.Errorf("check booking overlap: %w", err)
	}
	return exists, nil
}

// ListByProfessorSubjectBetween получает сессии пары, начинающиеся в [from, to)
func (r *BookingRepository) ListByProfessorSubjectBetween(ctx context.Context, professorID, subjectID int64, from, to time.Time) ([]*model.Booking, error) {
	query := bookingSelect + `
		WHERE b.professor_id = $1
		  AND b.subject_id = $2
		  AND b.start_time >= $3
		  AND b.start_time < $4
		ORDER BY b.start_time
	`
	return r.list(ctx, "get bookings by day", query, professorID, subjectID, from, to)
}

// CountByProfessorSubjectBetween считает сессии пары, начинающиеся в [from, to)
func (r *BookingRepository) CountByProfessorSubjectBetween(ctx context.Context, professorID, subjectID int64, from, to time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM tutoring_sessions
		WHERE professor_id = $1
		  AND subject_id = $2
		  AND start_time >= $3
		  AND start_time < $4
	`

	var count int
	if err := r.QueryRow(ctx, query, professorID, subjectID, from, to).Scan(&count); err != nil {
		return 0, fmt.Errorf("count bookings by day: %w", err)
	}
	return count, nil
}

// UpdateTimes переносит сессию. false - сессии нет.
func (r *BookingRepository) UpdateTimes(ctx context.Context, id int64, start, end time.Time) (bool, error) {
	query := `
		UPDATE tutoring_sessions
		SET start_time = $1, end_time = $2
		WHERE id = $3
	`

	affected, err := r.ExecAffected(ctx, query, start, end, id)
	if err != nil {
		if base.IsExclusionViolation(err) {
			return false, ErrOverlap
		}
		return false, fmt.Errorf("update booking times: %w", err)
	}

	return affected > 0, nil
}

// Delete удаляет сессию. false - удалять было нечего.
func (r *BookingRepository) Delete(ctx context.Context, id int64) (bool, error) {
	affected, err := r.ExecAffected(ctx, `DELETE FROM tutoring_sessions WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete booking: %w", err)
	}

	return affected > 0, nil
}

func (r *BookingRepository) list(ctx context.Context, op, query string, args ...any) ([]*model.Booking, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
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

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var booking model.Booking
	err := row.Scan(
		&booking.ID,
		&booking.StudentID,
		&booking.ProfessorID,
		&booking.SubjectID,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Modality,
		&booking.RequestedAt,
		&booking.ConfirmedAt,
		&booking.CanceledAt,
		&booking.SubjectTitle,
		&booking.ProfessorName,
		&booking.StudentName,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}
