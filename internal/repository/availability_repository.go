package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const availabilityColumns = `id, professor_id, subject_id, weekday, start_time, end_time`

// AvailabilityRepository управляет еженедельными окнами доступности в базе данных
type AvailabilityRepository struct {
	*base.Repository
	logger *zap.Logger
}

// NewAvailabilityRepository создаёт новый репозиторий
func NewAvailabilityRepository(pool *pgxpool.Pool, logger *zap.Logger) *AvailabilityRepository {
	return &AvailabilityRepository{
		Repository: base.NewRepository(pool),
		logger:     logger,
	}
}

// Create создаёт новое окно доступности
func (r *AvailabilityRepository) Create(ctx context.Context, w *model.AvailabilityWindow) error {
	query := `
		INSERT INTO availability_windows (professor_id, subject_id, weekday, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.QueryRow(
		ctx,
		query,
		w.ProfessorID,
		w.SubjectID,
		string(w.Weekday),
		toPgTime(w.StartTime),
		toPgTime(w.EndTime),
	).Scan(&w.ID)

	if err != nil {
		return fmt.Errorf("create availability window: %w", err)
	}

	return nil
}

// Update перезаписывает окно целиком. false - окна с таким ID нет.
func (r *AvailabilityRepository) Update(ctx context.Context, w *model.AvailabilityWindow) (bool, error) {
	query := `
		UPDATE availability_windows
		SET professor_id = $1, subject_id = $2, weekday = $3, start_time = $4, end_time = $5
		WHERE id = $6
	`

	affected, err := r.ExecAffected(
		ctx,
		query,
		w.ProfessorID,
		w.SubjectID,
		string(w.Weekday),
		toPgTime(w.StartTime),
		toPgTime(w.EndTime),
		w.ID,
	)
	if err != nil {
		return false, fmt.Errorf("update availability window: %w", err)
	}

	return affected > 0, nil
}

// Delete удаляет окно. false - окна с таким ID нет.
func (r *AvailabilityRepository) Delete(ctx context.Context, id int64) (bool, error) {
	affected, err := r.ExecAffected(ctx, `DELETE FROM availability_windows WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete availability window: %w", err)
	}

	r.logger.Debug("Availability window delete executed",
		zap.Int64("window_id", id),
		zap.Int64("affected", affected))

	return affected > 0, nil
}

// GetByID получает окно по ID
func (r *AvailabilityRepository) GetByID(ctx context.Context, id int64) (*model.AvailabilityWindow, error) {
	query := `SELECT ` + availabilityColumns + ` FROM availability_windows WHERE id = $1`

	w, err := scanWindow(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get availability window by id: %w", err)
	}

	return w, nil
}

// ListByProfessor получает все окна преподавателя по всем предметам
func (r *AvailabilityRepository) ListByProfessor(ctx context.Context, professorID int64) ([]*model.AvailabilityWindow, error) {
	query := `
		SELECT ` + availabilityColumns + `
		FROM availability_windows
		WHERE professor_id = $1
		ORDER BY subject_id, weekday, start_time
	`
	return r.list(ctx, "get availability by professor", query, professorID)
}

// ListByProfessorSubject получает окна пары (преподаватель, предмет)
func (r *AvailabilityRepository) ListByProfessorSubject(ctx context.Context, professorID, subjectID int64) ([]*model.AvailabilityWindow, error) {
	query := `
		SELECT ` + availabilityColumns + `
		FROM availability_windows
		WHERE professor_id = $1 AND subject_id = $2
		ORDER BY weekday, start_time
	`
	return r.list(ctx, "get availability by professor and subject", query, professorID, subjectID)
}

// ListByProfessorSubjectDay получает окна пары на конкретный день недели
func (r *AvailabilityRepository) ListByProfessorSubjectDay(ctx context.Context, professorID, subjectID int64, day model.Weekday) ([]*model.AvailabilityWindow, error) {
	query := `
		SELECT ` + availabilityColumns + `
		FROM availability_windows
		WHERE professor_id = $1 AND subject_id = $2 AND lower(weekday) = $3
		ORDER BY start_time
	`
	return r.list(ctx, "get availability by day", query, professorID, subjectID, string(day))
}

// ExistsCovering проверяет, есть ли окно, целиком вмещающее [start, end) в этот день недели
func (r *AvailabilityRepository) ExistsCovering(ctx context.Context, professorID, subjectID int64, day model.Weekday, start, end model.Clock) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM availability_windows
			WHERE professor_id = $1
			  AND subject_id = $2
			  AND lower(weekday) = $3
			  AND start_time <= $4
			  AND end_time >= $5
		)
	`

	var exists bool
	err := r.QueryRow(ctx, query, professorID, subjectID, string(day), toPgTime(start), toPgTime(end)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check covering availability: %w", err)
	}
	return exists, nil
}

func (r *AvailabilityRepository) list(ctx context.Context, op, query string, args ...any) ([]*model.AvailabilityWindow, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var windows []*model.AvailabilityWindow
	for rows.Next() {
		w, err := scanWindow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan availability window: %w", err)
		}
		windows = append(windows, w)
	}

	return windows, rows.Err()
}

func scanWindow(row pgx.Row) (*model.AvailabilityWindow, error) {
	var (
		w          model.AvailabilityWindow
		start, end pgtype.Time
	)
	if err := row.Scan(&w.ID, &w.ProfessorID, &w.SubjectID, &w.Weekday, &start, &end); err != nil {
		return nil, err
	}
	w.StartTime = fromPgTime(start)
	w.EndTime = fromPgTime(end)
	return &w, nil
}
