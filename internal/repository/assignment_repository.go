package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AssignmentRepository хранит пары (преподаватель, предмет)
type AssignmentRepository struct {
	*base.Repository
}

func NewAssignmentRepository(pool *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{Repository: base.NewRepository(pool)}
}

// Exists проверяет, назначен ли преподаватель на предмет
func (r *AssignmentRepository) Exists(ctx context.Context, professorID, subjectID int64) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM professor_subjects
			WHERE professor_id = $1 AND subject_id = $2
		)
	`

	var exists bool
	if err := r.QueryRow(ctx, query, professorID, subjectID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check assignment exists: %w", err)
	}
	return exists, nil
}

// Create создаёт назначение. Конкурентный дубль возвращает ErrAlreadyExists.
func (r *AssignmentRepository) Create(ctx context.Context, a *model.SubjectAssignment) error {
	query := `
		INSERT INTO professor_subjects (professor_id, subject_id)
		VALUES ($1, $2)
		RETURNING id
	`

	err := r.QueryRow(ctx, query, a.ProfessorID, a.SubjectID).Scan(&a.ID)
	if err != nil {
		if base.IsUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// Delete удаляет назначение; отсутствие записи не ошибка
func (r *AssignmentRepository) Delete(ctx context.Context, professorID, subjectID int64) error {
	query := `DELETE FROM professor_subjects WHERE professor_id = $1 AND subject_id = $2`

	if _, err := r.ExecAffected(ctx, query, professorID, subjectID); err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	return nil
}

// ListSubjectsByProfessor получает предметы преподавателя
func (r *AssignmentRepository) ListSubjectsByProfessor(ctx context.Context, professorID int64) ([]*model.Subject, error) {
	query := `
		SELECT s.id, s.title
		FROM subjects s
		JOIN professor_subjects ps ON ps.subject_id = s.id
		WHERE ps.professor_id = $1
		ORDER BY s.title
	`

	rows, err := r.Query(ctx, query, professorID)
	if err != nil {
		return nil, fmt.Errorf("get subjects by professor: %w", err)
	}
	defer rows.Close()

	var subjects []*model.Subject
	for rows.Next() {
		var subject model.Subject
		if err := rows.Scan(&subject.ID, &subject.Title); err != nil {
			return nil, fmt.Errorf("scan subject: %w", err)
		}
		subjects = append(subjects, &subject)
	}

	return subjects, rows.Err()
}

// ListProfessorsBySubject получает преподавателей предмета, опционально только с настроенной доступностью
func (r *AssignmentRepository) ListProfessorsBySubject(ctx context.Context, subjectID int64, onlyWithAvailability bool) ([]*model.User, error) {
	query := `
		SELECT u.id, u.first_name, u.last_name, u.email, u.role, u.telegram_chat_id, u.created_at
		FROM users u
		JOIN professor_subjects ps ON ps.professor_id = u.id
		WHERE ps.subject_id = $1
		  AND (NOT $2 OR EXISTS (
			SELECT 1 FROM availability_windows aw
			WHERE aw.professor_id = ps.professor_id AND aw.subject_id = ps.subject_id
		  ))
		ORDER BY u.last_name, u.first_name
	`

	rows, err := r.Query(ctx, query, subjectID, onlyWithAvailability)
	if err != nil {
		return nil, fmt.Errorf("get professors by subject: %w", err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		var user model.User
		err := rows.Scan(
			&user.ID,
			&user.FirstName,
			&user.LastName,
			&user.Email,
			&user.Role,
			&user.TelegramChatID,
			&user.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan professor: %w", err)
		}
		users = append(users, &user)
	}

	return users, rows.Err()
}
