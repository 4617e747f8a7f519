package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository"
	"go.uber.org/zap"
)

type AssignmentService struct {
	users       UserRepository
	subjects    SubjectRepository
	assignments AssignmentRepository
	logger      *zap.Logger
}

func NewAssignmentService(
	users UserRepository,
	subjects SubjectRepository,
	assignments AssignmentRepository,
	logger *zap.Logger,
) *AssignmentService {
	return &AssignmentService{
		users:       users,
		subjects:    subjects,
		assignments: assignments,
		logger:      logger,
	}
}

// Assign назначает преподавателя на предмет. Повторный или конкурентный вызов сходится к тому же результату.
func (s *AssignmentService) Assign(ctx context.Context, subjectID, professorID int64) (*model.User, error) {
	if _, err := s.subject(ctx, subjectID); err != nil {
		return nil, err
	}

	professor, err := s.users.GetByID(ctx, professorID)
	if err != nil {
		return nil, fmt.Errorf("get professor: %w", err)
	}
	if professor == nil {
		return nil, fmt.Errorf("professor %d: %w", professorID, ErrNotFound)
	}
	if !professor.IsProfessor() {
		return nil, ErrNotProfessor
	}

	exists, err := s.assignments.Exists(ctx, professorID, subjectID)
	if err != nil {
		return nil, fmt.Errorf("check assignment: %w", err)
	}
	if exists {
		return professor, nil
	}

	err = s.assignments.Create(ctx, &model.SubjectAssignment{ProfessorID: professorID, SubjectID: subjectID})
	switch {
	case errors.Is(err, repository.ErrAlreadyExists):
		// другой запрос успел вставить ту же пару
		s.logger.Debug("Assignment inserted concurrently",
			zap.Int64("professor_id", professorID),
			zap.Int64("subject_id", subjectID))
	case err != nil:
		return nil, fmt.Errorf("create assignment: %w", err)
	default:
		s.logger.Info("Professor assigned to subject",
			zap.Int64("professor_id", professorID),
			zap.Int64("subject_id", subjectID))
	}

	return professor, nil
}

// Unassign снимает назначение; отсутствие назначения не ошибка
func (s *AssignmentService) Unassign(ctx context.Context, subjectID, professorID int64) error {
	if err := s.assignments.Delete(ctx, professorID, subjectID); err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	return nil
}

// ProfessorsForSubject возвращает преподавателей предмета
func (s *AssignmentService) ProfessorsForSubject(ctx context.Context, subjectID int64, onlyWithAvailability bool) ([]*model.User, error) {
	if _, err := s.subject(ctx, subjectID); err != nil {
		return nil, err
	}
	return s.assignments.ListProfessorsBySubject(ctx, subjectID, onlyWithAvailability)
}

// SubjectsForProfessor возвращает предметы преподавателя
func (s *AssignmentService) SubjectsForProfessor(ctx context.Context, professorID int64) ([]*model.Subject, error) {
	return s.assignments.ListSubjectsByProfessor(ctx, professorID)
}

func (s *AssignmentService) subject(ctx context.Context, id int64) (*model.Subject, error) {
	subject, err := s.subjects.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get subject: %w", err)
	}
	if subject == nil {
		return nil, fmt.Errorf("subject %d: %w", id, ErrNotFound)
	}
	return subject, nil
}
