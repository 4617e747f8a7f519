package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
)

// Интерфейсы хранилищ, которые нужны сервисам. Реализации - в internal/repository.

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

type SubjectRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Subject, error)
}

type AssignmentRepository interface {
	Exists(ctx context.Context, professorID, subjectID int64) (bool, error)
	Create(ctx context.Context, a *model.SubjectAssignment) error
	Delete(ctx context.Context, professorID, subjectID int64) error
	ListSubjectsByProfessor(ctx context.Context, professorID int64) ([]*model.Subject, error)
	ListProfessorsBySubject(ctx context.Context, subjectID int64, onlyWithAvailability bool) ([]*model.User, error)
}

type AvailabilityRepository interface {
	Create(ctx context.Context, w *model.AvailabilityWindow) error
	Update(ctx context.Context, w *model.AvailabilityWindow) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	GetByID(ctx context.Context, id int64) (*model.AvailabilityWindow, error)
	ListByProfessor(ctx context.Context, professorID int64) ([]*model.AvailabilityWindow, error)
	ListByProfessorSubject(ctx context.Context, professorID, subjectID int64) ([]*model.AvailabilityWindow, error)
	ListByProfessorSubjectDay(ctx context.Context, professorID, subjectID int64, day model.Weekday) ([]*model.AvailabilityWindow, error)
	ExistsCovering(ctx context.Context, professorID, subjectID int64, day model.Weekday, start, end model.Clock) (bool, error)
}

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	List(ctx context.Context) ([]*model.Booking, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*model.Booking, error)
	ListByProfessor(ctx context.Context, professorID int64) ([]*model.Booking, error)
	ListByUserRange(ctx context.Context, userID int64, from, to time.Time) ([]*model.Booking, error)
	HasOverlap(ctx context.Context, professorID, studentID int64, start, end time.Time) (bool, error)
	ListByProfessorSubjectBetween(ctx context.Context, professorID, subjectID int64, from, to time.Time) ([]*model.Booking, error)
	CountByProfessorSubjectBetween(ctx context.Context, professorID, subjectID int64, from, to time.Time) (int, error)
	UpdateTimes(ctx context.Context, id int64, start, end time.Time) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	GetByID(ctx context.Context, id int64) (*model.Notification, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*model.Notification, error)
	ListUnread(ctx context.Context, userID int64) ([]*model.Notification, error)
	MarkRead(ctx context.Context, id int64) (bool, error)
	MarkReadBulk(ctx context.Context, ids []int64) (int64, error)
}

// TxRunner выполняет fn в одной транзакции хранилища
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Pusher доставляет уже сохранённое уведомление пользователю (best effort)
type Pusher interface {
	Push(ctx context.Context, userID int64, n *model.Notification) error
}
