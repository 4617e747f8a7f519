package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"go.uber.org/zap"
)

const (
	DefaultNotificationLimit = 50
	MaxNotificationLimit     = 200
	DefaultPushTimeout       = 3 * time.Second

	notificationTimeLayout = "2006-01-02 15:04"
)

type NotificationService struct {
	repo        NotificationRepository
	pushers     []Pusher
	pushTimeout time.Duration
	loc         *time.Location
	logger      *zap.Logger
}

func NewNotificationService(repo NotificationRepository, loc *time.Location, logger *zap.Logger, pushers ...Pusher) *NotificationService {
	if loc == nil {
		loc = time.UTC
	}
	return &NotificationService{
		repo:        repo,
		pushers:     pushers,
		pushTimeout: DefaultPushTimeout,
		loc:         loc,
		logger:      logger,
	}
}

// SetPushTimeout задаёт предел одной доставки; d <= 0 оставляет текущее значение
func (s *NotificationService) SetPushTimeout(d time.Duration) {
	if d > 0 {
		s.pushTimeout = d
	}
}

// AddPusher подключает ещё один канал доставки
func (s *NotificationService) AddPusher(p Pusher) {
	s.pushers = append(s.pushers, p)
}

// Dispatch сохраняет пару уведомлений и рассылает их по живым каналам
func (s *NotificationService) Dispatch(ctx context.Context, kind model.NotificationKind, booking *model.Booking) ([]*model.Notification, error) {
	notes, err := s.Record(ctx, kind, booking)
	if err != nil {
		return nil, err
	}
	s.Deliver(ctx, notes)
	return notes, nil
}

// Record строит и сохраняет уведомления для студента и преподавателя.
// Если ctx несёт транзакцию, вставки идут в неё.
func (s *NotificationService) Record(ctx context.Context, kind model.NotificationKind, booking *model.Booking) ([]*model.Notification, error) {
	forStudent, forProfessor := BuildNotifications(kind, booking, s.loc)

	for _, n := range []*model.Notification{forStudent, forProfessor} {
		if err := s.repo.Create(ctx, n); err != nil {
			return nil, fmt.Errorf("create %s notification: %w", kind, err)
		}
	}

	return []*model.Notification{forStudent, forProfessor}, nil
}

// Deliver пушит уведомления во все каналы. Ошибки доставки только логируются.
func (s *NotificationService) Deliver(ctx context.Context, notes []*model.Notification) {
	for _, n := range notes {
		recipient := n.RecipientID()
		for _, p := range s.pushers {
			if err := s.push(ctx, p, recipient, n); err != nil {
				s.logger.Warn("Notification push failed",
					zap.Int64("notification_id", n.ID),
					zap.Int64("user_id", recipient),
					zap.String("pusher", fmt.Sprintf("%T", p)),
					zap.Error(err))
			}
		}
	}
}

// push доставляет в один канал не дольше pushTimeout
func (s *NotificationService) push(ctx context.Context, p Pusher, userID int64, n *model.Notification) error {
	ctx, cancel := context.WithTimeout(ctx, s.pushTimeout)
	defer cancel()
	return p.Push(ctx, userID, n)
}

// MarkRead отмечает уведомление прочитанным
func (s *NotificationService) MarkRead(ctx context.Context, id int64) (*model.Notification, error) {
	ok, err := s.repo.MarkRead(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("mark notification read: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("notification %d: %w", id, ErrNotFound)
	}

	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get notification: %w", err)
	}
	if n == nil {
		return nil, fmt.Errorf("notification %d: %w", id, ErrNotFound)
	}
	return n, nil
}

// MarkAllRead отмечает прочитанными все уведомления пользователя (как студента и как преподавателя).
// Без непрочитанных в БД ничего не пишется.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) (int, error) {
	unread, err := s.repo.ListUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("list unread notifications: %w", err)
	}
	if len(unread) == 0 {
		return 0, nil
	}

	ids := make([]int64, 0, len(unread))
	for _, n := range unread {
		ids = append(ids, n.ID)
	}

	if _, err := s.repo.MarkReadBulk(ctx, ids); err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}

	s.logger.Info("Notifications marked as read",
		zap.Int64("user_id", userID),
		zap.Int("count", len(ids)))

	return len(ids), nil
}

// ListForUser возвращает уведомления пользователя, новые первыми
func (s *NotificationService) ListForUser(ctx context.Context, userID int64, limit, offset int) ([]*model.Notification, error) {
	if limit < 1 || limit > MaxNotificationLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidInput, MaxNotificationLimit)
	}
	if offset < 0 {
		return nil, fmt.Errorf("%w: offset must not be negative", ErrInvalidInput)
	}
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// BuildNotifications готовит тексты для обеих сторон. Без имён и названия предмета
// используется упрощённый текст.
func BuildNotifications(kind model.NotificationKind, b *model.Booking, loc *time.Location) (forStudent, forProfessor *model.Notification) {
	studentID, professorID := b.StudentID, b.ProfessorID
	forStudent = &model.Notification{StudentID: &studentID, Kind: kind}
	forProfessor = &model.Notification{ProfessorID: &professorID, Kind: kind}

	start := b.StartTime.In(loc).Format(notificationTimeLayout)
	subject, professor, student := b.SubjectTitle, b.ProfessorName, b.StudentName
	withProfessor := subject != "" && professor != ""
	withStudent := subject != "" && student != ""

	switch kind {
	case model.NotificationCreated:
		forStudent.Title = "Tutoría agendada"
		forProfessor.Title = "Nueva tutoría agendada"
		forStudent.Description = pick(withProfessor,
			fmt.Sprintf("Has agendado %s con %s el %s", subject, professor, start),
			fmt.Sprintf("Has agendado una tutoría el %s", start))
		forProfessor.Description = pick(withStudent,
			fmt.Sprintf("%s agendó %s para el %s", student, subject, start),
			fmt.Sprintf("Se agendó una tutoría para el %s", start))

	case model.NotificationCanceled:
		forStudent.Title = "Tutoría cancelada"
		forProfessor.Title = "Tutoría cancelada"
		forStudent.Description = pick(withProfessor,
			fmt.Sprintf("Se canceló %s con %s prevista para %s", subject, professor, start),
			"Una tutoría fue cancelada")
		forProfessor.Description = pick(withStudent,
			fmt.Sprintf("%s canceló %s prevista para %s", student, subject, start),
			"Una tutoría fue cancelada")

	case model.NotificationRescheduled:
		forStudent.Title = "Tutoría reprogramada"
		forProfessor.Title = "Tutoría reprogramada"
		forStudent.Description = pick(withProfessor,
			fmt.Sprintf("Reprogramaste %s con %s para %s", subject, professor, start),
			"Reprogramaste una tutoría")
		forProfessor.Description = pick(withStudent,
			fmt.Sprintf("%s reprogramó %s para %s", student, subject, start),
			"Una tutoría fue reprogramada")
	}

	return forStudent, forProfessor
}

func pick(cond bool, full, fallback string) string {
	if cond {
		return full
	}
	return fallback
}
