package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository"
	"go.uber.org/zap"
)

// RescheduleLeadTime - новое время сессии должно быть не ближе этого срока
const RescheduleLeadTime = 24 * time.Hour

type BookingConfig struct {
	// Location - календарь, в котором считаются день недели и время суток
	Location *time.Location
	// NotifyInSameTx - сохранять уведомления в той же транзакции, что и изменение сессии.
	// По умолчанию сессия коммитится первой, уведомления - отдельно.
	NotifyInSameTx bool
	Now            func() time.Time
}

// ProposeInput - заявка на новую сессию
type ProposeInput struct {
	StudentID   int64
	ProfessorID int64
	SubjectID   int64
	Start       time.Time
	End         time.Time
	Modality    model.Modality
}

func (in ProposeInput) validate() error {
	if in.StudentID <= 0 || in.ProfessorID <= 0 || in.SubjectID <= 0 {
		return fmt.Errorf("%w: student, professor and subject are required", ErrInvalidInput)
	}
	if !in.End.After(in.Start) {
		return fmt.Errorf("%w: end must be after start", ErrInvalidInput)
	}
	if !in.Modality.Valid() {
		return fmt.Errorf("%w: unknown modality %q", ErrInvalidInput, in.Modality)
	}
	return nil
}

type BookingService struct {
	tx           TxRunner
	assignments  AssignmentRepository
	availability AvailabilityRepository
	bookings     BookingRepository
	notifier     *NotificationService
	loc          *time.Location
	notifyInTx   bool
	now          func() time.Time
	logger       *zap.Logger
}

func NewBookingService(
	tx TxRunner,
	assignments AssignmentRepository,
	availability AvailabilityRepository,
	bookings BookingRepository,
	notifier *NotificationService,
	cfg BookingConfig,
	logger *zap.Logger,
) *BookingService {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &BookingService{
		tx:           tx,
		assignments:  assignments,
		availability: availability,
		bookings:     bookings,
		notifier:     notifier,
		loc:          cfg.Location,
		notifyInTx:   cfg.NotifyInSameTx,
		now:          cfg.Now,
		logger:       logger,
	}
}

// Propose проверяет назначение, доступность и пересечения, затем сохраняет сессию
func (s *BookingService) Propose(ctx context.Context, in ProposeInput) (*model.Booking, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	assigned, err := s.assignments.Exists(ctx, in.ProfessorID, in.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("check assignment: %w", err)
	}
	if !assigned {
		return nil, ErrNotAssigned
	}

	start, end := in.Start.In(s.loc), in.End.In(s.loc)
	if !sameDate(start, end) {
		// окна доступности не переходят через полночь
		return nil, ErrNoAvailability
	}

	day := model.WeekdayOf(start)
	available, err := s.availability.ExistsCovering(ctx, in.ProfessorID, in.SubjectID, day, model.ClockOf(start), model.ClockCeilOf(end))
	if err != nil {
		return nil, fmt.Errorf("check availability: %w", err)
	}
	if !available {
		return nil, ErrNoAvailability
	}

	overlap, err := s.bookings.HasOverlap(ctx, in.ProfessorID, in.StudentID, in.Start, in.End)
	if err != nil {
		return nil, fmt.Errorf("check overlap: %w", err)
	}
	if overlap {
		return nil, ErrOverlapConflict
	}

	booking := &model.Booking{
		StudentID:   in.StudentID,
		ProfessorID: in.ProfessorID,
		SubjectID:   in.SubjectID,
		StartTime:   in.Start,
		EndTime:     in.End,
		Modality:    in.Modality,
	}

	created, err := s.commit(ctx, model.NotificationCreated, func(ctx context.Context) (*model.Booking, error) {
		if err := s.bookings.Create(ctx, booking); err != nil {
			// гонку двух заявок ловит EXCLUDE-ограничение
			if errors.Is(err, repository.ErrOverlap) {
				return nil, ErrOverlapConflict
			}
			return nil, fmt.Errorf("create booking: %w", err)
		}
		return s.reload(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Booking created",
		zap.Int64("booking_id", created.ID),
		zap.Int64("student_id", created.StudentID),
		zap.Int64("professor_id", created.ProfessorID),
		zap.Int64("subject_id", created.SubjectID),
		zap.Time("start", created.StartTime),
	)

	return created, nil
}

// Reschedule переносит сессию. Повторная проверка доступности не выполняется.
func (s *BookingService) Reschedule(ctx context.Context, id int64, newStart, newEnd time.Time) (*model.Booking, error) {
	if !newEnd.After(newStart) {
		return nil, fmt.Errorf("%w: end must be after start", ErrInvalidInput)
	}

	existing, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if existing == nil {
		return nil, fmt.Errorf("booking %d: %w", id, ErrNotFound)
	}

	if newStart.Before(s.now().Add(RescheduleLeadTime)) {
		s.logger.Info("Reschedule refused inside lockout window",
			zap.Int64("booking_id", id),
			zap.Time("new_start", newStart))
		return nil, ErrRescheduleWindow
	}

	updated, err := s.commit(ctx, model.NotificationRescheduled, func(ctx context.Context) (*model.Booking, error) {
		ok, err := s.bookings.UpdateTimes(ctx, id, newStart, newEnd)
		if err != nil {
			if errors.Is(err, repository.ErrOverlap) {
				return nil, ErrOverlapConflict
			}
			return nil, fmt.Errorf("update booking: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("booking %d: %w", id, ErrNotFound)
		}
		existing.StartTime, existing.EndTime = newStart, newEnd
		return s.reload(ctx, existing)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Booking rescheduled",
		zap.Int64("booking_id", id),
		zap.Time("start", newStart),
		zap.Time("end", newEnd))

	return updated, nil
}

// Cancel удаляет сессию. Повторная отмена - успешный no-op.
func (s *BookingService) Cancel(ctx context.Context, id int64) error {
	_, err := s.commit(ctx, model.NotificationCanceled, func(ctx context.Context) (*model.Booking, error) {
		// имена нужны для текста уведомлений, поэтому читаем до удаления
		existing, err := s.bookings.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get booking: %w", err)
		}
		if existing == nil {
			return nil, nil
		}

		deleted, err := s.bookings.Delete(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("delete booking: %w", err)
		}
		if !deleted {
			return nil, nil
		}
		return existing, nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Booking canceled", zap.Int64("booking_id", id))
	return nil
}

// Get получает сессию по ID
func (s *BookingService) Get(ctx context.Context, id int64) (*model.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %d: %w", id, ErrNotFound)
	}
	return booking, nil
}

func (s *BookingService) List(ctx context.Context) ([]*model.Booking, error) {
	return s.bookings.List(ctx)
}

func (s *BookingService) ListByStudent(ctx context.Context, studentID int64) ([]*model.Booking, error) {
	return s.bookings.ListByStudent(ctx, studentID)
}

func (s *BookingService) ListByProfessor(ctx context.Context, professorID int64) ([]*model.Booking, error) {
	return s.bookings.ListByProfessor(ctx, professorID)
}

// Calendar возвращает сессии пользователя с начала дня from до конца дня to включительно
func (s *BookingService) Calendar(ctx context.Context, userID int64, from, to time.Time) ([]*model.Booking, error) {
	fromDay, toDay := startOfDay(from, s.loc), startOfDay(to, s.loc)
	if toDay.Before(fromDay) {
		return nil, fmt.Errorf("%w: to_date is before from_date", ErrInvalidInput)
	}
	return s.bookings.ListByUserRange(ctx, userID, fromDay, toDay.AddDate(0, 0, 1))
}

// commit применяет изменение сессии и создаёт уведомления. mutate может вернуть nil,
// тогда уведомлять некого. Живая доставка всегда идёт после коммита.
func (s *BookingService) commit(ctx context.Context, kind model.NotificationKind, mutate func(ctx context.Context) (*model.Booking, error)) (*model.Booking, error) {
	var (
		booking *model.Booking
		notes   []*model.Notification
	)

	if s.notifyInTx {
		err := s.tx.InTx(ctx, func(ctx context.Context) error {
			b, err := mutate(ctx)
			if err != nil || b == nil {
				return err
			}
			booking = b
			notes, err = s.notifier.Record(ctx, kind, b)
			return err
		})
		if err != nil {
			return nil, err
		}
	} else {
		b, err := mutate(ctx)
		if err != nil {
			return nil, err
		}
		booking = b
		if b != nil {
			notes, err = s.notifier.Record(ctx, kind, b)
			if err != nil {
				// сессия уже закоммичена, откатывать её не будем
				s.logger.Error("Booking change committed without notifications",
					zap.Int64("booking_id", b.ID),
					zap.String("kind", string(kind)),
					zap.Error(err))
			}
		}
	}

	s.notifier.Deliver(ctx, notes)
	return booking, nil
}

// reload перечитывает сессию вместе с именами; если строка не нашлась, отдаёт то, что есть
func (s *BookingService) reload(ctx context.Context, b *model.Booking) (*model.Booking, error) {
	enriched, err := s.bookings.GetByID(ctx, b.ID)
	if err != nil {
		return nil, fmt.Errorf("reload booking: %w", err)
	}
	if enriched == nil {
		return b, nil
	}
	return enriched, nil
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
