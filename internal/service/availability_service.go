package service

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"go.uber.org/zap"
)

// MaxFreeDateRange ограничивает диапазон поиска свободных дат
const MaxFreeDateRange = 366 * 24 * time.Hour

const dateLayout = "2006-01-02"

type AvailabilityService struct {
	assignments  AssignmentRepository
	availability AvailabilityRepository
	bookings     BookingRepository
	loc          *time.Location
	logger       *zap.Logger
}

func NewAvailabilityService(
	assignments AssignmentRepository,
	availability AvailabilityRepository,
	bookings BookingRepository,
	loc *time.Location,
	logger *zap.Logger,
) *AvailabilityService {
	if loc == nil {
		loc = time.UTC
	}
	return &AvailabilityService{
		assignments:  assignments,
		availability: availability,
		bookings:     bookings,
		loc:          loc,
		logger:       logger,
	}
}

// CreateWindow создаёт окно доступности для назначенной пары (преподаватель, предмет)
func (s *AvailabilityService) CreateWindow(ctx context.Context, w *model.AvailabilityWindow) error {
	if err := s.prepare(ctx, w); err != nil {
		return err
	}

	if err := s.availability.Create(ctx, w); err != nil {
		return fmt.Errorf("create availability window: %w", err)
	}

	s.logger.Info("Availability window created",
		zap.Int64("window_id", w.ID),
		zap.Int64("professor_id", w.ProfessorID),
		zap.Int64("subject_id", w.SubjectID),
		zap.String("weekday", string(w.Weekday)),
		zap.Stringer("start", w.StartTime),
		zap.Stringer("end", w.EndTime))

	return nil
}

// UpdateWindow перезаписывает окно
func (s *AvailabilityService) UpdateWindow(ctx context.Context, w *model.AvailabilityWindow) error {
	if err := s.prepare(ctx, w); err != nil {
		return err
	}

	ok, err := s.availability.Update(ctx, w)
	if err != nil {
		return fmt.Errorf("update availability window: %w", err)
	}
	if !ok {
		return fmt.Errorf("availability window %d: %w", w.ID, ErrNotFound)
	}
	return nil
}

// DeleteWindow удаляет окно
func (s *AvailabilityService) DeleteWindow(ctx context.Context, id int64) error {
	ok, err := s.availability.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete availability window: %w", err)
	}
	if !ok {
		return fmt.Errorf("availability window %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *AvailabilityService) ListByProfessor(ctx context.Context, professorID int64) ([]*model.AvailabilityWindow, error) {
	return s.availability.ListByProfessor(ctx, professorID)
}

func (s *AvailabilityService) ListByProfessorSubject(ctx context.Context, professorID, subjectID int64) ([]*model.AvailabilityWindow, error) {
	return s.availability.ListByProfessorSubject(ctx, professorID, subjectID)
}

// Weekdays возвращает настроенные дни недели без повторов, с понедельника
func (s *AvailabilityService) Weekdays(ctx context.Context, professorID, subjectID int64) ([]model.Weekday, error) {
	windows, err := s.availability.ListByProfessorSubject(ctx, professorID, subjectID)
	if err != nil {
		return nil, fmt.Errorf("get availability: %w", err)
	}

	set := configuredWeekdays(windows)
	days := make([]model.Weekday, 0, len(set))
	for d := range set {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool {
		return mondayFirst(days[i]) < mondayFirst(days[j])
	})
	return days, nil
}

// FreeSlots возвращает свободные часовые слоты пары на дату
func (s *AvailabilityService) FreeSlots(ctx context.Context, professorID, subjectID int64, date time.Time) ([]model.FreeSlot, error) {
	day := startOfDay(date, s.loc)

	windows, err := s.availability.ListByProfessorSubjectDay(ctx, professorID, subjectID, model.WeekdayOf(day))
	if err != nil {
		return nil, fmt.Errorf("get availability by day: %w", err)
	}
	if len(windows) == 0 {
		return []model.FreeSlot{}, nil
	}

	booked, err := s.bookings.ListByProfessorSubjectBetween(ctx, professorID, subjectID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("get bookings by day: %w", err)
	}

	slots := slices.Collect(SlotSeq(day, windows, booked))
	if slots == nil {
		slots = []model.FreeSlot{}
	}

	s.logger.Debug("Free slots computed",
		zap.Int64("professor_id", professorID),
		zap.Int64("subject_id", subjectID),
		zap.String("date", day.Format(dateLayout)),
		zap.Int("windows", len(windows)),
		zap.Int("booked", len(booked)),
		zap.Int("free", len(slots)))

	return slots, nil
}

// FreeDates возвращает даты из [from, to], в которые преподаватель работает и у пары нет ни одной сессии.
// Одна сессия исключает весь день, даже если остались свободные слоты. Результат - по убыванию.
func (s *AvailabilityService) FreeDates(ctx context.Context, professorID, subjectID int64, from, to time.Time) ([]string, error) {
	first, last := startOfDay(from, s.loc), startOfDay(to, s.loc)
	if last.Before(first) {
		return nil, fmt.Errorf("%w: end date is before start date", ErrInvalidInput)
	}
	if last.Sub(first) > MaxFreeDateRange {
		return nil, fmt.Errorf("%w: date range is too long", ErrInvalidInput)
	}

	windows, err := s.availability.ListByProfessorSubject(ctx, professorID, subjectID)
	if err != nil {
		return nil, fmt.Errorf("get availability: %w", err)
	}
	working := configuredWeekdays(windows)

	dates := []string{}
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		if _, ok := working[model.WeekdayOf(day)]; !ok {
			continue
		}

		count, err := s.bookings.CountByProfessorSubjectBetween(ctx, professorID, subjectID, day, day.AddDate(0, 0, 1))
		if err != nil {
			return nil, fmt.Errorf("count bookings: %w", err)
		}
		if count == 0 {
			dates = append(dates, day.Format(dateLayout))
		}
	}

	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates, nil
}

// prepare нормализует день недели и проверяет окно и назначение
func (s *AvailabilityService) prepare(ctx context.Context, w *model.AvailabilityWindow) error {
	day, err := model.ParseWeekday(string(w.Weekday))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	w.Weekday = day

	if err := w.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	assigned, err := s.assignments.Exists(ctx, w.ProfessorID, w.SubjectID)
	if err != nil {
		return fmt.Errorf("check assignment: %w", err)
	}
	if !assigned {
		return ErrNotAssigned
	}
	return nil
}

func configuredWeekdays(windows []*model.AvailabilityWindow) map[model.Weekday]struct{} {
	set := make(map[model.Weekday]struct{}, len(windows))
	for _, w := range windows {
		day, err := model.ParseWeekday(string(w.Weekday))
		if err != nil {
			continue
		}
		set[day] = struct{}{}
	}
	return set
}

// mondayFirst: lunes = 0 ... domingo = 6
func mondayFirst(d model.Weekday) int {
	return (int(d.Index()) + 6) % 7
}
