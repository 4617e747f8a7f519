package service

import (
	"testing"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	professorID int64 = 10
	studentA    int64 = 20
	studentB    int64 = 21
	subjectID   int64 = 30
	otherSubj   int64 = 31
)

var bogota = time.FixedZone("COT", -5*60*60)

// 2025-03-03 - понедельник
func at(day, hour, minute int) time.Time {
	return time.Date(2025, 3, day, hour, minute, 0, 0, bogota)
}

type env struct {
	db            *memDB
	tx            *fakeTx
	pusher        *fakePusher
	bookingRepo   *fakeBookings
	notifications *NotificationService
	bookings      *BookingService
	availability  *AvailabilityService
	assignments   *AssignmentService
	now           time.Time
}

type envOption func(*BookingConfig)

func withNotifyInTx() envOption {
	return func(c *BookingConfig) { c.NotifyInSameTx = true }
}

func newEnv(t *testing.T, opts ...envOption) *env {
	t.Helper()

	db := newMemDB()
	db.users[professorID] = &model.User{ID: professorID, FirstName: "Ana", LastName: "Gómez", Role: model.RoleProfessor}
	db.users[studentA] = &model.User{ID: studentA, FirstName: "Luis", LastName: "Pérez", Role: model.RoleStudent}
	db.users[studentB] = &model.User{ID: studentB, FirstName: "Marta", LastName: "Ruiz", Role: model.RoleStudent}
	db.subjects[subjectID] = &model.Subject{ID: subjectID, Title: "Cálculo"}
	db.subjects[otherSubj] = &model.Subject{ID: otherSubj, Title: "Física"}
	db.nextID = 100

	e := &env{
		db:          db,
		tx:          &fakeTx{},
		pusher:      &fakePusher{},
		bookingRepo: &fakeBookings{db: db},
		now:         at(1, 8, 0),
	}

	cfg := BookingConfig{Location: bogota, Now: func() time.Time { return e.now }}
	for _, opt := range opts {
		opt(&cfg)
	}

	logger := zap.NewNop()
	e.notifications = NewNotificationService(fakeNotifications{db: db}, bogota, logger, e.pusher)
	e.bookings = NewBookingService(e.tx, fakeAssignments{db: db}, fakeAvailability{db: db}, e.bookingRepo, e.notifications, cfg, logger)
	e.availability = NewAvailabilityService(fakeAssignments{db: db}, fakeAvailability{db: db}, e.bookingRepo, bogota, logger)
	e.assignments = NewAssignmentService(fakeUsers{db: db}, fakeSubjects{db: db}, fakeAssignments{db: db}, logger)

	return e
}

// withMondayWindow назначает преподавателя и открывает окно по понедельникам start-end
func (e *env) withMondayWindow(t *testing.T, start, end model.Clock) *model.AvailabilityWindow {
	t.Helper()

	_, err := e.assignments.Assign(t.Context(), subjectID, professorID)
	require.NoError(t, err)

	w := &model.AvailabilityWindow{
		ProfessorID: professorID,
		SubjectID:   subjectID,
		Weekday:     "Lunes",
		StartTime:   start,
		EndTime:     end,
	}
	require.NoError(t, e.availability.CreateWindow(t.Context(), w))
	return w
}

func propose(student int64, start, end time.Time) ProposeInput {
	return ProposeInput{
		StudentID:   student,
		ProfessorID: professorID,
		SubjectID:   subjectID,
		Start:       start,
		End:         end,
		Modality:    model.ModalityVideoCall,
	}
}
