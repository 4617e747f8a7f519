// Package rest - HTTP API сервиса тьюторских сессий (gin)
package rest

import (
	"context"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/auth"
	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/service"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type BookingService interface {
	Propose(ctx context.Context, in service.ProposeInput) (*model.Booking, error)
	Reschedule(ctx context.Context, id int64, newStart, newEnd time.Time) (*model.Booking, error)
	Cancel(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*model.Booking, error)
	List(ctx context.Context) ([]*model.Booking, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*model.Booking, error)
	ListByProfessor(ctx context.Context, professorID int64) ([]*model.Booking, error)
	Calendar(ctx context.Context, userID int64, from, to time.Time) ([]*model.Booking, error)
}

type AvailabilityService interface {
	CreateWindow(ctx context.Context, w *model.AvailabilityWindow) error
	UpdateWindow(ctx context.Context, w *model.AvailabilityWindow) error
	DeleteWindow(ctx context.Context, id int64) error
	ListByProfessor(ctx context.Context, professorID int64) ([]*model.AvailabilityWindow, error)
	ListByProfessorSubject(ctx context.Context, professorID, subjectID int64) ([]*model.AvailabilityWindow, error)
	Weekdays(ctx context.Context, professorID, subjectID int64) ([]model.Weekday, error)
	FreeSlots(ctx context.Context, professorID, subjectID int64, date time.Time) ([]model.FreeSlot, error)
	FreeDates(ctx context.Context, professorID, subjectID int64, from, to time.Time) ([]string, error)
}

type AssignmentService interface {
	Assign(ctx context.Context, subjectID, professorID int64) (*model.User, error)
	Unassign(ctx context.Context, subjectID, professorID int64) error
	ProfessorsForSubject(ctx context.Context, subjectID int64, onlyWithAvailability bool) ([]*model.User, error)
	SubjectsForProfessor(ctx context.Context, professorID int64) ([]*model.Subject, error)
}

type NotificationService interface {
	ListForUser(ctx context.Context, userID int64, limit, offset int) ([]*model.Notification, error)
	MarkRead(ctx context.Context, id int64) (*model.Notification, error)
	MarkAllRead(ctx context.Context, userID int64) (int, error)
}

type TokenVerifier interface {
	Parse(token string) (auth.Identity, error)
}

// LiveHub обслуживает живой канал уведомлений до отключения клиента
type LiveHub interface {
	Serve(userID int64, ws *websocket.Conn, writeTimeout time.Duration)
}

type Deps struct {
	Bookings      BookingService
	Availability  AvailabilityService
	Assignments   AssignmentService
	Notifications NotificationService
	Verifier      TokenVerifier
	Hub           LiveHub

	// Location - в ней разбираются даты без смещения
	Location       *time.Location
	CORSOrigins    []string
	WSWriteTimeout time.Duration
	Logger         *zap.Logger
}

type Handler struct {
	bookings      BookingService
	availability  AvailabilityService
	assignments   AssignmentService
	notifications NotificationService
	verifier      TokenVerifier
	hub           LiveHub
	upgrader      websocket.Upgrader
	loc           *time.Location
	wsTimeout     time.Duration
	logger        *zap.Logger
}

func newHandler(d Deps) *Handler {
	loc := d.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		bookings:      d.Bookings,
		availability:  d.Availability,
		assignments:   d.Assignments,
		notifications: d.Notifications,
		verifier:      d.Verifier,
		hub:           d.Hub,
		upgrader:      newUpgrader(d.CORSOrigins),
		loc:           loc,
		wsTimeout:     d.WSWriteTimeout,
		logger:        d.Logger,
	}
}
