package rest

import (
	"net/http"
	"strconv"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/service"
	"github.com/gin-gonic/gin"
)

const bookingNotFound = "Tutoria no encontrada"

type createBookingRequest struct {
	StudentID   int64  `json:"id_estudiante" binding:"required,gt=0"`
	ProfessorID int64  `json:"id_profesor" binding:"required,gt=0"`
	SubjectID   int64  `json:"id_asignatura" binding:"required,gt=0"`
	Start       string `json:"fecha_hora_inicio" binding:"required"`
	End         string `json:"fecha_hora_fin" binding:"required"`
	Modality    string `json:"modalidad" binding:"required,modality"`
}

type rescheduleRequest struct {
	Start string `json:"fecha_hora_inicio" binding:"required"`
	End   string `json:"fecha_hora_fin" binding:"required"`
}

// CreateBooking - POST /tutorias
func (h *Handler) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}

	start, err := parseDateTime(req.Start, h.loc)
	if err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}
	end, err := parseDateTime(req.End, h.loc)
	if err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}

	booking, err := h.bookings.Propose(c.Request.Context(), service.ProposeInput{
		StudentID:   req.StudentID,
		ProfessorID: req.ProfessorID,
		SubjectID:   req.SubjectID,
		Start:       start,
		End:         end,
		Modality:    model.Modality(req.Modality),
	})
	if err != nil {
		h.fail(c, err, bookingNotFound)
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// ListBookings - GET /tutorias
func (h *Handler) ListBookings(c *gin.Context) {
	bookings, err := h.bookings.List(c.Request.Context())
	if err != nil {
		h.fail(c, err, bookingNotFound)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// GetBooking - GET /tutorias/:id
func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	booking, err := h.bookings.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, bookingNotFound)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// ListBookingsByStudent - GET /tutorias/estudiante/:id
func (h *Handler) ListBookingsByStudent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	bookings, err := h.bookings.ListByStudent(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, bookingNotFound)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// ListBookingsByProfessor - GET /tutorias/profesor/:id
func (h *Handler) ListBookingsByProfessor(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	bookings, err := h.bookings.ListByProfessor(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, bookingNotFound)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// Calendar - GET /tutorias/calendar?usuario_id=&from_date=&to_date=
func (h *Handler) Calendar(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("usuario_id"), 10, 64)
	if err != nil || userID <= 0 {
		abort(c, http.StatusBadRequest, "usuario_id is required")
		return
	}
	from, ok := h.queryDate(c, "from_date")
	if !ok {
		return
	}
	to, ok := h.queryDate(c, "to_date")
	if !ok {
		return
	}

	bookings, err := h.bookings.Calendar(c.Request.Context(), userID, from, to)
	if err != nil {
		h.fail(c, err, bookingNotFound)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// RescheduleBooking - PATCH /tutorias/reschedule/:id
func (h *Handler) RescheduleBooking(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req rescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}
	start, err := parseDateTime(req.Start, h.loc)
	if err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}
	end, err := parseDateTime(req.End, h.loc)
	if err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}

	booking, err := h.bookings.Reschedule(c.Request.Context(), id, start, end)
	if err != nil {
		h.fail(c, err, bookingNotFound)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// CancelBooking - DELETE /tutorias/:id. Отмена несуществующей сессии тоже 204.
func (h *Handler) CancelBooking(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.bookings.Cancel(c.Request.Context(), id); err != nil {
		h.fail(c, err, bookingNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}
