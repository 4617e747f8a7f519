package rest

import (
	"net/http"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/gin-gonic/gin"
)

const windowNotFound = "Disponibilidad no encontrada"

type windowRequest struct {
	ProfessorID int64       `json:"id_profesor" binding:"required,gt=0"`
	SubjectID   int64       `json:"id_asignatura" binding:"required,gt=0"`
	Weekday     string      `json:"dia_semana" binding:"required,weekday"`
	StartTime   model.Clock `json:"hora_inicio"`
	EndTime     model.Clock `json:"hora_fin"`
}

func (r windowRequest) window() *model.AvailabilityWindow {
	return &model.AvailabilityWindow{
		ProfessorID: r.ProfessorID,
		SubjectID:   r.SubjectID,
		Weekday:     model.Weekday(r.Weekday),
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
	}
}

// CreateWindow - POST /disponibilidad
func (h *Handler) CreateWindow(c *gin.Context) {
	var req windowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}

	w := req.window()
	if err := h.availability.CreateWindow(c.Request.Context(), w); err != nil {
		h.fail(c, err, windowNotFound)
		return
	}
	c.JSON(http.StatusCreated, w)
}

// UpdateWindow - PUT /disponibilidad/:id
func (h *Handler) UpdateWindow(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req windowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}

	w := req.window()
	w.ID = id
	if err := h.availability.UpdateWindow(c.Request.Context(), w); err != nil {
		h.fail(c, err, windowNotFound)
		return
	}
	c.JSON(http.StatusOK, w)
}

// DeleteWindow - DELETE /disponibilidad/:id
func (h *Handler) DeleteWindow(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.availability.DeleteWindow(c.Request.Context(), id); err != nil {
		h.fail(c, err, windowNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListWindowsByProfessor - GET /disponibilidad/:id
func (h *Handler) ListWindowsByProfessor(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	windows, err := h.availability.ListByProfessor(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, windowNotFound)
		return
	}
	c.JSON(http.StatusOK, emptyIfNil(windows))
}

// ListWindowsByPair - GET /disponibilidad/asignatura/:subject/profesor/:professor
func (h *Handler) ListWindowsByPair(c *gin.Context) {
	subjectID, professorID, ok := pairIDs(c)
	if !ok {
		return
	}

	windows, err := h.availability.ListByProfessorSubject(c.Request.Context(), professorID, subjectID)
	if err != nil {
		h.fail(c, err, windowNotFound)
		return
	}
	c.JSON(http.StatusOK, emptyIfNil(windows))
}

// FreeSlots - GET .../libres?fecha=YYYY-MM-DD
func (h *Handler) FreeSlots(c *gin.Context) {
	subjectID, professorID, ok := pairIDs(c)
	if !ok {
		return
	}
	date, ok := h.queryDate(c, "fecha")
	if !ok {
		return
	}

	slots, err := h.availability.FreeSlots(c.Request.Context(), professorID, subjectID, date)
	if err != nil {
		h.fail(c, err, windowNotFound)
		return
	}
	c.JSON(http.StatusOK, emptyIfNil(slots))
}

// Weekdays - GET .../dias
func (h *Handler) Weekdays(c *gin.Context) {
	subjectID, professorID, ok := pairIDs(c)
	if !ok {
		return
	}

	days, err := h.availability.Weekdays(c.Request.Context(), professorID, subjectID)
	if err != nil {
		h.fail(c, err, windowNotFound)
		return
	}
	c.JSON(http.StatusOK, emptyIfNil(days))
}

// FreeDates - GET .../dias_libres?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *Handler) FreeDates(c *gin.Context) {
	subjectID, professorID, ok := pairIDs(c)
	if !ok {
		return
	}
	from, ok := h.queryDate(c, "start")
	if !ok {
		return
	}
	to, ok := h.queryDate(c, "end")
	if !ok {
		return
	}

	dates, err := h.availability.FreeDates(c.Request.Context(), professorID, subjectID, from, to)
	if err != nil {
		h.fail(c, err, windowNotFound)
		return
	}
	c.JSON(http.StatusOK, emptyIfNil(dates))
}

func pairIDs(c *gin.Context) (subjectID, professorID int64, ok bool) {
	if subjectID, ok = pathID(c, "subject"); !ok {
		return 0, 0, false
	}
	if professorID, ok = pathID(c, "professor"); !ok {
		return 0, 0, false
	}
	return subjectID, professorID, true
}

// emptyIfNil - чтобы пустой список уходил как [], а не null
func emptyIfNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
