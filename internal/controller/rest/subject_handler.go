package rest

import (
	"net/http"
	"strconv"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/gin-gonic/gin"
)

type assignRequest struct {
	ProfessorID int64 `json:"id_profesor" binding:"required,gt=0"`
}

// assignedProfessor - преподаватель в ответах /asignaturas
type assignedProfessor struct {
	ID        int64  `json:"id_usuario"`
	FirstName string `json:"nombre"`
	LastName  string `json:"apellido"`
	Email     string `json:"email"`
}

func toAssignedProfessor(u *model.User) assignedProfessor {
	return assignedProfessor{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email}
}

// SubjectsOfProfessor - GET /asignaturas/profesor/:id
func (h *Handler) SubjectsOfProfessor(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	subjects, err := h.assignments.SubjectsForProfessor(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Profesor not found")
		return
	}
	c.JSON(http.StatusOK, emptyIfNil(subjects))
}

// ProfessorsOfSubject - GET /asignaturas/:id/profesores?only_with_availability=
func (h *Handler) ProfessorsOfSubject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	onlyWithAvailability := false
	if raw := c.Query("only_with_availability"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			abort(c, http.StatusBadRequest, "invalid only_with_availability")
			return
		}
		onlyWithAvailability = v
	}

	professors, err := h.assignments.ProfessorsForSubject(c.Request.Context(), id, onlyWithAvailability)
	if err != nil {
		h.fail(c, err, "Asignatura not found")
		return
	}

	out := make([]assignedProfessor, 0, len(professors))
	for _, p := range professors {
		out = append(out, toAssignedProfessor(p))
	}
	c.JSON(http.StatusOK, out)
}

// AssignProfessor - POST /asignaturas/:id/profesores. Повторное назначение тоже 201.
func (h *Handler) AssignProfessor(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}

	professor, err := h.assignments.Assign(c.Request.Context(), id, req.ProfessorID)
	if err != nil {
		h.fail(c, err, "Asignatura or profesor not found")
		return
	}
	c.JSON(http.StatusCreated, toAssignedProfessor(professor))
}

// UnassignProfessor - DELETE /asignaturas/:id/profesores/:professor
func (h *Handler) UnassignProfessor(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	professorID, ok := pathID(c, "professor")
	if !ok {
		return
	}

	if err := h.assignments.Unassign(c.Request.Context(), id, professorID); err != nil {
		h.fail(c, err, "Asignatura not found")
		return
	}
	c.Status(http.StatusNoContent)
}
