package rest

import (
	"errors"
	"net/http"

	"github.com/Freeeeeet/tutor_scheduler/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

func abort(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, errorResponse{Detail: detail})
}

// fail переводит доменную ошибку в статус и текст для клиента. notFound - текст для 404.
func (h *Handler) fail(c *gin.Context, err error, notFound string) {
	switch {
	case errors.Is(err, service.ErrNotAssigned):
		abort(c, http.StatusBadRequest, "El profesor no está asignado a la asignatura seleccionada")
	case errors.Is(err, service.ErrNoAvailability):
		abort(c, http.StatusBadRequest, "El profesor no tiene disponibilidad para ese horario")
	case errors.Is(err, service.ErrOverlapConflict):
		abort(c, http.StatusBadRequest, "Existe una tutoría que se sobrepone en el horario indicado")
	case errors.Is(err, service.ErrRescheduleWindow):
		abort(c, http.StatusBadRequest, "Solo se puede reprogramar con al menos 24 horas de anticipación")
	case errors.Is(err, service.ErrNotProfessor):
		abort(c, http.StatusBadRequest, "User is not a profesor")
	case errors.Is(err, service.ErrInvalidInput):
		abort(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		abort(c, http.StatusNotFound, notFound)
	default:
		_ = c.Error(err)
		h.logger.Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		abort(c, http.StatusInternalServerError, "Error interno del servidor")
	}
}
