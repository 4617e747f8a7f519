package rest

import (
	"net/http"

	"github.com/Freeeeeet/tutor_scheduler/internal/realtime"
	"github.com/Freeeeeet/tutor_scheduler/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const notificationNotFound = "Notificación no encontrada"

// ListNotifications - GET /notifications/user/:id?limit=&offset=
func (h *Handler) ListNotifications(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit", service.DefaultNotificationLimit)
	if !ok {
		return
	}
	offset, ok := queryInt(c, "offset", 0)
	if !ok {
		return
	}

	notes, err := h.notifications.ListForUser(c.Request.Context(), userID, limit, offset)
	if err != nil {
		h.fail(c, err, notificationNotFound)
		return
	}
	c.JSON(http.StatusOK, emptyIfNil(notes))
}

// MarkNotificationRead - PATCH /notifications/:id/read
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	n, err := h.notifications.MarkRead(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, notificationNotFound)
		return
	}
	c.JSON(http.StatusOK, n)
}

// MarkAllNotificationsRead - PATCH /notifications/user/:id/read_all; в ответе число отмеченных
func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	count, err := h.notifications.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err, notificationNotFound)
		return
	}
	c.JSON(http.StatusOK, count)
}

// LiveNotifications - GET /ws/notifications?token=. Неверный токен закрывает канал с кодом 4401.
func (h *Handler) LiveNotifications(c *gin.Context) {
	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade уже ответил клиенту
		h.logger.Debug("Websocket upgrade failed", zap.Error(err))
		return
	}

	id, err := h.verifier.Parse(c.Query("token"))
	if err != nil {
		h.logger.Debug("Live channel rejected", zap.Error(err))
		realtime.Reject(ws, realtime.CloseUnauthorized, "invalid token")
		return
	}

	h.hub.Serve(id.UserID, ws, h.wsTimeout)
}

// newUpgrader пропускает браузерные клиенты только с разрешённых origin
func newUpgrader(origins []string) websocket.Upgrader {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}

	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || len(allowed) == 0 {
				return true
			}
			_, ok := allowed[origin]
			return ok
		},
	}
}
