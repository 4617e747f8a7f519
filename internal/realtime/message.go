package realtime

import (
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
)

const MessageTypeNotification = "notification"

// NotificationMessage - то, что получает клиент по живому каналу
type NotificationMessage struct {
	Type        string `json:"type"`
	ID          int64  `json:"id"`
	Title       string `json:"titulo"`
	Description string `json:"descripcion"`
	Read        bool   `json:"leida"`
	CreatedAt   string `json:"fecha_creacion"`
	Kind        string `json:"tipo"`
}

func NewNotificationMessage(n *model.Notification) NotificationMessage {
	return NotificationMessage{
		Type:        MessageTypeNotification,
		ID:          n.ID,
		Title:       n.Title,
		Description: n.Description,
		Read:        n.Read,
		CreatedAt:   n.CreatedAt.Format(time.RFC3339),
		Kind:        string(n.Kind),
	}
}
