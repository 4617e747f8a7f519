package model

import "time"

type NotificationKind string

const (
	NotificationCreated     NotificationKind = "CREATED"
	NotificationRescheduled NotificationKind = "RESCHEDULED"
	NotificationCanceled    NotificationKind = "CANCELED"
)

type Notification struct {
	ID          int64            `json:"id_notificacion"`
	StudentID   *int64           `json:"id_estudiante"`
	ProfessorID *int64           `json:"id_profesor"`
	Title       string           `json:"titulo"`
	Description string           `json:"descripcion"`
	Kind        NotificationKind `json:"tipo"`
	Read        bool             `json:"leida"`
	CreatedAt   time.Time        `json:"fecha_creacion"`
}

// RecipientID возвращает адресата: студента, если он задан, иначе преподавателя
func (n *Notification) RecipientID() int64 {
	if n.StudentID != nil {
		return *n.StudentID
	}
	if n.ProfessorID != nil {
		return *n.ProfessorID
	}
	return 0
}
