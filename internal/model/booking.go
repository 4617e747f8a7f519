package model

import "time"

type Modality string

const (
	ModalityInPerson  Modality = "presencial"
	ModalityVideoCall Modality = "videollamada"
)

func (m Modality) Valid() bool {
	return m == ModalityInPerson || m == ModalityVideoCall
}

// Booking - тьюторская сессия (tutoría) между студентом и преподавателем
type Booking struct {
	ID          int64      `json:"id_tutoria"`
	StudentID   int64      `json:"id_estudiante"`
	ProfessorID int64      `json:"id_profesor"`
	SubjectID   int64      `json:"id_asignatura"`
	StartTime   time.Time  `json:"fecha_hora_inicio"`
	EndTime     time.Time  `json:"fecha_hora_fin"`
	Modality    Modality   `json:"modalidad"`
	RequestedAt time.Time  `json:"fecha_solicitud"`
	ConfirmedAt *time.Time `json:"fecha_confirmacion,omitempty"`
	CanceledAt  *time.Time `json:"fecha_cancelacion,omitempty"`

	// Дополнительные поля для уведомлений (JOIN, не колонки таблицы)
	SubjectTitle  string `json:"titulo,omitempty"`
	ProfessorName string `json:"profesor,omitempty"`
	StudentName   string `json:"estudiante,omitempty"`
}

// Overlaps - пересечение полуоткрытых интервалов [StartTime, EndTime) и [start, end)
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartTime.Before(end) && b.EndTime.After(start)
}
