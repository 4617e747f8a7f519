package model

import (
	"fmt"
	"time"
)

// MinWindowLength - окно короче часа не вмещает ни одного слота
const MinWindowLength = time.Hour

// AvailabilityWindow - еженедельное окно доступности преподавателя по предмету
type AvailabilityWindow struct {
	ID          int64   `json:"id_disponibilidad"`
	ProfessorID int64   `json:"id_profesor"`
	SubjectID   int64   `json:"id_asignatura"`
	Weekday     Weekday `json:"dia_semana"`
	StartTime   Clock   `json:"hora_inicio"`
	EndTime     Clock   `json:"hora_fin"`
}

// Validate проверяет день недели и минимальную длину окна
func (w *AvailabilityWindow) Validate() error {
	if !w.Weekday.Valid() {
		return fmt.Errorf("unknown weekday %q", w.Weekday)
	}
	if w.EndTime.Duration()-w.StartTime.Duration() < MinWindowLength {
		return fmt.Errorf("window %s-%s is shorter than %s", w.StartTime, w.EndTime, MinWindowLength)
	}
	return nil
}

// Covers - окно целиком вмещает интервал [start, end) времени суток
func (w *AvailabilityWindow) Covers(start, end Clock) bool {
	return w.StartTime <= start && w.EndTime >= end
}

// FreeSlot - свободный часовой слот внутри окна
type FreeSlot struct {
	Start Clock `json:"inicio"`
	End   Clock `json:"fin"`
}
