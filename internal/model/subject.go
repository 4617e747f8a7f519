package model

type Subject struct {
	ID    int64  `json:"id_asignatura"`
	Title string `json:"nombre_asignatura"`
}

// SubjectAssignment связывает преподавателя с предметом. Пара (профессор, предмет) уникальна.
type SubjectAssignment struct {
	ID          int64 `json:"id"`
	ProfessorID int64 `json:"id_profesor"`
	SubjectID   int64 `json:"id_asignatura"`
}
