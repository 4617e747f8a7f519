package service

import "errors"

var (
	// ErrNotAssigned - преподаватель не назначен на предмет
	ErrNotAssigned = errors.New("professor is not assigned to subject")
	// ErrNoAvailability - ни одно окно доступности не вмещает интервал
	ErrNoAvailability = errors.New("professor has no availability for the requested time")
	// ErrOverlapConflict - интервал пересекается с сессией преподавателя или студента
	ErrOverlapConflict = errors.New("booking overlaps an existing session")
	// ErrNotFound - запрошенная сущность отсутствует
	ErrNotFound = errors.New("not found")
	// ErrRescheduleWindow - перенос ближе чем за 24 часа запрещён
	ErrRescheduleWindow = errors.New("reschedule is not allowed less than 24h in advance")
	// ErrInvalidInput - некорректные входные данные
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotProfessor - пользователь не является преподавателем
	ErrNotProfessor = errors.New("user is not a professor")
)
