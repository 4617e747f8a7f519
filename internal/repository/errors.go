package repository

import "errors"

var (
	// ErrAlreadyExists - запись с таким уникальным ключом уже есть
	ErrAlreadyExists = errors.New("already exists")
	// ErrOverlap - БД отклонила интервал, пересекающийся с существующей сессией
	ErrOverlap = errors.New("overlapping booking")
)
