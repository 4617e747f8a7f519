package repository

import (
	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/jackc/pgx/v5/pgtype"
)

// TIME в Postgres хранится в микросекундах от полуночи
func toPgTime(c model.Clock) pgtype.Time {
	return pgtype.Time{Microseconds: c.Duration().Microseconds(), Valid: true}
}

func fromPgTime(t pgtype.Time) model.Clock {
	return model.Clock(t.Microseconds / 1_000_000)
}
