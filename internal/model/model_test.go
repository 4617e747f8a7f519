package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeWeekday(t *testing.T) {
	cases := map[string]string{
		"Miércoles":  "miercoles",
		"  SÁBADO ":  "sabado",
		"lunes":      "lunes",
		"Domingo":    "domingo",
		"VIERNES\t":  "viernes",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeWeekday(in), in)
	}
}

func TestParseWeekday(t *testing.T) {
	w, err := ParseWeekday("Miércoles")
	require.NoError(t, err)
	assert.Equal(t, Wednesday, w)

	w, err = ParseWeekday("Saturday")
	require.NoError(t, err)
	assert.Equal(t, Saturday, w)

	_, err = ParseWeekday("someday")
	assert.Error(t, err)
}

func TestWeekdayOf(t *testing.T) {
	// 2026-10-19 - понедельник
	monday := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, Monday, WeekdayOf(monday))
	assert.Equal(t, Sunday, WeekdayOf(monday.AddDate(0, 0, -1)))
	assert.Equal(t, time.Monday, Monday.Index())
	assert.False(t, Weekday("luns").Valid())
}

func TestClock(t *testing.T) {
	c, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, NewClock(9, 30, 0), c)
	assert.Equal(t, "09:30:00", c.String())

	c, err = ParseClock("17:05:09")
	require.NoError(t, err)
	assert.Equal(t, 17, c.Hour())
	assert.Equal(t, 5, c.Minute())
	assert.Equal(t, 9, c.Second())

	_, err = ParseClock("25:00")
	assert.Error(t, err)

	date := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 10, 19, 17, 5, 9, 0, time.UTC), c.On(date))
	assert.Equal(t, c, ClockOf(c.On(date)))
}

func TestClockCeilOf(t *testing.T) {
	exact := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, NewClock(10, 0, 0), ClockCeilOf(exact))
	assert.Equal(t, NewClock(10, 0, 1), ClockCeilOf(exact.Add(time.Nanosecond)))
	assert.Equal(t, NewClock(10, 0, 1), ClockCeilOf(exact.Add(900*time.Millisecond)))
	assert.Equal(t, NewClock(10, 0, 0), ClockOf(exact.Add(900*time.Millisecond)))
}

func TestClockJSON(t *testing.T) {
	slot := FreeSlot{Start: NewClock(10, 0, 0), End: NewClock(11, 0, 0)}
	data, err := json.Marshal(slot)
	require.NoError(t, err)
	assert.JSONEq(t, `{"inicio":"10:00:00","fin":"11:00:00"}`, string(data))

	var w AvailabilityWindow
	require.NoError(t, json.Unmarshal([]byte(`{"dia_semana":"lunes","hora_inicio":"08:00","hora_fin":"10:00:00"}`), &w))
	assert.Equal(t, NewClock(8, 0, 0), w.StartTime)
	assert.Equal(t, NewClock(10, 0, 0), w.EndTime)
}

func TestAvailabilityWindowValidate(t *testing.T) {
	w := AvailabilityWindow{Weekday: Monday, StartTime: NewClock(9, 0, 0), EndTime: NewClock(10, 0, 0)}
	assert.NoError(t, w.Validate())

	w.EndTime = NewClock(9, 59, 0)
	assert.Error(t, w.Validate())

	w.EndTime = NewClock(11, 0, 0)
	w.Weekday = "funday"
	assert.Error(t, w.Validate())
}

func TestAvailabilityWindowCovers(t *testing.T) {
	w := AvailabilityWindow{Weekday: Monday, StartTime: NewClock(9, 0, 0), EndTime: NewClock(11, 0, 0)}
	assert.True(t, w.Covers(NewClock(9, 0, 0), NewClock(10, 0, 0)))
	assert.True(t, w.Covers(NewClock(9, 0, 0), NewClock(11, 0, 0)))
	assert.False(t, w.Covers(NewClock(8, 59, 0), NewClock(10, 0, 0)))
	assert.False(t, w.Covers(NewClock(10, 30, 0), NewClock(11, 30, 0)))
}

func TestBookingOverlaps(t *testing.T) {
	base := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	b := Booking{StartTime: base, EndTime: base.Add(time.Hour)}

	assert.True(t, b.Overlaps(base.Add(30*time.Minute), base.Add(90*time.Minute)))
	assert.True(t, b.Overlaps(base.Add(-time.Hour), base.Add(2*time.Hour)))
	// соседние интервалы не пересекаются
	assert.False(t, b.Overlaps(base.Add(time.Hour), base.Add(2*time.Hour)))
	assert.False(t, b.Overlaps(base.Add(-time.Hour), base))
}

func TestNotificationRecipient(t *testing.T) {
	student, professor := int64(7), int64(9)
	assert.Equal(t, student, (&Notification{StudentID: &student}).RecipientID())
	assert.Equal(t, professor, (&Notification{ProfessorID: &professor}).RecipientID())
	assert.Equal(t, int64(0), (&Notification{}).RecipientID())
}

func TestUserFullName(t *testing.T) {
	u := User{FirstName: "Ana", LastName: "Pérez", Role: RoleProfessor}
	assert.Equal(t, "Ana Pérez", u.FullName())
	assert.True(t, u.IsProfessor())
	assert.Equal(t, "Ana", (&User{FirstName: "Ana"}).FullName())
}
