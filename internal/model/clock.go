package model

import (
	"fmt"
	"time"
)

// Clock - время суток с точностью до секунды (секунды от полуночи)
type Clock int

const clockLayout = "15:04:05"

func NewClock(hour, minute, second int) Clock {
	return Clock(hour*3600 + minute*60 + second)
}

// ClockOf берёт время суток из t в его локации
func ClockOf(t time.Time) Clock {
	return NewClock(t.Hour(), t.Minute(), t.Second())
}

// ClockCeilOf как ClockOf, но доли секунды округляет вверх.
// Для концов интервалов: 10:00:00.9 не помещается в окно до 10:00.
func ClockCeilOf(t time.Time) Clock {
	c := ClockOf(t)
	if t.Nanosecond() > 0 {
		c++
	}
	return c
}

// ParseClock принимает "HH:MM" или "HH:MM:SS"
func ParseClock(s string) (Clock, error) {
	for _, layout := range []string{clockLayout, "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return ClockOf(t), nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q", s)
}

func (c Clock) Hour() int   { return int(c) / 3600 }
func (c Clock) Minute() int { return int(c) % 3600 / 60 }
func (c Clock) Second() int { return int(c) % 60 }

func (c Clock) Duration() time.Duration {
	return time.Duration(c) * time.Second
}

// On переносит время суток на календарную дату date (в локации date)
func (c Clock) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, c.Hour(), c.Minute(), c.Second(), 0, date.Location())
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour(), c.Minute(), c.Second())
}

func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Clock) UnmarshalText(text []byte) error {
	parsed, err := ParseClock(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
