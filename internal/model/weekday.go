package model

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Weekday - день недели в том виде, в котором он хранится в БД (испанский, без диакритики)
type Weekday string

const (
	Monday    Weekday = "lunes"
	Tuesday   Weekday = "martes"
	Wednesday Weekday = "miercoles"
	Thursday  Weekday = "jueves"
	Friday    Weekday = "viernes"
	Saturday  Weekday = "sabado"
	Sunday    Weekday = "domingo"
)

// индекс совпадает с time.Weekday (0 = Sunday)
var weekdays = [7]Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

var englishWeekdays = map[string]Weekday{
	"monday":    Monday,
	"tuesday":   Tuesday,
	"wednesday": Wednesday,
	"thursday":  Thursday,
	"friday":    Friday,
	"saturday":  Saturday,
	"sunday":    Sunday,
}

// WeekdayOf возвращает день недели для t в его собственной локации
func WeekdayOf(t time.Time) Weekday {
	return weekdays[t.Weekday()]
}

// NormalizeWeekday убирает диакритику, пробелы и приводит к нижнему регистру ("Miércoles" -> "miercoles")
func NormalizeWeekday(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// ParseWeekday принимает испанское или английское название дня в любом регистре
func ParseWeekday(s string) (Weekday, error) {
	n := NormalizeWeekday(s)
	for _, w := range weekdays {
		if string(w) == n {
			return w, nil
		}
	}
	if w, ok := englishWeekdays[n]; ok {
		return w, nil
	}
	return "", fmt.Errorf("unknown weekday %q", s)
}

// Index возвращает соответствующий time.Weekday
func (w Weekday) Index() time.Weekday {
	for i, d := range weekdays {
		if d == w {
			return time.Weekday(i)
		}
	}
	return -1
}

func (w Weekday) Valid() bool {
	return w.Index() >= 0
}
