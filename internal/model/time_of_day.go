package model

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeOfDay минуты от полуночи. 24:00 (MinutesPerDay) допустимо как конец интервала.
type TimeOfDay int

const MinutesPerDay TimeOfDay = 24 * 60

// NewTimeOfDay из часов и минут
func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// ParseTimeOfDay разбирает "ЧЧ:ММ"
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", s, err)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q: %w", s, err)
	}
	t := NewTimeOfDay(hour, minute)
	if minute < 0 || minute > 59 || hour < 0 || !t.Valid() {
		return 0, fmt.Errorf("time %q out of range", s)
	}
	return t, nil
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

// Valid попадает ли t в пределы суток
func (t TimeOfDay) Valid() bool {
	return t >= 0 && t <= MinutesPerDay
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}
