package model

import "time"

// ScheduleSlot еженедельное занятие курса.
// Преподаватель и группа в слоте не хранятся, они берутся из курса.
type ScheduleSlot struct {
	ID               int64        `json:"id"`
	CourseOfferingID int64        `json:"course_offering_id" validate:"required"`
	DayOfWeek        time.Weekday `json:"day_of_week" validate:"gte=0,lte=6"` // 0 = воскресенье, 6 = суббота
	StartTime        TimeOfDay    `json:"start_time" validate:"gte=0,lte=1440,ltfield=EndTime"`
	EndTime          TimeOfDay    `json:"end_time" validate:"gte=0,lte=1440"`
	Room             string       `json:"room" validate:"max=64"`
	ValidFrom        time.Time    `json:"valid_from" validate:"required"`
	ValidTo          *time.Time   `json:"valid_to"` // nil = без даты окончания
	IsActive         bool         `json:"is_active"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

func (s *ScheduleSlot) EntityID() int64               { return s.ID }
func (s *ScheduleSlot) SetCreatedAt(t time.Time)      { s.CreatedAt = t }
func (s *ScheduleSlot) SetLastModifiedAt(t time.Time) { s.UpdatedAt = t }

// Duration длительность одного занятия
func (s *ScheduleSlot) Duration() time.Duration {
	return time.Duration(s.EndTime-s.StartTime) * time.Minute
}

// ValidOn действует ли слот в указанный день
func (s *ScheduleSlot) ValidOn(day time.Time) bool {
	d := DateOnly(day)
	if d.Before(DateOnly(s.ValidFrom)) {
		return false
	}
	return s.ValidTo == nil || !d.After(DateOnly(*s.ValidTo))
}

// DateOnly обрезает t до календарной даты в UTC
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
