package formatting

import (
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/timetable_bot/internal/model"
)

var dimensionNames = map[model.ConflictDimension]string{
	model.ConflictTeacher: "👨‍🏫 учитель",
	model.ConflictRoom:    "🚪 аудитория",
	model.ConflictGroup:   "👥 группа",
}

// FormatSlotShort форматирует слот в одну строку: "Пн 09:00-10:30, ауд. 101"
func FormatSlotShort(slot *model.ScheduleSlot) string {
	text := fmt.Sprintf("%s %s", GetWeekdayShort(slot.DayOfWeek), FormatTimeRange(slot.StartTime, slot.EndTime))
	if room := strings.TrimSpace(slot.Room); room != "" {
		text += ", ауд. " + room
	}
	return text
}

// FormatSlotInfo форматирует слот с периодом действия
func FormatSlotInfo(slot *model.ScheduleSlot) string {
	validity := "с " + FormatDate(slot.ValidFrom)
	if slot.ValidTo != nil {
		validity += " по " + FormatDate(*slot.ValidTo)
	}

	text := fmt.Sprintf("📅 %s, %s (%s)",
		GetWeekdayName(slot.DayOfWeek),
		FormatTimeRange(slot.StartTime, slot.EndTime),
		FormatDuration(slot.Duration()),
	)
	if room := strings.TrimSpace(slot.Room); room != "" {
		text += "\n🚪 Аудитория " + room
	}
	return text + "\n🗓 Действует " + validity
}

// FormatConflicts форматирует список пересечений, по строке на каждое
func FormatConflicts(conflicts []model.Conflict) string {
	if len(conflicts) == 0 {
		return "✅ Пересечений нет"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "⚠️ Найдено %d %s:\n", len(conflicts), PluralizeConflicts(len(conflicts)))
	for i, c := range conflicts {
		fmt.Fprintf(&sb, "\n%d. %s, слот #%d курса #%d (%s)",
			i+1,
			FormatSlotShort(c.Slot),
			c.Slot.ID,
			c.Slot.CourseOfferingID,
			dimensionNames[c.Dimension],
		)
	}
	return sb.String()
}

// FormatOffering форматирует карточку курса с занятостью мест
func FormatOffering(view *model.OfferingView) string {
	free := view.MaxSeats - view.EnrolledCount
	if free < 0 {
		free = 0
	}

	status := "✅ Идёт запись"
	switch {
	case !view.IsActive:
		status = "⏸ Курс неактивен"
	case !view.HasAvailableSeats:
		status = "🚫 Мест нет"
	}

	title := view.Title
	if title == "" {
		title = fmt.Sprintf("Курс #%d", view.ID)
	}

	text := fmt.Sprintf(
		"📚 %s\n\n"+
			"🪑 Занято %d из %d, свободно %d %s\n"+
			"📊 %s",
		title,
		view.EnrolledCount, view.MaxSeats, free, PluralizeSeats(free),
		status,
	)

	if view.PeriodName != "" {
		text += fmt.Sprintf("\n🗓 %s: %s - %s", view.PeriodName, FormatDate(view.StartsOn), FormatDate(view.EndsOn))
	}

	return text
}

// FormatBulkResult форматирует итог массовой записи
func FormatBulkResult(result *model.BulkResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "📋 Массовая запись на курс #%d\n\n", result.CourseOfferingID)
	fmt.Fprintf(&sb, "✅ Записано: %d %s\n", result.SuccessCount, PluralizeStudents(result.SuccessCount))
	fmt.Fprintf(&sb, "❌ Ошибок: %d", result.FailureCount)

	for _, itemErr := range result.Errors {
		fmt.Fprintf(&sb, "\n  • #%d: %s", itemErr.StudentID, itemErr.Message)
	}

	if result.Cancelled {
		fmt.Fprintf(&sb, "\n\n⏹ Прервано, не обработано: %d %s",
			len(result.NotAttempted), PluralizeStudents(len(result.NotAttempted)))
	}

	fmt.Fprintf(&sb, "\n\n🔖 %s", result.OperationID)
	return sb.String()
}

// FormatEnrollment форматирует запись студента
func FormatEnrollment(e *model.Enrollment) string {
	status := map[model.EnrollmentStatus]string{
		model.EnrollmentStatusActive:    "✅ активна",
		model.EnrollmentStatusCancelled: "❌ отменена",
		model.EnrollmentStatusCompleted: "🎓 завершена",
	}[e.Status]

	return fmt.Sprintf("Запись #%d: студент #%d, курс #%d, %s",
		e.ID, e.StudentID, e.CourseOfferingID, status)
}

// FormatSlotList форматирует расписание курса. Отменённые и не действующие на today занятия помечаются.
func FormatSlotList(offeringID int64, slots []*model.ScheduleSlot, today time.Time) string {
	if len(slots) == 0 {
		return fmt.Sprintf("📭 У курса #%d нет занятий", offeringID)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 Расписание курса #%d:\n", offeringID)
	for _, slot := range slots {
		mark := "✅"
		switch {
		case !slot.IsActive:
			mark = "🗑"
		case !slot.ValidOn(today):
			mark = "⏸"
		}
		fmt.Fprintf(&sb, "\n%s #%d %s", mark, slot.ID, FormatSlotShort(slot))
	}
	return sb.String()
}

// FormatEnrollmentList форматирует историю записей на курс
func FormatEnrollmentList(offeringID int64, enrollments []*model.Enrollment) string {
	if len(enrollments) == 0 {
		return fmt.Sprintf("📭 На курс #%d никто не записывался", offeringID)
	}

	active := 0
	for _, e := range enrollments {
		if e.IsActive() {
			active++
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 Записи на курс #%d, активных %d:\n", offeringID, active)
	for _, e := range enrollments {
		sb.WriteString("\n" + FormatEnrollment(e))
	}
	return sb.String()
}
