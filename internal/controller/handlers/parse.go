package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/timetable_bot/internal/apperrors"
	"github.com/Freeeeeet/timetable_bot/internal/model"
)

var weekdayAliases = map[string]time.Weekday{
	"пн": time.Monday, "понедельник": time.Monday, "mon": time.Monday, "monday": time.Monday,
	"вт": time.Tuesday, "вторник": time.Tuesday, "tue": time.Tuesday, "tuesday": time.Tuesday,
	"ср": time.Wednesday, "среда": time.Wednesday, "wed": time.Wednesday, "wednesday": time.Wednesday,
	"чт": time.Thursday, "четверг": time.Thursday, "thu": time.Thursday, "thursday": time.Thursday,
	"пт": time.Friday, "пятница": time.Friday, "fri": time.Friday, "friday": time.Friday,
	"сб": time.Saturday, "суббота": time.Saturday, "sat": time.Saturday, "saturday": time.Saturday,
	"вс": time.Sunday, "воскресенье": time.Sunday, "sun": time.Sunday, "sunday": time.Sunday,
}

// SplitCommand разбирает "/cmd@bot a b" на "cmd" и аргументы
func SplitCommand(text string) (string, []string) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", nil
	}

	cmd := strings.TrimPrefix(fields[0], "/")
	if at := strings.IndexByte(cmd, '@'); at >= 0 {
		cmd = cmd[:at]
	}
	return strings.ToLower(cmd), fields[1:]
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.Newf(apperrors.CodeValidation, "%q is not a valid id", s)
	}
	return id, nil
}

// parseIDs принимает ID через пробел и/или запятую, дубликаты отбрасываются с сохранением порядка
func parseIDs(args []string) ([]int64, error) {
	seen := make(map[int64]struct{})
	var ids []int64

	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := parseID(part)
			if err != nil {
				return nil, err
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	if len(ids) == 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "no student ids given")
	}
	return ids, nil
}

// parseWeekday понимает русские и английские названия и номера 1-7 (1 = понедельник)
func parseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if wd, ok := weekdayAliases[s]; ok {
		return wd, nil
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= 7 {
		return time.Weekday(n % 7), nil
	}
	return 0, apperrors.Newf(apperrors.CodeValidation, "unknown weekday %q", s)
}

// parseTimeRange разбирает "09:00-10:30"
func parseTimeRange(s string) (model.TimeOfDay, model.TimeOfDay, error) {
	startText, endText, ok := strings.Cut(s, "-")
	if !ok {
		return 0, 0, apperrors.Newf(apperrors.CodeValidation, "time range %q must look like 09:00-10:30", s)
	}

	start, err := model.ParseTimeOfDay(strings.TrimSpace(startText))
	if err != nil {
		return 0, 0, apperrors.Wrap(apperrors.CodeValidation, "invalid start time", err)
	}
	end, err := model.ParseTimeOfDay(strings.TrimSpace(endText))
	if err != nil {
		return 0, 0, apperrors.Wrap(apperrors.CodeValidation, "invalid end time", err)
	}
	return start, end, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "02.01.2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperrors.Newf(apperrors.CodeValidation, "date %q must be YYYY-MM-DD or DD.MM.YYYY", s)
}

// slotArgs результат разбора "<курс> <день> <чч:мм-чч:мм> [аудитория] [from=дата] [to=дата] [force]"
type slotArgs struct {
	slot  *model.ScheduleSlot
	force bool
}

func parseSlotArgs(args []string, today time.Time) (*slotArgs, error) {
	if len(args) < 3 {
		return nil, apperrors.New(apperrors.CodeValidation, "expected <offering_id> <weekday> <HH:MM-HH:MM>")
	}

	offeringID, err := parseID(args[0])
	if err != nil {
		return nil, err
	}

	slot := &model.ScheduleSlot{
		CourseOfferingID: offeringID,
		ValidFrom:        model.DateOnly(today),
		IsActive:         true,
	}
	return applySlotArgs(slot, args[1:])
}

// parseMoveArgs разбирает "<слот> <день> <чч:мм-чч:мм> [аудитория] [from=дата] [to=дата] [force]"
// поверх сохранённого слота: не указанные аудитория и даты остаются прежними
func parseMoveArgs(args []string, current *model.ScheduleSlot) (*slotArgs, error) {
	if len(args) < 3 {
		return nil, apperrors.New(apperrors.CodeValidation, "expected <slot_id> <weekday> <HH:MM-HH:MM>")
	}

	moved := *current
	if current.ValidTo != nil {
		validTo := *current.ValidTo
		moved.ValidTo = &validTo
	}
	return applySlotArgs(&moved, args[1:])
}

func applySlotArgs(slot *model.ScheduleSlot, args []string) (*slotArgs, error) {
	weekday, err := parseWeekday(args[0])
	if err != nil {
		return nil, err
	}
	start, end, err := parseTimeRange(args[1])
	if err != nil {
		return nil, err
	}

	slot.DayOfWeek = weekday
	slot.StartTime = start
	slot.EndTime = end

	parsed := &slotArgs{slot: slot}
	roomSet := false

	for _, arg := range args[2:] {
		key, value, hasValue := strings.Cut(arg, "=")
		switch {
		case strings.EqualFold(arg, "force"):
			parsed.force = true
		case hasValue && strings.EqualFold(key, "from"):
			from, err := parseDate(value)
			if err != nil {
				return nil, err
			}
			slot.ValidFrom = from
		case hasValue && strings.EqualFold(key, "to"):
			to, err := parseDate(value)
			if err != nil {
				return nil, err
			}
			slot.ValidTo = &to
		case !roomSet:
			slot.Room = arg
			roomSet = true
		default:
			return nil, apperrors.Newf(apperrors.CodeValidation, "unexpected argument %q", arg)
		}
	}

	return parsed, nil
}

// parseSeats разбирает неотрицательное число мест
func parseSeats(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, apperrors.Newf(apperrors.CodeValidation, "%q is not a valid number of seats", s)
	}
	return n, nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
