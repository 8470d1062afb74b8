package handlers

import (
	"testing"
	"time"

	"github.com/Freeeeeet/timetable_bot/internal/apperrors"
	"github.com/Freeeeeet/timetable_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitCommand(t *testing.T) {
	cmd, args := SplitCommand("/Enroll@timetable_bot 12  7")
	assert.Equal(t, "enroll", cmd)
	assert.Equal(t, []string{"12", "7"}, args)

	cmd, args = SplitCommand("hello")
	assert.Empty(t, cmd)
	assert.Nil(t, args)
}

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs([]string{"3,4", "5", "#4", ",6,"})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 4, 5, 6}, ids)

	_, err = parseIDs([]string{"3", "x"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = parseIDs([]string{","})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = parseIDs([]string{"0"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestParseWeekday(t *testing.T) {
	tests := map[string]time.Weekday{
		"пн":      time.Monday,
		"Среда":   time.Wednesday,
		"fri":     time.Friday,
		"1":       time.Monday,
		"7":       time.Sunday,
		" SUNDAY": time.Sunday,
	}
	for in, want := range tests {
		got, err := parseWeekday(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"0", "8", "funday", ""} {
		_, err := parseWeekday(in)
		assert.ErrorIs(t, err, apperrors.ErrValidation, in)
	}
}

func TestParseTimeRange(t *testing.T) {
	start, end, err := parseTimeRange("09:00-10:30")
	require.NoError(t, err)
	assert.Equal(t, model.TimeOfDay(540), start)
	assert.Equal(t, model.TimeOfDay(630), end)

	for _, in := range []string{"09:00", "9-10", "09:00-25:00"} {
		_, _, err := parseTimeRange(in)
		assert.ErrorIs(t, err, apperrors.ErrValidation, in)
	}
}

func TestParseSlotArgs(t *testing.T) {
	today := time.Date(2026, 9, 14, 15, 30, 0, 0, time.UTC)

	parsed, err := parseSlotArgs([]string{"5", "вт", "10:00-11:30", "A-101", "to=2026-12-31", "force"}, today)
	require.NoError(t, err)

	slot := parsed.slot
	assert.True(t, parsed.force)
	assert.Equal(t, int64(5), slot.CourseOfferingID)
	assert.Equal(t, time.Tuesday, slot.DayOfWeek)
	assert.Equal(t, "A-101", slot.Room)
	assert.Equal(t, time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC), slot.ValidFrom)
	require.NotNil(t, slot.ValidTo)
	assert.Equal(t, time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), *slot.ValidTo)
	assert.True(t, slot.IsActive)

	parsed, err = parseSlotArgs([]string{"5", "1", "10:00-11:30", "from=01.10.2026"}, today)
	require.NoError(t, err)
	assert.False(t, parsed.force)
	assert.Empty(t, parsed.slot.Room)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), parsed.slot.ValidFrom)

	bad := [][]string{
		{"5", "пн"},
		{"x", "пн", "10:00-11:00"},
		{"5", "пн", "10:00-11:00", "101", "102"},
		{"5", "пн", "10:00-11:00", "to=tomorrow"},
	}
	for _, args := range bad {
		_, err := parseSlotArgs(args, today)
		assert.ErrorIs(t, err, apperrors.ErrValidation, args)
	}
}

func TestParseMoveArgs(t *testing.T) {
	validTo := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	current := &model.ScheduleSlot{
		ID:               11,
		CourseOfferingID: 5,
		DayOfWeek:        time.Monday,
		StartTime:        model.NewTimeOfDay(9, 0),
		EndTime:          model.NewTimeOfDay(10, 0),
		Room:             "101",
		ValidFrom:        time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		ValidTo:          &validTo,
		IsActive:         true,
	}

	parsed, err := parseMoveArgs([]string{"11", "ср", "12:00-13:30"}, current)
	require.NoError(t, err)
	assert.False(t, parsed.force)
	assert.Equal(t, int64(11), parsed.slot.ID)
	assert.Equal(t, time.Wednesday, parsed.slot.DayOfWeek)
	assert.Equal(t, model.NewTimeOfDay(12, 0), parsed.slot.StartTime)
	assert.Equal(t, "101", parsed.slot.Room)
	assert.Equal(t, current.ValidFrom, parsed.slot.ValidFrom)
	require.NotNil(t, parsed.slot.ValidTo)
	assert.Equal(t, validTo, *parsed.slot.ValidTo)

	parsed, err = parseMoveArgs([]string{"11", "пт", "12:00-13:30", "B-2", "to=2027-01-31", "force"}, current)
	require.NoError(t, err)
	assert.True(t, parsed.force)
	assert.Equal(t, "B-2", parsed.slot.Room)
	assert.Equal(t, time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC), *parsed.slot.ValidTo)

	// сохранённый слот не меняется
	assert.Equal(t, time.Monday, current.DayOfWeek)
	assert.Equal(t, "101", current.Room)
	assert.Equal(t, validTo, *current.ValidTo)

	_, err = parseMoveArgs([]string{"11", "пт"}, current)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestParseSeats(t *testing.T) {
	n, err := parseSeats("25")
	require.NoError(t, err)
	assert.Equal(t, 25, n)

	n, err = parseSeats("0")
	require.NoError(t, err)
	assert.Zero(t, n)

	for _, in := range []string{"-1", "many", ""} {
		_, err := parseSeats(in)
		assert.ErrorIs(t, err, apperrors.ErrValidation, in)
	}
}
