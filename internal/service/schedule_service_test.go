package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Freeeeeet/timetable_bot/internal/apperrors"
	"github.com/Freeeeeet/timetable_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newScheduleFixture() (*memDB, *ScheduleService) {
	db, detector := newDetectorFixture()
	return db, NewScheduleService(&memTx{db: db}, memSlots{db}, detector, zap.NewNop())
}

func TestValidateSlot(t *testing.T) {
	_, svc := newScheduleFixture()
	before := day("2026-08-01")

	tests := []struct {
		name   string
		mutate func(s *model.ScheduleSlot)
		valid  bool
	}{
		{"ok", func(s *model.ScheduleSlot) {}, true},
		{"end before start", func(s *model.ScheduleSlot) { s.EndTime = tod("08:00") }, false},
		{"empty range", func(s *model.ScheduleSlot) { s.EndTime = s.StartTime }, false},
		{"past midnight", func(s *model.ScheduleSlot) { s.EndTime = model.TimeOfDay(model.MinutesPerDay + 1) }, false},
		{"ends at midnight", func(s *model.ScheduleSlot) { s.EndTime = tod("24:00") }, true},
		{"bad weekday", func(s *model.ScheduleSlot) { s.DayOfWeek = time.Weekday(7) }, false},
		{"no offering", func(s *model.ScheduleSlot) { s.CourseOfferingID = 0 }, false},
		{"no valid_from", func(s *model.ScheduleSlot) { s.ValidFrom = time.Time{} }, false},
		{"valid_to before valid_from", func(s *model.ScheduleSlot) { s.ValidTo = &before }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot := mondaySlot(0, 1, "09:00", "10:00", "101")
			tt.mutate(slot)

			err := svc.ValidateSlot(slot)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}

	assert.ErrorIs(t, svc.ValidateSlot(nil), apperrors.ErrValidation)
}

func TestCreateSlotRejectsConflicts(t *testing.T) {
	db, svc := newScheduleFixture()
	db.addSlot(mondaySlot(10, 1, "09:00", "10:00", "101"))
	ctx := context.Background()

	slot := mondaySlot(0, 2, "09:30", "10:30", "202")
	conflicts, err := svc.CreateSlot(ctx, slot, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflictDetected)

	var conflictErr *ConflictError
	require.True(t, errors.As(err, &conflictErr))
	assert.Len(t, conflictErr.Conflicts, 1)
	assert.Equal(t, conflictErr.Conflicts, conflicts)
	assert.Zero(t, slot.ID)

	conflicts, err = svc.CreateSlot(ctx, slot, true)
	require.NoError(t, err)
	assert.Len(t, conflicts, 1)
	assert.NotZero(t, slot.ID)

	stored, err := svc.GetSlotsByCourseOffering(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestCreateSlotWithoutConflicts(t *testing.T) {
	db, svc := newScheduleFixture()
	db.addSlot(mondaySlot(10, 1, "09:00", "10:00", "101"))

	conflicts, err := svc.CreateSlot(context.Background(), mondaySlot(0, 1, "10:00", "11:30", "101"), false)
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestCreateSlotInvalid(t *testing.T) {
	_, svc := newScheduleFixture()

	_, err := svc.CreateSlot(context.Background(), mondaySlot(0, 1, "11:00", "10:00", "101"), true)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.CreateSlot(context.Background(), mondaySlot(0, 404, "09:00", "10:00", "101"), true)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpdateSlotExcludesItself(t *testing.T) {
	db, svc := newScheduleFixture()
	db.addSlot(mondaySlot(10, 1, "09:00", "10:00", "101"))
	ctx := context.Background()

	moved := mondaySlot(10, 1, "09:30", "10:30", "101")
	conflicts, err := svc.UpdateSlot(ctx, moved, false)
	require.NoError(t, err)
	assert.Empty(t, conflicts)

	stored, err := memSlots{db}.GetByID(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, tod("09:30"), stored.StartTime)

	_, err = svc.UpdateSlot(ctx, mondaySlot(404, 1, "09:30", "10:30", "101"), false)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = svc.UpdateSlot(ctx, nil, false)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestUpdateSlotKeepsStoredActiveState(t *testing.T) {
	db, svc := newScheduleFixture()
	db.addSlot(mondaySlot(10, 1, "09:00", "10:00", "101"))
	db.addSlot(mondaySlot(11, 1, "12:00", "13:00", "101"))
	ctx := context.Background()

	// перенос на занятое время с нулевым IsActive всё равно проверяется
	moved := mondaySlot(11, 1, "09:00", "10:00", "101")
	moved.IsActive = false
	conflicts, err := svc.UpdateSlot(ctx, moved, false)
	assert.ErrorIs(t, err, apperrors.ErrConflictDetected)
	assert.Len(t, conflicts, 3)

	stored, err := memSlots{db}.GetByID(ctx, 11)
	require.NoError(t, err)
	assert.True(t, stored.IsActive)
	assert.Equal(t, tod("12:00"), stored.StartTime)

	// выключенный слот переносится, но не включается обратно
	require.NoError(t, svc.DeactivateSlot(ctx, 11))
	revived := mondaySlot(11, 1, "15:00", "16:00", "101")
	_, err = svc.UpdateSlot(ctx, revived, false)
	require.NoError(t, err)

	stored, err = memSlots{db}.GetByID(ctx, 11)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
	assert.Equal(t, tod("15:00"), stored.StartTime)
}

func TestUpdateSlotKeepsOffering(t *testing.T) {
	db, svc := newScheduleFixture()
	db.addSlot(mondaySlot(10, 1, "09:00", "10:00", "101"))
	ctx := context.Background()

	_, err := svc.UpdateSlot(ctx, mondaySlot(10, 4, "11:00", "12:00", "101"), false)
	require.NoError(t, err)

	stored, err := svc.GetSlot(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.CourseOfferingID)

	_, err = svc.GetSlot(ctx, 404)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestConcurrentCreateSlotSameRoom(t *testing.T) {
	_, svc := newScheduleFixture()

	var (
		wg       sync.WaitGroup
		created  atomic.Int32
		rejected atomic.Int32
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// разные курсы и учителя, общая только аудитория
			_, err := svc.CreateSlot(context.Background(), mondaySlot(0, 4, "09:00", "10:00", "Lab-1"), false)
			switch {
			case err == nil:
				created.Add(1)
			case errors.Is(err, apperrors.ErrConflictDetected):
				rejected.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, created.Load())
	assert.EqualValues(t, 7, rejected.Load())
}

func TestDeactivateSlot(t *testing.T) {
	db, svc := newScheduleFixture()
	db.addSlot(mondaySlot(10, 1, "09:00", "10:00", "101"))
	ctx := context.Background()

	require.NoError(t, svc.DeactivateSlot(ctx, 10))
	require.NoError(t, svc.DeactivateSlot(ctx, 10))
	assert.ErrorIs(t, svc.DeactivateSlot(ctx, 404), apperrors.ErrNotFound)

	conflicts, err := svc.CheckSlot(ctx, mondaySlot(0, 1, "09:00", "10:00", "101"), nil)
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}
