package service

import (
	"context"
	"testing"

	"github.com/Freeeeeet/timetable_bot/internal/apperrors"
	"github.com/Freeeeeet/timetable_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDescribeOffering(t *testing.T) {
	db := newMemDB()
	title := "Алгоритмы, поток Б"
	db.subjects[5] = &model.Subject{ID: 5, Name: "Алгоритмы", Description: "Базовый курс", Credits: 4}
	db.periods[6] = &model.AcademicPeriod{ID: 6, Name: "Осень 2026", StartsOn: day("2026-09-01"), EndsOn: day("2026-12-31")}
	db.addOffering(&model.CourseOffering{
		ID: 1, SubjectID: 5, AcademicPeriodID: 6, TeacherID: 7, GroupID: 1,
		MaxSeats: 1, IsActive: true, TitleOverride: &title,
	})
	db.addStudent(1, 1)

	enrollments := memEnrollments{db}
	capacity := NewCapacityTracker(enrollments)
	svc := NewOfferingService(&memTx{db: db}, memOfferings{db}, memCatalog{db}, capacity, zap.NewNop())
	enroll := NewEnrollmentService(&memTx{db: db}, memOfferings{db}, memUsers{db}, enrollments, capacity, zap.NewNop())
	ctx := context.Background()

	view, err := svc.Describe(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, title, view.Title)
	assert.Equal(t, "Базовый курс", view.Description)
	assert.Equal(t, 4, view.Credits)
	assert.Equal(t, "Осень 2026", view.PeriodName)
	assert.Equal(t, day("2026-09-01"), view.StartsOn)
	assert.True(t, view.HasAvailableSeats)

	_, err = enroll.Enroll(ctx, 1, 1)
	require.NoError(t, err)

	view, err = svc.Describe(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, view.EnrolledCount)
	assert.False(t, view.HasAvailableSeats)

	_, err = svc.Describe(ctx, 404)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSetCapacity(t *testing.T) {
	f := newEnrollmentFixture(t, 3)
	capacity := NewCapacityTracker(memEnrollments{f.db})
	svc := NewOfferingService(f.tx, memOfferings{f.db}, memCatalog{f.db}, capacity, zap.NewNop())
	ctx := WithActor(context.Background(), Actor{UserID: 99, Role: model.RoleStaff})

	for _, studentID := range []int64{1, 2} {
		_, err := f.service.Enroll(ctx, 1, studentID)
		require.NoError(t, err)
	}

	err := svc.SetCapacity(ctx, 1, -1)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	err = svc.SetCapacity(ctx, 1, 1)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	err = svc.SetCapacity(ctx, 404, 10)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, svc.SetCapacity(ctx, 1, 2))
	offering, err := memOfferings{f.db}.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, offering.MaxSeats)

	// новое ограничение действует на следующую запись
	_, err = f.service.Enroll(ctx, 1, 3)
	assert.ErrorIs(t, err, apperrors.ErrCapacityExceeded)

	require.NoError(t, svc.SetCapacity(ctx, 1, 5))
	_, err = f.service.Enroll(ctx, 1, 3)
	require.NoError(t, err)
}
