package service

import (
	"context"

	"github.com/Freeeeeet/timetable_bot/internal/apperrors"
)

// CapacityTracker считает занятые места. Внутри транзакции читает через неё,
// поэтому проверка и последующая запись видят одно и то же состояние.
type CapacityTracker struct {
	enrollments EnrollmentStore
}

func NewCapacityTracker(enrollments EnrollmentStore) *CapacityTracker {
	return &CapacityTracker{enrollments: enrollments}
}

// ActiveEnrollmentCount возвращает количество активных записей на курс
func (c *CapacityTracker) ActiveEnrollmentCount(ctx context.Context, offeringID int64) (int, error) {
	count, err := c.enrollments.CountActive(ctx, offeringID)
	if err != nil {
		return 0, apperrors.Persistence("count active enrollments", err)
	}
	return count, nil
}
