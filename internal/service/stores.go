package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/timetable_bot/internal/model"
)

// Узкие интерфейсы хранилища. Реализации в internal/repository возвращают
// (nil, nil), если запись не найдена.

type SlotStore interface {
	Create(ctx context.Context, slot *model.ScheduleSlot) error
	Update(ctx context.Context, slot *model.ScheduleSlot) error
	Deactivate(ctx context.Context, slotID int64) error
	GetByID(ctx context.Context, id int64) (*model.ScheduleSlot, error)
	GetByCourseOffering(ctx context.Context, offeringID int64) ([]*model.ScheduleSlot, error)
	ListActiveByWeekday(ctx context.Context, weekday time.Weekday) ([]*model.ScheduleSlot, error)
	// LockWeekday сериализует изменения слотов одного дня недели до конца транзакции
	LockWeekday(ctx context.Context, weekday time.Weekday) error
}

type OfferingStore interface {
	GetByID(ctx context.Context, id int64) (*model.CourseOffering, error)
	// GetByIDForUpdate блокирует курс до конца текущей транзакции
	GetByIDForUpdate(ctx context.Context, id int64) (*model.CourseOffering, error)
	UpdateCapacity(ctx context.Context, id int64, maxSeats int) error
}

type EnrollmentStore interface {
	Create(ctx context.Context, e *model.Enrollment) error
	GetActive(ctx context.Context, offeringID, studentID int64) (*model.Enrollment, error)
	CountActive(ctx context.Context, offeringID int64) (int, error)
	UpdateStatus(ctx context.Context, id int64, status model.EnrollmentStatus, modifiedBy *int64, at time.Time) error
	ListByOffering(ctx context.Context, offeringID int64) ([]*model.Enrollment, error)
}

type StudentStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetActiveStudentsByGroup(ctx context.Context, groupID int64) ([]*model.User, error)
}

type CatalogStore interface {
	GetSubjectByID(ctx context.Context, id int64) (*model.Subject, error)
	GetPeriodByID(ctx context.Context, id int64) (*model.AcademicPeriod, error)
}

// Transactor выполняет fn в одной транзакции хранилища
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
