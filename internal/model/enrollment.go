package model

import "time"

type EnrollmentStatus string

const (
	EnrollmentStatusActive    EnrollmentStatus = "active"
	EnrollmentStatusCancelled EnrollmentStatus = "cancelled"
	EnrollmentStatusCompleted EnrollmentStatus = "completed"
)

// Enrollment запись студента на курс. Отменённые и завершённые записи остаются в истории,
// активная запись у студента на курс может быть только одна.
type Enrollment struct {
	ID               int64            `json:"id"`
	StudentID        int64            `json:"student_id"`
	CourseOfferingID int64            `json:"course_offering_id"`
	Status           EnrollmentStatus `json:"status"`
	ModifiedBy       *int64           `json:"modified_by"` // nil для системных действий
	EnrolledAt       time.Time        `json:"enrolled_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

func (e *Enrollment) EntityID() int64               { return e.ID }
func (e *Enrollment) SetCreatedAt(t time.Time)      { e.EnrolledAt = t }
func (e *Enrollment) SetLastModifiedAt(t time.Time) { e.UpdatedAt = t }

// IsActive занимает ли запись место
func (e *Enrollment) IsActive() bool {
	return e.Status == EnrollmentStatusActive
}

// CanTransitionTo проверяет допустим ли переход статуса.
// Меняется только активная запись, отменённая и завершённая окончательны.
func (e *Enrollment) CanTransitionTo(next EnrollmentStatus) bool {
	if e.Status != EnrollmentStatusActive {
		return false
	}
	return next == EnrollmentStatusCancelled || next == EnrollmentStatusCompleted
}
