package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/timetable_bot/internal/apperrors"
	"github.com/Freeeeeet/timetable_bot/internal/model"
	"go.uber.org/zap"
)

// EnrollmentService записывает студентов на курсы с учётом мест и уникальности записи
type EnrollmentService struct {
	tx          Transactor
	offerings   OfferingStore
	students    StudentStore
	enrollments EnrollmentStore
	capacity    *CapacityTracker
	logger      *zap.Logger
}

func NewEnrollmentService(
	tx Transactor,
	offerings OfferingStore,
	students StudentStore,
	enrollments EnrollmentStore,
	capacity *CapacityTracker,
	logger *zap.Logger,
) *EnrollmentService {
	return &EnrollmentService{
		tx:          tx,
		offerings:   offerings,
		students:    students,
		enrollments: enrollments,
		capacity:    capacity,
		logger:      logger,
	}
}

// Enroll записывает студента на курс.
// Проверки и вставка идут в одной транзакции под блокировкой строки курса,
// так что параллельные записи на один курс не превышают max_seats.
func (s *EnrollmentService) Enroll(ctx context.Context, offeringID, studentID int64) (*model.Enrollment, error) {
	var enrollment *model.Enrollment

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		offering, err := s.offerings.GetByIDForUpdate(ctx, offeringID)
		if err != nil {
			return apperrors.Persistence("lock course offering", err)
		}

		if offering == nil || !offering.IsActive {
			return apperrors.Newf(apperrors.CodeNotFound, "course offering %d not found or inactive", offeringID)
		}

		student, err := s.students.GetByID(ctx, studentID)
		if err != nil {
			return apperrors.Persistence("get student", err)
		}

		if student == nil || !student.IsActive || !student.IsStudent() {
			return apperrors.Newf(apperrors.CodeNotFound, "student %d not found", studentID)
		}

		existing, err := s.enrollments.GetActive(ctx, offeringID, studentID)
		if err != nil {
			return apperrors.Persistence("get active enrollment", err)
		}

		if existing != nil {
			return apperrors.Newf(apperrors.CodeDuplicateEnrollment,
				"student %d is already enrolled in offering %d", studentID, offeringID)
		}

		count, err := s.capacity.ActiveEnrollmentCount(ctx, offeringID)
		if err != nil {
			return err
		}

		if !offering.HasAvailableSeats(count) {
			return apperrors.Newf(apperrors.CodeCapacityExceeded,
				"course offering %d is full (%d/%d)", offeringID, count, offering.MaxSeats)
		}

		enrollment = &model.Enrollment{
			StudentID:        studentID,
			CourseOfferingID: offeringID,
			Status:           model.EnrollmentStatusActive,
			ModifiedBy:       actorID(ctx),
		}

		if err := s.enrollments.Create(ctx, enrollment); err != nil {
			return apperrors.Persistence("create enrollment", err)
		}

		return nil
	})

	if err != nil {
		s.logRefusal("Enroll refused", offeringID, studentID, err)
		return nil, err
	}

	s.logger.Info("Student enrolled",
		zap.Int64("enrollment_id", enrollment.ID),
		zap.Int64("course_offering_id", offeringID),
		zap.Int64("student_id", studentID),
	)

	return enrollment, nil
}

// Unenroll отменяет активную запись. Запись остаётся в истории со статусом cancelled.
func (s *EnrollmentService) Unenroll(ctx context.Context, offeringID, studentID int64) (*model.Enrollment, error) {
	var enrollment *model.Enrollment

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		offering, err := s.offerings.GetByIDForUpdate(ctx, offeringID)
		if err != nil {
			return apperrors.Persistence("lock course offering", err)
		}

		if offering == nil {
			return apperrors.Newf(apperrors.CodeNotFound, "course offering %d not found", offeringID)
		}

		enrollment, err = s.enrollments.GetActive(ctx, offeringID, studentID)
		if err != nil {
			return apperrors.Persistence("get active enrollment", err)
		}

		if enrollment == nil {
			return apperrors.Newf(apperrors.CodeNotFound,
				"student %d has no active enrollment in offering %d", studentID, offeringID)
		}

		if !enrollment.CanTransitionTo(model.EnrollmentStatusCancelled) {
			return apperrors.Newf(apperrors.CodeValidation,
				"enrollment %d cannot be cancelled from status %s", enrollment.ID, enrollment.Status)
		}

		now := time.Now().UTC()
		modifiedBy := actorID(ctx)
		err = s.enrollments.UpdateStatus(ctx, enrollment.ID, model.EnrollmentStatusCancelled, modifiedBy, now)
		if err != nil {
			return apperrors.Persistence("cancel enrollment", err)
		}

		enrollment.Status = model.EnrollmentStatusCancelled
		enrollment.ModifiedBy = modifiedBy
		enrollment.UpdatedAt = now

		return nil
	})

	if err != nil {
		s.logRefusal("Unenroll refused", offeringID, studentID, err)
		return nil, err
	}

	s.logger.Info("Student unenrolled",
		zap.Int64("enrollment_id", enrollment.ID),
		zap.Int64("course_offering_id", offeringID),
		zap.Int64("student_id", studentID),
	)

	return enrollment, nil
}

// ActiveEnrollmentCount возвращает количество занятых мест на курсе
func (s *EnrollmentService) ActiveEnrollmentCount(ctx context.Context, offeringID int64) (int, error) {
	return s.capacity.ActiveEnrollmentCount(ctx, offeringID)
}

// ListEnrollments возвращает историю записей на курс
func (s *EnrollmentService) ListEnrollments(ctx context.Context, offeringID int64) ([]*model.Enrollment, error) {
	enrollments, err := s.enrollments.ListByOffering(ctx, offeringID)
	if err != nil {
		return nil, apperrors.Persistence("list enrollments", err)
	}
	return enrollments, nil
}

func (s *EnrollmentService) logRefusal(msg string, offeringID, studentID int64, err error) {
	fields := []zap.Field{
		zap.Int64("course_offering_id", offeringID),
		zap.Int64("student_id", studentID),
		zap.String("code", string(apperrors.CodeOf(err))),
		zap.Error(err),
	}

	if apperrors.CodeOf(err) == apperrors.CodePersistence || apperrors.CodeOf(err) == apperrors.CodeUnknown {
		s.logger.Error(msg, fields...)
		return
	}
	s.logger.Warn(msg, fields...)
}
