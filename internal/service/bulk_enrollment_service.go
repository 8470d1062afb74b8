package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/timetable_bot/internal/apperrors"
	"github.com/Freeeeeet/timetable_bot/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Enroller одиночная запись, которую повторяет массовая
type Enroller interface {
	Enroll(ctx context.Context, offeringID, studentID int64) (*model.Enrollment, error)
}

// BulkEnrollmentService массовая запись по принципу best effort:
// ошибка по одному студенту не останавливает остальных, успешные записи не откатываются.
type BulkEnrollmentService struct {
	enroller  Enroller
	offerings OfferingStore
	students  StudentStore
	logger    *zap.Logger
}

func NewBulkEnrollmentService(enroller Enroller, offerings OfferingStore, students StudentStore, logger *zap.Logger) *BulkEnrollmentService {
	return &BulkEnrollmentService{
		enroller:  enroller,
		offerings: offerings,
		students:  students,
		logger:    logger,
	}
}

// BulkEnroll записывает студентов по очереди и собирает результат по каждому.
// Отмена ctx проверяется между студентами: уже собранный результат возвращается
// с Cancelled = true, необработанные ID попадают в NotAttempted.
func (s *BulkEnrollmentService) BulkEnroll(ctx context.Context, offeringID int64, studentIDs []int64) *model.BulkResult {
	started := time.Now()
	result := &model.BulkResult{
		OperationID:      uuid.New(),
		CourseOfferingID: offeringID,
		SuccessfulIDs:    make([]int64, 0, len(studentIDs)),
		Errors:           []model.BulkItemError{},
	}

	logger := s.logger.With(
		zap.String("bulk_id", result.OperationID.String()),
		zap.Int64("course_offering_id", offeringID),
	)
	logger.Info("Bulk enrollment started", zap.Int("students", len(studentIDs)))

	// одиночная запись это короткая транзакция, её не прерываем на середине
	itemCtx := context.WithoutCancel(ctx)

	for i, studentID := range studentIDs {
		if ctx.Err() != nil {
			result.Cancelled = true
			result.NotAttempted = append([]int64(nil), studentIDs[i:]...)
			break
		}

		_, err := s.enroller.Enroll(itemCtx, offeringID, studentID)
		if err != nil {
			result.FailureCount++
			result.Errors = append(result.Errors, model.BulkItemError{
				StudentID: studentID,
				Code:      string(apperrors.CodeOf(err)),
				Message:   apperrors.MessageOf(err),
			})
			continue
		}

		result.SuccessCount++
		result.SuccessfulIDs = append(result.SuccessfulIDs, studentID)
	}

	result.Elapsed = time.Since(started)

	logger.Info("Bulk enrollment finished",
		zap.Int("success", result.SuccessCount),
		zap.Int("failed", result.FailureCount),
		zap.Int("not_attempted", len(result.NotAttempted)),
		zap.Bool("cancelled", result.Cancelled),
		zap.Duration("elapsed", result.Elapsed),
	)

	return result
}

// BulkEnrollGroup записывает на курс всех активных студентов его группы
func (s *BulkEnrollmentService) BulkEnrollGroup(ctx context.Context, offeringID int64) (*model.BulkResult, error) {
	offering, err := s.offerings.GetByID(ctx, offeringID)
	if err != nil {
		return nil, apperrors.Persistence("get course offering", err)
	}

	if offering == nil {
		return nil, apperrors.Newf(apperrors.CodeNotFound, "course offering %d not found", offeringID)
	}

	students, err := s.students.GetActiveStudentsByGroup(ctx, offering.GroupID)
	if err != nil {
		return nil, apperrors.Persistence("get students by group", err)
	}

	ids := make([]int64, 0, len(students))
	for _, student := range students {
		ids = append(ids, student.ID)
	}

	return s.BulkEnroll(ctx, offeringID, ids), nil
}
