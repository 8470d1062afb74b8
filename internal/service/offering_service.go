package service

import (
	"context"

	"github.com/Freeeeeet/timetable_bot/internal/apperrors"
	"github.com/Freeeeeet/timetable_bot/internal/model"
	"go.uber.org/zap"
)

// OfferingService собирает карточку курса для показа
type OfferingService struct {
	tx        Transactor
	offerings OfferingStore
	catalog   CatalogStore
	capacity  *CapacityTracker
	logger    *zap.Logger
}

func NewOfferingService(tx Transactor, offerings OfferingStore, catalog CatalogStore, capacity *CapacityTracker, logger *zap.Logger) *OfferingService {
	return &OfferingService{
		tx:        tx,
		offerings: offerings,
		catalog:   catalog,
		capacity:  capacity,
		logger:    logger,
	}
}

// Describe возвращает курс с подставленными значениями предмета и периода
func (s *OfferingService) Describe(ctx context.Context, offeringID int64) (*model.OfferingView, error) {
	offering, err := s.offerings.GetByID(ctx, offeringID)
	if err != nil {
		return nil, apperrors.Persistence("get course offering", err)
	}

	if offering == nil {
		return nil, apperrors.Newf(apperrors.CodeNotFound, "course offering %d not found", offeringID)
	}

	subject, err := s.catalog.GetSubjectByID(ctx, offering.SubjectID)
	if err != nil {
		return nil, apperrors.Persistence("get subject", err)
	}

	period, err := s.catalog.GetPeriodByID(ctx, offering.AcademicPeriodID)
	if err != nil {
		return nil, apperrors.Persistence("get academic period", err)
	}

	if subject == nil || period == nil {
		s.logger.Warn("Course offering has dangling references",
			zap.Int64("course_offering_id", offeringID),
			zap.Bool("subject_found", subject != nil),
			zap.Bool("period_found", period != nil),
		)
	}

	count, err := s.capacity.ActiveEnrollmentCount(ctx, offeringID)
	if err != nil {
		return nil, err
	}

	view := model.ProjectOffering(offering, subject, period, count)
	return &view, nil
}

// SetCapacity меняет количество мест на курсе. Под той же блокировкой, что и запись,
// поэтому лимит нельзя опустить ниже уже занятых мест.
func (s *OfferingService) SetCapacity(ctx context.Context, offeringID int64, maxSeats int) error {
	if maxSeats < 0 {
		return apperrors.Newf(apperrors.CodeValidation, "max seats must not be negative, got %d", maxSeats)
	}

	var previous int
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		offering, err := s.offerings.GetByIDForUpdate(ctx, offeringID)
		if err != nil {
			return apperrors.Persistence("lock course offering", err)
		}

		if offering == nil {
			return apperrors.Newf(apperrors.CodeNotFound, "course offering %d not found", offeringID)
		}

		count, err := s.capacity.ActiveEnrollmentCount(ctx, offeringID)
		if err != nil {
			return err
		}

		if maxSeats < count {
			return apperrors.Newf(apperrors.CodeValidation,
				"course offering %d already has %d active enrollments, cannot set max seats to %d", offeringID, count, maxSeats)
		}

		if err := s.offerings.UpdateCapacity(ctx, offeringID, maxSeats); err != nil {
			return apperrors.Persistence("update capacity", err)
		}

		previous = offering.MaxSeats
		return nil
	})
	if err != nil {
		s.logger.Warn("Capacity change refused",
			zap.Int64("course_offering_id", offeringID),
			zap.Int("max_seats", maxSeats),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("Capacity changed",
		zap.Int64("course_offering_id", offeringID),
		zap.Int("previous", previous),
		zap.Int("max_seats", maxSeats),
		zap.String("actor", actorLabel(ctx)),
	)

	return nil
}
