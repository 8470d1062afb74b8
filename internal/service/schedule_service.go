package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Freeeeeet/timetable_bot/internal/apperrors"
	"github.com/Freeeeeet/timetable_bot/internal/model"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ConflictError отказ сохранить слот из-за пересечений. Список пересечений
// отдаётся вызывающему, чтобы он мог принять решение сам.
type ConflictError struct {
	Conflicts []model.Conflict
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("slot conflicts with %d existing slot(s)", len(e.Conflicts))
}

func (e *ConflictError) Unwrap() error {
	return apperrors.ErrConflictDetected
}

// ScheduleService управляет слотами расписания курсов
type ScheduleService struct {
	tx       Transactor
	slots    SlotStore
	detector *ConflictDetector
	validate *validator.Validate
	logger   *zap.Logger
}

func NewScheduleService(tx Transactor, slots SlotStore, detector *ConflictDetector, logger *zap.Logger) *ScheduleService {
	return &ScheduleService{
		tx:       tx,
		slots:    slots,
		detector: detector,
		validate: validator.New(),
		logger:   logger,
	}
}

// ValidateSlot проверяет слот до поиска конфликтов
func (s *ScheduleService) ValidateSlot(slot *model.ScheduleSlot) error {
	if slot == nil {
		return apperrors.New(apperrors.CodeValidation, "slot is required")
	}

	if err := s.validate.Struct(slot); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
			}
			return apperrors.Wrap(apperrors.CodeValidation, "invalid slot: "+strings.Join(msgs, ", "), err)
		}
		return apperrors.Wrap(apperrors.CodeValidation, "invalid slot", err)
	}

	if slot.ValidTo != nil && model.DateOnly(*slot.ValidTo).Before(model.DateOnly(slot.ValidFrom)) {
		return apperrors.Newf(apperrors.CodeValidation,
			"invalid slot: valid_to %s is before valid_from %s",
			slot.ValidTo.Format("2006-01-02"), slot.ValidFrom.Format("2006-01-02"))
	}

	return nil
}

// CheckSlot валидирует слот и возвращает его пересечения, ничего не сохраняя
func (s *ScheduleService) CheckSlot(ctx context.Context, slot *model.ScheduleSlot, excludeSlotID *int64) ([]model.Conflict, error) {
	if err := s.ValidateSlot(slot); err != nil {
		return nil, err
	}
	return s.detector.FindConflictsForSlot(ctx, slot, excludeSlotID)
}

// CreateSlot создаёт слот. При пересечениях возвращает их вместе с *ConflictError,
// если allowConflicts не выставлен.
// Проверка и вставка идут в одной транзакции под блокировкой дня недели,
// иначе два параллельных слота в одну аудиторию оба пройдут проверку.
func (s *ScheduleService) CreateSlot(ctx context.Context, slot *model.ScheduleSlot, allowConflicts bool) ([]model.Conflict, error) {
	if err := s.ValidateSlot(slot); err != nil {
		return nil, err
	}

	slot.IsActive = true

	var conflicts []model.Conflict
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		conflicts, err = s.lockAndCheck(ctx, slot, nil, allowConflicts)
		if err != nil {
			return err
		}

		if err := s.slots.Create(ctx, slot); err != nil {
			return apperrors.Persistence("create slot", err)
		}
		return nil
	})
	if err != nil {
		return s.refused("Slot rejected due to conflicts", slot, err)
	}

	s.logger.Info("Slot created",
		zap.Int64("slot_id", slot.ID),
		zap.Int64("course_offering_id", slot.CourseOfferingID),
		zap.Int("weekday", int(slot.DayOfWeek)),
		zap.Stringer("start", slot.StartTime),
		zap.Stringer("end", slot.EndTime),
		zap.String("room", slot.Room),
		zap.Int("accepted_conflicts", len(conflicts)),
	)

	return conflicts, nil
}

// UpdateSlot переносит слот (время, аудитория, период действия).
// Курс и активность берутся из сохранённого слота: перенос их не меняет.
// Сам слот при проверке исключается, иначе он конфликтует со своей копией в базе.
func (s *ScheduleService) UpdateSlot(ctx context.Context, slot *model.ScheduleSlot, allowConflicts bool) ([]model.Conflict, error) {
	if slot == nil {
		return nil, apperrors.New(apperrors.CodeValidation, "slot is required")
	}

	existing, err := s.slots.GetByID(ctx, slot.ID)
	if err != nil {
		return nil, apperrors.Persistence("get slot", err)
	}

	if existing == nil {
		return nil, apperrors.Newf(apperrors.CodeNotFound, "slot %d not found", slot.ID)
	}

	slot.CourseOfferingID = existing.CourseOfferingID
	slot.IsActive = existing.IsActive
	slot.CreatedAt = existing.CreatedAt

	if err := s.ValidateSlot(slot); err != nil {
		return nil, err
	}

	var conflicts []model.Conflict
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		conflicts, err = s.lockAndCheck(ctx, slot, &slot.ID, allowConflicts)
		if err != nil {
			return err
		}

		if err := s.slots.Update(ctx, slot); err != nil {
			return apperrors.Persistence("update slot", err)
		}
		return nil
	})
	if err != nil {
		return s.refused("Slot update rejected due to conflicts", slot, err)
	}

	s.logger.Info("Slot updated",
		zap.Int64("slot_id", slot.ID),
		zap.Int("weekday", int(slot.DayOfWeek)),
		zap.Stringer("start", slot.StartTime),
		zap.Stringer("end", slot.EndTime),
		zap.Int("accepted_conflicts", len(conflicts)),
	)

	return conflicts, nil
}

// lockAndCheck блокирует день недели слота и ищет пересечения.
// Без allowConflicts найденные пересечения превращаются в *ConflictError.
func (s *ScheduleService) lockAndCheck(ctx context.Context, slot *model.ScheduleSlot, excludeSlotID *int64, allowConflicts bool) ([]model.Conflict, error) {
	if err := s.slots.LockWeekday(ctx, slot.DayOfWeek); err != nil {
		return nil, apperrors.Persistence("lock weekday", err)
	}

	conflicts, err := s.detector.FindConflictsForSlot(ctx, slot, excludeSlotID)
	if err != nil {
		return nil, err
	}

	if len(conflicts) > 0 && !allowConflicts {
		return conflicts, &ConflictError{Conflicts: conflicts}
	}
	return conflicts, nil
}

func (s *ScheduleService) refused(msg string, slot *model.ScheduleSlot, err error) ([]model.Conflict, error) {
	var conflictErr *ConflictError
	if errors.As(err, &conflictErr) {
		s.logger.Warn(msg,
			zap.Int64("slot_id", slot.ID),
			zap.Int64("course_offering_id", slot.CourseOfferingID),
			zap.Int("conflicts", len(conflictErr.Conflicts)),
		)
		return conflictErr.Conflicts, err
	}
	return nil, err
}

// GetSlot возвращает слот по ID
func (s *ScheduleService) GetSlot(ctx context.Context, slotID int64) (*model.ScheduleSlot, error) {
	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		return nil, apperrors.Persistence("get slot", err)
	}

	if slot == nil {
		return nil, apperrors.Newf(apperrors.CodeNotFound, "slot %d not found", slotID)
	}
	return slot, nil
}

// DeactivateSlot выключает слот, история сохраняется
func (s *ScheduleService) DeactivateSlot(ctx context.Context, slotID int64) error {
	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		return apperrors.Persistence("get slot", err)
	}

	if slot == nil {
		return apperrors.Newf(apperrors.CodeNotFound, "slot %d not found", slotID)
	}

	if !slot.IsActive {
		return nil
	}

	if err := s.slots.Deactivate(ctx, slotID); err != nil {
		return apperrors.Persistence("deactivate slot", err)
	}

	s.logger.Info("Slot deactivated",
		zap.Int64("slot_id", slotID),
		zap.Int64("course_offering_id", slot.CourseOfferingID),
	)

	return nil
}

// GetSlotsByCourseOffering возвращает слоты курса
func (s *ScheduleService) GetSlotsByCourseOffering(ctx context.Context, offeringID int64) ([]*model.ScheduleSlot, error) {
	slots, err := s.slots.GetByCourseOffering(ctx, offeringID)
	if err != nil {
		return nil, apperrors.Persistence("get slots by course offering", err)
	}
	return slots, nil
}
