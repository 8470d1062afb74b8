package service

import (
	"context"
	"sort"
	"strings"

	"github.com/Freeeeeet/timetable_bot/internal/apperrors"
	"github.com/Freeeeeet/timetable_bot/internal/interval"
	"github.com/Freeeeeet/timetable_bot/internal/model"
	"go.uber.org/zap"
)

// ConflictDetector ищет пересечения слота с расписанием учителя, аудитории и группы
type ConflictDetector struct {
	slots     SlotStore
	offerings OfferingStore
	logger    *zap.Logger
}

func NewConflictDetector(slots SlotStore, offerings OfferingStore, logger *zap.Logger) *ConflictDetector {
	return &ConflictDetector{
		slots:     slots,
		offerings: offerings,
		logger:    logger,
	}
}

// FindConflicts возвращает все пересечения кандидата с активными слотами.
// Один слот может дать до трёх записей: по учителю, по аудитории и по группе.
// excludeSlotID обязателен при проверке редактирования существующего слота.
func (d *ConflictDetector) FindConflicts(
	ctx context.Context,
	candidate *model.ScheduleSlot,
	resources model.ResourceContext,
	excludeSlotID *int64,
) ([]model.Conflict, error) {
	if candidate == nil || !candidate.IsActive {
		return nil, nil
	}

	existing, err := d.slots.ListActiveByWeekday(ctx, candidate.DayOfWeek)
	if err != nil {
		return nil, apperrors.Persistence("list slots by weekday", err)
	}

	// курсы подтягиваются один раз за вызов
	offerings := make(map[int64]*model.CourseOffering)

	var conflicts []model.Conflict
	for _, slot := range existing {
		if !slot.IsActive || slot.DayOfWeek != candidate.DayOfWeek {
			continue
		}
		if excludeSlotID != nil && slot.ID == *excludeSlotID {
			continue
		}
		if !interval.Overlaps(candidate.StartTime, candidate.EndTime, slot.StartTime, slot.EndTime) {
			continue
		}
		if !interval.DatesOverlap(candidate.ValidFrom, candidate.ValidTo, slot.ValidFrom, slot.ValidTo) {
			continue
		}

		offering, ok := offerings[slot.CourseOfferingID]
		if !ok {
			offering, err = d.offerings.GetByID(ctx, slot.CourseOfferingID)
			if err != nil {
				return nil, apperrors.Persistence("get course offering", err)
			}
			offerings[slot.CourseOfferingID] = offering
		}

		if offering == nil {
			d.logger.Warn("Slot references missing course offering",
				zap.Int64("slot_id", slot.ID),
				zap.Int64("course_offering_id", slot.CourseOfferingID),
			)
		}

		if offering != nil && sameResource(offering.TeacherID, resources.TeacherID) {
			conflicts = append(conflicts, model.Conflict{Slot: slot, Dimension: model.ConflictTeacher})
		}
		if sameRoom(slot.Room, candidate.Room) {
			conflicts = append(conflicts, model.Conflict{Slot: slot, Dimension: model.ConflictRoom})
		}
		if offering != nil && sameResource(offering.GroupID, resources.GroupID) {
			conflicts = append(conflicts, model.Conflict{Slot: slot, Dimension: model.ConflictGroup})
		}
	}

	sort.SliceStable(conflicts, func(i, j int) bool {
		a, b := conflicts[i].Slot, conflicts[j].Slot
		if a.DayOfWeek != b.DayOfWeek {
			return a.DayOfWeek < b.DayOfWeek
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.ID < b.ID
	})

	if len(conflicts) > 0 {
		d.logger.Debug("Schedule conflicts found",
			zap.Int64("course_offering_id", candidate.CourseOfferingID),
			zap.Int("weekday", int(candidate.DayOfWeek)),
			zap.Stringer("start", candidate.StartTime),
			zap.Stringer("end", candidate.EndTime),
			zap.Int("count", len(conflicts)),
		)
	}

	return conflicts, nil
}

// FindConflictsForSlot берёт учителя и группу из курса самого кандидата
func (d *ConflictDetector) FindConflictsForSlot(ctx context.Context, candidate *model.ScheduleSlot, excludeSlotID *int64) ([]model.Conflict, error) {
	offering, err := d.offerings.GetByID(ctx, candidate.CourseOfferingID)
	if err != nil {
		return nil, apperrors.Persistence("get course offering", err)
	}

	if offering == nil {
		return nil, apperrors.Newf(apperrors.CodeNotFound, "course offering %d not found", candidate.CourseOfferingID)
	}

	return d.FindConflicts(ctx, candidate, model.ResourceContext{
		TeacherID: offering.TeacherID,
		GroupID:   offering.GroupID,
	}, excludeSlotID)
}

func sameResource(a, b int64) bool {
	return a != 0 && a == b
}

// Аудитория задаётся свободным текстом: сравниваем без учёта регистра и пробелов по краям
func sameRoom(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	return a != "" && strings.EqualFold(a, b)
}
