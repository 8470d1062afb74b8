package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/timetable_bot/internal/model"
	"github.com/Freeeeeet/timetable_bot/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const slotColumns = `id, course_offering_id, day_of_week, start_minute, end_minute, room, valid_from, valid_to, is_active, created_at, updated_at`

// Пространство advisory lock'ов слотов, второй ключ это день недели
const slotLockNamespace int32 = 7301

type SlotRepository struct {
	db *base.Repository
}

func NewSlotRepository(pool *pgxpool.Pool) *SlotRepository {
	return &SlotRepository{db: base.NewRepository(pool)}
}

// Create создаёт новый слот
func (r *SlotRepository) Create(ctx context.Context, slot *model.ScheduleSlot) error {
	query := `
		INSERT INTO schedule_slots (course_offering_id, day_of_week, start_minute, end_minute, room, valid_from, valid_to, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	base.StampCreated(slot)
	err := r.db.QueryRow(
		ctx, query,
		slot.CourseOfferingID,
		int(slot.DayOfWeek),
		int(slot.StartTime),
		int(slot.EndTime),
		slot.Room,
		slot.ValidFrom,
		slot.ValidTo,
		slot.IsActive,
		slot.CreatedAt,
		slot.UpdatedAt,
	).Scan(&slot.ID)

	if err != nil {
		return fmt.Errorf("create slot: %w", err)
	}

	return nil
}

// Update сохраняет изменённые время, аудиторию и период действия слота
func (r *SlotRepository) Update(ctx context.Context, slot *model.ScheduleSlot) error {
	query := `
		UPDATE schedule_slots
		SET course_offering_id = $1, day_of_week = $2, start_minute = $3, end_minute = $4,
		    room = $5, valid_from = $6, valid_to = $7, is_active = $8, updated_at = $9
		WHERE id = $10
	`

	base.StampModified(slot)
	affected, err := r.db.ExecAffected(
		ctx, query,
		slot.CourseOfferingID,
		int(slot.DayOfWeek),
		int(slot.StartTime),
		int(slot.EndTime),
		slot.Room,
		slot.ValidFrom,
		slot.ValidTo,
		slot.IsActive,
		slot.UpdatedAt,
		slot.ID,
	)
	if err != nil {
		return fmt.Errorf("update slot: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("update slot %d: %w", slot.ID, pgx.ErrNoRows)
	}

	return nil
}

// Deactivate выключает слот, не удаляя его
func (r *SlotRepository) Deactivate(ctx context.Context, slotID int64) error {
	query := `
		UPDATE schedule_slots
		SET is_active = FALSE, updated_at = $1
		WHERE id = $2
	`

	affected, err := r.db.ExecAffected(ctx, query, time.Now().UTC(), slotID)
	if err != nil {
		return fmt.Errorf("deactivate slot: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("deactivate slot %d: %w", slotID, pgx.ErrNoRows)
	}

	return nil
}

// GetByID получает слот по ID
func (r *SlotRepository) GetByID(ctx context.Context, id int64) (*model.ScheduleSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM schedule_slots WHERE id = $1`

	slot, err := scanSlot(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get slot by id: %w", err)
	}

	return slot, nil
}

// GetByCourseOffering получает все слоты предмета группы, включая неактивные
func (r *SlotRepository) GetByCourseOffering(ctx context.Context, offeringID int64) ([]*model.ScheduleSlot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM schedule_slots
		WHERE course_offering_id = $1
		ORDER BY day_of_week, start_minute, id
	`

	rows, err := r.db.Query(ctx, query, offeringID)
	if err != nil {
		return nil, fmt.Errorf("get slots by course offering: %w", err)
	}

	return collectSlots(rows)
}

// ListActiveByWeekday получает активные слоты дня недели
func (r *SlotRepository) ListActiveByWeekday(ctx context.Context, weekday time.Weekday) ([]*model.ScheduleSlot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM schedule_slots
		WHERE day_of_week = $1 AND is_active
		ORDER BY start_minute, id
	`

	rows, err := r.db.Query(ctx, query, int(weekday))
	if err != nil {
		return nil, fmt.Errorf("list active slots by weekday: %w", err)
	}

	return collectSlots(rows)
}

// LockWeekday берёт транзакционный advisory lock на день недели.
// Работает только внутри транзакции, иначе блокировка снялась бы сразу.
func (r *SlotRepository) LockWeekday(ctx context.Context, weekday time.Weekday) error {
	if _, ok := base.TxFromContext(ctx); !ok {
		return fmt.Errorf("lock weekday %d: no transaction in context", weekday)
	}

	query := `SELECT pg_advisory_xact_lock($1, $2)`

	if _, err := r.db.ExecAffected(ctx, query, slotLockNamespace, int32(weekday)); err != nil {
		return fmt.Errorf("lock weekday: %w", err)
	}

	return nil
}

func collectSlots(rows pgx.Rows) ([]*model.ScheduleSlot, error) {
	defer rows.Close()

	var slots []*model.ScheduleSlot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slots: %w", err)
	}

	return slots, nil
}

func scanSlot(row pgx.Row) (*model.ScheduleSlot, error) {
	var (
		slot              model.ScheduleSlot
		weekday, from, to int
	)

	err := row.Scan(
		&slot.ID,
		&slot.CourseOfferingID,
		&weekday,
		&from,
		&to,
		&slot.Room,
		&slot.ValidFrom,
		&slot.ValidTo,
		&slot.IsActive,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	slot.DayOfWeek = time.Weekday(weekday)
	slot.StartTime = model.TimeOfDay(from)
	slot.EndTime = model.TimeOfDay(to)

	return &slot, nil
}
