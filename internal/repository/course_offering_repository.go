package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/timetable_bot/internal/model"
	"github.com/Freeeeeet/timetable_bot/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const offeringColumns = `id, subject_id, group_id, academic_period_id, teacher_id, max_seats, is_active,
	title_override, starts_on_override, ends_on_override, created_at, updated_at`

type CourseOfferingRepository struct {
	db *base.Repository
}

func NewCourseOfferingRepository(pool *pgxpool.Pool) *CourseOfferingRepository {
	return &CourseOfferingRepository{db: base.NewRepository(pool)}
}

// GetByID получает курс по ID
func (r *CourseOfferingRepository) GetByID(ctx context.Context, id int64) (*model.CourseOffering, error) {
	query := `SELECT ` + offeringColumns + ` FROM course_offerings WHERE id = $1`

	o, err := scanOffering(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get course offering by id: %w", err)
	}

	return o, nil
}

// GetByIDForUpdate получает курс и блокирует строку до конца транзакции.
// Все записи на один курс выстраиваются в очередь на этой блокировке.
func (r *CourseOfferingRepository) GetByIDForUpdate(ctx context.Context, id int64) (*model.CourseOffering, error) {
	if _, ok := base.TxFromContext(ctx); !ok {
		return nil, fmt.Errorf("lock course offering %d: no transaction in context", id)
	}

	query := `SELECT ` + offeringColumns + ` FROM course_offerings WHERE id = $1 FOR UPDATE`

	o, err := scanOffering(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock course offering: %w", err)
	}

	return o, nil
}

// UpdateCapacity меняет количество мест
func (r *CourseOfferingRepository) UpdateCapacity(ctx context.Context, id int64, maxSeats int) error {
	query := `
		UPDATE course_offerings
		SET max_seats = $1, updated_at = NOW()
		WHERE id = $2
	`

	affected, err := r.db.ExecAffected(ctx, query, maxSeats, id)
	if err != nil {
		return fmt.Errorf("update capacity: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("update capacity of offering %d: %w", id, pgx.ErrNoRows)
	}

	return nil
}

func scanOffering(row pgx.Row) (*model.CourseOffering, error) {
	var o model.CourseOffering
	err := row.Scan(
		&o.ID,
		&o.SubjectID,
		&o.GroupID,
		&o.AcademicPeriodID,
		&o.TeacherID,
		&o.MaxSeats,
		&o.IsActive,
		&o.TitleOverride,
		&o.StartsOnOverride,
		&o.EndsOnOverride,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
