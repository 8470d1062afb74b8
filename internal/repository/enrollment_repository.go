package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/timetable_bot/internal/apperrors"
	"github.com/Freeeeeet/timetable_bot/internal/model"
	"github.com/Freeeeeet/timetable_bot/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Имя частичного уникального индекса из миграции
const activeEnrollmentIndex = "enrollments_active_unique"

const enrollmentColumns = `id, student_id, course_offering_id, status, modified_by, enrolled_at, updated_at`

type EnrollmentRepository struct {
	db *base.Repository
}

func NewEnrollmentRepository(pool *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{db: base.NewRepository(pool)}
}

// Create создаёт запись на курс
func (r *EnrollmentRepository) Create(ctx context.Context, e *model.Enrollment) error {
	query := `
		INSERT INTO enrollments (student_id, course_offering_id, status, modified_by, enrolled_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	base.StampCreated(e)
	err := r.db.QueryRow(
		ctx, query,
		e.StudentID,
		e.CourseOfferingID,
		e.Status,
		e.ModifiedBy,
		e.EnrolledAt,
		e.UpdatedAt,
	).Scan(&e.ID)

	if err != nil {
		if base.IsUniqueViolation(err, activeEnrollmentIndex) {
			return apperrors.Newf(apperrors.CodeDuplicateEnrollment,
				"student %d is already enrolled in offering %d", e.StudentID, e.CourseOfferingID)
		}
		return fmt.Errorf("create enrollment: %w", err)
	}

	return nil
}

// GetActive получает активную запись студента на курс
func (r *EnrollmentRepository) GetActive(ctx context.Context, offeringID, studentID int64) (*model.Enrollment, error) {
	query := `
		SELECT ` + enrollmentColumns + `
		FROM enrollments
		WHERE course_offering_id = $1 AND student_id = $2 AND status = 'active'
	`

	e, err := scanEnrollment(r.db.QueryRow(ctx, query, offeringID, studentID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active enrollment: %w", err)
	}

	return e, nil
}

// CountActive считает занятые места на курсе
func (r *EnrollmentRepository) CountActive(ctx context.Context, offeringID int64) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM enrollments
		WHERE course_offering_id = $1 AND status = 'active'
	`

	var count int
	if err := r.db.QueryRow(ctx, query, offeringID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count active enrollments: %w", err)
	}

	return count, nil
}

// UpdateStatus переводит активную запись в новый статус
func (r *EnrollmentRepository) UpdateStatus(ctx context.Context, id int64, status model.EnrollmentStatus, modifiedBy *int64, at time.Time) error {
	query := `
		UPDATE enrollments
		SET status = $1, modified_by = $2, updated_at = $3
		WHERE id = $4 AND status = 'active'
	`

	affected, err := r.db.ExecAffected(ctx, query, status, modifiedBy, at, id)
	if err != nil {
		return fmt.Errorf("update enrollment status: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("update enrollment %d: %w", id, pgx.ErrNoRows)
	}

	return nil
}

// ListByOffering получает всю историю записей на курс
func (r *EnrollmentRepository) ListByOffering(ctx context.Context, offeringID int64) ([]*model.Enrollment, error) {
	query := `
		SELECT ` + enrollmentColumns + `
		FROM enrollments
		WHERE course_offering_id = $1
		ORDER BY enrolled_at, id
	`

	rows, err := r.db.Query(ctx, query, offeringID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []*model.Enrollment
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}
		enrollments = append(enrollments, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate enrollments: %w", err)
	}

	return enrollments, nil
}

func scanEnrollment(row pgx.Row) (*model.Enrollment, error) {
	var e model.Enrollment
	err := row.Scan(
		&e.ID,
		&e.StudentID,
		&e.CourseOfferingID,
		&e.Status,
		&e.ModifiedBy,
		&e.EnrolledAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
