package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/timetable_bot/internal/model"
	"github.com/Freeeeeet/timetable_bot/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CatalogRepository читает предметы и учебные периоды
type CatalogRepository struct {
	db *base.Repository
}

func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{db: base.NewRepository(pool)}
}

// GetSubjectByID получает предмет по ID
func (r *CatalogRepository) GetSubjectByID(ctx context.Context, id int64) (*model.Subject, error) {
	query := `
		SELECT id, name, description, credits, created_at, updated_at
		FROM subjects
		WHERE id = $1
	`

	var subject model.Subject
	err := r.db.QueryRow(ctx, query, id).Scan(
		&subject.ID,
		&subject.Name,
		&subject.Description,
		&subject.Credits,
		&subject.CreatedAt,
		&subject.UpdatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subject by id: %w", err)
	}

	return &subject, nil
}

// GetPeriodByID получает учебный период по ID
func (r *CatalogRepository) GetPeriodByID(ctx context.Context, id int64) (*model.AcademicPeriod, error) {
	query := `
		SELECT id, name, starts_on, ends_on, created_at, updated_at
		FROM academic_periods
		WHERE id = $1
	`

	var period model.AcademicPeriod
	err := r.db.QueryRow(ctx, query, id).Scan(
		&period.ID,
		&period.Name,
		&period.StartsOn,
		&period.EndsOn,
		&period.CreatedAt,
		&period.UpdatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get academic period by id: %w", err)
	}

	return &period, nil
}
