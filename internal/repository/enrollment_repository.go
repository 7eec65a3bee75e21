package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/shreeeniyaa/chitfund-engine/internal/domain"
)

type enrollmentRepository struct {
	db *sqlx.DB
}

func NewEnrollmentRepository(db *sqlx.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) FindActive(ctx context.Context, customerID, planID string) (*domain.Enrollment, error) {
	query := `
		SELECT id, customer_id, plan_id, start_date, status, current_arrear,
		       arrear_source, arrear_updated_at, created_at, updated_at
		FROM enrollments
		WHERE customer_id = $1 AND plan_id = $2 AND status = 'active'
	`

	var enrollment domain.Enrollment
	err := r.db.GetContext(ctx, &enrollment, query, customerID, planID)
	if err != nil {
		return nil, err
	}

	return &enrollment, nil
}

func (r *enrollmentRepository) ListActive(ctx context.Context) ([]*domain.Enrollment, error) {
	query := `
		SELECT id, customer_id, plan_id, start_date, status, current_arrear,
		       arrear_source, arrear_updated_at, created_at, updated_at
		FROM enrollments
		WHERE status = 'active'
		ORDER BY created_at
	`

	var enrollments []*domain.Enrollment
	err := r.db.SelectContext(ctx, &enrollments, query)
	if err != nil {
		return nil, err
	}

	return enrollments, nil
}

func (r *enrollmentRepository) UpdateArrear(ctx context.Context, id uuid.UUID, amount decimal.Decimal, source string, updatedAt time.Time) error {
	query := `
		UPDATE enrollments
		SET current_arrear = $2, arrear_source = $3, arrear_updated_at = $4, updated_at = $5
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, amount, source, updatedAt, time.Now())
	return err
}

func (r *enrollmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `
		UPDATE enrollments
		SET status = $2, updated_at = $3
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, status, time.Now())
	return err
}
