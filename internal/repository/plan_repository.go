package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/shreeeniyaa/chitfund-engine/internal/domain"
)

type planRepository struct {
	db *sqlx.DB
}

func NewPlanRepository(db *sqlx.DB) PlanRepository {
	return &planRepository{db: db}
}

func (r *planRepository) GetByPlanID(ctx context.Context, planID string) (*domain.Plan, error) {
	query := `
		SELECT id, plan_id, name, duration, created_at, updated_at
		FROM plans
		WHERE plan_id = $1
	`

	var plan domain.Plan
	err := r.db.GetContext(ctx, &plan, query, planID)
	if err != nil {
		return nil, err
	}

	// Schedule rows are normalized here to one canonical shape, ordered by
	// installment number. The engine never sees raw storage fields.
	scheduleQuery := `
		SELECT id, plan_id, installment_number, due_amount, auction_amount
		FROM plan_installments
		WHERE plan_id = $1
		ORDER BY installment_number
	`

	var schedule []*domain.PlanInstallment
	if err := r.db.SelectContext(ctx, &schedule, scheduleQuery, planID); err != nil {
		return nil, err
	}
	plan.Schedule = schedule

	return &plan, nil
}
