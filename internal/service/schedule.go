package service

import (
	"github.com/shopspring/decimal"

	"github.com/shreeeniyaa/chitfund-engine/internal/domain"
	customError "github.com/shreeeniyaa/chitfund-engine/pkg/errors"
)

// InstallmentAmount returns the due amount for a 1-based installment number.
// Numbers past the plan duration bill at the final scheduled rate: collection
// continues at the last amount past nominal completion instead of failing.
func InstallmentAmount(plan *domain.Plan, installmentNumber int) (decimal.Decimal, error) {
	if len(plan.Schedule) == 0 {
		return decimal.Zero, customError.WrapScheduleNotConfigured(plan.PlanID)
	}

	if installmentNumber < 1 {
		installmentNumber = 1
	}
	if installmentNumber > len(plan.Schedule) {
		installmentNumber = len(plan.Schedule)
	}

	return plan.Schedule[installmentNumber-1].DueAmount, nil
}
