package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/shreeeniyaa/chitfund-engine/internal/domain"
	customError "github.com/shreeeniyaa/chitfund-engine/pkg/errors"
)

func testPlan(amounts ...int64) *domain.Plan {
	plan := &domain.Plan{
		PlanID:   "PLAN-100",
		Name:     "Test Plan",
		Duration: len(amounts),
	}
	for i, amount := range amounts {
		plan.Schedule = append(plan.Schedule, &domain.PlanInstallment{
			PlanID:            plan.PlanID,
			InstallmentNumber: i + 1,
			DueAmount:         decimal.NewFromInt(amount),
		})
	}
	return plan
}

func TestInstallmentAmount(t *testing.T) {
	plan := testPlan(1000, 1200, 1500)

	tests := []struct {
		name              string
		installmentNumber int
		expected          int64
	}{
		{name: "first installment", installmentNumber: 1, expected: 1000},
		{name: "middle installment", installmentNumber: 2, expected: 1200},
		{name: "final installment", installmentNumber: 3, expected: 1500},
		{name: "past the plan duration bills the final rate", installmentNumber: 7, expected: 1500},
		{name: "below one clamps to the first installment", installmentNumber: 0, expected: 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, err := InstallmentAmount(plan, tt.installmentNumber)
			assert.NoError(t, err)
			assert.True(t, amount.Equal(decimal.NewFromInt(tt.expected)),
				"Expected %d, but got %v", tt.expected, amount)
		})
	}
}

func TestInstallmentAmountEmptySchedule(t *testing.T) {
	plan := &domain.Plan{PlanID: "PLAN-EMPTY", Duration: 10}

	_, err := InstallmentAmount(plan, 1)
	assert.Error(t, err)
	assert.ErrorIs(t, err, customError.ErrScheduleNotConfigured)
}
