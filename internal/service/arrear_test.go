package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/shreeeniyaa/chitfund-engine/internal/domain"
	"github.com/shreeeniyaa/chitfund-engine/internal/mocks"
	customError "github.com/shreeeniyaa/chitfund-engine/pkg/errors"
)

func activeEnrollment() *domain.Enrollment {
	return &domain.Enrollment{
		ID:           uuid.New(),
		CustomerID:   "CUST-1",
		PlanID:       "PLAN-100",
		StartDate:    time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		Status:       domain.EnrollmentStatusActive,
		ArrearSource: domain.ArrearSourceDerived,
	}
}

func TestArrearFor(t *testing.T) {
	prevInvoice := &domain.Invoice{
		DueNumber:     2,
		ArrearAmount:  decimal.NewFromInt(300),
		BalanceAmount: decimal.NewFromInt(800),
	}

	tests := []struct {
		name       string
		enrollment func() *domain.Enrollment
		asOf       time.Time
		setupMocks func(*mocks.MockInvoiceRepository)
		expected   int64
	}{
		{
			name: "stored override wins over derivation",
			enrollment: func() *domain.Enrollment {
				e := activeEnrollment()
				e.CurrentArrear = decimal.NewFromInt(450)
				e.ArrearSource = domain.ArrearSourceOverride
				return e
			},
			asOf:       time.Date(2024, 4, 21, 0, 0, 0, 0, time.UTC),
			setupMocks: func(m *mocks.MockInvoiceRepository) {},
			expected:   450,
		},
		{
			name:       "no prior invoice means zero arrear",
			enrollment: activeEnrollment,
			asOf:       time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC),
			setupMocks: func(m *mocks.MockInvoiceRepository) {
				m.On("FindLatest", mock.Anything, "CUST-1", "PLAN-100").Return(nil, sql.ErrNoRows)
			},
			expected: 0,
		},
		{
			name:       "on the rollover day the arrear snaps to the previous balance",
			enrollment: activeEnrollment,
			asOf:       time.Date(2024, 4, 21, 0, 0, 0, 0, time.UTC),
			setupMocks: func(m *mocks.MockInvoiceRepository) {
				m.On("FindLatest", mock.Anything, "CUST-1", "PLAN-100").Return(prevInvoice, nil)
			},
			expected: 800,
		},
		{
			name:       "on any other day the previous arrear figure is sticky",
			enrollment: activeEnrollment,
			asOf:       time.Date(2024, 4, 22, 0, 0, 0, 0, time.UTC),
			setupMocks: func(m *mocks.MockInvoiceRepository) {
				m.On("FindLatest", mock.Anything, "CUST-1", "PLAN-100").Return(prevInvoice, nil)
			},
			expected: 300,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enrollmentRepo := new(mocks.MockEnrollmentRepository)
			invoiceRepo := new(mocks.MockInvoiceRepository)
			tt.setupMocks(invoiceRepo)

			ledger := NewArrearLedger(enrollmentRepo, invoiceRepo, 21)

			arrear, err := ledger.ArrearFor(context.Background(), tt.enrollment(), tt.asOf)
			assert.NoError(t, err)
			assert.True(t, arrear.Equal(decimal.NewFromInt(tt.expected)),
				"Expected %d, but got %v", tt.expected, arrear)

			invoiceRepo.AssertExpectations(t)
		})
	}
}

func TestSetManual(t *testing.T) {
	enrollment := activeEnrollment()

	enrollmentRepo := new(mocks.MockEnrollmentRepository)
	enrollmentRepo.On("FindActive", mock.Anything, "CUST-1", "PLAN-100").Return(enrollment, nil)
	enrollmentRepo.On("UpdateArrear", mock.Anything, enrollment.ID,
		mock.MatchedBy(func(amount decimal.Decimal) bool { return amount.Equal(decimal.NewFromInt(750)) }),
		domain.ArrearSourceOverride, mock.AnythingOfType("time.Time")).Return(nil)

	ledger := NewArrearLedger(enrollmentRepo, new(mocks.MockInvoiceRepository), 21)

	err := ledger.SetManual(context.Background(), "CUST-1", "PLAN-100", decimal.NewFromInt(750))
	assert.NoError(t, err)
	enrollmentRepo.AssertExpectations(t)
}

func TestSetManualEnrollmentNotFound(t *testing.T) {
	enrollmentRepo := new(mocks.MockEnrollmentRepository)
	enrollmentRepo.On("FindActive", mock.Anything, "CUST-404", "PLAN-100").Return(nil, sql.ErrNoRows)

	ledger := NewArrearLedger(enrollmentRepo, new(mocks.MockInvoiceRepository), 21)

	err := ledger.SetManual(context.Background(), "CUST-404", "PLAN-100", decimal.NewFromInt(100))
	assert.Error(t, err)
	assert.ErrorIs(t, err, customError.ErrEnrollmentNotFound)
}

func TestClear(t *testing.T) {
	enrollment := activeEnrollment()
	enrollment.CurrentArrear = decimal.NewFromInt(900)
	enrollment.ArrearSource = domain.ArrearSourceOverride

	enrollmentRepo := new(mocks.MockEnrollmentRepository)
	enrollmentRepo.On("FindActive", mock.Anything, "CUST-1", "PLAN-100").Return(enrollment, nil)
	enrollmentRepo.On("UpdateArrear", mock.Anything, enrollment.ID,
		mock.MatchedBy(func(amount decimal.Decimal) bool { return amount.IsZero() }),
		domain.ArrearSourceDerived, mock.AnythingOfType("time.Time")).Return(nil)

	ledger := NewArrearLedger(enrollmentRepo, new(mocks.MockInvoiceRepository), 21)

	err := ledger.Clear(context.Background(), "CUST-1", "PLAN-100")
	assert.NoError(t, err)
	enrollmentRepo.AssertExpectations(t)
}

func TestApplyMonthlyRollover(t *testing.T) {
	enrollment := activeEnrollment()
	prev := &domain.Invoice{BalanceAmount: decimal.NewFromInt(1250)}

	enrollmentRepo := new(mocks.MockEnrollmentRepository)
	enrollmentRepo.On("UpdateArrear", mock.Anything, enrollment.ID,
		mock.MatchedBy(func(amount decimal.Decimal) bool { return amount.Equal(decimal.NewFromInt(1250)) }),
		domain.ArrearSourceOverride, mock.AnythingOfType("time.Time")).Return(nil)

	ledger := NewArrearLedger(enrollmentRepo, new(mocks.MockInvoiceRepository), 21)

	newArrear, err := ledger.ApplyMonthlyRollover(context.Background(), enrollment, prev)
	assert.NoError(t, err)
	assert.True(t, newArrear.Equal(decimal.NewFromInt(1250)))
	enrollmentRepo.AssertExpectations(t)
}
