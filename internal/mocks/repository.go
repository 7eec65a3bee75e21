package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/shreeeniyaa/chitfund-engine/internal/domain"
)

type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) GetByPlanID(ctx context.Context, planID string) (*domain.Plan, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Plan), args.Error(1)
}

type MockEnrollmentRepository struct {
	mock.Mock
}

func (m *MockEnrollmentRepository) FindActive(ctx context.Context, customerID, planID string) (*domain.Enrollment, error) {
	args := m.Called(ctx, customerID, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) ListActive(ctx context.Context) ([]*domain.Enrollment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) UpdateArrear(ctx context.Context, id uuid.UUID, amount decimal.Decimal, source string, updatedAt time.Time) error {
	args := m.Called(ctx, id, amount, source, updatedAt)
	return args.Error(0)
}

func (m *MockEnrollmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) FindLatest(ctx context.Context, customerID, planID string) (*domain.Invoice, error) {
	args := m.Called(ctx, customerID, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListByEnrollment(ctx context.Context, enrollmentID uuid.UUID) ([]*domain.Invoice, error) {
	args := m.Called(ctx, enrollmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
