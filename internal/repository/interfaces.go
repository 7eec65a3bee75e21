package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shreeeniyaa/chitfund-engine/internal/domain"
)

// PlanRepository defines the interface for plan data operations
type PlanRepository interface {
	// GetByPlanID retrieves a plan with its full installment schedule
	GetByPlanID(ctx context.Context, planID string) (*domain.Plan, error)
}

// EnrollmentRepository defines the interface for enrollment data operations
type EnrollmentRepository interface {
	// FindActive retrieves the single active enrollment for a (customer, plan) pair
	FindActive(ctx context.Context, customerID, planID string) (*domain.Enrollment, error)

	// ListActive retrieves all active enrollments
	ListActive(ctx context.Context) ([]*domain.Enrollment, error)

	// UpdateArrear persists the carried arrear and its source for an enrollment
	UpdateArrear(ctx context.Context, id uuid.UUID, amount decimal.Decimal, source string, updatedAt time.Time) error

	// UpdateStatus updates the lifecycle status of an enrollment
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

// InvoiceRepository defines the interface for invoice data operations
type InvoiceRepository interface {
	// Create persists a new invoice snapshot
	Create(ctx context.Context, invoice *domain.Invoice) error

	// FindLatest retrieves the most recent invoice for a (customer, plan) pair,
	// ordered by invoice date descending
	FindLatest(ctx context.Context, customerID, planID string) (*domain.Invoice, error)

	// ListByEnrollment retrieves all invoices for an enrollment, newest first
	ListByEnrollment(ctx context.Context, enrollmentID uuid.UUID) ([]*domain.Invoice, error)

	// UpdateStatus updates the status of an invoice (draft, sent, paid)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}
