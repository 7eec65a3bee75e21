package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EnrollmentStatusActive    = "active"
	EnrollmentStatusCompleted = "completed"
	EnrollmentStatusCancelled = "cancelled"
	EnrollmentStatusDefaulted = "defaulted"
)

// Arrear source values. "derived" means the ledger reads the latest invoice;
// "override" means CurrentArrear was force-set (by staff or by the monthly
// rollover) and wins until cleared.
const (
	ArrearSourceDerived  = "derived"
	ArrearSourceOverride = "override"
)

// Enrollment represents a customer's subscription to one plan.
// At most one active enrollment exists per (customer, plan) pair.
type Enrollment struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	CustomerID      string          `json:"customer_id" db:"customer_id"`
	PlanID          string          `json:"plan_id" db:"plan_id"`
	StartDate       time.Time       `json:"start_date" db:"start_date"`
	Status          string          `json:"status" db:"status"`
	CurrentArrear   decimal.Decimal `json:"current_arrear" db:"current_arrear"`
	ArrearSource    string          `json:"arrear_source" db:"arrear_source"`
	ArrearUpdatedAt *time.Time      `json:"arrear_updated_at,omitempty" db:"arrear_updated_at"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// HasArrearOverride reports whether the stored arrear suppresses ledger derivation.
func (e *Enrollment) HasArrearOverride() bool {
	return e.ArrearSource == ArrearSourceOverride
}
